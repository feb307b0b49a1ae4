package operator

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BusOperator owns one or more buses and gets a restricted login scoped
// to those buses. OperatorID, Email and NIC are each unique.
type BusOperator struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OperatorID   string             `bson:"operatorId" json:"operatorId"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	NIC          string             `bson:"nic" json:"nic"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
