package bus

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BusType string

const (
	BusTypeLuxury     BusType = "Luxury"
	BusTypeSemiLuxury BusType = "Semi-Luxury"
	BusTypeNormal     BusType = "Normal"
)

const (
	MinCapacity = 10
	MaxCapacity = 100
)

// Bus is keyed by BusNumber across the whole system. Permits, schedules
// and bookings all join on it; the Mongo _id stays internal.
type Bus struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	BusNumber  string             `bson:"busNumber" json:"busNumber"`
	Type       BusType            `bson:"type" json:"type"`
	Capacity   int                `bson:"capacity" json:"capacity"`
	OperatorID string             `bson:"operatorId" json:"operatorId"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidBusType(t BusType) bool {
	switch t {
	case BusTypeLuxury, BusTypeSemiLuxury, BusTypeNormal:
		return true
	}
	return false
}
