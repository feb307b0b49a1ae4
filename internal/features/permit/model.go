package permit

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permit authorizes a bus to run a route inside a validity window.
// Schedules may only exist under an active permit covering their times.
type Permit struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PermitNumber string             `bson:"permitNumber" json:"permitNumber"`
	BusNumber    string             `bson:"busNumber" json:"busNumber"`
	RouteID      string             `bson:"routeId" json:"routeId"`
	ValidFrom    time.Time          `bson:"validFrom" json:"validFrom"`
	ValidTo      time.Time          `bson:"validTo" json:"validTo"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
