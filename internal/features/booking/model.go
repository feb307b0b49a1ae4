package booking

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a reserved seat on a bus for a specific travel date-time.
// Uniqueness of (busNumber, seatNumber, date) is enforced by the store.
// Cancellation requires the unguessable token, nothing else.
type Booking struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	BusNumber         string             `bson:"busNumber" json:"busNumber"`
	SeatNumber        int                `bson:"seatNumber" json:"seatNumber"`
	PassengerName     string             `bson:"passengerName" json:"passengerName"`
	MobileNumber      string             `bson:"mobileNumber" json:"mobileNumber"`
	Email             string             `bson:"email,omitempty" json:"email,omitempty"`
	BoardingPlace     string             `bson:"boardingPlace" json:"boardingPlace"`
	DestinationPlace  string             `bson:"destinationPlace" json:"destinationPlace"`
	Date              time.Time          `bson:"date" json:"date"`
	Price             float64            `bson:"price" json:"price"`
	TransactionID     string             `bson:"transactionId" json:"transactionId"`
	CancellationToken string             `bson:"cancellationToken" json:"cancellationToken"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

type SeatStatus string

const (
	SeatAvailable SeatStatus = "Available"
	SeatBooked    SeatStatus = "Booked"
)

// Seat is a derived view; no seat state exists outside of bookings.
type Seat struct {
	SeatNumber int        `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
}
