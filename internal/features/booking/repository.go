package booking

import (
	"context"
	"time"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	FindBySeat(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error)
	FindByBusAndDate(ctx context.Context, busNumber string, date time.Time) ([]Booking, error)
	FindByCancellationToken(ctx context.Context, token string) (*Booking, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*Booking, error)
	FindForBuses(ctx context.Context, busNumbers []string) ([]Booking, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReassignBus(ctx context.Context, oldBusNumber, newBusNumber string, from, to time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type BookingRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewBookingRepository(mongodb *database.MongodbDB) BookingRepository {
	return &BookingRepositoryImpl{
		Collection: mongodb.DB.Collection("bookings"),
	}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, b *Booking) error {
	_, err := r.Collection.InsertOne(ctx, b)
	return err
}

// FindBySeat matches the exact travel date-time; the compound unique
// index uses the same equality.
func (r *BookingRepositoryImpl) FindBySeat(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error) {
	var b Booking
	err := r.Collection.FindOne(ctx, bson.M{
		"busNumber":  busNumber,
		"seatNumber": seatNumber,
		"date":       date,
	}).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) FindByBusAndDate(ctx context.Context, busNumber string, date time.Time) ([]Booking, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"busNumber": busNumber, "date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepositoryImpl) FindByCancellationToken(ctx context.Context, token string) (*Booking, error) {
	var b Booking
	err := r.Collection.FindOne(ctx, bson.M{"cancellationToken": token}).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) FindByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	var b Booking
	err := r.Collection.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) FindForBuses(ctx context.Context, busNumbers []string) ([]Booking, error) {
	if len(busNumbers) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "seatNumber", Value: 1},
	})
	cursor, err := r.Collection.Find(ctx, bson.M{"busNumber": bson.M{"$in": busNumbers}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ReassignBus moves bookings of the old bus whose travel date falls
// inside the window onto the new bus. Used by the reassignment cascade.
func (r *BookingRepositoryImpl) ReassignBus(ctx context.Context, oldBusNumber, newBusNumber string, from, to time.Time) (int64, error) {
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{
			"busNumber": oldBusNumber,
			"date":      bson.M{"$gte": from, "$lte": to},
		},
		bson.M{"$set": bson.M{"busNumber": newBusNumber}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *BookingRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "busNumber", Value: 1},
				{Key: "seatNumber", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("idx_seat_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "cancellationToken", Value: 1}},
			Options: options.Index().SetName("idx_cancellation_token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetName("idx_transaction"),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
