package bus

import (
	"context"
	"time"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BusRepository interface {
	Create(ctx context.Context, b *Bus) error
	FindByBusNumber(ctx context.Context, busNumber string) (*Bus, error)
	FindByOperatorID(ctx context.Context, operatorID string) ([]Bus, error)
	List(ctx context.Context) ([]Bus, error)
	Update(ctx context.Context, busNumber string, fields bson.M) error
	EnsureIndexes(ctx context.Context) error
}

type BusRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewBusRepository(mongodb *database.MongodbDB) BusRepository {
	return &BusRepositoryImpl{
		Collection: mongodb.DB.Collection("buses"),
	}
}

func (r *BusRepositoryImpl) Create(ctx context.Context, b *Bus) error {
	_, err := r.Collection.InsertOne(ctx, b)
	return err
}

func (r *BusRepositoryImpl) FindByBusNumber(ctx context.Context, busNumber string) (*Bus, error) {
	var b Bus
	err := r.Collection.FindOne(ctx, bson.M{"busNumber": busNumber}).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusRepositoryImpl) FindByOperatorID(ctx context.Context, operatorID string) ([]Bus, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"operatorId": operatorID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buses []Bus
	if err = cursor.All(ctx, &buses); err != nil {
		return nil, err
	}
	return buses, nil
}

func (r *BusRepositoryImpl) List(ctx context.Context) ([]Bus, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var buses []Bus
	if err = cursor.All(ctx, &buses); err != nil {
		return nil, err
	}
	return buses, nil
}

func (r *BusRepositoryImpl) Update(ctx context.Context, busNumber string, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.Collection.UpdateOne(ctx, bson.M{"busNumber": busNumber}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *BusRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "busNumber", Value: 1}},
			Options: options.Index().SetName("idx_bus_number_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "operatorId", Value: 1}},
			Options: options.Index().SetName("idx_operator"),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
