package operator

import (
	"context"
	"time"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OperatorRepository interface {
	Create(ctx context.Context, o *BusOperator) error
	FindByOperatorID(ctx context.Context, operatorID string) (*BusOperator, error)
	FindByEmail(ctx context.Context, email string) (*BusOperator, error)
	FindColliding(ctx context.Context, operatorID, email, nic string) (*BusOperator, error)
	Exists(ctx context.Context, operatorID string) (bool, error)
	List(ctx context.Context) ([]BusOperator, error)
	Update(ctx context.Context, operatorID string, fields bson.M) error
	EnsureIndexes(ctx context.Context) error
}

type OperatorRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewOperatorRepository(mongodb *database.MongodbDB) OperatorRepository {
	return &OperatorRepositoryImpl{
		Collection: mongodb.DB.Collection("bus_operators"),
	}
}

func (r *OperatorRepositoryImpl) Create(ctx context.Context, o *BusOperator) error {
	_, err := r.Collection.InsertOne(ctx, o)
	return err
}

func (r *OperatorRepositoryImpl) FindByOperatorID(ctx context.Context, operatorID string) (*BusOperator, error) {
	var o BusOperator
	err := r.Collection.FindOne(ctx, bson.M{"operatorId": operatorID}).Decode(&o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OperatorRepositoryImpl) FindByEmail(ctx context.Context, email string) (*BusOperator, error) {
	var o BusOperator
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindColliding returns any operator already holding one of the three
// identity fields.
func (r *OperatorRepositoryImpl) FindColliding(ctx context.Context, operatorID, email, nic string) (*BusOperator, error) {
	var o BusOperator
	err := r.Collection.FindOne(ctx, bson.M{"$or": []bson.M{
		{"operatorId": operatorID},
		{"email": email},
		{"nic": nic},
	}}).Decode(&o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OperatorRepositoryImpl) Exists(ctx context.Context, operatorID string) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"operatorId": operatorID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OperatorRepositoryImpl) List(ctx context.Context) ([]BusOperator, error) {
	opts := options.Find().SetSort(bson.D{{Key: "operatorId", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var operators []BusOperator
	if err = cursor.All(ctx, &operators); err != nil {
		return nil, err
	}
	return operators, nil
}

func (r *OperatorRepositoryImpl) Update(ctx context.Context, operatorID string, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.Collection.UpdateOne(ctx, bson.M{"operatorId": operatorID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *OperatorRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "operatorId", Value: 1}},
			Options: options.Index().SetName("idx_operator_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "nic", Value: 1}},
			Options: options.Index().SetName("idx_nic_unique").SetUnique(true),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
