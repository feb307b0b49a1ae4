package permit

import (
	"context"
	"time"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PermitRepository interface {
	Create(ctx context.Context, p *Permit) error
	FindByPermitNumber(ctx context.Context, permitNumber string) (*Permit, error)
	FindActiveCovering(ctx context.Context, busNumber, routeID string, from, to time.Time) (*Permit, error)
	List(ctx context.Context, filter bson.M) ([]Permit, error)
	Update(ctx context.Context, permitNumber string, fields bson.M) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type PermitRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPermitRepository(mongodb *database.MongodbDB) PermitRepository {
	return &PermitRepositoryImpl{
		Collection: mongodb.DB.Collection("permits"),
	}
}

func (r *PermitRepositoryImpl) Create(ctx context.Context, p *Permit) error {
	_, err := r.Collection.InsertOne(ctx, p)
	return err
}

func (r *PermitRepositoryImpl) FindByPermitNumber(ctx context.Context, permitNumber string) (*Permit, error) {
	var p Permit
	err := r.Collection.FindOne(ctx, bson.M{"permitNumber": permitNumber}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveCovering resolves an active permit for the bus+route whose
// validity window contains [from, to].
func (r *PermitRepositoryImpl) FindActiveCovering(ctx context.Context, busNumber, routeID string, from, to time.Time) (*Permit, error) {
	var p Permit
	err := r.Collection.FindOne(ctx, bson.M{
		"busNumber": busNumber,
		"routeId":   routeID,
		"validFrom": bson.M{"$lte": from},
		"validTo":   bson.M{"$gte": to},
		"isActive":  true,
	}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PermitRepositoryImpl) List(ctx context.Context, filter bson.M) ([]Permit, error) {
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var permits []Permit
	if err = cursor.All(ctx, &permits); err != nil {
		return nil, err
	}
	return permits, nil
}

func (r *PermitRepositoryImpl) Update(ctx context.Context, permitNumber string, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.Collection.UpdateOne(ctx, bson.M{"permitNumber": permitNumber}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *PermitRepositoryImpl) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"isActive": true, "validTo": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *PermitRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "permitNumber", Value: 1}},
			Options: options.Index().SetName("idx_permit_number_unique").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "busNumber", Value: 1},
				{Key: "routeId", Value: 1},
				{Key: "isActive", Value: 1},
			},
			Options: options.Index().SetName("idx_bus_route_active"),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
