package admin

import (
	"context"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	FindByID(ctx context.Context, id string) (*Admin, error)
	EnsureIndexes(ctx context.Context) error
}

type AdminRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAdminRepository(mongodb *database.MongodbDB) AdminRepository {
	return &AdminRepositoryImpl{
		Collection: mongodb.DB.Collection("admins"),
	}
}

func (r *AdminRepositoryImpl) Create(ctx context.Context, admin *Admin) error {
	_, err := r.Collection.InsertOne(ctx, admin)
	return err
}

func (r *AdminRepositoryImpl) FindByUsername(ctx context.Context, username string) (*Admin, error) {
	var admin Admin
	err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) FindByID(ctx context.Context, id string) (*Admin, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var admin Admin
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("idx_username_unique").SetUnique(true),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
