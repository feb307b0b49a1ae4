package route

import (
	"context"
	"time"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RouteRepository interface {
	Create(ctx context.Context, r *Route) error
	FindByRouteID(ctx context.Context, routeID string) (*Route, error)
	List(ctx context.Context, filter bson.M) ([]Route, error)
	FindContainingStops(ctx context.Context, a, b string) ([]Route, error)
	Replace(ctx context.Context, routeID string, r *Route) error
	Delete(ctx context.Context, routeID string) error
	EnsureIndexes(ctx context.Context) error
}

type RouteRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRouteRepository(mongodb *database.MongodbDB) RouteRepository {
	return &RouteRepositoryImpl{
		Collection: mongodb.DB.Collection("routes"),
	}
}

func (r *RouteRepositoryImpl) Create(ctx context.Context, rt *Route) error {
	_, err := r.Collection.InsertOne(ctx, rt)
	return err
}

func (r *RouteRepositoryImpl) FindByRouteID(ctx context.Context, routeID string) (*Route, error) {
	var rt Route
	err := r.Collection.FindOne(ctx, bson.M{"routeId": routeID}).Decode(&rt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RouteRepositoryImpl) List(ctx context.Context, filter bson.M) ([]Route, error) {
	opts := options.Find().SetSort(bson.D{{Key: "routeId", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routes []Route
	if err = cursor.All(ctx, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// FindContainingStops matches routes whose full point sequence contains
// both places. Ordering is checked by the caller.
func (r *RouteRepositoryImpl) FindContainingStops(ctx context.Context, a, b string) ([]Route, error) {
	filter := bson.M{
		"$and": []bson.M{
			{"$or": []bson.M{{"startPoint": a}, {"endPoint": a}, {"stops": a}}},
			{"$or": []bson.M{{"startPoint": b}, {"endPoint": b}, {"stops": b}}},
		},
	}
	return r.List(ctx, filter)
}

func (r *RouteRepositoryImpl) Replace(ctx context.Context, routeID string, rt *Route) error {
	rt.UpdatedAt = time.Now()
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"routeId": routeID}, rt)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RouteRepositoryImpl) Delete(ctx context.Context, routeID string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"routeId": routeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RouteRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "routeId", Value: 1}},
			Options: options.Index().SetName("idx_route_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "stops", Value: 1}},
			Options: options.Index().SetName("idx_stops"),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
