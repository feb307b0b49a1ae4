package schedule

import (
	"context"
	"time"

	"go-busline/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	FindByScheduleID(ctx context.Context, scheduleID string) (*Schedule, error)
	List(ctx context.Context) ([]Schedule, error)
	FindForRoutesOnDay(ctx context.Context, routeIDs []string, day string) ([]Schedule, error)
	FindForBuses(ctx context.Context, busNumbers []string, dayStart, dayEnd *time.Time) ([]Schedule, error)
	FindOverlappingForBus(ctx context.Context, busNumber string, from, to time.Time, excludeScheduleID string) (*Schedule, error)
	FindCoveringForBus(ctx context.Context, busNumber string, at time.Time) (*Schedule, error)
	Replace(ctx context.Context, scheduleID string, s *Schedule) error
	UpdateBusNumber(ctx context.Context, scheduleID, busNumber string) error
	EnsureIndexes(ctx context.Context) error
}

type ScheduleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewScheduleRepository(mongodb *database.MongodbDB) ScheduleRepository {
	return &ScheduleRepositoryImpl{
		Collection: mongodb.DB.Collection("schedules"),
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, s *Schedule) error {
	_, err := r.Collection.InsertOne(ctx, s)
	return err
}

func (r *ScheduleRepositoryImpl) FindByScheduleID(ctx context.Context, scheduleID string) (*Schedule, error) {
	var s Schedule
	err := r.Collection.FindOne(ctx, bson.M{"scheduleId": scheduleID}).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepositoryImpl) List(ctx context.Context) ([]Schedule, error) {
	return r.find(ctx, bson.M{}, nil)
}

func (r *ScheduleRepositoryImpl) FindForRoutesOnDay(ctx context.Context, routeIDs []string, day string) ([]Schedule, error) {
	if len(routeIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"routeId": bson.M{"$in": routeIDs},
		"days":    day,
	}
	return r.find(ctx, filter, nil)
}

func (r *ScheduleRepositoryImpl) FindForBuses(ctx context.Context, busNumbers []string, dayStart, dayEnd *time.Time) ([]Schedule, error) {
	if len(busNumbers) == 0 {
		return nil, nil
	}
	filter := bson.M{"busNumber": bson.M{"$in": busNumbers}}
	if dayStart != nil && dayEnd != nil {
		filter["startTime"] = bson.M{"$gte": *dayStart, "$lte": *dayEnd}
	}
	sort := bson.D{{Key: "startTime", Value: 1}}
	return r.find(ctx, filter, sort)
}

// FindOverlappingForBus returns another schedule that commits the bus to
// a window intersecting [from, to], if any.
func (r *ScheduleRepositoryImpl) FindOverlappingForBus(ctx context.Context, busNumber string, from, to time.Time, excludeScheduleID string) (*Schedule, error) {
	filter := bson.M{
		"busNumber": busNumber,
		"startTime": bson.M{"$lt": to},
		"endTime":   bson.M{"$gt": from},
	}
	if excludeScheduleID != "" {
		filter["scheduleId"] = bson.M{"$ne": excludeScheduleID}
	}

	var s Schedule
	err := r.Collection.FindOne(ctx, filter).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindCoveringForBus resolves the schedule whose time window contains the
// given instant for this bus.
func (r *ScheduleRepositoryImpl) FindCoveringForBus(ctx context.Context, busNumber string, at time.Time) (*Schedule, error) {
	var s Schedule
	err := r.Collection.FindOne(ctx, bson.M{
		"busNumber": busNumber,
		"startTime": bson.M{"$lte": at},
		"endTime":   bson.M{"$gte": at},
	}).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepositoryImpl) Replace(ctx context.Context, scheduleID string, s *Schedule) error {
	s.UpdatedAt = time.Now()
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"scheduleId": scheduleID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ScheduleRepositoryImpl) UpdateBusNumber(ctx context.Context, scheduleID, busNumber string) error {
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"scheduleId": scheduleID},
		bson.M{"$set": bson.M{"busNumber": busNumber, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ScheduleRepositoryImpl) find(ctx context.Context, filter bson.M, sort bson.D) ([]Schedule, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []Schedule
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *ScheduleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scheduleId", Value: 1}},
			Options: options.Index().SetName("idx_schedule_id_unique").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "busNumber", Value: 1},
				{Key: "startTime", Value: 1},
			},
			Options: options.Index().SetName("idx_bus_start"),
		},
		{
			Keys:    bson.D{{Key: "routeId", Value: 1}},
			Options: options.Index().SetName("idx_route"),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
