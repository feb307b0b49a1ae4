package route

import (
	"context"
	"time"

	"go-busline/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RouteService interface {
	CreateRoute(ctx context.Context, r *Route) (*Route, error)
	UpdateRoute(ctx context.Context, routeID string, upd *RouteUpdate) (*Route, error)
	GetRoutes(ctx context.Context, startPoint, endPoint string) ([]Route, error)
	GetRoute(ctx context.Context, routeID string) (*Route, error)
	DeleteRoute(ctx context.Context, routeID string) (*Route, error)
}

// RouteUpdate carries the optional fields of a route update request.
// Stops distinguishes "not supplied" (nil) from "cleared" (empty).
type RouteUpdate struct {
	StartPoint *string         `json:"startPoint"`
	EndPoint   *string         `json:"endPoint"`
	Distance   *float64        `json:"distance"`
	Stops      *[]string       `json:"stops"`
	Prices     *[]SegmentPrice `json:"prices"`
}

type RouteServiceImpl struct {
	RouteRepo RouteRepository
}

func NewRouteService(routeRepo RouteRepository) RouteService {
	return &RouteServiceImpl{RouteRepo: routeRepo}
}

func (s *RouteServiceImpl) CreateRoute(ctx context.Context, r *Route) (*Route, error) {
	if r.RouteID == "" || r.StartPoint == "" || r.EndPoint == "" {
		return nil, apperr.Validation("routeId, startPoint and endPoint are required")
	}

	if _, err := s.RouteRepo.FindByRouteID(ctx, r.RouteID); err == nil {
		return nil, apperr.Conflict("Route ID already exists")
	}

	if missing := MissingPricePairs(r.AllPoints(), r.Prices); len(missing) > 0 {
		return nil, apperr.ValidationWithDetails("Missing prices for some stop combinations", missing)
	}

	r.ID = primitive.NewObjectID()
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.RouteRepo.Create(ctx, r); err != nil {
		return nil, apperr.Internal("Error creating route", err)
	}
	return r, nil
}

func (s *RouteServiceImpl) UpdateRoute(ctx context.Context, routeID string, upd *RouteUpdate) (*Route, error) {
	r, err := s.RouteRepo.FindByRouteID(ctx, routeID)
	if err != nil {
		return nil, apperr.NotFound("Route not found")
	}

	geometryChanged := false
	if upd.StartPoint != nil {
		r.StartPoint = *upd.StartPoint
		geometryChanged = true
	}
	if upd.EndPoint != nil {
		r.EndPoint = *upd.EndPoint
		geometryChanged = true
	}
	if upd.Distance != nil {
		r.Distance = *upd.Distance
	}
	if upd.Stops != nil {
		r.Stops = *upd.Stops
		geometryChanged = true
	}
	if upd.Prices != nil {
		r.Prices = *upd.Prices
	}

	// Any change to the point sequence or the price table re-runs the
	// completeness check against the resulting route.
	if geometryChanged || upd.Prices != nil {
		if missing := MissingPricePairs(r.AllPoints(), r.Prices); len(missing) > 0 {
			return nil, apperr.ValidationWithDetails("Missing prices for some stop combinations", missing)
		}
	}

	if err := s.RouteRepo.Replace(ctx, routeID, r); err != nil {
		return nil, apperr.Internal("Error updating route", err)
	}
	return r, nil
}

func (s *RouteServiceImpl) GetRoutes(ctx context.Context, startPoint, endPoint string) ([]Route, error) {
	filter := bson.M{}
	if startPoint != "" {
		filter["startPoint"] = startPoint
	}
	if endPoint != "" {
		filter["endPoint"] = endPoint
	}

	routes, err := s.RouteRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Error fetching routes", err)
	}
	return routes, nil
}

func (s *RouteServiceImpl) GetRoute(ctx context.Context, routeID string) (*Route, error) {
	r, err := s.RouteRepo.FindByRouteID(ctx, routeID)
	if err != nil {
		return nil, apperr.NotFound("Route not found")
	}
	return r, nil
}

func (s *RouteServiceImpl) DeleteRoute(ctx context.Context, routeID string) (*Route, error) {
	r, err := s.RouteRepo.FindByRouteID(ctx, routeID)
	if err != nil {
		return nil, apperr.NotFound("Route not found")
	}
	if err := s.RouteRepo.Delete(ctx, routeID); err != nil {
		return nil, apperr.Internal("Error deleting route", err)
	}
	return r, nil
}
