package schedule

import (
	"context"
	"time"

	"go-busline/internal/common/apperr"
	"go-busline/internal/common/models"
	"go-busline/internal/features/bus"
	"go-busline/internal/features/permit"
	"go-busline/internal/features/route"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookingReassigner moves existing bookings from one bus to another
// inside a time window. Satisfied by the booking repository; declared
// here to keep the dependency direction schedule -> interface.
type BookingReassigner interface {
	ReassignBus(ctx context.Context, oldBusNumber, newBusNumber string, from, to time.Time) (int64, error)
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, s *Schedule) (*Schedule, error)
	UpdateSchedule(ctx context.Context, scheduleID string, upd *ScheduleUpdate) (*Schedule, error)
	GetSchedules(ctx context.Context) ([]Schedule, error)
	ReassignBus(ctx context.Context, scheduleID, newBusNumber string) (*Schedule, error)
}

// ScheduleUpdate carries the optional fields of a schedule update request.
type ScheduleUpdate struct {
	RouteID    *string         `json:"routeId"`
	StartPoint *string         `json:"startPoint"`
	EndPoint   *string         `json:"endPoint"`
	BusNumber  *string         `json:"busNumber"`
	StartTime  *time.Time      `json:"startTime"`
	EndTime    *time.Time      `json:"endTime"`
	Stops      *[]ScheduleStop `json:"stops"`
	Days       *[]string       `json:"days"`
}

type ScheduleServiceImpl struct {
	ScheduleRepo ScheduleRepository
	RouteRepo    route.RouteRepository
	BusRepo      bus.BusRepository
	PermitRepo   permit.PermitRepository
	Bookings     BookingReassigner
	Logger       *zap.Logger
}

func NewScheduleService(
	scheduleRepo ScheduleRepository,
	routeRepo route.RouteRepository,
	busRepo bus.BusRepository,
	permitRepo permit.PermitRepository,
	bookings BookingReassigner,
	logger *zap.Logger,
) ScheduleService {
	return &ScheduleServiceImpl{
		ScheduleRepo: scheduleRepo,
		RouteRepo:    routeRepo,
		BusRepo:      busRepo,
		PermitRepo:   permitRepo,
		Bookings:     bookings,
		Logger:       logger,
	}
}

func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, sched *Schedule) (*Schedule, error) {
	if sched.ScheduleID == "" {
		return nil, apperr.Validation("scheduleId is required")
	}

	if _, err := s.ScheduleRepo.FindByScheduleID(ctx, sched.ScheduleID); err == nil {
		return nil, apperr.Conflict("Schedule ID already exists")
	}

	if err := s.validate(ctx, sched); err != nil {
		return nil, err
	}

	sched.ID = primitive.NewObjectID()
	now := time.Now()
	sched.CreatedAt = now
	sched.UpdatedAt = now

	// Persisted only after the whole chain passes.
	if err := s.ScheduleRepo.Create(ctx, sched); err != nil {
		return nil, apperr.Internal("Error creating schedule", err)
	}
	return sched, nil
}

func (s *ScheduleServiceImpl) UpdateSchedule(ctx context.Context, scheduleID string, upd *ScheduleUpdate) (*Schedule, error) {
	sched, err := s.ScheduleRepo.FindByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.NotFound("Schedule not found")
	}

	if upd.RouteID != nil {
		sched.RouteID = *upd.RouteID
	}
	if upd.StartPoint != nil {
		sched.StartPoint = *upd.StartPoint
	}
	if upd.EndPoint != nil {
		sched.EndPoint = *upd.EndPoint
	}
	if upd.BusNumber != nil {
		sched.BusNumber = *upd.BusNumber
	}
	if upd.StartTime != nil {
		sched.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		sched.EndTime = *upd.EndTime
	}
	if upd.Stops != nil {
		sched.Stops = *upd.Stops
	}
	if upd.Days != nil {
		sched.Days = *upd.Days
	}

	// The merged schedule must pass the full chain again, including
	// boundary checks against the possibly new route.
	if err := s.validate(ctx, sched); err != nil {
		return nil, err
	}

	if err := s.ScheduleRepo.Replace(ctx, scheduleID, sched); err != nil {
		return nil, apperr.Internal("Error updating schedule", err)
	}
	return sched, nil
}

func (s *ScheduleServiceImpl) GetSchedules(ctx context.Context) ([]Schedule, error) {
	schedules, err := s.ScheduleRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching schedules", err)
	}
	return schedules, nil
}

// ReassignBus swaps the bus serving a schedule and carries every booking
// of the old bus inside the schedule window over to the new one. The two
// writes are not atomic; a cascade failure is logged as an inconsistency.
func (s *ScheduleServiceImpl) ReassignBus(ctx context.Context, scheduleID, newBusNumber string) (*Schedule, error) {
	if scheduleID == "" || newBusNumber == "" {
		return nil, apperr.Validation("Schedule ID and new bus number are required")
	}

	sched, err := s.ScheduleRepo.FindByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.NotFound("Schedule not found")
	}

	newBus, err := s.BusRepo.FindByBusNumber(ctx, newBusNumber)
	if err != nil || !newBus.IsActive {
		return nil, apperr.NotFound("New bus not found or is inactive")
	}

	if _, err := s.ScheduleRepo.FindOverlappingForBus(ctx, newBusNumber, sched.StartTime, sched.EndTime, sched.ScheduleID); err == nil {
		return nil, apperr.Conflict("New bus is already scheduled for this time")
	}

	oldBusNumber := sched.BusNumber
	if err := s.ScheduleRepo.UpdateBusNumber(ctx, scheduleID, newBusNumber); err != nil {
		return nil, apperr.Internal("Error reassigning bus", err)
	}
	sched.BusNumber = newBusNumber

	moved, err := s.Bookings.ReassignBus(ctx, oldBusNumber, newBusNumber, sched.StartTime, sched.EndTime)
	if err != nil {
		s.Logger.Error("booking cascade failed after bus reassignment",
			zap.String("scheduleId", scheduleID),
			zap.String("oldBusNumber", oldBusNumber),
			zap.String("newBusNumber", newBusNumber),
			zap.Error(err))
		return nil, apperr.Internal("Bus reassigned but booking cascade failed", err)
	}

	s.Logger.Info("bus reassigned",
		zap.String("scheduleId", scheduleID),
		zap.String("oldBusNumber", oldBusNumber),
		zap.String("newBusNumber", newBusNumber),
		zap.Int64("bookingsMoved", moved))

	return sched, nil
}

// validate runs the consistency chain tying a schedule to its route, bus
// and permit. Nothing is persisted unless every step passes.
func (s *ScheduleServiceImpl) validate(ctx context.Context, sched *Schedule) error {
	if sched.StartTime.IsZero() || sched.EndTime.IsZero() || !sched.EndTime.After(sched.StartTime) {
		return apperr.Validation("endTime must be after startTime")
	}
	for _, d := range sched.Days {
		if !models.IsWeekdayName(d) {
			return apperr.Validation("days must be weekday names")
		}
	}

	rt, err := s.RouteRepo.FindByRouteID(ctx, sched.RouteID)
	if err != nil {
		return apperr.NotFound("Route not found")
	}

	if _, _, ok := rt.OrderedIndexes(sched.StartPoint, sched.EndPoint); !ok {
		return apperr.Validation("startPoint and endPoint must lie on the route with startPoint before endPoint")
	}

	var offenders []string
	routePoints := map[string]bool{}
	for _, p := range rt.AllPoints() {
		routePoints[p] = true
	}
	for _, stop := range sched.Stops {
		if !routePoints[stop.StopName] {
			offenders = append(offenders, stop.StopName)
		}
	}
	if len(offenders) > 0 {
		return apperr.ValidationWithDetails("Stops do not belong to the route", offenders)
	}

	b, err := s.BusRepo.FindByBusNumber(ctx, sched.BusNumber)
	if err != nil || !b.IsActive {
		return apperr.Validation("Bus is inactive or not found")
	}

	if _, err := s.PermitRepo.FindActiveCovering(ctx, sched.BusNumber, sched.RouteID, sched.StartTime, sched.EndTime); err != nil {
		return apperr.Validation("No valid permit found for this bus and route")
	}

	return nil
}
