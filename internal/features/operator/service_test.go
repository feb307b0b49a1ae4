package operator

import (
	"context"
	"testing"
	"time"

	"go-busline/internal/common/apperr"
	"go-busline/internal/features/booking"
	"go-busline/internal/features/bus"
	"go-busline/internal/features/schedule"
	"go-busline/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockOperatorRepo struct {
	createFn           func(ctx context.Context, o *BusOperator) error
	findByOperatorIDFn func(ctx context.Context, operatorID string) (*BusOperator, error)
	findByEmailFn      func(ctx context.Context, email string) (*BusOperator, error)
	findCollidingFn    func(ctx context.Context, operatorID, email, nic string) (*BusOperator, error)
	updateFn           func(ctx context.Context, operatorID string, fields bson.M) error
}

func (m *mockOperatorRepo) Create(ctx context.Context, o *BusOperator) error {
	return m.createFn(ctx, o)
}
func (m *mockOperatorRepo) FindByOperatorID(ctx context.Context, operatorID string) (*BusOperator, error) {
	return m.findByOperatorIDFn(ctx, operatorID)
}
func (m *mockOperatorRepo) FindByEmail(ctx context.Context, email string) (*BusOperator, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockOperatorRepo) FindColliding(ctx context.Context, operatorID, email, nic string) (*BusOperator, error) {
	return m.findCollidingFn(ctx, operatorID, email, nic)
}
func (m *mockOperatorRepo) Exists(ctx context.Context, operatorID string) (bool, error) {
	_, err := m.findByOperatorIDFn(ctx, operatorID)
	return err == nil, nil
}
func (m *mockOperatorRepo) List(ctx context.Context) ([]BusOperator, error) { return nil, nil }
func (m *mockOperatorRepo) Update(ctx context.Context, operatorID string, fields bson.M) error {
	return m.updateFn(ctx, operatorID, fields)
}
func (m *mockOperatorRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockBusRepo struct {
	findByOperatorIDFn func(ctx context.Context, operatorID string) ([]bus.Bus, error)
}

func (m *mockBusRepo) Create(ctx context.Context, b *bus.Bus) error { return nil }
func (m *mockBusRepo) FindByBusNumber(ctx context.Context, busNumber string) (*bus.Bus, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockBusRepo) FindByOperatorID(ctx context.Context, operatorID string) ([]bus.Bus, error) {
	return m.findByOperatorIDFn(ctx, operatorID)
}
func (m *mockBusRepo) List(ctx context.Context) ([]bus.Bus, error)                       { return nil, nil }
func (m *mockBusRepo) Update(ctx context.Context, busNumber string, fields bson.M) error { return nil }
func (m *mockBusRepo) EnsureIndexes(ctx context.Context) error                           { return nil }

type mockScheduleRepo struct {
	findByScheduleIDFn func(ctx context.Context, scheduleID string) (*schedule.Schedule, error)
	findForBusesFn     func(ctx context.Context, busNumbers []string, dayStart, dayEnd *time.Time) ([]schedule.Schedule, error)
}

func (m *mockScheduleRepo) Create(ctx context.Context, s *schedule.Schedule) error { return nil }
func (m *mockScheduleRepo) FindByScheduleID(ctx context.Context, scheduleID string) (*schedule.Schedule, error) {
	return m.findByScheduleIDFn(ctx, scheduleID)
}
func (m *mockScheduleRepo) List(ctx context.Context) ([]schedule.Schedule, error) { return nil, nil }
func (m *mockScheduleRepo) FindForRoutesOnDay(ctx context.Context, routeIDs []string, day string) ([]schedule.Schedule, error) {
	return nil, nil
}
func (m *mockScheduleRepo) FindForBuses(ctx context.Context, busNumbers []string, dayStart, dayEnd *time.Time) ([]schedule.Schedule, error) {
	return m.findForBusesFn(ctx, busNumbers, dayStart, dayEnd)
}
func (m *mockScheduleRepo) FindOverlappingForBus(ctx context.Context, busNumber string, from, to time.Time, excludeScheduleID string) (*schedule.Schedule, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockScheduleRepo) FindCoveringForBus(ctx context.Context, busNumber string, at time.Time) (*schedule.Schedule, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockScheduleRepo) Replace(ctx context.Context, scheduleID string, s *schedule.Schedule) error {
	return nil
}
func (m *mockScheduleRepo) UpdateBusNumber(ctx context.Context, scheduleID, busNumber string) error {
	return nil
}
func (m *mockScheduleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockScheduleService struct {
	reassignFn func(ctx context.Context, scheduleID, newBusNumber string) (*schedule.Schedule, error)
}

func (m *mockScheduleService) CreateSchedule(ctx context.Context, s *schedule.Schedule) (*schedule.Schedule, error) {
	return nil, nil
}
func (m *mockScheduleService) UpdateSchedule(ctx context.Context, scheduleID string, upd *schedule.ScheduleUpdate) (*schedule.Schedule, error) {
	return nil, nil
}
func (m *mockScheduleService) GetSchedules(ctx context.Context) ([]schedule.Schedule, error) {
	return nil, nil
}
func (m *mockScheduleService) ReassignBus(ctx context.Context, scheduleID, newBusNumber string) (*schedule.Schedule, error) {
	return m.reassignFn(ctx, scheduleID, newBusNumber)
}

type mockBookingRepo struct {
	findForBusesFn func(ctx context.Context, busNumbers []string) ([]booking.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b *booking.Booking) error { return nil }
func (m *mockBookingRepo) FindBySeat(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*booking.Booking, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockBookingRepo) FindByBusAndDate(ctx context.Context, busNumber string, date time.Time) ([]booking.Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) FindByCancellationToken(ctx context.Context, token string) (*booking.Booking, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockBookingRepo) FindByTransactionID(ctx context.Context, transactionID string) (*booking.Booking, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockBookingRepo) FindForBuses(ctx context.Context, busNumbers []string) ([]booking.Booking, error) {
	return m.findForBusesFn(ctx, busNumbers)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }
func (m *mockBookingRepo) ReassignBus(ctx context.Context, oldBusNumber, newBusNumber string, from, to time.Time) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) EnsureIndexes(ctx context.Context) error { return nil }

// --- Fixtures ---

func activeOperator() *BusOperator {
	hash, _ := utils.HashPassword("pass123")
	return &BusOperator{
		ID:           primitive.NewObjectID(),
		OperatorID:   "OP-001",
		Name:         "Lanka Transit",
		Email:        "ops@lankatransit.lk",
		PasswordHash: hash,
		NIC:          "851234567V",
		Role:         "operator",
		IsActive:     true,
	}
}

func operatorByID(op *BusOperator) func(ctx context.Context, operatorID string) (*BusOperator, error) {
	return func(ctx context.Context, operatorID string) (*BusOperator, error) {
		if op != nil && op.OperatorID == operatorID {
			return op, nil
		}
		return nil, mongo.ErrNoDocuments
	}
}

func ownedBuses(numbers ...string) func(ctx context.Context, operatorID string) ([]bus.Bus, error) {
	return func(ctx context.Context, operatorID string) ([]bus.Bus, error) {
		var buses []bus.Bus
		for _, n := range numbers {
			buses = append(buses, bus.Bus{BusNumber: n, OperatorID: operatorID, IsActive: true})
		}
		return buses, nil
	}
}

func newService(opRepo OperatorRepository, busRepo bus.BusRepository, schedRepo schedule.ScheduleRepository, schedSvc schedule.ScheduleService, bookingRepo booking.BookingRepository) OperatorService {
	return NewOperatorService(opRepo, busRepo, schedRepo, schedSvc, bookingRepo, zap.NewNop())
}

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{
		findByEmailFn: func(ctx context.Context, email string) (*BusOperator, error) {
			return op, nil
		},
	}

	svc := newService(repo, &mockBusRepo{}, &mockScheduleRepo{}, &mockScheduleService{}, &mockBookingRepo{})
	token, got, err := svc.Login(context.Background(), op.Email, "pass123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "OP-001", got.OperatorID)

	claims, err := utils.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "operator", claims.Role)
	assert.Equal(t, "OP-001", claims.OperatorID)
}

func TestLogin_WrongPassword(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{
		findByEmailFn: func(ctx context.Context, email string) (*BusOperator, error) {
			return op, nil
		},
	}

	svc := newService(repo, &mockBusRepo{}, &mockScheduleRepo{}, &mockScheduleService{}, &mockBookingRepo{})
	_, _, err := svc.Login(context.Background(), op.Email, "nope")

	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestLogin_InactiveOperator(t *testing.T) {
	op := activeOperator()
	op.IsActive = false
	repo := &mockOperatorRepo{
		findByEmailFn: func(ctx context.Context, email string) (*BusOperator, error) {
			return op, nil
		},
	}

	svc := newService(repo, &mockBusRepo{}, &mockScheduleRepo{}, &mockScheduleService{}, &mockBookingRepo{})
	_, _, err := svc.Login(context.Background(), op.Email, "pass123")

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestCreateOperator_Collision(t *testing.T) {
	repo := &mockOperatorRepo{
		findCollidingFn: func(ctx context.Context, operatorID, email, nic string) (*BusOperator, error) {
			return activeOperator(), nil
		},
	}

	svc := newService(repo, &mockBusRepo{}, &mockScheduleRepo{}, &mockScheduleService{}, &mockBookingRepo{})
	_, err := svc.CreateOperator(context.Background(), &CreateOperatorRequest{
		OperatorID: "OP-001", Name: "X", Email: "x@y.lk", Password: "p", NIC: "1",
	})

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestBookingsForOperator_ForeignBusRejected(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{findByOperatorIDFn: operatorByID(op)}
	busRepo := &mockBusRepo{findByOperatorIDFn: ownedBuses("NB-1234")}

	svc := newService(repo, busRepo, &mockScheduleRepo{}, &mockScheduleService{}, &mockBookingRepo{})
	_, err := svc.BookingsForOperator(context.Background(), "OP-001", "NB-9999")

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestBookingsForOperator_FiltersToOwnedBus(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{findByOperatorIDFn: operatorByID(op)}
	busRepo := &mockBusRepo{findByOperatorIDFn: ownedBuses("NB-1234", "NB-5678")}
	bookingRepo := &mockBookingRepo{
		findForBusesFn: func(ctx context.Context, busNumbers []string) ([]booking.Booking, error) {
			assert.Equal(t, []string{"NB-1234"}, busNumbers)
			return []booking.Booking{{BusNumber: "NB-1234", SeatNumber: 5}}, nil
		},
	}

	svc := newService(repo, busRepo, &mockScheduleRepo{}, &mockScheduleService{}, bookingRepo)
	bookings, err := svc.BookingsForOperator(context.Background(), "OP-001", "NB-1234")

	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestReassignBus_ForeignScheduleRejected(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{findByOperatorIDFn: operatorByID(op)}
	busRepo := &mockBusRepo{findByOperatorIDFn: ownedBuses("NB-1234")}
	schedRepo := &mockScheduleRepo{
		findByScheduleIDFn: func(ctx context.Context, scheduleID string) (*schedule.Schedule, error) {
			return &schedule.Schedule{ScheduleID: scheduleID, BusNumber: "NB-9999"}, nil
		},
	}
	schedSvc := &mockScheduleService{
		reassignFn: func(ctx context.Context, scheduleID, newBusNumber string) (*schedule.Schedule, error) {
			t.Fatal("foreign schedule must not reach the reassignment")
			return nil, nil
		},
	}

	svc := newService(repo, busRepo, schedRepo, schedSvc, &mockBookingRepo{})
	_, err := svc.ReassignBus(context.Background(), "OP-001", "SCH-001", "NB-1234")

	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestReassignBus_DelegatesForOwnedBuses(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{findByOperatorIDFn: operatorByID(op)}
	busRepo := &mockBusRepo{findByOperatorIDFn: ownedBuses("NB-1234", "NB-5678")}
	schedRepo := &mockScheduleRepo{
		findByScheduleIDFn: func(ctx context.Context, scheduleID string) (*schedule.Schedule, error) {
			return &schedule.Schedule{ScheduleID: scheduleID, BusNumber: "NB-1234"}, nil
		},
	}
	delegated := false
	schedSvc := &mockScheduleService{
		reassignFn: func(ctx context.Context, scheduleID, newBusNumber string) (*schedule.Schedule, error) {
			delegated = true
			return &schedule.Schedule{ScheduleID: scheduleID, BusNumber: newBusNumber}, nil
		},
	}

	svc := newService(repo, busRepo, schedRepo, schedSvc, &mockBookingRepo{})
	sched, err := svc.ReassignBus(context.Background(), "OP-001", "SCH-001", "NB-5678")

	assert.NoError(t, err)
	assert.True(t, delegated)
	assert.Equal(t, "NB-5678", sched.BusNumber)
}

func TestExportBookings_ProducesWorkbook(t *testing.T) {
	op := activeOperator()
	repo := &mockOperatorRepo{findByOperatorIDFn: operatorByID(op)}
	busRepo := &mockBusRepo{findByOperatorIDFn: ownedBuses("NB-1234")}
	bookingRepo := &mockBookingRepo{
		findForBusesFn: func(ctx context.Context, busNumbers []string) ([]booking.Booking, error) {
			return []booking.Booking{{
				BusNumber:     "NB-1234",
				SeatNumber:    5,
				PassengerName: "Nimal Perera",
				Date:          time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
				Price:         450,
				TransactionID: "TXN-1",
			}}, nil
		},
	}

	svc := newService(repo, busRepo, &mockScheduleRepo{}, &mockScheduleService{}, bookingRepo)
	data, err := svc.ExportBookings(context.Background(), "OP-001", "")

	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx files are zip archives.
	assert.Equal(t, byte('P'), data[0])
	assert.Equal(t, byte('K'), data[1])
}
