package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-busline/internal/common/apperr"
	emails "go-busline/internal/email"
	"go-busline/internal/features/bus"
	"go-busline/internal/features/route"
	"go-busline/internal/features/schedule"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockBookingRepo struct {
	createFn          func(ctx context.Context, b *Booking) error
	findBySeatFn      func(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error)
	findByBusAndDate  func(ctx context.Context, busNumber string, date time.Time) ([]Booking, error)
	findByTokenFn     func(ctx context.Context, token string) (*Booking, error)
	deleteFn          func(ctx context.Context, id primitive.ObjectID) error
	findByTxnFn       func(ctx context.Context, transactionID string) (*Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b *Booking) error { return m.createFn(ctx, b) }
func (m *mockBookingRepo) FindBySeat(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error) {
	return m.findBySeatFn(ctx, busNumber, seatNumber, date)
}
func (m *mockBookingRepo) FindByBusAndDate(ctx context.Context, busNumber string, date time.Time) ([]Booking, error) {
	return m.findByBusAndDate(ctx, busNumber, date)
}
func (m *mockBookingRepo) FindByCancellationToken(ctx context.Context, token string) (*Booking, error) {
	return m.findByTokenFn(ctx, token)
}
func (m *mockBookingRepo) FindByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	return m.findByTxnFn(ctx, transactionID)
}
func (m *mockBookingRepo) FindForBuses(ctx context.Context, busNumbers []string) ([]Booking, error) {
	return nil, nil
}
func (m *mockBookingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.deleteFn(ctx, id)
}
func (m *mockBookingRepo) ReassignBus(ctx context.Context, oldBusNumber, newBusNumber string, from, to time.Time) (int64, error) {
	return 0, nil
}
func (m *mockBookingRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockBusRepo struct {
	findByBusNumberFn func(ctx context.Context, busNumber string) (*bus.Bus, error)
}

func (m *mockBusRepo) Create(ctx context.Context, b *bus.Bus) error { return nil }
func (m *mockBusRepo) FindByBusNumber(ctx context.Context, busNumber string) (*bus.Bus, error) {
	return m.findByBusNumberFn(ctx, busNumber)
}
func (m *mockBusRepo) FindByOperatorID(ctx context.Context, operatorID string) ([]bus.Bus, error) {
	return nil, nil
}
func (m *mockBusRepo) List(ctx context.Context) ([]bus.Bus, error)                       { return nil, nil }
func (m *mockBusRepo) Update(ctx context.Context, busNumber string, fields bson.M) error { return nil }
func (m *mockBusRepo) EnsureIndexes(ctx context.Context) error                           { return nil }

type mockRouteRepo struct {
	findByRouteIDFn       func(ctx context.Context, routeID string) (*route.Route, error)
	findContainingStopsFn func(ctx context.Context, a, b string) ([]route.Route, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, r *route.Route) error { return nil }
func (m *mockRouteRepo) FindByRouteID(ctx context.Context, routeID string) (*route.Route, error) {
	return m.findByRouteIDFn(ctx, routeID)
}
func (m *mockRouteRepo) List(ctx context.Context, filter bson.M) ([]route.Route, error) {
	return nil, nil
}
func (m *mockRouteRepo) FindContainingStops(ctx context.Context, a, b string) ([]route.Route, error) {
	return m.findContainingStopsFn(ctx, a, b)
}
func (m *mockRouteRepo) Replace(ctx context.Context, routeID string, r *route.Route) error {
	return nil
}
func (m *mockRouteRepo) Delete(ctx context.Context, routeID string) error { return nil }
func (m *mockRouteRepo) EnsureIndexes(ctx context.Context) error          { return nil }

type mockScheduleRepo struct {
	findForRoutesOnDayFn func(ctx context.Context, routeIDs []string, day string) ([]schedule.Schedule, error)
	findCoveringFn       func(ctx context.Context, busNumber string, at time.Time) (*schedule.Schedule, error)
}

func (m *mockScheduleRepo) Create(ctx context.Context, s *schedule.Schedule) error { return nil }
func (m *mockScheduleRepo) FindByScheduleID(ctx context.Context, scheduleID string) (*schedule.Schedule, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockScheduleRepo) List(ctx context.Context) ([]schedule.Schedule, error) { return nil, nil }
func (m *mockScheduleRepo) FindForRoutesOnDay(ctx context.Context, routeIDs []string, day string) ([]schedule.Schedule, error) {
	return m.findForRoutesOnDayFn(ctx, routeIDs, day)
}
func (m *mockScheduleRepo) FindForBuses(ctx context.Context, busNumbers []string, dayStart, dayEnd *time.Time) ([]schedule.Schedule, error) {
	return nil, nil
}
func (m *mockScheduleRepo) FindOverlappingForBus(ctx context.Context, busNumber string, from, to time.Time, excludeScheduleID string) (*schedule.Schedule, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockScheduleRepo) FindCoveringForBus(ctx context.Context, busNumber string, at time.Time) (*schedule.Schedule, error) {
	return m.findCoveringFn(ctx, busNumber, at)
}
func (m *mockScheduleRepo) Replace(ctx context.Context, scheduleID string, s *schedule.Schedule) error {
	return nil
}
func (m *mockScheduleRepo) UpdateBusNumber(ctx context.Context, scheduleID, busNumber string) error {
	return nil
}
func (m *mockScheduleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockGateway struct {
	chargeFn func(ctx context.Context, amount float64) (string, error)
	refundFn func(ctx context.Context, transactionID string) (string, error)
}

func (m *mockGateway) Charge(ctx context.Context, amount float64) (string, error) {
	return m.chargeFn(ctx, amount)
}
func (m *mockGateway) Refund(ctx context.Context, transactionID string) (string, error) {
	return m.refundFn(ctx, transactionID)
}

type mockSender struct {
	sent []*emails.Email
}

func (m *mockSender) Send(ctx context.Context, e *emails.Email) error {
	m.sent = append(m.sent, e)
	return nil
}

// --- Fixtures ---

var travelDate = time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)

func sampleRoute() *route.Route {
	return &route.Route{
		RouteID:    "RT-001",
		StartPoint: "Colombo",
		EndPoint:   "Kandy",
		Stops:      []string{"Kegalle"},
		Prices: []route.SegmentPrice{
			{From: "Colombo", To: "Kegalle", Price: 250},
			{From: "Colombo", To: "Kandy", Price: 450},
			{From: "Kegalle", To: "Kandy", Price: 220},
		},
	}
}

func activeBus(ctx context.Context, busNumber string) (*bus.Bus, error) {
	return &bus.Bus{BusNumber: busNumber, Type: bus.BusTypeNormal, Capacity: 40, IsActive: true}, nil
}

func coveringSchedule(ctx context.Context, busNumber string, at time.Time) (*schedule.Schedule, error) {
	return &schedule.Schedule{
		ScheduleID: "SCH-001",
		RouteID:    "RT-001",
		BusNumber:  busNumber,
		StartTime:  travelDate.Add(-time.Hour),
		EndTime:    travelDate.Add(4 * time.Hour),
	}, nil
}

func bookRequest() *BookSeatRequest {
	return &BookSeatRequest{
		BusNumber:        "NB-1234",
		SeatNumber:       12,
		PassengerName:    "Nimal Perera",
		MobileNumber:     "0771234567",
		Email:            "nimal@example.com",
		BoardingPlace:    "Colombo",
		DestinationPlace: "Kegalle",
		Date:             travelDate,
	}
}

func newService(bookingRepo BookingRepository, busRepo bus.BusRepository, routeRepo route.RouteRepository, scheduleRepo schedule.ScheduleRepository, gw *mockGateway, sender *mockSender) BookingService {
	return NewBookingService(bookingRepo, busRepo, routeRepo, scheduleRepo, gw, sender, zap.NewNop())
}

// --- Tests ---

func TestSearchAvailableBuses_FiltersDirectionAndEnriches(t *testing.T) {
	reversed := sampleRoute()
	reversed.RouteID = "RT-002"
	reversed.StartPoint, reversed.EndPoint = "Kandy", "Colombo"
	reversed.Prices = []route.SegmentPrice{
		{From: "Kandy", To: "Kegalle", Price: 220},
		{From: "Kandy", To: "Colombo", Price: 450},
		{From: "Kegalle", To: "Colombo", Price: 250},
	}

	routeRepo := &mockRouteRepo{
		findContainingStopsFn: func(ctx context.Context, a, b string) ([]route.Route, error) {
			return []route.Route{*sampleRoute(), *reversed}, nil
		},
	}
	scheduleRepo := &mockScheduleRepo{
		findForRoutesOnDayFn: func(ctx context.Context, routeIDs []string, day string) ([]schedule.Schedule, error) {
			// The reversed route must already be filtered out.
			assert.Equal(t, []string{"RT-001"}, routeIDs)
			assert.Equal(t, "Monday", day)
			return []schedule.Schedule{{
				ScheduleID: "SCH-001",
				RouteID:    "RT-001",
				BusNumber:  "NB-1234",
				StartTime:  travelDate,
				EndTime:    travelDate.Add(4 * time.Hour),
			}}, nil
		},
	}

	svc := newService(&mockBookingRepo{}, &mockBusRepo{findByBusNumberFn: activeBus}, routeRepo, scheduleRepo, nil, nil)
	results, err := svc.SearchAvailableBuses(context.Background(), "Colombo", "Kandy", travelDate)

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "NB-1234", results[0].BusNumber)
	assert.Equal(t, 450.0, results[0].Price)
	assert.Equal(t, 40, results[0].Capacity)
}

func TestSearchAvailableBuses_NoRoutesIsEmptyNotError(t *testing.T) {
	routeRepo := &mockRouteRepo{
		findContainingStopsFn: func(ctx context.Context, a, b string) ([]route.Route, error) {
			return nil, nil
		},
	}

	svc := newService(&mockBookingRepo{}, &mockBusRepo{}, routeRepo, &mockScheduleRepo{}, nil, nil)
	results, err := svc.SearchAvailableBuses(context.Background(), "Colombo", "Jaffna", travelDate)

	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetSeats_DerivedFromBookings(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		findByBusAndDate: func(ctx context.Context, busNumber string, date time.Time) ([]Booking, error) {
			return []Booking{{SeatNumber: 3}, {SeatNumber: 7}}, nil
		},
	}

	svc := newService(bookingRepo, &mockBusRepo{findByBusNumberFn: activeBus}, &mockRouteRepo{}, &mockScheduleRepo{}, nil, nil)
	seats, err := svc.GetSeats(context.Background(), "NB-1234", travelDate)

	assert.NoError(t, err)
	assert.Len(t, seats, 40)
	assert.Equal(t, SeatBooked, seats[2].Status)
	assert.Equal(t, SeatBooked, seats[6].Status)
	assert.Equal(t, SeatAvailable, seats[0].Status)
}

func TestBookSeatWithPayment_Success(t *testing.T) {
	var stored *Booking
	bookingRepo := &mockBookingRepo{
		findBySeatFn: func(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error) {
			return nil, mongo.ErrNoDocuments
		},
		createFn: func(ctx context.Context, b *Booking) error {
			stored = b
			return nil
		},
	}
	gw := &mockGateway{
		chargeFn: func(ctx context.Context, amount float64) (string, error) {
			assert.Equal(t, 250.0, amount)
			return "TXN-1", nil
		},
	}
	sender := &mockSender{}

	routeRepo := &mockRouteRepo{
		findByRouteIDFn: func(ctx context.Context, routeID string) (*route.Route, error) {
			return sampleRoute(), nil
		},
	}
	scheduleRepo := &mockScheduleRepo{findCoveringFn: coveringSchedule}

	svc := newService(bookingRepo, &mockBusRepo{findByBusNumberFn: activeBus}, routeRepo, scheduleRepo, gw, sender)
	bk, err := svc.BookSeatWithPayment(context.Background(), bookRequest())

	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, "TXN-1", bk.TransactionID)
	assert.Equal(t, 250.0, bk.Price)
	assert.NotEmpty(t, bk.CancellationToken)
	assert.Len(t, sender.sent, 1)
}

func TestBookSeatWithPayment_SeatTaken(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		findBySeatFn: func(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error) {
			return &Booking{SeatNumber: seatNumber}, nil
		},
	}
	gw := &mockGateway{
		chargeFn: func(ctx context.Context, amount float64) (string, error) {
			t.Fatal("taken seat must not be charged")
			return "", nil
		},
	}

	svc := newService(bookingRepo, &mockBusRepo{findByBusNumberFn: activeBus}, &mockRouteRepo{}, &mockScheduleRepo{}, gw, nil)
	_, err := svc.BookSeatWithPayment(context.Background(), bookRequest())

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "already booked")
}

func TestBookSeatWithPayment_SeatOutOfRange(t *testing.T) {
	svc := newService(&mockBookingRepo{}, &mockBusRepo{findByBusNumberFn: activeBus}, &mockRouteRepo{}, &mockScheduleRepo{}, nil, nil)

	req := bookRequest()
	req.SeatNumber = 41 // capacity is 40

	_, err := svc.BookSeatWithPayment(context.Background(), req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestBookSeatWithPayment_PaymentFailureAborts(t *testing.T) {
	created := false
	bookingRepo := &mockBookingRepo{
		findBySeatFn: func(ctx context.Context, busNumber string, seatNumber int, date time.Time) (*Booking, error) {
			return nil, mongo.ErrNoDocuments
		},
		createFn: func(ctx context.Context, b *Booking) error {
			created = true
			return nil
		},
	}
	gw := &mockGateway{
		chargeFn: func(ctx context.Context, amount float64) (string, error) {
			return "", errors.New("card declined")
		},
	}
	routeRepo := &mockRouteRepo{
		findByRouteIDFn: func(ctx context.Context, routeID string) (*route.Route, error) {
			return sampleRoute(), nil
		},
	}
	scheduleRepo := &mockScheduleRepo{findCoveringFn: coveringSchedule}

	svc := newService(bookingRepo, &mockBusRepo{findByBusNumberFn: activeBus}, routeRepo, scheduleRepo, gw, nil)
	_, err := svc.BookSeatWithPayment(context.Background(), bookRequest())

	assert.True(t, apperr.IsKind(err, apperr.KindDependency))
	assert.False(t, created, "failed payment must not produce a booking")
}

func TestCancelBooking_Success(t *testing.T) {
	deleted := false
	bookingRepo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token string) (*Booking, error) {
			return &Booking{ID: primitive.NewObjectID(), TransactionID: "TXN-1", CancellationToken: token}, nil
		},
		deleteFn: func(ctx context.Context, id primitive.ObjectID) error {
			deleted = true
			return nil
		},
	}
	gw := &mockGateway{
		refundFn: func(ctx context.Context, transactionID string) (string, error) {
			assert.Equal(t, "TXN-1", transactionID)
			return "RFD-1", nil
		},
	}

	svc := newService(bookingRepo, &mockBusRepo{}, &mockRouteRepo{}, &mockScheduleRepo{}, gw, nil)
	refundID, err := svc.CancelBooking(context.Background(), "tok")

	assert.NoError(t, err)
	assert.Equal(t, "RFD-1", refundID)
	assert.True(t, deleted)
}

func TestCancelBooking_UnknownToken(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token string) (*Booking, error) {
			return nil, mongo.ErrNoDocuments
		},
	}

	svc := newService(bookingRepo, &mockBusRepo{}, &mockRouteRepo{}, &mockScheduleRepo{}, nil, nil)
	_, err := svc.CancelBooking(context.Background(), "gone")

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCancelBooking_RefundFailureKeepsBooking(t *testing.T) {
	bookingRepo := &mockBookingRepo{
		findByTokenFn: func(ctx context.Context, token string) (*Booking, error) {
			return &Booking{ID: primitive.NewObjectID(), TransactionID: "TXN-1"}, nil
		},
		deleteFn: func(ctx context.Context, id primitive.ObjectID) error {
			t.Fatal("booking must survive a failed refund")
			return nil
		},
	}
	gw := &mockGateway{
		refundFn: func(ctx context.Context, transactionID string) (string, error) {
			return "", errors.New("gateway timeout")
		},
	}

	svc := newService(bookingRepo, &mockBusRepo{}, &mockRouteRepo{}, &mockScheduleRepo{}, gw, nil)
	_, err := svc.CancelBooking(context.Background(), "tok")

	assert.True(t, apperr.IsKind(err, apperr.KindDependency))
}
