package booking

import (
	"context"
	"fmt"
	"time"

	"go-busline/internal/common/apperr"
	emails "go-busline/internal/email"
	"go-busline/internal/features/bus"
	"go-busline/internal/features/route"
	"go-busline/internal/features/schedule"
	"go-busline/internal/payment"
	"go-busline/pkg/qr"
	"go-busline/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type BookingService interface {
	SearchAvailableBuses(ctx context.Context, boardingPlace, destinationPlace string, date time.Time) ([]AvailableBus, error)
	GetSeats(ctx context.Context, busNumber string, date time.Time) ([]Seat, error)
	BookSeatWithPayment(ctx context.Context, req *BookSeatRequest) (*Booking, error)
	CancelBooking(ctx context.Context, cancellationToken string) (string, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error)
}

// AvailableBus is one (route, schedule) combination serving a searched
// segment, enriched with bus details and the segment fare.
type AvailableBus struct {
	RouteID    string      `json:"routeId"`
	ScheduleID string      `json:"scheduleId"`
	BusNumber  string      `json:"busNumber"`
	BusType    bus.BusType `json:"busType"`
	Capacity   int         `json:"capacity"`
	StartTime  time.Time   `json:"startTime"`
	EndTime    time.Time   `json:"endTime"`
	Price      float64     `json:"price"`
}

type BookSeatRequest struct {
	BusNumber        string    `json:"busNumber"`
	SeatNumber       int       `json:"seatNumber"`
	PassengerName    string    `json:"passengerName"`
	MobileNumber     string    `json:"mobileNumber"`
	Email            string    `json:"email"`
	BoardingPlace    string    `json:"boardingPlace"`
	DestinationPlace string    `json:"destinationPlace"`
	Date             time.Time `json:"date"`
}

type BookingServiceImpl struct {
	BookingRepo  BookingRepository
	BusRepo      bus.BusRepository
	RouteRepo    route.RouteRepository
	ScheduleRepo schedule.ScheduleRepository
	Gateway      payment.Gateway
	Mailer       emails.Sender
	Logger       *zap.Logger
}

func NewBookingService(
	bookingRepo BookingRepository,
	busRepo bus.BusRepository,
	routeRepo route.RouteRepository,
	scheduleRepo schedule.ScheduleRepository,
	gateway payment.Gateway,
	mailer emails.Sender,
	logger *zap.Logger,
) BookingService {
	return &BookingServiceImpl{
		BookingRepo:  bookingRepo,
		BusRepo:      busRepo,
		RouteRepo:    routeRepo,
		ScheduleRepo: scheduleRepo,
		Gateway:      gateway,
		Mailer:       mailer,
		Logger:       logger,
	}
}

func (s *BookingServiceImpl) SearchAvailableBuses(ctx context.Context, boardingPlace, destinationPlace string, date time.Time) ([]AvailableBus, error) {
	if boardingPlace == "" || destinationPlace == "" {
		return nil, apperr.Validation("boardingPlace and destinationPlace are required")
	}

	candidates, err := s.RouteRepo.FindContainingStops(ctx, boardingPlace, destinationPlace)
	if err != nil {
		return nil, apperr.Internal("Error fetching buses", err)
	}

	// Keep only routes where boarding precedes destination, and remember
	// the segment fare per route.
	prices := map[string]float64{}
	var routeIDs []string
	for i := range candidates {
		rt := &candidates[i]
		if _, _, ok := rt.OrderedIndexes(boardingPlace, destinationPlace); !ok {
			continue
		}
		price, ok := rt.PriceFor(boardingPlace, destinationPlace)
		if !ok {
			continue
		}
		prices[rt.RouteID] = price
		routeIDs = append(routeIDs, rt.RouteID)
	}

	results := []AvailableBus{}
	if len(routeIDs) == 0 {
		return results, nil
	}

	schedules, err := s.ScheduleRepo.FindForRoutesOnDay(ctx, routeIDs, date.Weekday().String())
	if err != nil {
		return nil, apperr.Internal("Error fetching buses", err)
	}

	for i := range schedules {
		sch := &schedules[i]
		b, err := s.BusRepo.FindByBusNumber(ctx, sch.BusNumber)
		if err != nil || !b.IsActive {
			continue
		}
		results = append(results, AvailableBus{
			RouteID:    sch.RouteID,
			ScheduleID: sch.ScheduleID,
			BusNumber:  sch.BusNumber,
			BusType:    b.Type,
			Capacity:   b.Capacity,
			StartTime:  sch.StartTime,
			EndTime:    sch.EndTime,
			Price:      prices[sch.RouteID],
		})
	}

	return results, nil
}

func (s *BookingServiceImpl) GetSeats(ctx context.Context, busNumber string, date time.Time) ([]Seat, error) {
	b, err := s.BusRepo.FindByBusNumber(ctx, busNumber)
	if err != nil {
		return nil, apperr.NotFound("Bus not found")
	}

	bookings, err := s.BookingRepo.FindByBusAndDate(ctx, busNumber, date)
	if err != nil {
		return nil, apperr.Internal("Error fetching seats", err)
	}

	booked := map[int]bool{}
	for _, bk := range bookings {
		booked[bk.SeatNumber] = true
	}

	seats := make([]Seat, 0, b.Capacity)
	for i := 1; i <= b.Capacity; i++ {
		status := SeatAvailable
		if booked[i] {
			status = SeatBooked
		}
		seats = append(seats, Seat{SeatNumber: i, Status: status})
	}
	return seats, nil
}

func (s *BookingServiceImpl) BookSeatWithPayment(ctx context.Context, req *BookSeatRequest) (*Booking, error) {
	b, err := s.BusRepo.FindByBusNumber(ctx, req.BusNumber)
	if err != nil || !b.IsActive {
		return nil, apperr.NotFound("Bus is inactive or not found")
	}

	if req.SeatNumber < 1 || req.SeatNumber > b.Capacity {
		return nil, apperr.Validation(fmt.Sprintf("seatNumber must be between 1 and %d", b.Capacity))
	}
	if req.PassengerName == "" || req.MobileNumber == "" || req.Date.IsZero() {
		return nil, apperr.Validation("passengerName, mobileNumber and date are required")
	}

	if _, err := s.BookingRepo.FindBySeat(ctx, req.BusNumber, req.SeatNumber, req.Date); err == nil {
		return nil, apperr.Validation("Seat already booked")
	}

	sch, err := s.ScheduleRepo.FindCoveringForBus(ctx, req.BusNumber, req.Date)
	if err != nil {
		return nil, apperr.NotFound("No schedule found for this bus and date")
	}
	rt, err := s.RouteRepo.FindByRouteID(ctx, sch.RouteID)
	if err != nil {
		return nil, apperr.NotFound("Route not found for schedule")
	}

	if _, _, ok := rt.OrderedIndexes(req.BoardingPlace, req.DestinationPlace); !ok {
		return nil, apperr.Validation("boardingPlace and destinationPlace must lie on the route in order")
	}
	price, ok := rt.PriceFor(req.BoardingPlace, req.DestinationPlace)
	if !ok {
		return nil, apperr.Validation("No price found for the requested segment")
	}

	transactionID, err := s.Gateway.Charge(ctx, price)
	if err != nil {
		return nil, apperr.Dependency("Payment failed", err)
	}

	token, err := utils.GenerateSecretToken()
	if err != nil {
		return nil, apperr.Internal("Error booking seat", err)
	}

	bk := &Booking{
		ID:                primitive.NewObjectID(),
		BusNumber:         req.BusNumber,
		SeatNumber:        req.SeatNumber,
		PassengerName:     req.PassengerName,
		MobileNumber:      req.MobileNumber,
		Email:             req.Email,
		BoardingPlace:     req.BoardingPlace,
		DestinationPlace:  req.DestinationPlace,
		Date:              req.Date,
		Price:             price,
		TransactionID:     transactionID,
		CancellationToken: token,
		CreatedAt:         time.Now(),
	}

	if err := s.BookingRepo.Create(ctx, bk); err != nil {
		return nil, apperr.Internal("Error booking seat", err)
	}

	// The booking is the durable fact; confirmation email is best-effort.
	s.sendConfirmation(ctx, bk)

	return bk, nil
}

func (s *BookingServiceImpl) sendConfirmation(ctx context.Context, bk *Booking) {
	if bk.Email == "" {
		return
	}

	png, err := qr.EncodeJSON(qrPayload(bk), 256)
	if err != nil {
		s.Logger.Warn("QR generation failed",
			zap.String("transactionId", bk.TransactionID),
			zap.Error(err))
		png = nil
	}

	html := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your seat %d on bus %s for %s is confirmed.</p><p>Transaction: %s</p><p>Keep your cancellation token safe: %s</p>",
		bk.PassengerName, bk.SeatNumber, bk.BusNumber,
		bk.Date.Format(time.RFC1123), bk.TransactionID, bk.CancellationToken)

	err = s.Mailer.Send(ctx, &emails.Email{
		To:         []string{bk.Email},
		Subject:    "Booking confirmation " + bk.TransactionID,
		HtmlBody:   html,
		ImagePNG:   png,
		EntityType: "booking",
		EntityID:   bk.TransactionID,
	})
	if err != nil {
		s.Logger.Warn("confirmation email not queued",
			zap.String("transactionId", bk.TransactionID),
			zap.Error(err))
	}
}

// qrPayload is the QR content: enough to identify the booking at
// boarding without exposing the cancellation token.
func qrPayload(bk *Booking) map[string]interface{} {
	return map[string]interface{}{
		"transactionId": bk.TransactionID,
		"busNumber":     bk.BusNumber,
		"seatNumber":    bk.SeatNumber,
		"passengerName": bk.PassengerName,
		"date":          bk.Date,
	}
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, cancellationToken string) (string, error) {
	if cancellationToken == "" {
		return "", apperr.Validation("cancellationToken is required")
	}

	bk, err := s.BookingRepo.FindByCancellationToken(ctx, cancellationToken)
	if err != nil {
		return "", apperr.NotFound("Booking not found")
	}

	refundID, err := s.Gateway.Refund(ctx, bk.TransactionID)
	if err != nil {
		// Refund failure leaves the booking intact.
		return "", apperr.Dependency("Refund failed", err)
	}

	if err := s.BookingRepo.Delete(ctx, bk.ID); err != nil {
		return "", apperr.Internal("Error cancelling booking", err)
	}

	s.Logger.Info("booking cancelled",
		zap.String("transactionId", bk.TransactionID),
		zap.String("refundId", refundID))

	return refundID, nil
}

func (s *BookingServiceImpl) GetByTransactionID(ctx context.Context, transactionID string) (*Booking, error) {
	bk, err := s.BookingRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, apperr.NotFound("Booking not found")
	}
	return bk, nil
}
