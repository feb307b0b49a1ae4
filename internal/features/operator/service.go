package operator

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"go-busline/internal/common/apperr"
	"go-busline/internal/common/models"
	"go-busline/internal/features/booking"
	"go-busline/internal/features/bus"
	"go-busline/internal/features/schedule"
	"go-busline/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type OperatorService interface {
	CreateOperator(ctx context.Context, req *CreateOperatorRequest) (*BusOperator, error)
	UpdateOperator(ctx context.Context, operatorID string, upd *OperatorUpdate) (*BusOperator, error)
	GetOperators(ctx context.Context) ([]BusOperator, error)
	GetOperator(ctx context.Context, operatorID string) (*BusOperator, error)
	DeactivateOperator(ctx context.Context, operatorID string) error

	Login(ctx context.Context, email, password string) (string, *BusOperator, error)
	Profile(ctx context.Context, operatorID string) (*BusOperator, error)

	SchedulesForOperator(ctx context.Context, operatorID string, date *time.Time) ([]schedule.Schedule, error)
	BookingsForOperator(ctx context.Context, operatorID, busNumber string) ([]booking.Booking, error)
	ReassignBus(ctx context.Context, operatorID, scheduleID, newBusNumber string) (*schedule.Schedule, error)
	ExportBookings(ctx context.Context, operatorID, busNumber string) ([]byte, error)
}

type CreateOperatorRequest struct {
	OperatorID string `json:"operatorId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	NIC        string `json:"nic"`
}

// OperatorUpdate carries the optional fields of an operator update.
type OperatorUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"isActive"`
}

type OperatorServiceImpl struct {
	OperatorRepo OperatorRepository
	BusRepo      bus.BusRepository
	ScheduleRepo schedule.ScheduleRepository
	ScheduleSvc  schedule.ScheduleService
	BookingRepo  booking.BookingRepository
	Logger       *zap.Logger
}

func NewOperatorService(
	operatorRepo OperatorRepository,
	busRepo bus.BusRepository,
	scheduleRepo schedule.ScheduleRepository,
	scheduleSvc schedule.ScheduleService,
	bookingRepo booking.BookingRepository,
	logger *zap.Logger,
) OperatorService {
	return &OperatorServiceImpl{
		OperatorRepo: operatorRepo,
		BusRepo:      busRepo,
		ScheduleRepo: scheduleRepo,
		ScheduleSvc:  scheduleSvc,
		BookingRepo:  bookingRepo,
		Logger:       logger,
	}
}

func (s *OperatorServiceImpl) CreateOperator(ctx context.Context, req *CreateOperatorRequest) (*BusOperator, error) {
	if req.OperatorID == "" || req.Name == "" || req.Email == "" || req.Password == "" || req.NIC == "" {
		return nil, apperr.Validation("operatorId, name, email, password and nic are required")
	}

	if _, err := s.OperatorRepo.FindColliding(ctx, req.OperatorID, req.Email, req.NIC); err == nil {
		return nil, apperr.Conflict("Operator ID, email or NIC already in use")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("Error creating operator", err)
	}

	now := time.Now()
	o := &BusOperator{
		ID:           primitive.NewObjectID(),
		OperatorID:   req.OperatorID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		NIC:          req.NIC,
		Role:         models.RoleOperator,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.OperatorRepo.Create(ctx, o); err != nil {
		return nil, apperr.Internal("Error creating operator", err)
	}
	return o, nil
}

func (s *OperatorServiceImpl) UpdateOperator(ctx context.Context, operatorID string, upd *OperatorUpdate) (*BusOperator, error) {
	if _, err := s.OperatorRepo.FindByOperatorID(ctx, operatorID); err != nil {
		return nil, apperr.NotFound("Operator not found")
	}

	fields := bson.M{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Email != nil {
		fields["email"] = *upd.Email
	}
	if upd.Password != nil {
		hash, err := utils.HashPassword(*upd.Password)
		if err != nil {
			return nil, apperr.Internal("Error updating operator", err)
		}
		fields["passwordHash"] = hash
	}
	if upd.IsActive != nil {
		fields["isActive"] = *upd.IsActive
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("No fields to update")
	}

	if err := s.OperatorRepo.Update(ctx, operatorID, fields); err != nil {
		return nil, apperr.Internal("Error updating operator", err)
	}
	return s.OperatorRepo.FindByOperatorID(ctx, operatorID)
}

func (s *OperatorServiceImpl) GetOperators(ctx context.Context) ([]BusOperator, error) {
	operators, err := s.OperatorRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching operators", err)
	}
	return operators, nil
}

func (s *OperatorServiceImpl) GetOperator(ctx context.Context, operatorID string) (*BusOperator, error) {
	o, err := s.OperatorRepo.FindByOperatorID(ctx, operatorID)
	if err != nil {
		return nil, apperr.NotFound("Operator not found")
	}
	return o, nil
}

func (s *OperatorServiceImpl) DeactivateOperator(ctx context.Context, operatorID string) error {
	o, err := s.OperatorRepo.FindByOperatorID(ctx, operatorID)
	if err != nil {
		return apperr.NotFound("Operator not found")
	}
	if !o.IsActive {
		return apperr.Conflict("Operator is already inactive")
	}
	if err := s.OperatorRepo.Update(ctx, operatorID, bson.M{"isActive": false}); err != nil {
		return apperr.Internal("Error deactivating operator", err)
	}
	return nil
}

func (s *OperatorServiceImpl) Login(ctx context.Context, email, password string) (string, *BusOperator, error) {
	o, err := s.OperatorRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperr.Unauthorized("Invalid email or password")
	}
	if !o.IsActive {
		return "", nil, apperr.Forbidden("Operator account is inactive")
	}
	if !utils.CheckPassword(o.PasswordHash, password) {
		return "", nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := utils.GenerateToken(o.ID.Hex(), models.RoleOperator, o.OperatorID)
	if err != nil {
		return "", nil, apperr.Internal("Error generating token", err)
	}
	return token, o, nil
}

func (s *OperatorServiceImpl) Profile(ctx context.Context, operatorID string) (*BusOperator, error) {
	return s.GetOperator(ctx, operatorID)
}

// SchedulesForOperator lists schedules of the operator's buses; with a
// date the result narrows to departures on that calendar day.
func (s *OperatorServiceImpl) SchedulesForOperator(ctx context.Context, operatorID string, date *time.Time) ([]schedule.Schedule, error) {
	busNumbers, err := s.ownedBusNumbers(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	var dayStart, dayEnd *time.Time
	if date != nil {
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		end := start.Add(24*time.Hour - time.Nanosecond)
		dayStart, dayEnd = &start, &end
	}

	schedules, err := s.ScheduleRepo.FindForBuses(ctx, busNumbers, dayStart, dayEnd)
	if err != nil {
		return nil, apperr.Internal("Error fetching schedules", err)
	}
	if schedules == nil {
		schedules = []schedule.Schedule{}
	}
	return schedules, nil
}

func (s *OperatorServiceImpl) BookingsForOperator(ctx context.Context, operatorID, busNumber string) ([]booking.Booking, error) {
	busNumbers, err := s.ownedBusNumbers(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	if busNumber != "" {
		if !slices.Contains(busNumbers, busNumber) {
			return nil, apperr.Forbidden("Bus does not belong to this operator")
		}
		busNumbers = []string{busNumber}
	}

	bookings, err := s.BookingRepo.FindForBuses(ctx, busNumbers)
	if err != nil {
		return nil, apperr.Internal("Error fetching bookings", err)
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	return bookings, nil
}

// ReassignBus lets an operator swap the bus on one of their own
// schedules. Both the current and the replacement bus must belong to
// the operator; the schedule-level checks run downstream.
func (s *OperatorServiceImpl) ReassignBus(ctx context.Context, operatorID, scheduleID, newBusNumber string) (*schedule.Schedule, error) {
	busNumbers, err := s.ownedBusNumbers(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	sched, err := s.ScheduleRepo.FindByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.NotFound("Schedule not found")
	}
	if !slices.Contains(busNumbers, sched.BusNumber) {
		return nil, apperr.Forbidden("Schedule does not belong to this operator")
	}
	if !slices.Contains(busNumbers, newBusNumber) {
		return nil, apperr.Forbidden("New bus does not belong to this operator")
	}

	return s.ScheduleSvc.ReassignBus(ctx, scheduleID, newBusNumber)
}

// ExportBookings renders the operator's bookings as an xlsx workbook.
func (s *OperatorServiceImpl) ExportBookings(ctx context.Context, operatorID, busNumber string) ([]byte, error) {
	bookings, err := s.BookingsForOperator(ctx, operatorID, busNumber)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Bus Number", "Seat", "Passenger", "Mobile", "Boarding", "Destination", "Date", "Price", "Transaction ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, bk := range bookings {
		values := []interface{}{
			bk.BusNumber,
			bk.SeatNumber,
			bk.PassengerName,
			bk.MobileNumber,
			bk.BoardingPlace,
			bk.DestinationPlace,
			bk.Date.Format(time.RFC3339),
			bk.Price,
			bk.TransactionID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperr.Internal("Error exporting bookings", err)
	}

	s.Logger.Info("bookings exported",
		zap.String("operatorId", operatorID),
		zap.Int("rows", len(bookings)))

	return buf.Bytes(), nil
}

func (s *OperatorServiceImpl) ownedBusNumbers(ctx context.Context, operatorID string) ([]string, error) {
	o, err := s.OperatorRepo.FindByOperatorID(ctx, operatorID)
	if err != nil {
		return nil, apperr.NotFound("Operator not found")
	}
	if !o.IsActive {
		return nil, apperr.Forbidden("Operator account is inactive")
	}

	buses, err := s.BusRepo.FindByOperatorID(ctx, operatorID)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("Error fetching buses for operator %s", operatorID), err)
	}

	numbers := make([]string, 0, len(buses))
	for _, b := range buses {
		numbers = append(numbers, b.BusNumber)
	}
	return numbers, nil
}
