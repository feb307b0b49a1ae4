package bus

import (
	"context"
	"fmt"
	"time"

	"go-busline/internal/common/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperatorFinder is satisfied by the operator repository; declared here to
// keep the dependency direction bus -> interface. Wired in main.
type OperatorFinder interface {
	Exists(ctx context.Context, operatorID string) (bool, error)
}

type BusService interface {
	AddBus(ctx context.Context, b *Bus) (*Bus, error)
	UpdateBus(ctx context.Context, busNumber string, upd *BusUpdate) (*Bus, error)
	GetBuses(ctx context.Context) ([]Bus, error)
	GetBus(ctx context.Context, busNumber string) (*Bus, error)
	DeactivateBus(ctx context.Context, busNumber string) (*Bus, error)
}

// BusUpdate carries the optional fields of a bus update request.
type BusUpdate struct {
	Type     *BusType `json:"type"`
	Capacity *int     `json:"capacity"`
	IsActive *bool    `json:"isActive"`
}

type BusServiceImpl struct {
	BusRepo      BusRepository
	OperatorRepo OperatorFinder
}

func NewBusService(busRepo BusRepository, operatorRepo OperatorFinder) BusService {
	return &BusServiceImpl{
		BusRepo:      busRepo,
		OperatorRepo: operatorRepo,
	}
}

func (s *BusServiceImpl) AddBus(ctx context.Context, b *Bus) (*Bus, error) {
	if b.BusNumber == "" {
		return nil, apperr.Validation("busNumber is required")
	}
	if !ValidBusType(b.Type) {
		return nil, apperr.Validation("type must be one of Luxury, Semi-Luxury, Normal")
	}
	if b.Capacity < MinCapacity || b.Capacity > MaxCapacity {
		return nil, apperr.Validation(fmt.Sprintf("capacity must be between %d and %d", MinCapacity, MaxCapacity))
	}

	exists, err := s.OperatorRepo.Exists(ctx, b.OperatorID)
	if err != nil {
		return nil, apperr.Internal("Error validating operator", err)
	}
	if !exists {
		return nil, apperr.Validation("Invalid operatorId: Operator not found")
	}

	if _, err := s.BusRepo.FindByBusNumber(ctx, b.BusNumber); err == nil {
		return nil, apperr.Conflict("Bus number already exists")
	}

	b.ID = primitive.NewObjectID()
	b.IsActive = true
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.BusRepo.Create(ctx, b); err != nil {
		return nil, apperr.Internal("Error adding bus", err)
	}
	return b, nil
}

func (s *BusServiceImpl) UpdateBus(ctx context.Context, busNumber string, upd *BusUpdate) (*Bus, error) {
	if _, err := s.BusRepo.FindByBusNumber(ctx, busNumber); err != nil {
		return nil, apperr.NotFound("Bus not found")
	}

	fields := bson.M{}
	if upd.Type != nil {
		if !ValidBusType(*upd.Type) {
			return nil, apperr.Validation("type must be one of Luxury, Semi-Luxury, Normal")
		}
		fields["type"] = *upd.Type
	}
	if upd.Capacity != nil {
		if *upd.Capacity < MinCapacity || *upd.Capacity > MaxCapacity {
			return nil, apperr.Validation(fmt.Sprintf("capacity must be between %d and %d", MinCapacity, MaxCapacity))
		}
		fields["capacity"] = *upd.Capacity
	}
	if upd.IsActive != nil {
		fields["isActive"] = *upd.IsActive
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("No fields to update")
	}

	if err := s.BusRepo.Update(ctx, busNumber, fields); err != nil {
		return nil, apperr.Internal("Error updating bus", err)
	}
	return s.BusRepo.FindByBusNumber(ctx, busNumber)
}

func (s *BusServiceImpl) GetBuses(ctx context.Context) ([]Bus, error) {
	buses, err := s.BusRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Error fetching buses", err)
	}
	return buses, nil
}

func (s *BusServiceImpl) GetBus(ctx context.Context, busNumber string) (*Bus, error) {
	b, err := s.BusRepo.FindByBusNumber(ctx, busNumber)
	if err != nil {
		return nil, apperr.NotFound("Bus not found")
	}
	return b, nil
}

func (s *BusServiceImpl) DeactivateBus(ctx context.Context, busNumber string) (*Bus, error) {
	b, err := s.BusRepo.FindByBusNumber(ctx, busNumber)
	if err != nil {
		return nil, apperr.NotFound("Bus not found")
	}
	if !b.IsActive {
		return nil, apperr.Conflict("Bus is already deactivated")
	}

	if err := s.BusRepo.Update(ctx, busNumber, bson.M{"isActive": false}); err != nil {
		return nil, apperr.Internal("Error deactivating bus", err)
	}
	b.IsActive = false
	return b, nil
}
