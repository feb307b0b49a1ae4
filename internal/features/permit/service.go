package permit

import (
	"context"
	"time"

	"go-busline/internal/common/apperr"
	"go-busline/internal/features/bus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PermitService interface {
	IssuePermit(ctx context.Context, p *Permit) (*Permit, error)
	UpdatePermit(ctx context.Context, permitNumber string, upd *PermitUpdate) (*Permit, error)
	GetPermits(ctx context.Context, routeID, busNumber, isActive string) ([]Permit, error)
	GetPermit(ctx context.Context, permitNumber string) (*Permit, error)
	DeactivatePermit(ctx context.Context, permitNumber string) (*Permit, error)
}

type PermitUpdate struct {
	ValidFrom *time.Time `json:"validFrom"`
	ValidTo   *time.Time `json:"validTo"`
	IsActive  *bool      `json:"isActive"`
}

type PermitServiceImpl struct {
	PermitRepo PermitRepository
	BusRepo    bus.BusRepository
}

func NewPermitService(permitRepo PermitRepository, busRepo bus.BusRepository) PermitService {
	return &PermitServiceImpl{
		PermitRepo: permitRepo,
		BusRepo:    busRepo,
	}
}

func (s *PermitServiceImpl) IssuePermit(ctx context.Context, p *Permit) (*Permit, error) {
	if p.PermitNumber == "" || p.BusNumber == "" || p.RouteID == "" || p.ValidFrom.IsZero() || p.ValidTo.IsZero() {
		return nil, apperr.Validation("All fields are required")
	}

	if _, err := s.BusRepo.FindByBusNumber(ctx, p.BusNumber); err != nil {
		return nil, apperr.NotFound("Bus not found with the given busNumber")
	}

	if _, err := s.PermitRepo.FindByPermitNumber(ctx, p.PermitNumber); err == nil {
		return nil, apperr.Conflict("Permit number already exists")
	}

	now := time.Now()
	if p.ValidFrom.Before(now) {
		return nil, apperr.Validation("validFrom date cannot be in the past")
	}
	if !p.ValidTo.After(p.ValidFrom) {
		return nil, apperr.Validation("validTo date must be after validFrom date")
	}

	p.ID = primitive.NewObjectID()
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.PermitRepo.Create(ctx, p); err != nil {
		return nil, apperr.Internal("Error issuing permit", err)
	}
	return p, nil
}

func (s *PermitServiceImpl) UpdatePermit(ctx context.Context, permitNumber string, upd *PermitUpdate) (*Permit, error) {
	p, err := s.PermitRepo.FindByPermitNumber(ctx, permitNumber)
	if err != nil {
		return nil, apperr.NotFound("Permit not found")
	}

	validFrom := p.ValidFrom
	validTo := p.ValidTo
	if upd.ValidFrom != nil {
		if upd.ValidFrom.Before(time.Now()) {
			return nil, apperr.Validation("validFrom date cannot be in the past")
		}
		validFrom = *upd.ValidFrom
	}
	if upd.ValidTo != nil {
		validTo = *upd.ValidTo
	}
	if !validTo.After(validFrom) {
		return nil, apperr.Validation("validTo date must be after validFrom date")
	}

	fields := bson.M{}
	if upd.ValidFrom != nil {
		fields["validFrom"] = validFrom
	}
	if upd.ValidTo != nil {
		fields["validTo"] = validTo
	}
	if upd.IsActive != nil {
		fields["isActive"] = *upd.IsActive
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("No fields to update")
	}

	if err := s.PermitRepo.Update(ctx, permitNumber, fields); err != nil {
		return nil, apperr.Internal("Error updating permit", err)
	}
	return s.PermitRepo.FindByPermitNumber(ctx, permitNumber)
}

func (s *PermitServiceImpl) GetPermits(ctx context.Context, routeID, busNumber, isActive string) ([]Permit, error) {
	filter := bson.M{}
	if routeID != "" {
		filter["routeId"] = routeID
	}
	if busNumber != "" {
		filter["busNumber"] = busNumber
	}
	if isActive != "" {
		filter["isActive"] = isActive == "true"
	}

	permits, err := s.PermitRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Error fetching permits", err)
	}
	return permits, nil
}

func (s *PermitServiceImpl) GetPermit(ctx context.Context, permitNumber string) (*Permit, error) {
	p, err := s.PermitRepo.FindByPermitNumber(ctx, permitNumber)
	if err != nil {
		return nil, apperr.NotFound("Permit not found")
	}
	return p, nil
}

func (s *PermitServiceImpl) DeactivatePermit(ctx context.Context, permitNumber string) (*Permit, error) {
	p, err := s.PermitRepo.FindByPermitNumber(ctx, permitNumber)
	if err != nil {
		return nil, apperr.NotFound("Permit not found")
	}
	if !p.IsActive {
		return nil, apperr.Conflict("Permit is already deactivated")
	}

	if err := s.PermitRepo.Update(ctx, permitNumber, bson.M{"isActive": false}); err != nil {
		return nil, apperr.Internal("Error deactivating permit", err)
	}
	p.IsActive = false
	return p, nil
}
