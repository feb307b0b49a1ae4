package permit

import (
	"context"
	"testing"
	"time"

	"go-busline/internal/common/apperr"
	"go-busline/internal/features/bus"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockPermitRepo struct {
	createFn             func(ctx context.Context, p *Permit) error
	findByPermitNumberFn func(ctx context.Context, permitNumber string) (*Permit, error)
	updateFn             func(ctx context.Context, permitNumber string, fields bson.M) error
	deactivateExpiredFn  func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockPermitRepo) Create(ctx context.Context, p *Permit) error { return m.createFn(ctx, p) }
func (m *mockPermitRepo) FindByPermitNumber(ctx context.Context, permitNumber string) (*Permit, error) {
	return m.findByPermitNumberFn(ctx, permitNumber)
}
func (m *mockPermitRepo) FindActiveCovering(ctx context.Context, busNumber, routeID string, from, to time.Time) (*Permit, error) {
	return nil, mongo.ErrNoDocuments
}
func (m *mockPermitRepo) List(ctx context.Context, filter bson.M) ([]Permit, error) {
	return nil, nil
}
func (m *mockPermitRepo) Update(ctx context.Context, permitNumber string, fields bson.M) error {
	return m.updateFn(ctx, permitNumber, fields)
}
func (m *mockPermitRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.deactivateExpiredFn(ctx, now)
}
func (m *mockPermitRepo) EnsureIndexes(ctx context.Context) error { return nil }

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
func (m *mockBusRepo) List(ctx context.Context) ([]bus.Bus, error) { return nil, nil }
func (m *mockBusRepo) Update(ctx context.Context, busNumber string, fields bson.M) error {
	return nil
}
func (m *mockBusRepo) EnsureIndexes(ctx context.Context) error { return nil }

func knownBus(ctx context.Context, busNumber string) (*bus.Bus, error) {
	return &bus.Bus{BusNumber: busNumber, IsActive: true}, nil
}

func samplePermit() *Permit {
	return &Permit{
		PermitNumber: "PM-001",
		BusNumber:    "NB-1234",
		RouteID:      "RT-001",
		ValidFrom:    time.Now().Add(24 * time.Hour),
		ValidTo:      time.Now().Add(90 * 24 * time.Hour),
	}
}

func TestIssuePermit_Success(t *testing.T) {
	var stored *Permit
	repo := &mockPermitRepo{
		findByPermitNumberFn: func(ctx context.Context, n string) (*Permit, error) {
			return nil, mongo.ErrNoDocuments
		},
		createFn: func(ctx context.Context, p *Permit) error {
			stored = p
			return nil
		},
	}

	svc := NewPermitService(repo, &mockBusRepo{findByBusNumberFn: knownBus})
	p, err := svc.IssuePermit(context.Background(), samplePermit())

	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.True(t, p.IsActive, "issued permit starts active")
}

func TestIssuePermit_UnknownBus(t *testing.T) {
	svc := NewPermitService(&mockPermitRepo{}, &mockBusRepo{
		findByBusNumberFn: func(ctx context.Context, busNumber string) (*bus.Bus, error) {
			return nil, mongo.ErrNoDocuments
		},
	})

	_, err := svc.IssuePermit(context.Background(), samplePermit())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestIssuePermit_PastValidFrom(t *testing.T) {
	repo := &mockPermitRepo{
		findByPermitNumberFn: func(ctx context.Context, n string) (*Permit, error) {
			return nil, mongo.ErrNoDocuments
		},
	}

	p := samplePermit()
	p.ValidFrom = time.Now().Add(-time.Hour)

	svc := NewPermitService(repo, &mockBusRepo{findByBusNumberFn: knownBus})
	_, err := svc.IssuePermit(context.Background(), p)

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestIssuePermit_WindowInverted(t *testing.T) {
	repo := &mockPermitRepo{
		findByPermitNumberFn: func(ctx context.Context, n string) (*Permit, error) {
			return nil, mongo.ErrNoDocuments
		},
	}

	p := samplePermit()
	p.ValidTo = p.ValidFrom.Add(-time.Hour)

	svc := NewPermitService(repo, &mockBusRepo{findByBusNumberFn: knownBus})
	_, err := svc.IssuePermit(context.Background(), p)

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestIssuePermit_DuplicateNumber(t *testing.T) {
	repo := &mockPermitRepo{
		findByPermitNumberFn: func(ctx context.Context, n string) (*Permit, error) {
			return samplePermit(), nil
		},
	}

	svc := NewPermitService(repo, &mockBusRepo{findByBusNumberFn: knownBus})
	_, err := svc.IssuePermit(context.Background(), samplePermit())

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestDeactivatePermit_AlreadyInactive(t *testing.T) {
	repo := &mockPermitRepo{
		findByPermitNumberFn: func(ctx context.Context, n string) (*Permit, error) {
			p := samplePermit()
			p.IsActive = false
			return p, nil
		},
	}

	svc := NewPermitService(repo, &mockBusRepo{findByBusNumberFn: knownBus})
	_, err := svc.DeactivatePermit(context.Background(), "PM-001")

	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}
