package payment

import (
	"context"

	"github.com/google/uuid"
)

// Gateway is the payment collaborator. The mock always succeeds, but the
// contract allows failure and callers must handle it.
type Gateway interface {
	Charge(ctx context.Context, amount float64) (transactionID string, err error)
	Refund(ctx context.Context, transactionID string) (refundID string, err error)
}

type MockGateway struct{}

func NewMockGateway() Gateway {
	return &MockGateway{}
}

func (g *MockGateway) Charge(ctx context.Context, amount float64) (string, error) {
	return "TXN-" + uuid.NewString(), nil
}

func (g *MockGateway) Refund(ctx context.Context, transactionID string) (string, error) {
	return "RFD-" + uuid.NewString(), nil
}
