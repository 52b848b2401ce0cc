package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmesh/shopmesh/internal/domain"
)

type PaymentRepository interface {
	// InsertPayment fails with ErrDuplicateTransaction when the external
	// transaction id was seen before.
	InsertPayment(ctx context.Context, payment domain.Payment) (uuid.UUID, error)

	GetPaymentByOrder(ctx context.Context, orderID, buyerID uuid.UUID) (domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
}
