package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmesh/shopmesh/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	// SearchOrders applies the filter with pagination and returns the total
	// match count alongside the page.
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, payment domain.PaymentDetails) error

	// MarkCancelled sets the status to Cancelled only when the current
	// status is in from. The conditional write is the double-cancellation
	// guard: of two concurrent cancels exactly one observes a matching
	// status, so compensation runs at most once.
	MarkCancelled(ctx context.Context, orderID uuid.UUID, from []domain.OrderStatus) error
}
