package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmesh/shopmesh/internal/domain"
)

// ProductRepository is both the catalog store and the inventory ledger.
// ReserveStock and ReleaseStock are only meaningful inside a unit of work:
// the check-then-decrement must not be separated by another writer.
type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	// ReserveStock decrements stock by qty and returns the name/price
	// snapshot taken under the same lock. Fails with ErrInsufficientStock
	// when stock < qty, ErrProductNotFound when the row is absent.
	ReserveStock(ctx context.Context, productID uuid.UUID, qty int) (domain.StockSnapshot, error)

	// ReleaseStock increments stock by qty, compensating a prior reservation.
	ReleaseStock(ctx context.Context, productID uuid.UUID, qty int) error
}
