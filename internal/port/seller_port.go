package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmesh/shopmesh/internal/domain"
)

type SellerRepository interface {
	GetSeller(ctx context.Context, sellerID uuid.UUID) (domain.Seller, error)

	// FindSellerByUser resolves an authenticated user to their seller
	// record, ErrSellerNotFound when the user has none.
	FindSellerByUser(ctx context.Context, userID uuid.UUID) (domain.Seller, error)

	ListSellers(ctx context.Context) ([]domain.Seller, error)
	InsertSeller(ctx context.Context, seller domain.Seller) (uuid.UUID, error)

	// UpdateSeller rewrites the profile fields. Approval is not touched here,
	// it moves only through SetSellerApproval.
	UpdateSeller(ctx context.Context, seller domain.Seller) error
	DeleteSeller(ctx context.Context, sellerID uuid.UUID) error
	SetSellerApproval(ctx context.Context, sellerID uuid.UUID, approved bool) error
}
