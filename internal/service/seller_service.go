package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

type SellerService struct {
	sellers port.SellerRepository
	logger  *zap.Logger
}

func NewSeller(sellers port.SellerRepository, logger *zap.Logger) *SellerService {
	return &SellerService{sellers: sellers, logger: logger}
}

// RegisterSeller files an onboarding request. New sellers start unapproved
// and cannot list products until an admin approves them.
func (s *SellerService) RegisterSeller(ctx context.Context, caller domain.Caller, seller domain.Seller) (domain.Seller, error) {
	seller.UserID = caller.UserID
	seller.Approved = false

	if err := seller.Validate(); err != nil {
		return domain.Seller{}, err
	}

	sellerID, err := s.sellers.InsertSeller(ctx, seller)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("sellers.InsertSeller: %w", err)
	}

	created, err := s.sellers.GetSeller(ctx, sellerID)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("sellers.GetSeller: %w", err)
	}

	s.logger.Info("seller registered",
		zap.String("seller_id", sellerID.String()),
		zap.String("shop", seller.ShopName))

	return created, nil
}

func (s *SellerService) GetSeller(ctx context.Context, sellerID uuid.UUID) (domain.Seller, error) {
	return s.sellers.GetSeller(ctx, sellerID)
}

func (s *SellerService) ListSellers(ctx context.Context, caller domain.Caller) ([]domain.Seller, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	return s.sellers.ListSellers(ctx)
}

// UpdateSeller rewrites the profile. Allowed for the seller's own user or an
// admin; approval state moves only through ApproveSeller.
func (s *SellerService) UpdateSeller(ctx context.Context, caller domain.Caller, seller domain.Seller) (domain.Seller, error) {
	existing, err := s.sellers.GetSeller(ctx, seller.ID)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("sellers.GetSeller: %w", err)
	}

	if !caller.IsAdmin() && existing.UserID != caller.UserID {
		return domain.Seller{}, domain.ErrForbidden
	}

	if err := seller.Validate(); err != nil {
		return domain.Seller{}, err
	}

	if err := s.sellers.UpdateSeller(ctx, seller); err != nil {
		return domain.Seller{}, fmt.Errorf("sellers.UpdateSeller: %w", err)
	}

	return s.sellers.GetSeller(ctx, seller.ID)
}

// DeleteSeller removes the selling entity, admin only. Their products lose
// the seller assignment and stop being orderable.
func (s *SellerService) DeleteSeller(ctx context.Context, caller domain.Caller, sellerID uuid.UUID) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.sellers.DeleteSeller(ctx, sellerID); err != nil {
		return fmt.Errorf("sellers.DeleteSeller: %w", err)
	}

	s.logger.Info("seller deleted", zap.String("seller_id", sellerID.String()))

	return nil
}

func (s *SellerService) ApproveSeller(ctx context.Context, caller domain.Caller, sellerID uuid.UUID) (domain.Seller, error) {
	if !caller.IsAdmin() {
		return domain.Seller{}, domain.ErrForbidden
	}

	if err := s.sellers.SetSellerApproval(ctx, sellerID, true); err != nil {
		return domain.Seller{}, fmt.Errorf("sellers.SetSellerApproval: %w", err)
	}

	return s.sellers.GetSeller(ctx, sellerID)
}
