package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

type CatalogService struct {
	products port.ProductRepository
	sellers  port.SellerRepository
}

func NewCatalog(products port.ProductRepository, sellers port.SellerRepository) *CatalogService {
	return &CatalogService{products: products, sellers: sellers}
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller domain.Caller, product domain.Product) (domain.Product, error) {
	seller, err := s.resolveApprovedSeller(ctx, caller)
	if err != nil {
		return domain.Product{}, err
	}

	product.SellerID = seller.ID
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	productID, err := s.products.InsertProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.InsertProduct: %w", err)
	}

	created, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	return created, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	return s.products.GetProduct(ctx, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *CatalogService) ListMyProducts(ctx context.Context, caller domain.Caller) ([]domain.Product, error) {
	seller, err := s.sellers.FindSellerByUser(ctx, caller.UserID)
	if err != nil {
		return nil, domain.ErrForbidden
	}

	return s.products.ListProductsBySeller(ctx, seller.ID)
}

// UpdateProduct is restricted to the seller owning the product.
func (s *CatalogService) UpdateProduct(ctx context.Context, caller domain.Caller, product domain.Product) (domain.Product, error) {
	if err := s.checkOwnership(ctx, caller, product.ID); err != nil {
		return domain.Product{}, err
	}

	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("products.UpdateProduct: %w", err)
	}

	return s.products.GetProduct(ctx, product.ID)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller domain.Caller, productID uuid.UUID) error {
	if err := s.checkOwnership(ctx, caller, productID); err != nil {
		return err
	}

	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("products.DeleteProduct: %w", err)
	}

	return nil
}

func (s *CatalogService) checkOwnership(ctx context.Context, caller domain.Caller, productID uuid.UUID) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("products.GetProduct: %w", err)
	}

	seller, err := s.sellers.FindSellerByUser(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSellerNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("sellers.FindSellerByUser: %w", err)
	}

	if product.SellerID != seller.ID {
		return domain.ErrForbidden
	}

	return nil
}

func (s *CatalogService) resolveApprovedSeller(ctx context.Context, caller domain.Caller) (domain.Seller, error) {
	seller, err := s.sellers.FindSellerByUser(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSellerNotFound) {
			return domain.Seller{}, domain.ErrForbidden
		}
		return domain.Seller{}, fmt.Errorf("sellers.FindSellerByUser: %w", err)
	}

	if !seller.Approved {
		return domain.Seller{}, domain.ErrForbidden
	}

	return seller, nil
}
