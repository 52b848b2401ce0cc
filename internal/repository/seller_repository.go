package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

type sellerRepository struct {
	q querier
}

func NewSeller(pool *pgxpool.Pool) port.SellerRepository {
	return &sellerRepository{q: pool}
}

const sellerColumns = `id, user_id, name, email, shop_name, phone, address,
	approved, created_at, updated_at`

func (r *sellerRepository) GetSeller(ctx context.Context, sellerID uuid.UUID) (domain.Seller, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, sellerID)

	return scanSellerRow(row)
}

func (r *sellerRepository) FindSellerByUser(ctx context.Context, userID uuid.UUID) (domain.Seller, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+sellerColumns+` FROM sellers WHERE user_id = $1`, userID)

	return scanSellerRow(row)
}

func (r *sellerRepository) ListSellers(ctx context.Context) ([]domain.Seller, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+sellerColumns+` FROM sellers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var sellers []domain.Seller
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scanSeller: %w", err)
		}
		sellers = append(sellers, seller)
	}

	return sellers, rows.Err()
}

func (r *sellerRepository) InsertSeller(ctx context.Context, seller domain.Seller) (uuid.UUID, error) {
	var sellerID uuid.UUID

	err := r.q.QueryRow(ctx, `
		INSERT INTO sellers (user_id, name, email, shop_name, phone, address, approved)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		RETURNING id`,
		seller.UserID, seller.Name, seller.Email, seller.ShopName,
		seller.Phone, seller.Address,
	).Scan(&sellerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, domain.ErrSellerExists
		}
		return uuid.Nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return sellerID, nil
}

func (r *sellerRepository) UpdateSeller(ctx context.Context, seller domain.Seller) error {
	cmdTag, err := r.q.Exec(ctx, `
		UPDATE sellers
		SET name = $2, email = $3, shop_name = $4, phone = $5, address = $6,
			updated_at = now()
		WHERE id = $1`,
		seller.ID, seller.Name, seller.Email, seller.ShopName,
		seller.Phone, seller.Address,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrSellerExists
		}
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSellerNotFound
	}

	return nil
}

func (r *sellerRepository) DeleteSeller(ctx context.Context, sellerID uuid.UUID) error {
	cmdTag, err := r.q.Exec(ctx, `DELETE FROM sellers WHERE id = $1`, sellerID)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSellerNotFound
	}

	return nil
}

func (r *sellerRepository) SetSellerApproval(ctx context.Context, sellerID uuid.UUID, approved bool) error {
	cmdTag, err := r.q.Exec(ctx,
		`UPDATE sellers SET approved = $2, updated_at = now() WHERE id = $1`,
		sellerID, approved)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSellerNotFound
	}

	return nil
}

func scanSellerRow(row pgx.Row) (domain.Seller, error) {
	seller, err := scanSeller(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return seller, domain.ErrSellerNotFound
		}
		return seller, fmt.Errorf("scanSeller: %w", err)
	}

	return seller, nil
}

func scanSeller(row pgx.Row) (domain.Seller, error) {
	var s domain.Seller

	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Email, &s.ShopName,
		&s.Phone, &s.Address, &s.Approved, &s.CreatedAt, &s.UpdatedAt)

	return s, err
}
