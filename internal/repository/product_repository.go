package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

type productRepository struct {
	q querier
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{q: pool}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{q: tx}
}

const productColumns = `id, seller_id, name, description, category, image_url,
	price_amount, price_currency, stock, created_at, updated_at`

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	row := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, domain.ErrProductNotFound
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) ListProductsBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	var productID uuid.UUID

	err := r.q.QueryRow(ctx, `
		INSERT INTO products (seller_id, name, description, category, image_url,
			price_amount, price_currency, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		nullableUUID(product.SellerID), product.Name, product.Description,
		product.Category, product.ImageURL,
		product.Price.Amount, product.Price.Currency.String(), product.Stock,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return productID, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	cmdTag, err := r.q.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, image_url = $5,
			price_amount = $6, price_currency = $7, stock = $8, updated_at = now()
		WHERE id = $1`,
		product.ID, product.Name, product.Description, product.Category,
		product.ImageURL, product.Price.Amount, product.Price.Currency.String(),
		product.Stock,
	)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	cmdTag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// ReserveStock locks the product row, verifies availability and decrements in
// the same scope, so two concurrent reservations against the same product are
// serialized by the row lock: one of two jointly overselling calls must fail.
func (r *productRepository) ReserveStock(ctx context.Context, productID uuid.UUID, qty int) (domain.StockSnapshot, error) {
	var s domain.StockSnapshot

	var (
		sellerID      *uuid.UUID
		name          string
		priceAmount   decimal.Decimal
		priceCurrency string
		stock         int
	)

	err := r.q.QueryRow(ctx, `
		SELECT seller_id, name, price_amount, price_currency, stock
		FROM products WHERE id = $1
		FOR UPDATE`, productID,
	).Scan(&sellerID, &name, &priceAmount, &priceCurrency, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s, domain.ErrProductNotFound
		}
		return s, fmt.Errorf("q.QueryRow: %w", err)
	}

	if stock < qty {
		return s, fmt.Errorf("product[%s] stock[%d] < qty[%d]: %w",
			name, stock, qty, domain.ErrInsufficientStock)
	}

	if sellerID == nil {
		return s, fmt.Errorf("product[%s]: %w", name, domain.ErrNoSellerAssigned)
	}

	if _, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1`,
		productID, qty); err != nil {
		return s, fmt.Errorf("q.Exec: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(priceCurrency)
	if err != nil {
		return s, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
	}

	return domain.StockSnapshot{
		ProductID: productID,
		SellerID:  *sellerID,
		Name:      name,
		Price:     domain.Money{Amount: priceAmount, Currency: parsedCurrency},
	}, nil
}

func (r *productRepository) ReleaseStock(ctx context.Context, productID uuid.UUID, qty int) error {
	cmdTag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		productID, qty)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p             domain.Product
		sellerID      *uuid.UUID
		priceCurrency string
	)

	if err := row.Scan(&p.ID, &sellerID, &p.Name, &p.Description, &p.Category,
		&p.ImageURL, &p.Price.Amount, &priceCurrency, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return p, err
	}

	if sellerID != nil {
		p.SellerID = *sellerID
	}

	parsedCurrency, err := currency.ParseISO(priceCurrency)
	if err != nil {
		return p, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
	}
	p.Price.Currency = parsedCurrency

	return p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
