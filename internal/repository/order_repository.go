package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"golang.org/x/text/currency"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

type orderRepository struct {
	q querier
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{q: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{q: tx}
}

const orderColumns = `id, buyer_id, status, total_amount, total_currency,
	ship_full_name, ship_phone, ship_address1, ship_address2, ship_city,
	ship_postal_code, ship_country,
	payment_method, payment_provider_ref, payment_paid_at, payment_status,
	note, created_at, updated_at`

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.q, func(tx querier) (domain.Order, error) {
		row := tx.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)

		order, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, domain.ErrOrderNotFound
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		items, err := getOrderItems(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderItems: %w", err)
		}
		order.Items = items

		sellerIDs, err := getOrderSellers(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderSellers: %w", err)
		}
		order.SellerIDs = sellerIDs

		return order, nil
	})
	if err != nil {
		return o, err
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, domain.ErrEmptyOrder
	}

	orderID, err := withTx(ctx, r.q, func(tx querier) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx, `
			INSERT INTO orders (buyer_id, status, total_amount, total_currency,
				ship_full_name, ship_phone, ship_address1, ship_address2,
				ship_city, ship_postal_code, ship_country,
				payment_method, payment_status, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id`,
			order.BuyerID, string(order.Status),
			order.Total.Amount, order.Total.Currency.String(),
			order.Shipping.FullName, order.Shipping.Phone,
			order.Shipping.AddressLine1, order.Shipping.AddressLine2,
			order.Shipping.City, order.Shipping.PostalCode, order.Shipping.Country,
			order.Payment.Method, string(order.Payment.Status), order.Note,
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		// position preserves the input order of lines, duplicates included
		for i, item := range order.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items (order_id, position, product_id, seller_id,
					name, price_amount, price_currency, qty, sub_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				orderID, i, item.ProductID, item.SellerID, item.Name,
				item.Price.Amount, item.Price.Currency.String(),
				item.Qty, item.SubTotal.Amount,
			); err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		for _, sellerID := range order.SellerIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_sellers (order_id, seller_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				orderID, sellerID,
			); err != nil {
				return uuid.Nil, fmt.Errorf("insert order seller: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, payment domain.PaymentDetails) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return err
	}

	cmdTag, err := r.q.Exec(ctx, `
		UPDATE orders
		SET status = $2,
			payment_provider_ref = $3,
			payment_paid_at = $4,
			payment_status = $5,
			updated_at = now()
		WHERE id = $1`,
		orderID, string(status),
		payment.ProviderReference, payment.PaidAt, string(payment.Status),
	)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) MarkCancelled(ctx context.Context, orderID uuid.UUID, from []domain.OrderStatus) error {
	statuses := lo.Map(from, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	cmdTag, err := r.q.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)`,
		orderID, string(domain.OrderStatusCancelled), statuses,
	)
	if err != nil {
		return fmt.Errorf("q.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 1 {
		return nil
	}

	// Distinguish a missing order from one in a non-cancellable stage.
	var current string
	err = r.q.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("q.QueryRow: %w", err)
	}

	return fmt.Errorf("status[%s]: %w", current, domain.ErrIllegalCancellation)
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, fmt.Errorf("filter.Validate: %w", err)
	}
	filter = filter.Normalize()

	statuses := lo.Map(filter.Statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	var createdAfter, createdBefore *time.Time
	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	const matchClause = `
		(cardinality($1::uuid[]) = 0 OR o.buyer_id = ANY($1)) AND
		(cardinality($2::uuid[]) = 0 OR EXISTS (
			SELECT 1 FROM order_sellers os
			WHERE os.order_id = o.id AND os.seller_id = ANY($2))) AND
		(cardinality($3::text[]) = 0 OR o.status = ANY($3)) AND
		($4::timestamptz IS NULL OR o.created_at >= $4) AND
		($5::timestamptz IS NULL OR o.created_at <= $5)`

	args := []any{
		emptySliceIfNil(filter.BuyerIDs),
		emptySliceIfNil(filter.SellerIDs),
		emptySliceIfNil(statuses),
		createdAfter,
		createdBefore,
	}

	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM orders o WHERE`+matchClause, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE`+matchClause+`
		ORDER BY o.created_at DESC
		LIMIT $6 OFFSET $7`,
		append(args, filter.Limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows.Err: %w", err)
	}

	for i := range orders {
		items, err := getOrderItems(ctx, r.q, orders[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("getOrderItems: %w", err)
		}
		orders[i].Items = items

		sellerIDs, err := getOrderSellers(ctx, r.q, orders[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("getOrderSellers: %w", err)
		}
		orders[i].SellerIDs = sellerIDs
	}

	return orders, total, nil
}

func getOrderItems(ctx context.Context, q querier, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, seller_id, name, price_amount, price_currency, qty, sub_total
		FROM order_items WHERE order_id = $1
		ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item          domain.OrderItem
			priceCurrency string
		)
		if err := rows.Scan(&item.ProductID, &item.SellerID, &item.Name,
			&item.Price.Amount, &priceCurrency, &item.Qty,
			&item.SubTotal.Amount); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		parsedCurrency, err := currency.ParseISO(priceCurrency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
		}
		item.Price.Currency = parsedCurrency
		item.SubTotal.Currency = parsedCurrency

		items = append(items, item)
	}

	return items, rows.Err()
}

func getOrderSellers(ctx context.Context, q querier, orderID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(ctx,
		`SELECT seller_id FROM order_sellers WHERE order_id = $1 ORDER BY seller_id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var sellerIDs []uuid.UUID
	for rows.Next() {
		var sellerID uuid.UUID
		if err := rows.Scan(&sellerID); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		sellerIDs = append(sellerIDs, sellerID)
	}

	return sellerIDs, rows.Err()
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o             domain.Order
		status        string
		totalCurrency string
		paymentStatus string
		providerRef   *string
		note          *string
	)

	if err := row.Scan(&o.ID, &o.BuyerID, &status,
		&o.Total.Amount, &totalCurrency,
		&o.Shipping.FullName, &o.Shipping.Phone,
		&o.Shipping.AddressLine1, &o.Shipping.AddressLine2,
		&o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Country,
		&o.Payment.Method, &providerRef, &o.Payment.PaidAt, &paymentStatus,
		&note, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}

	parsedStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}
	o.Status = parsedStatus

	parsedCurrency, err := currency.ParseISO(totalCurrency)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", totalCurrency, err)
	}
	o.Total.Currency = parsedCurrency

	o.Payment.Status = domain.PaymentStatus(paymentStatus)
	o.Payment.ProviderReference = lo.FromPtr(providerRef)
	o.Note = lo.FromPtr(note)

	return o, nil
}

func emptySliceIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
