package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/currency"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

type paymentRepository struct {
	q querier
}

func NewPayment(pool *pgxpool.Pool) port.PaymentRepository {
	return &paymentRepository{q: pool}
}

const paymentColumns = `id, buyer_id, order_id, amount, currency, method,
	transaction_id, status, paid_at, notes, created_at`

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func (r *paymentRepository) InsertPayment(ctx context.Context, payment domain.Payment) (uuid.UUID, error) {
	var paymentID uuid.UUID

	err := r.q.QueryRow(ctx, `
		INSERT INTO payments (buyer_id, order_id, amount, currency, method,
			transaction_id, status, paid_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		payment.BuyerID, payment.OrderID,
		payment.Amount.Amount, payment.Amount.Currency.String(),
		payment.Method, payment.TransactionID, string(payment.Status),
		payment.PaidAt, payment.Notes,
	).Scan(&paymentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, fmt.Errorf("transactionId[%s]: %w",
				payment.TransactionID, domain.ErrDuplicateTransaction)
		}
		return uuid.Nil, fmt.Errorf("q.QueryRow: %w", err)
	}

	return paymentID, nil
}

func (r *paymentRepository) GetPaymentByOrder(ctx context.Context, orderID, buyerID uuid.UUID) (domain.Payment, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 AND buyer_id = $2`,
		orderID, buyerID)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment, domain.ErrPaymentNotFound
		}
		return payment, fmt.Errorf("scanPayment: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("q.Query: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanPayment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var (
		p          domain.Payment
		amountCurr string
		status     string
	)

	if err := row.Scan(&p.ID, &p.BuyerID, &p.OrderID,
		&p.Amount.Amount, &amountCurr, &p.Method, &p.TransactionID,
		&status, &p.PaidAt, &p.Notes, &p.CreatedAt); err != nil {
		return p, err
	}

	parsedCurrency, err := currency.ParseISO(amountCurr)
	if err != nil {
		return p, fmt.Errorf("currency[%s] is not valid: %w", amountCurr, err)
	}
	p.Amount.Currency = parsedCurrency
	p.Status = domain.PaymentStatus(status)

	return p, nil
}
