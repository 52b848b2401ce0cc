package domain

import (
	"time"

	"github.com/google/uuid"
)

// Payment is a standalone record of money movement against an order. It is
// causally linked to the order's payment sub-record but not enforced to match.
type Payment struct {
	ID            uuid.UUID
	BuyerID       uuid.UUID
	OrderID       uuid.UUID
	Amount        Money
	Method        string
	TransactionID string // gateway reference, globally unique
	Status        PaymentStatus
	PaidAt        *time.Time
	Notes         string

	CreatedAt time.Time
}

func (p Payment) Validate() error {
	if p.OrderID == uuid.Nil {
		return FieldError{Field: "order", Reason: "is required"}
	}
	if p.TransactionID == "" {
		return FieldError{Field: "transactionId", Reason: "is required"}
	}
	if p.Method == "" {
		return FieldError{Field: "method", Reason: "is required"}
	}
	if !p.Amount.Amount.IsPositive() {
		return FieldError{Field: "amount", Reason: "must be positive"}
	}
	return nil
}
