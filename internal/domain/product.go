package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID
	SellerID    uuid.UUID // uuid.Nil when not yet assigned to a seller
	Name        string
	Description string
	Category    string
	ImageURL    string
	Price       Money
	Stock       int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Validate() error {
	if p.Name == "" {
		return FieldError{Field: "name", Reason: "is required"}
	}
	if p.Stock < 0 {
		return FieldError{Field: "stock", Reason: "must not be negative"}
	}
	if err := p.Price.Validate(); err != nil {
		return FieldError{Field: "price", Reason: err.Error()}
	}
	return nil
}

// StockSnapshot is what the inventory ledger returns from a successful
// reservation: the name and price captured under the row lock.
type StockSnapshot struct {
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Name      string
	Price     Money
}
