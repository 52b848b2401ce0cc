package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID        uuid.UUID
	BuyerID   uuid.UUID
	Items     []OrderItem
	Shipping  ShippingAddress
	Payment   PaymentDetails
	Total     Money
	Status    OrderStatus
	SellerIDs []uuid.UUID // distinct sellers across Items, stored for queries
	Note      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a snapshot of the product at order time: later catalog edits
// must not change what the buyer agreed to pay.
type OrderItem struct {
	ProductID uuid.UUID
	SellerID  uuid.UUID
	Name      string
	Price     Money
	Qty       int
	SubTotal  Money
}

type ShippingAddress struct {
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
}

func (a ShippingAddress) Validate() error {
	// address line 2 is the only optional field
	required := map[string]string{
		"fullName":     a.FullName,
		"phone":        a.Phone,
		"addressLine1": a.AddressLine1,
		"city":         a.City,
		"postalCode":   a.PostalCode,
		"country":      a.Country,
	}

	for field, value := range required {
		if value == "" {
			return FieldError{Field: field, Reason: "is required"}
		}
	}

	return nil
}

// PaymentDetails is the payment sub-record embedded in an order. Its
// lifecycle is linked to, but independent from, Payment records.
type PaymentDetails struct {
	Method            string
	ProviderReference string
	PaidAt            *time.Time
	Status            PaymentStatus
}

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Reason
}
