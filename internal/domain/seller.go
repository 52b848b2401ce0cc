package domain

import (
	"time"

	"github.com/google/uuid"
)

// Seller is an approved selling entity linked to exactly one user account.
type Seller struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Email    string
	ShopName string
	Phone    string
	Address  string
	Approved bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Seller) Validate() error {
	required := map[string]string{
		"name":     s.Name,
		"email":    s.Email,
		"shopName": s.ShopName,
		"phone":    s.Phone,
	}

	for field, value := range required {
		if value == "" {
			return FieldError{Field: field, Reason: "is required"}
		}
	}

	return nil
}
