package domain

import "errors"

// Sentinel errors shared across repositories and services. The HTTP layer
// maps them to status codes, everything else wraps them with context.
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrSellerNotFound  = errors.New("seller not found")

	ErrEmptyOrder       = errors.New("order has no items")
	ErrInvalidItem      = errors.New("invalid order item")
	ErrMixedCurrency    = errors.New("mixed currencies in order")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrNoSellerAssigned = errors.New("product has no seller")

	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrIllegalCancellation  = errors.New("order cannot be cancelled at this stage")
	ErrDuplicateTransaction = errors.New("transaction id already exists")
	ErrSellerExists         = errors.New("seller already registered")

	ErrForbidden = errors.New("access denied")
)
