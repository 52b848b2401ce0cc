package httpx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/shopmesh/shopmesh/internal/domain"
)

// Amounts travel as decimal strings with an ISO-4217 currency code alongside.

type orderItemDTO struct {
	ProductID uuid.UUID `json:"productId"`
	SellerID  uuid.UUID `json:"sellerId"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Qty       int       `json:"qty"`
	SubTotal  string    `json:"subTotal"`
}

type shippingAddressDTO struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type paymentDetailsDTO struct {
	Method            string     `json:"method"`
	ProviderReference string     `json:"providerReference,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	Status            string     `json:"status"`
}

type orderDTO struct {
	ID          uuid.UUID          `json:"id"`
	BuyerID     uuid.UUID          `json:"buyerId"`
	Items       []orderItemDTO     `json:"items"`
	Shipping    shippingAddressDTO `json:"shippingAddress"`
	Payment     paymentDetailsDTO  `json:"payment"`
	TotalAmount string             `json:"totalAmount"`
	Currency    string             `json:"currency"`
	Status      string             `json:"status"`
	SellerIDs   []uuid.UUID        `json:"sellerIds"`
	Note        string             `json:"note,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toOrderDTO(o domain.Order) orderDTO {
	items := lo.Map(o.Items, func(item domain.OrderItem, _ int) orderItemDTO {
		return orderItemDTO{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Name:      item.Name,
			Price:     item.Price.Amount.String(),
			Qty:       item.Qty,
			SubTotal:  item.SubTotal.Amount.String(),
		}
	})

	return orderDTO{
		ID:      o.ID,
		BuyerID: o.BuyerID,
		Items:   items,
		Shipping: shippingAddressDTO{
			FullName:     o.Shipping.FullName,
			Phone:        o.Shipping.Phone,
			AddressLine1: o.Shipping.AddressLine1,
			AddressLine2: o.Shipping.AddressLine2,
			City:         o.Shipping.City,
			PostalCode:   o.Shipping.PostalCode,
			Country:      o.Shipping.Country,
		},
		Payment: paymentDetailsDTO{
			Method:            o.Payment.Method,
			ProviderReference: o.Payment.ProviderReference,
			PaidAt:            o.Payment.PaidAt,
			Status:            string(o.Payment.Status),
		},
		TotalAmount: o.Total.Amount.String(),
		Currency:    o.Total.Currency.String(),
		Status:      string(o.Status),
		SellerIDs:   o.SellerIDs,
		Note:        o.Note,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOrderDTOs(orders []domain.Order) []orderDTO {
	return lo.Map(orders, func(o domain.Order, _ int) orderDTO {
		return toOrderDTO(o)
	})
}

type productDTO struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"sellerId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Price:       p.Price.Amount.String(),
		Currency:    p.Price.Currency.String(),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductDTOs(products []domain.Product) []productDTO {
	return lo.Map(products, func(p domain.Product, _ int) productDTO {
		return toProductDTO(p)
	})
}

type paymentDTO struct {
	ID            uuid.UUID  `json:"id"`
	BuyerID       uuid.UUID  `json:"buyerId"`
	OrderID       uuid.UUID  `json:"orderId"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Method        string     `json:"method"`
	TransactionID string     `json:"transactionId"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toPaymentDTO(p domain.Payment) paymentDTO {
	return paymentDTO{
		ID:            p.ID,
		BuyerID:       p.BuyerID,
		OrderID:       p.OrderID,
		Amount:        p.Amount.Amount.String(),
		Currency:      p.Amount.Currency.String(),
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		PaidAt:        p.PaidAt,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

type sellerDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ShopName  string    `json:"shopName"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	Approved  bool      `json:"isApproved"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSellerDTO(s domain.Seller) sellerDTO {
	return sellerDTO{
		ID:        s.ID,
		UserID:    s.UserID,
		Name:      s.Name,
		Email:     s.Email,
		ShopName:  s.ShopName,
		Phone:     s.Phone,
		Address:   s.Address,
		Approved:  s.Approved,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func parseMoney(amount, currencyCode string) (domain.Money, error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, domain.FieldError{Field: "amount", Reason: "must be a decimal number"}
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Money{}, domain.FieldError{Field: "currency", Reason: fmt.Sprintf("[%s] is not a valid ISO code", currencyCode)}
	}

	return domain.Money{Amount: parsedAmount, Currency: parsedCurrency}, nil
}
