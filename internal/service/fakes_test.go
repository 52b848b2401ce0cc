package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

// memStores is an in-memory stand-in for the postgres-backed repositories.
// Its unit of work snapshots state on begin and restores it when fn fails,
// so the atomicity the services rely on holds in unit tests too.
type memStores struct {
	mu       sync.Mutex
	products map[uuid.UUID]domain.Product
	orders   map[uuid.UUID]domain.Order
	sellers  map[uuid.UUID]domain.Seller
}

func newMemStores() *memStores {
	return &memStores{
		products: map[uuid.UUID]domain.Product{},
		orders:   map[uuid.UUID]domain.Order{},
		sellers:  map[uuid.UUID]domain.Seller{},
	}
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	o.SellerIDs = append([]uuid.UUID(nil), o.SellerIDs...)
	return o
}

func (s *memStores) snapshot() (map[uuid.UUID]domain.Product, map[uuid.UUID]domain.Order) {
	products := map[uuid.UUID]domain.Product{}
	for id, p := range s.products {
		products[id] = p
	}

	orders := map[uuid.UUID]domain.Order{}
	for id, o := range s.orders {
		orders[id] = cloneOrder(o)
	}

	return products, orders
}

type memUnit struct {
	s *memStores
}

func (u *memUnit) Within(ctx context.Context, fn func(ctx context.Context, stores port.TxStores) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	products, orders := u.s.snapshot()

	err := fn(ctx, &memTxStores{s: u.s})
	if err != nil {
		u.s.products = products
		u.s.orders = orders
		return err
	}

	return nil
}

type memTxStores struct {
	s *memStores
}

func (t *memTxStores) Orders() port.OrderRepository     { return &memOrders{s: t.s, inTx: true} }
func (t *memTxStores) Products() port.ProductRepository { return &memProducts{s: t.s, inTx: true} }

type memOrders struct {
	s    *memStores
	inTx bool // the unit of work already holds the lock
}

func (r *memOrders) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memOrders) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	defer r.lock()()

	order, ok := r.s.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return cloneOrder(order), nil
}

func (r *memOrders) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	defer r.lock()()

	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	filter = filter.Normalize()

	var matched []domain.Order
	for _, order := range r.s.orders {
		if len(filter.BuyerIDs) > 0 && !lo.Contains(filter.BuyerIDs, order.BuyerID) {
			continue
		}
		if len(filter.SellerIDs) > 0 && len(lo.Intersect(filter.SellerIDs, order.SellerIDs)) == 0 {
			continue
		}
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, order.Status) {
			continue
		}
		if filter.CreatedAt != nil {
			if filter.CreatedAt.After != nil && order.CreatedAt.Before(*filter.CreatedAt.After) {
				continue
			}
			if filter.CreatedAt.Before != nil && order.CreatedAt.After(*filter.CreatedAt.Before) {
				continue
			}
		}
		matched = append(matched, cloneOrder(order))
	}

	total := len(matched)

	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := min(offset+filter.Limit, len(matched))

	return matched[offset:end], total, nil
}

func (r *memOrders) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	defer r.lock()()

	if len(order.Items) == 0 {
		return uuid.Nil, domain.ErrEmptyOrder
	}

	order.ID = uuid.New()
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	r.s.orders[order.ID] = cloneOrder(order)

	return order.ID, nil
}

func (r *memOrders) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus, payment domain.PaymentDetails) error {
	defer r.lock()()

	order, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}

	order.Status = status
	order.Payment = payment
	order.UpdatedAt = time.Now().UTC()
	r.s.orders[orderID] = order

	return nil
}

func (r *memOrders) MarkCancelled(_ context.Context, orderID uuid.UUID, from []domain.OrderStatus) error {
	defer r.lock()()

	order, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}

	if !lo.Contains(from, order.Status) {
		return fmt.Errorf("status[%s]: %w", order.Status, domain.ErrIllegalCancellation)
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()
	r.s.orders[orderID] = order

	return nil
}

type memProducts struct {
	s    *memStores
	inTx bool
}

func (r *memProducts) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memProducts) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	defer r.lock()()

	product, ok := r.s.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return product, nil
}

func (r *memProducts) ListProducts(_ context.Context) ([]domain.Product, error) {
	defer r.lock()()

	return lo.Values(r.s.products), nil
}

func (r *memProducts) ListProductsBySeller(_ context.Context, sellerID uuid.UUID) ([]domain.Product, error) {
	defer r.lock()()

	return lo.Filter(lo.Values(r.s.products), func(p domain.Product, _ int) bool {
		return p.SellerID == sellerID
	}), nil
}

func (r *memProducts) InsertProduct(_ context.Context, product domain.Product) (uuid.UUID, error) {
	defer r.lock()()

	product.ID = uuid.New()
	r.s.products[product.ID] = product

	return product.ID, nil
}

func (r *memProducts) UpdateProduct(_ context.Context, product domain.Product) error {
	defer r.lock()()

	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.s.products[product.ID] = product

	return nil
}

func (r *memProducts) DeleteProduct(_ context.Context, productID uuid.UUID) error {
	defer r.lock()()

	if _, ok := r.s.products[productID]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.products, productID)

	return nil
}

func (r *memProducts) ReserveStock(_ context.Context, productID uuid.UUID, qty int) (domain.StockSnapshot, error) {
	defer r.lock()()

	product, ok := r.s.products[productID]
	if !ok {
		return domain.StockSnapshot{}, domain.ErrProductNotFound
	}

	if product.Stock < qty {
		return domain.StockSnapshot{}, fmt.Errorf("product[%s] stock[%d] < qty[%d]: %w",
			product.Name, product.Stock, qty, domain.ErrInsufficientStock)
	}

	if product.SellerID == uuid.Nil {
		return domain.StockSnapshot{}, fmt.Errorf("product[%s]: %w", product.Name, domain.ErrNoSellerAssigned)
	}

	product.Stock -= qty
	r.s.products[productID] = product

	return domain.StockSnapshot{
		ProductID: product.ID,
		SellerID:  product.SellerID,
		Name:      product.Name,
		Price:     product.Price,
	}, nil
}

func (r *memProducts) ReleaseStock(_ context.Context, productID uuid.UUID, qty int) error {
	defer r.lock()()

	product, ok := r.s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}

	product.Stock += qty
	r.s.products[productID] = product

	return nil
}

type memSellers struct {
	s *memStores
}

func (r *memSellers) GetSeller(_ context.Context, sellerID uuid.UUID) (domain.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seller, ok := r.s.sellers[sellerID]
	if !ok {
		return domain.Seller{}, domain.ErrSellerNotFound
	}

	return seller, nil
}

func (r *memSellers) FindSellerByUser(_ context.Context, userID uuid.UUID) (domain.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, seller := range r.s.sellers {
		if seller.UserID == userID {
			return seller, nil
		}
	}

	return domain.Seller{}, domain.ErrSellerNotFound
}

func (r *memSellers) ListSellers(_ context.Context) ([]domain.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return lo.Values(r.s.sellers), nil
}

func (r *memSellers) InsertSeller(_ context.Context, seller domain.Seller) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.sellers {
		if existing.UserID == seller.UserID || existing.Email == seller.Email {
			return uuid.Nil, domain.ErrSellerExists
		}
	}

	seller.ID = uuid.New()
	seller.Approved = false
	r.s.sellers[seller.ID] = seller

	return seller.ID, nil
}

func (r *memSellers) UpdateSeller(_ context.Context, seller domain.Seller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.sellers[seller.ID]
	if !ok {
		return domain.ErrSellerNotFound
	}

	for id, other := range r.s.sellers {
		if id != seller.ID && other.Email == seller.Email {
			return domain.ErrSellerExists
		}
	}

	seller.UserID = existing.UserID
	seller.Approved = existing.Approved
	r.s.sellers[seller.ID] = seller

	return nil
}

func (r *memSellers) DeleteSeller(_ context.Context, sellerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sellers[sellerID]; !ok {
		return domain.ErrSellerNotFound
	}
	delete(r.s.sellers, sellerID)

	return nil
}

func (r *memSellers) SetSellerApproval(_ context.Context, sellerID uuid.UUID, approved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seller, ok := r.s.sellers[sellerID]
	if !ok {
		return domain.ErrSellerNotFound
	}

	seller.Approved = approved
	r.s.sellers[sellerID] = seller

	return nil
}

type memPayments struct {
	mu       sync.Mutex
	payments map[uuid.UUID]domain.Payment
}

func newMemPayments() *memPayments {
	return &memPayments{payments: map[uuid.UUID]domain.Payment{}}
}

func (r *memPayments) InsertPayment(_ context.Context, payment domain.Payment) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payments {
		if existing.TransactionID == payment.TransactionID {
			return uuid.Nil, fmt.Errorf("transactionId[%s]: %w",
				payment.TransactionID, domain.ErrDuplicateTransaction)
		}
	}

	payment.ID = uuid.New()
	payment.CreatedAt = time.Now().UTC()
	r.payments[payment.ID] = payment

	return payment.ID, nil
}

func (r *memPayments) GetPaymentByOrder(_ context.Context, orderID, buyerID uuid.UUID) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, payment := range r.payments {
		if payment.OrderID == orderID && payment.BuyerID == buyerID {
			return payment, nil
		}
	}

	return domain.Payment{}, domain.ErrPaymentNotFound
}

func (r *memPayments) ListPayments(_ context.Context) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return lo.Values(r.payments), nil
}

type memCache struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]domain.OrderStatus
	sets     int
	gets     int
}

func newMemCache() *memCache {
	return &memCache{statuses: map[uuid.UUID]domain.OrderStatus{}}
}

func (c *memCache) SetStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	c.statuses[orderID] = status

	return nil
}

func (c *memCache) GetStatus(_ context.Context, orderID uuid.UUID) (domain.OrderStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	status, ok := c.statuses[orderID]

	return status, ok, nil
}
