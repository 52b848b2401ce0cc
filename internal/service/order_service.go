package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/port"
)

// StatusCache is a best-effort write-through cache of order statuses for the
// polling endpoint. Misses and failures fall back to the database.
type StatusCache interface {
	SetStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	GetStatus(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, bool, error)
}

type ItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

type PlaceOrderInput struct {
	Items         []ItemInput
	Shipping      domain.ShippingAddress
	PaymentMethod string
	Note          string
}

func (in PlaceOrderInput) Validate() error {
	if len(in.Items) == 0 {
		return domain.ErrEmptyOrder
	}

	for i, item := range in.Items {
		if item.ProductID == uuid.Nil || item.Qty < 1 {
			return fmt.Errorf("item[%d]: %w", i, domain.ErrInvalidItem)
		}
	}

	return in.Shipping.Validate()
}

type OrderService struct {
	unit    port.UnitOfWork
	orders  port.OrderRepository
	sellers port.SellerRepository
	cache   StatusCache
	logger  *zap.Logger
}

func NewOrder(unit port.UnitOfWork, orders port.OrderRepository, sellers port.SellerRepository, cache StatusCache, logger *zap.Logger) *OrderService {
	return &OrderService{
		unit:    unit,
		orders:  orders,
		sellers: sellers,
		cache:   cache,
		logger:  logger,
	}
}

// PlaceOrder reserves stock for every line and creates the order in one
// atomic unit: either every decrement and the order record commit together,
// or nothing does. Lines are processed in input order; duplicate product ids
// are two independent reservations, not merged.
func (s *OrderService) PlaceOrder(ctx context.Context, caller domain.Caller, in PlaceOrderInput) (domain.Order, error) {
	var placed domain.Order

	if err := in.Validate(); err != nil {
		return placed, err
	}

	err := s.unit.Within(ctx, func(ctx context.Context, stores port.TxStores) error {
		var (
			items     []domain.OrderItem
			total     domain.Money
			sellerIDs []uuid.UUID
		)

		for _, line := range in.Items {
			snapshot, err := stores.Products().ReserveStock(ctx, line.ProductID, line.Qty)
			if err != nil {
				return fmt.Errorf("reserve product[%s]: %w", line.ProductID, err)
			}

			item := domain.OrderItem{
				ProductID: snapshot.ProductID,
				SellerID:  snapshot.SellerID,
				Name:      snapshot.Name,
				Price:     snapshot.Price,
				Qty:       line.Qty,
				SubTotal:  snapshot.Price.Mul(line.Qty),
			}

			if len(items) == 0 {
				total = item.SubTotal
			} else {
				var err error
				total, err = total.Add(item.SubTotal)
				if err != nil {
					return err
				}
			}

			items = append(items, item)
			sellerIDs = append(sellerIDs, snapshot.SellerID)
		}

		order := domain.Order{
			BuyerID:  caller.UserID,
			Items:    items,
			Shipping: in.Shipping,
			Payment: domain.PaymentDetails{
				Method: in.PaymentMethod,
				Status: domain.PaymentStatusPending,
			},
			Total:     total,
			Status:    domain.OrderStatusPending,
			SellerIDs: lo.Uniq(sellerIDs),
			Note:      in.Note,
		}

		orderID, err := stores.Orders().InsertOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("orders.InsertOrder: %w", err)
		}

		placed, err = stores.Orders().GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.cacheStatus(ctx, placed.ID, placed.Status)
	s.logger.Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("buyer_id", caller.UserID.String()),
		zap.Int("items", len(placed.Items)),
		zap.String("total", placed.Total.Amount.String()))

	return placed, nil
}

func (s *OrderService) GetOrder(ctx context.Context, caller domain.Caller, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	rights, err := resolveOrderRights(ctx, s.sellers, caller, order)
	if err != nil {
		return domain.Order{}, err
	}
	if !rights.View {
		return domain.Order{}, domain.ErrForbidden
	}

	return order, nil
}

// GetOrderStatus serves the status poll: cache first, database on a miss.
// It exposes the bare status value only, no order content.
func (s *OrderService) GetOrderStatus(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, error) {
	if status, ok := s.CachedStatus(ctx, orderID); ok {
		return status, nil
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("orders.GetOrder: %w", err)
	}

	s.cacheStatus(ctx, orderID, order.Status)

	return order.Status, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	orders, _, err := s.orders.SearchOrders(ctx, domain.OrderFilter{
		BuyerIDs: []uuid.UUID{caller.UserID},
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

// ListOrders is the admin listing with filters and pagination.
func (s *OrderService) ListOrders(ctx context.Context, caller domain.Caller, filter domain.OrderFilter) ([]domain.Order, int, error) {
	if !caller.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}

	orders, total, err := s.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, total, nil
}

// ListSellerOrders returns orders containing items sold by the caller's
// seller entity.
func (s *OrderService) ListSellerOrders(ctx context.Context, caller domain.Caller) ([]domain.Order, error) {
	seller, err := s.sellers.FindSellerByUser(ctx, caller.UserID)
	if err != nil {
		return nil, domain.ErrForbidden
	}

	orders, _, err := s.orders.SearchOrders(ctx, domain.OrderFilter{
		SellerIDs: []uuid.UUID{seller.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves the order to any of the allowed status values. The set
// is caller-gated, not a transition table: sellers on the order and admins
// may set any value, matching the permissive lifecycle this system ships
// with. A provider reference, when present, is threaded into the payment
// sub-record, and paid-at is stamped only when the new status is Paid.
func (s *OrderService) UpdateStatus(ctx context.Context, caller domain.Caller, orderID uuid.UUID, statusValue, providerReference string) (domain.Order, error) {
	status, err := domain.ToOrderStatus(statusValue)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	rights, err := resolveOrderRights(ctx, s.sellers, caller, order)
	if err != nil {
		return domain.Order{}, err
	}
	if !rights.UpdateStatus {
		return domain.Order{}, domain.ErrForbidden
	}

	payment := order.Payment
	if providerReference != "" {
		payment.ProviderReference = providerReference
		if status == domain.OrderStatusPaid {
			payment.Status = domain.PaymentStatusPaid
			payment.PaidAt = lo.ToPtr(time.Now().UTC())
		}
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, status, payment); err != nil {
		return domain.Order{}, fmt.Errorf("orders.UpdateOrderStatus: %w", err)
	}

	updated, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	s.cacheStatus(ctx, orderID, updated.Status)

	return updated, nil
}

// CancelOrder cancels and compensates: every item's quantity goes back to
// product stock, atomically with the status change. Buyers can cancel only
// before shipment; nobody cancels twice.
func (s *OrderService) CancelOrder(ctx context.Context, caller domain.Caller, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !caller.IsAdmin() && order.BuyerID != caller.UserID {
		return domain.Order{}, domain.ErrForbidden
	}

	cancellableFrom := lo.Filter(domain.OrderStatuses(), func(status domain.OrderStatus, _ int) bool {
		return status.CancellableBy(caller.IsAdmin())
	})

	err = s.unit.Within(ctx, func(ctx context.Context, stores port.TxStores) error {
		// The conditional transition runs first: if another request already
		// cancelled, this aborts before any stock is touched.
		if err := stores.Orders().MarkCancelled(ctx, orderID, cancellableFrom); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := stores.Products().ReleaseStock(ctx, item.ProductID, item.Qty); err != nil {
				return fmt.Errorf("release product[%s]: %w", item.ProductID, err)
			}
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.cacheStatus(ctx, orderID, domain.OrderStatusCancelled)
	s.logger.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("caller_id", caller.UserID.String()))

	cancelled, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return cancelled, nil
}

func (s *OrderService) cacheStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) {
	if s.cache == nil {
		return
	}

	if err := s.cache.SetStatus(ctx, orderID, status); err != nil {
		s.logger.Warn("status cache write failed",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}
}

// CachedStatus exposes the cache read for the poll handler, nil-safe.
func (s *OrderService) CachedStatus(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, bool) {
	if s.cache == nil {
		return "", false
	}

	status, ok, err := s.cache.GetStatus(ctx, orderID)
	if err != nil || !ok {
		return "", false
	}

	return status, true
}
