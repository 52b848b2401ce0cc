package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/service"
)

type OrderHandler struct {
	Orders *service.OrderService
	Logger *zap.Logger
}

func (h *OrderHandler) Register(r chi.Router) {
	r.Route("/api/order", func(r chi.Router) {
		r.Use(RequireAuth)

		r.Post("/", h.createOrder)
		r.Get("/", h.listAllOrders)
		r.Get("/my", h.listMyOrders)
		r.Get("/seller/my", h.listSellerOrders)
		r.Get("/{id}", h.getOrder)
		r.Get("/{id}/status", h.getOrderStatus)
		r.Put("/{id}/status", h.updateOrderStatus)
		r.Delete("/{id}", h.cancelOrder)
	})
}

type orderItemInput struct {
	ProductID uuid.UUID `json:"productId"`
	Qty       int       `json:"qty"`
}

type createOrderReq struct {
	Items         []orderItemInput   `json:"items"`
	Shipping      shippingAddressDTO `json:"shippingAddress"`
	PaymentMethod string             `json:"paymentMethod"`
	Note          string             `json:"note"`
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	in := service.PlaceOrderInput{
		Items: lo.Map(req.Items, func(item orderItemInput, _ int) service.ItemInput {
			return service.ItemInput{ProductID: item.ProductID, Qty: item.Qty}
		}),
		Shipping: domain.ShippingAddress{
			FullName:     req.Shipping.FullName,
			Phone:        req.Shipping.Phone,
			AddressLine1: req.Shipping.AddressLine1,
			AddressLine2: req.Shipping.AddressLine2,
			City:         req.Shipping.City,
			PostalCode:   req.Shipping.PostalCode,
			Country:      req.Shipping.Country,
		},
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	}

	order, err := h.Orders.PlaceOrder(r.Context(), callerFrom(r), in)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "order", toOrderDTO(order))
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), callerFrom(r), orderID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "order", toOrderDTO(order))
}

func (h *OrderHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	status, err := h.Orders.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "status", string(status))
}

func (h *OrderHandler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListMyOrders(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "orders", toOrderDTOs(orders))
}

func (h *OrderHandler) listSellerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListSellerOrders(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "orders", toOrderDTOs(orders))
}

func (h *OrderHandler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilterFromQuery(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	orders, total, err := h.Orders.ListOrders(r.Context(), callerFrom(r), filter)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	filter = filter.Normalize()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"meta":    map[string]int{"total": total, "page": filter.Page, "limit": filter.Limit},
		"orders":  toOrderDTOs(orders),
	})
}

type updateStatusReq struct {
	Status            string `json:"status"`
	ProviderReference string `json:"providerReference"`
}

func (h *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), callerFrom(r), orderID, req.Status, req.ProviderReference)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "order", toOrderDTO(order))
}

func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.Orders.CancelOrder(r.Context(), callerFrom(r), orderID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order cancelled",
		"order":   toOrderDTO(order),
	})
}

func orderFilterFromQuery(r *http.Request) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		status, err := domain.ToOrderStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.OrderStatus{status}
	}

	if s := q.Get("sellerId"); s != "" {
		sellerID, err := uuid.Parse(s)
		if err != nil {
			return filter, domain.FieldError{Field: "sellerId", Reason: "must be a uuid"}
		}
		filter.SellerIDs = []uuid.UUID{sellerID}
	}

	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		var timeRange domain.TimeRange
		if from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return filter, domain.FieldError{Field: "from", Reason: "must be RFC3339"}
			}
			timeRange.After = &t
		}
		if to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return filter, domain.FieldError{Field: "to", Reason: "must be RFC3339"}
			}
			timeRange.Before = &t
		}
		filter.CreatedAt = &timeRange
	}

	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	return filter, nil
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
