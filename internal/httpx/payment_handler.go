package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
	"github.com/shopmesh/shopmesh/internal/service"
)

type PaymentHandler struct {
	Payments *service.PaymentService
	Logger   *zap.Logger
}

func (h *PaymentHandler) Register(r chi.Router) {
	r.Route("/api/payment", func(r chi.Router) {
		r.Use(RequireAuth)

		r.Post("/", h.createPayment)
		r.Get("/", h.listPayments)
		r.Get("/order/{orderId}", h.getPaymentByOrder)
	})
}

type createPaymentReq struct {
	Order         uuid.UUID `json:"order"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transactionId"`
	Notes         string    `json:"notes"`
}

func (h *PaymentHandler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	payment, err := h.Payments.RecordPayment(r.Context(), callerFrom(r), service.RecordPaymentInput{
		OrderID:       req.Order,
		Amount:        amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "payment", toPaymentDTO(payment))
}

func (h *PaymentHandler) getPaymentByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(w, r, "orderId")
	if !ok {
		return
	}

	payment, err := h.Payments.GetPaymentByOrder(r.Context(), callerFrom(r), orderID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "payment", toPaymentDTO(payment))
}

func (h *PaymentHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Payments.ListPayments(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	dtos := lo.Map(payments, func(p domain.Payment, _ int) paymentDTO {
		return toPaymentDTO(p)
	})

	writeSuccess(w, http.StatusOK, "payments", dtos)
}
