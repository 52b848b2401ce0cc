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

// methodCOD stays Pending until the courier collects; everything else is a
// completed gateway transaction by the time it reaches this backend.
const methodCOD = "COD"

type PaymentService struct {
	payments port.PaymentRepository
	logger   *zap.Logger
}

func NewPayment(payments port.PaymentRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, logger: logger}
}

type RecordPaymentInput struct {
	OrderID       uuid.UUID
	Amount        domain.Money
	Method        string
	TransactionID string
	Notes         string
}

// RecordPayment stores an externally settled payment. The transaction id is
// globally unique; a repeat fails with ErrDuplicateTransaction.
func (s *PaymentService) RecordPayment(ctx context.Context, caller domain.Caller, in RecordPaymentInput) (domain.Payment, error) {
	payment := domain.Payment{
		BuyerID:       caller.UserID,
		OrderID:       in.OrderID,
		Amount:        in.Amount,
		Method:        in.Method,
		TransactionID: in.TransactionID,
		Notes:         in.Notes,
		Status:        domain.PaymentStatusCompleted,
		PaidAt:        lo.ToPtr(time.Now().UTC()),
	}
	if in.Method == methodCOD {
		payment.Status = domain.PaymentStatusPending
		payment.PaidAt = nil
	}

	if err := payment.Validate(); err != nil {
		return domain.Payment{}, err
	}

	paymentID, err := s.payments.InsertPayment(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payments.InsertPayment: %w", err)
	}
	payment.ID = paymentID

	s.logger.Info("payment recorded",
		zap.String("payment_id", paymentID.String()),
		zap.String("order_id", in.OrderID.String()),
		zap.String("method", in.Method))

	return payment, nil
}

func (s *PaymentService) GetPaymentByOrder(ctx context.Context, caller domain.Caller, orderID uuid.UUID) (domain.Payment, error) {
	payment, err := s.payments.GetPaymentByOrder(ctx, orderID, caller.UserID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("payments.GetPaymentByOrder: %w", err)
	}

	return payment, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, caller domain.Caller) ([]domain.Payment, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	payments, err := s.payments.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("payments.ListPayments: %w", err)
	}

	return payments, nil
}
