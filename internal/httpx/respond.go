package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shopmesh/shopmesh/internal/domain"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, code int, key string, v any) {
	writeJSON(w, code, map[string]any{"success": true, key: v})
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"success": false, "message": message})
}

// writeError maps domain sentinels to status codes. Unexpected failures get
// logged with detail and surface as a generic message: internals never leak
// to the caller.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var fieldErr domain.FieldError
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  []map[string]string{{"field": fieldErr.Field, "message": fieldErr.Error()}},
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrSellerNotFound):
		writeMessage(w, http.StatusNotFound, shortReason(err))

	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, shortReason(err))

	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrIllegalCancellation),
		errors.Is(err, domain.ErrDuplicateTransaction),
		errors.Is(err, domain.ErrSellerExists):
		writeMessage(w, http.StatusConflict, shortReason(err))

	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrMixedCurrency),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrNoSellerAssigned):
		writeMessage(w, http.StatusBadRequest, shortReason(err))

	default:
		logger.Error("request failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "server error")
	}
}

// shortReason strips wrapping context, keeping the sentinel's message.
func shortReason(err error) string {
	for _, sentinel := range []error{
		domain.ErrOrderNotFound, domain.ErrProductNotFound,
		domain.ErrPaymentNotFound, domain.ErrSellerNotFound,
		domain.ErrForbidden,
		domain.ErrInsufficientStock, domain.ErrIllegalCancellation,
		domain.ErrDuplicateTransaction, domain.ErrSellerExists,
		domain.ErrEmptyOrder, domain.ErrInvalidItem,
		domain.ErrMixedCurrency, domain.ErrInvalidStatus,
		domain.ErrNoSellerAssigned,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
