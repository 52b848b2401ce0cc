package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/shopmesh/shopmesh/internal/domain"
)

// Identity arrives from the auth gateway in trusted headers; the backend does
// no re-verification of its own.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

type callerKey struct{}

// RequireAuth extracts the caller identity and rejects requests without one.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get(headerUserID))
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		role := domain.Role(r.Header.Get(headerUserRole))
		if role == "" {
			role = domain.RoleCustomer
		}

		caller := domain.Caller{UserID: userID, Role: role}
		ctx := context.WithValue(r.Context(), callerKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFrom(r *http.Request) domain.Caller {
	caller, _ := r.Context().Value(callerKey{}).(domain.Caller)
	return caller
}
