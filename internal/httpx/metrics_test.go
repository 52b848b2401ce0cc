package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each router carries its own metrics registry, so building a second router
// in the same process must not panic on duplicate collector registration.
func TestNewRouterTwice(t *testing.T) {
	require.NotPanics(t, func() {
		NewRouter("order-service")
		NewRouter("order-service")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter("order-service")

	// a counted request first, so the scrape has something to show
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shopmesh_order_service_http_requests_total")
}
