package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eshop-catalog/internal/config"
	"eshop-catalog/internal/database"
	"eshop-catalog/internal/domain"
	"eshop-catalog/internal/metrics"
	custommiddleware "eshop-catalog/internal/middleware"
	"eshop-catalog/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// downStore reports itself unavailable
type downStore struct {
	closed bool
}

func (s *downStore) Health(context.Context) map[string]string {
	return map[string]string{"status": "down", "error": "no reachable servers"}
}

func (s *downStore) Close(context.Context) error {
	s.closed = true
	return errors.New("already closed")
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:          "5000",
			Env:           "test",
			AllowedOrigin: "http://localhost:5173",
		},
		Store: config.StoreConfig{Driver: config.DriverMemory},
	}
}

func newTestServer(t *testing.T, store database.Service, products ...*domain.Product) *Server {
	return NewServer(
		testConfig(),
		zaptest.NewLogger(t),
		store,
		repository.NewMemoryProductRepository(products...),
		metrics.New("test"),
	)
}

func get(srv *Server, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestNewServer_Address(t *testing.T) {
	srv := newTestServer(t, database.Memory{})
	assert.Equal(t, ":5000", srv.Addr)
}

func TestLiveness(t *testing.T) {
	srv := newTestServer(t, database.Memory{})

	rr := get(srv, "/", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, LivenessMessage, rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
}

func TestHealth(t *testing.T) {
	rr := get(newTestServer(t, database.Memory{}), "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var health map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "up", health["status"])

	rr = get(newTestServer(t, &downStore{}), "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCatalogRoutesAreMounted(t *testing.T) {
	srv := newTestServer(t, database.Memory{},
		&domain.Product{Name: "Napa Extra", Brand: "Square"},
		&domain.Product{Name: "Seclo 20", Brand: "Square"},
	)

	rr := get(srv, "/products-count", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"productCount":2}`, rr.Body.String())

	rr = get(srv, "/product-brand-names", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["Square"]`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, database.Memory{}, &domain.Product{Name: "Napa Extra"})

	get(srv, "/products?search=napa", nil)

	rr := get(srv, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/products",status="200"} 1`)
	assert.Contains(t, body, `test_store_operation_duration_seconds_count{operation="find"} 1`)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, database.Memory{})

	rr := get(srv, "/", http.Header{"Origin": {"http://localhost:5173"}})
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = get(srv, "/", http.Header{"Origin": {"http://evil.example.com"}})
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicsBecomeErrorEnvelope(t *testing.T) {
	srv := newTestServer(t, database.Memory{})
	srv.Handler.(chi.Router).Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("cursor exhausted")
	})

	rr := get(srv, "/boom", nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp custommiddleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error.Message)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), resp.Error.Code)
}

func TestClose(t *testing.T) {
	store := &downStore{}
	srv := newTestServer(t, store)

	err := srv.Close(context.Background())

	assert.Error(t, err)
	assert.True(t, store.closed)
}
