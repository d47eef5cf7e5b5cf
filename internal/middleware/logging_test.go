package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eshop-catalog/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware_LogsCompletion(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(LoggingMiddleware(zap.New(core)))
	router.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?search=pen", nil))

	completed := logs.FilterMessage("Request completed").All()
	require.Len(t, completed, 1)

	fields := completed[0].ContextMap()
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "/products", fields["path"])
	assert.NotEmpty(t, fields["request_id"])
	assert.Len(t, logs.FilterMessage("Request started").All(), 1)
}

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New("test")

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/products/{id}", "404"),
	))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestCORSMiddleware_AllowsOnlyTrustedOrigin(t *testing.T) {
	handler := CORSMiddleware("http://localhost:5173")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	trusted := httptest.NewRequest(http.MethodGet, "/products", nil)
	trusted.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, trusted)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	other := httptest.NewRequest(http.MethodGet, "/products", nil)
	other.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
