package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	metrics := New("items_api")

	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/items/{item_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/items/1", "/items/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(http.MethodGet, "/items/{item_id}", "404"))
	require.Equal(t, float64(2), count)
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	metrics := New("items_api")

	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	count := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(http.MethodGet, "/", "200"))
	require.Equal(t, float64(1), count)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	metrics := New("items_api")
	metrics.requestsTotal.WithLabelValues(http.MethodPost, "/items", "201").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `items_api_http_requests_total{method="POST",route="/items",status="201"} 1`))
}
