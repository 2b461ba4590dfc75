package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/catalog/products/*")
	req := httptest.NewRequest(http.MethodGet, "/catalog/products/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `odyssey_http_requests_total{code="418",route="/catalog/products/*"} 1`)
	assert.Contains(t, body, `odyssey_http_request_duration_seconds_bucket{route="/catalog/products/*"`)
}

func TestUpstreamCallsAreObserved(t *testing.T) {
	metrics := NewMetrics()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(upstream.Close)

	client := api.NewClient(upstream.URL, time.Second, api.WithObserver(metrics))
	require.NoError(t, client.Do(t.Context(), http.MethodDelete, "/products/42", nil, nil, nil))

	body := scrape(t, metrics)
	assert.Contains(t, body, `odyssey_upstream_requests_total{code="204",method="DELETE",resource="products"} 1`)
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream(http.MethodGet, "sales", 200, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
