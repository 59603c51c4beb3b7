package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDKeepsIncomingHeader(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestAccessLogWritesRequestFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := RequestID(AccessLog(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/posts/nap?x=1", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-1", fields["request_id"])
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/posts/nap", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.Contains(t, fields, "latency")
}

func TestMetricsCountsByRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg, func(path string) string {
		if path == "/" {
			return "/"
		}
		return "/posts/{id}"
	})
	require.NoError(t, err)

	handler := metrics.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/posts/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	for _, path := range []string{"/", "/posts/a", "/posts/b", "/posts/missing", MetricsPath} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "/posts/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestCount.WithLabelValues("GET", "/posts/{id}", "404")))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.requestCount))
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg, nil)
	require.NoError(t, err)

	_, err = NewMetrics(reg, nil)
	assert.Error(t, err)
}
