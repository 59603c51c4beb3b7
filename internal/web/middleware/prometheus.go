package middleware

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const MetricsPath = "/metrics"

// Metrics counts handled requests by method, route and status.
type Metrics struct {
	requestCount *prometheus.CounterVec
	routeLabel   func(path string) string
}

// NewMetrics registers the request counter on reg. routeLabel maps a request
// path to a bounded label value; nil uses the raw path.
func NewMetrics(reg prometheus.Registerer, routeLabel func(path string) string) (*Metrics, error) {
	m := &Metrics{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		routeLabel: routeLabel,
	}

	if err := reg.Register(m.requestCount); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == MetricsPath {
			next.ServeHTTP(w, r)
			return
		}

		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if m.routeLabel != nil {
			route = m.routeLabel(route)
		}
		m.requestCount.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}
