// internal/observability/metrics.go
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salespipe_http_requests_total",
		Help: "HTTP requests processed, labeled by method, path and status.",
	}, []string{"method", "path", "status"})

	// ImportRowsTotal counts CSV import rows by their reported outcome.
	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salespipe_import_rows_total",
		Help: "Import pipeline row outcomes.",
	}, []string{"outcome"})
)
