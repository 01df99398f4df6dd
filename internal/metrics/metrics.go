// Package metrics exposes Prometheus collectors for the HTTP API and journal activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradejournal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"method", "route"},
	)

	// Journal metrics
	EntriesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradejournal_daily_book_entries_created_total",
		Help: "Total number of daily book entries created",
	})

	PlansCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradejournal_trading_plans_created_total",
		Help: "Total number of trading plans created",
	})

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	backupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradejournal_backups_total",
			Help: "Database backups by result",
		},
		[]string{"result"},
	)

	lastBackupSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tradejournal_last_backup_size_bytes",
		Help: "Size of the most recent successful backup",
	})
)

// RecordLogin counts a login attempt. outcome is success, failure or limited.
func RecordLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordBackup counts a backup run and remembers the size of successful ones
func RecordBackup(err error, sizeBytes int64) {
	if err != nil {
		backupsTotal.WithLabelValues("failure").Inc()
		return
	}
	backupsTotal.WithLabelValues("success").Inc()
	lastBackupSize.Set(float64(sizeBytes))
}

// Handler serves the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency labelled by the chi route pattern.
// Unmatched requests are labelled "unmatched" to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
