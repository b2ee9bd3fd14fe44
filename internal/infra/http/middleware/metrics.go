package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citasalud_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "citasalud_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	outcomesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citasalud_outcomes_processed_total",
			Help: "Call outcomes received from the dialer",
		},
		[]string{"result"},
	)

	reservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citasalud_reservations_total",
			Help: "Reservation attempts against the external agenda",
		},
		[]string{"result"},
	)

	upstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citasalud_upstream_errors_total",
			Help: "Errors talking to external services",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordOutcome(result string) {
	outcomesProcessed.WithLabelValues(result).Inc()
}

func RecordReservation(result string) {
	reservations.WithLabelValues(result).Inc()
}

func RecordUpstreamError(service string) {
	upstreamErrors.WithLabelValues(service).Inc()
}
