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
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsConverted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_converted_total",
			Help: "Total number of leads converted into customers and deals",
		},
	)

	conversionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_lead_conversion_failures_total",
			Help: "Total number of failed lead conversion attempts",
		},
		[]string{"reason"},
	)

	stageChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_deal_stage_changes_total",
			Help: "Total number of deal stage changes",
		},
		[]string{"stage"},
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
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadConversion() {
	leadsConverted.Inc()
}

func RecordConversionFailure(reason string) {
	conversionFailures.WithLabelValues(reason).Inc()
}

func RecordStageChange(stage string) {
	stageChanges.WithLabelValues(stage).Inc()
}
