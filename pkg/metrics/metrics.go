// Package metrics exposes decode and service metrics through Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/record"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Error kinds reported by RecordDecode.
const (
	KindOutOfBounds    = "out_of_bounds"
	KindUnknownTypeTag = "unknown_type_tag"
	KindInvalidCount   = "invalid_count"
	KindTooDeep        = "too_deep"
	KindOther          = "other"
)

// Metrics holds all Prometheus metrics for decoding and the API.
type Metrics struct {
	// Decode metrics
	scalarsReadTotal   *prometheus.CounterVec
	bytesReadTotal     prometheus.Counter
	recordsDecodeTotal *prometheus.CounterVec
	decodeErrorsTotal  *prometheus.CounterVec
	decodeDuration     *prometheus.HistogramVec

	// Blob store metrics
	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		scalarsReadTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdat_scalars_read_total",
				Help: "Total number of scalars read from buffers",
			},
			[]string{"type"},
		),

		bytesReadTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bdat_bytes_read_total",
				Help: "Total number of bytes read from buffers",
			},
		),

		recordsDecodeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdat_records_decoded_total",
				Help: "Total number of top-level records decoded",
			},
			[]string{"type"},
		),

		decodeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdat_decode_errors_total",
				Help: "Total number of failed decodes",
			},
			[]string{"kind"},
		),

		decodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bdat_decode_duration_seconds",
				Help:    "Top-level decode duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),

		storeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdat_store_operations_total",
				Help: "Total number of blob store operations",
			},
			[]string{"operation", "status"},
		),

		storeOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bdat_store_operation_duration_seconds",
				Help:    "Blob store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdat_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bdat_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bdat_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bdat_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// TraceRead counts one scalar read. It lets Metrics act as a codec.Tracer.
func (m *Metrics) TraceRead(ev codec.ReadEvent) {
	m.scalarsReadTotal.WithLabelValues(string(ev.Tag)).Inc()
	m.bytesReadTotal.Add(float64(ev.Size))
}

// RecordDecode records one top-level decode of typeName that produced
// records elements, or failed with err.
func (m *Metrics) RecordDecode(typeName string, records int, err error, duration time.Duration) {
	m.decodeDuration.WithLabelValues(typeName).Observe(duration.Seconds())
	if err != nil {
		m.decodeErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	m.recordsDecodeTotal.WithLabelValues(typeName).Add(float64(records))
}

// ErrorKind classifies a decode error for the kind label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, codec.ErrOutOfBounds):
		return KindOutOfBounds
	case errors.Is(err, codec.ErrUnknownTypeTag):
		return KindUnknownTypeTag
	case errors.Is(err, record.ErrInvalidCount):
		return KindInvalidCount
	case errors.Is(err, record.ErrTooDeep):
		return KindTooDeep
	default:
		return KindOther
	}
}

// RecordStoreOperation records a blob store operation
func (m *Metrics) RecordStoreOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.storeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
