package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tournevent/ongkir/pkg/rajaongkir"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ongkir_requests_total",
				Help: "Total number of RajaOngkir calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ongkir_request_duration_seconds",
				Help:    "RajaOngkir call duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ongkir_upstream_errors_total",
				Help: "Total RajaOngkir call failures by operation and error type",
			},
			[]string{"operation", "error_type"},
		),
	}
}

// RecordRequest records a completed call.
func (m *Metrics) RecordRequest(operation, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records a failed call.
func (m *Metrics) RecordError(operation, errorType string) {
	m.UpstreamErrors.WithLabelValues(operation, errorType).Inc()
}

// ObserveCall records the outcome of one RajaOngkir call started at start.
// A nil receiver records nothing.
func (m *Metrics) ObserveCall(operation string, start time.Time, resp *rajaongkir.Response, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RecordError(operation, ErrorType(err))
		m.RecordRequest(operation, "error", time.Since(start).Seconds())
		return
	}
	m.RecordRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
}

// ErrorType classifies a client error for metric labels.
func ErrorType(err error) string {
	switch {
	case rajaongkir.IsTransportError(err):
		return "transport"
	case rajaongkir.IsResponseFormatError(err):
		return "response_format"
	case rajaongkir.IsConfigurationError(err):
		return "configuration"
	default:
		return "unknown"
	}
}
