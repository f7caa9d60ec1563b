package observability

import (
	"math/big"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "tollgate"

// Result labels for payment metrics.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultError   = "error"
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// NewMetricsRegistry creates the registry served at /metrics, with Go runtime
// and process collectors attached.
func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// HTTPMetrics records request counts and latencies.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates HTTP metrics and registers them with the registry.
func NewHTTPMetrics(registry *prometheus.Registry) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests by method and path",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	if registry != nil {
		registry.MustRegister(m.requestsTotal, m.requestDuration)
	}
	return m
}

// RecordRequest records one completed HTTP request.
func (m *HTTPMetrics) RecordRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// PaymentMetrics records the x402 payment lifecycle.
type PaymentMetrics struct {
	challenges    *prometheus.CounterVec
	verifications *prometheus.CounterVec
	settlements   *prometheus.CounterVec
	charged       *prometheus.CounterVec
}

// NewPaymentMetrics creates payment metrics and registers them with the registry.
func NewPaymentMetrics(registry *prometheus.Registry) *PaymentMetrics {
	m := &PaymentMetrics{
		challenges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "payment",
				Name:      "challenges_total",
				Help:      "Total number of 402 challenges issued by price source",
			},
			[]string{"endpoint_source"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "payment",
				Name:      "verifications_total",
				Help:      "Total number of payment verifications by result",
			},
			[]string{"result"},
		),
		settlements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "payment",
				Name:      "settlements_total",
				Help:      "Total number of payment settlements by result",
			},
			[]string{"result"},
		),
		charged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "payment",
				Name:      "charged_atomic_total",
				Help:      "Total settled amount in atomic units by price source",
			},
			[]string{"source"},
		),
	}

	if registry != nil {
		registry.MustRegister(m.challenges, m.verifications, m.settlements, m.charged)
	}
	return m
}

// ObserveChallenge counts a 402 challenge.
func (m *PaymentMetrics) ObserveChallenge(source string) {
	if m == nil {
		return
	}
	m.challenges.WithLabelValues(source).Inc()
}

// ObserveVerification counts a verify outcome.
func (m *PaymentMetrics) ObserveVerification(result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(result).Inc()
}

// ObserveSettlement counts a settle outcome and, on success, the charged amount.
func (m *PaymentMetrics) ObserveSettlement(result, source, amount string) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(result).Inc()
	if result != ResultSuccess {
		return
	}
	if value, ok := new(big.Float).SetString(amount); ok {
		charged, _ := value.Float64()
		m.charged.WithLabelValues(source).Add(charged)
	}
}
