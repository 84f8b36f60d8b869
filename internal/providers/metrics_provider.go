package providers

import (
	"ptd/internal/services"
	"ptd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncReconcileOutcome(outcome string)
	ObserveTickDuration(duration time.Duration)
	IncExtension(result string)
	IncAckFailures()
	SetActiveAlerts(count int)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	reconcileOutcomes *prometheus.CounterVec
	tickDuration      prometheus.Histogram
	extensions        *prometheus.CounterVec
	ackFailures       prometheus.Counter
	activeAlerts      prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncReconcileOutcome(outcome string) {
	m.reconcileOutcomes.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveTickDuration(duration time.Duration) {
	m.tickDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncExtension(result string) {
	m.extensions.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncAckFailures() {
	m.ackFailures.Inc()
}

func (m *MetricsProvider) SetActiveAlerts(count int) {
	m.activeAlerts.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, service services.TimerServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ptd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptd_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptd_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		}),

		reconcileOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_reconcile_outcomes_total",
			Help: "Reconciler decisions by outcome",
		}, []string{"outcome"}),

		tickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ptd_tick_duration_seconds",
			Help:    "Countdown tick duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		extensions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ptd_extensions_total",
			Help: "Timer extension attempts by result",
		}, []string{"result"}),

		ackFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ptd_ack_failures_total",
			Help: "Failed backend alert acknowledgments",
		}),

		activeAlerts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ptd_active_alerts",
			Help: "Currently active threshold alerts",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ptd_active_timers",
		Help: "Timers currently held in the repository",
	}, func() float64 {
		return float64(service.Count())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncReconcileOutcome(_ string)                     {}
func (n *noopMetrics) ObserveTickDuration(_ time.Duration)              {}
func (n *noopMetrics) IncExtension(_ string)                            {}
func (n *noopMetrics) IncAckFailures()                                  {}
func (n *noopMetrics) SetActiveAlerts(_ int)                            {}
