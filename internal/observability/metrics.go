// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Position metrics
	OpenPositions prometheus.Gauge
	TradesOpened  prometheus.Counter
	TradesClosed  *prometheus.CounterVec // by exit reason
	SellFailures  prometheus.Counter

	// Entry pipeline metrics
	CandidatesScored   prometheus.Counter
	CandidatesRejected *prometheus.CounterVec // by stage

	// Feed metrics
	FeedRetries prometheus.Counter
	FeedErrors  prometheus.Counter

	// Tick metrics
	TickDuration prometheus.Histogram
	TicksTotal   prometheus.Counter
}

// NewMetrics registers the engine metrics on the given registerer.
// Passing a fresh prometheus.NewRegistry() keeps tests isolated.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_trader"
	}
	factory := promauto.With(reg)

	return &Metrics{
		OpenPositions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "positions",
			Name:      "open",
			Help:      "Number of currently open positions",
		}),
		TradesOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "positions",
			Name:      "opened_total",
			Help:      "Total number of positions opened",
		}),
		TradesClosed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "positions",
			Name:      "closed_total",
			Help:      "Total number of positions closed by exit reason",
		}, []string{"reason"}),
		SellFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "positions",
			Name:      "sell_failures_total",
			Help:      "Total number of failed sell submissions",
		}),
		CandidatesScored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entry",
			Name:      "candidates_scored_total",
			Help:      "Total number of candidates scored by the selector",
		}),
		CandidatesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entry",
			Name:      "candidates_rejected_total",
			Help:      "Total number of candidates rejected by stage",
		}, []string{"stage"}),
		FeedRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "retries_total",
			Help:      "Total number of market feed retry attempts",
		}),
		FeedErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "errors_total",
			Help:      "Total number of market feed failures after retries",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one engine tick in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "ticks_total",
			Help:      "Total number of engine ticks",
		}),
	}
}

// Handler returns an HTTP handler serving the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
