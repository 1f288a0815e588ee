package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query kinds used as the "kind" label.
const (
	KindDirect  = "direct"
	KindBridged = "bridged"
	KindLabel   = "label"
)

// Collector holds the counters for one process. It owns its registry so
// tests can create as many collectors as they like.
type Collector struct {
	registry *prometheus.Registry

	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	Pairs         *prometheus.CounterVec
	Rows          *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "SPARQL queries issued, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "SPARQL query latency",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"kind"},
	)
	pairs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_total",
			Help:      "Seed pairs processed, by outcome",
		},
		[]string{"outcome"},
	)
	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_rows_total",
			Help:      "Result rows received, by query kind",
		},
		[]string{"kind"},
	)

	registry.MustRegister(queries, duration, pairs, rows)

	return &Collector{
		registry:      registry,
		Queries:       queries,
		QueryDuration: duration,
		Pairs:         pairs,
		Rows:          rows,
	}
}

// ObserveQuery records one finished query. A nil collector is a no-op.
func (c *Collector) ObserveQuery(kind string, elapsed time.Duration, rows int, err error) {
	if c == nil {
		return
	}
	c.Queries.WithLabelValues(kind, outcome(err)).Inc()
	c.QueryDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err == nil {
		c.Rows.WithLabelValues(kind).Add(float64(rows))
	}
}

// ObservePair records one processed pair. A nil collector is a no-op.
func (c *Collector) ObservePair(err error) {
	if c == nil {
		return
	}
	c.Pairs.WithLabelValues(outcome(err)).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
