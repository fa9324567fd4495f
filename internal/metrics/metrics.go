// Package metrics collects and exposes Prometheus metrics for the
// tracking engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// Collector records poll outcomes and change events.
type Collector struct {
	registry *prometheus.Registry

	polls         *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	changeEvents  *prometheus.CounterVec
	cycleDuration prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_polls_total",
			Help: "Completed product polls by outcome.",
		}, []string{"outcome"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_failures_total",
			Help: "Failed product polls by failure kind.",
		}, []string{"kind"}),
		changeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_change_events_total",
			Help: "Detected change events by kind.",
		}, []string{"kind"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_cycle_duration_seconds",
			Help:    "Wall-clock duration of poll cycles.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	c.registry.MustRegister(
		c.polls,
		c.fetchFailures,
		c.changeEvents,
		c.cycleDuration,
	)

	return c
}

func (c *Collector) RecordPoll(outcome string) {
	c.polls.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordFailure(kind string) {
	c.fetchFailures.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordChange(kind domain.ChangeKind) {
	c.changeEvents.WithLabelValues(string(kind)).Inc()
}

func (c *Collector) RecordCycle(d time.Duration) {
	c.cycleDuration.Observe(d.Seconds())
}

// Handler serves the collector's registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
