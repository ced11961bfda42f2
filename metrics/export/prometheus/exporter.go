package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authcore "github.com/procflowhq/authcore"
)

type metricsSource interface {
	MetricsSnapshot() authcore.MetricsSnapshot
	AuditDropped() uint64
}

// Collector adapts the engine's counter snapshot to the Prometheus
// collection model. Register it on any registry, or use [Handler] for a
// ready-made scrape endpoint.
type Collector struct {
	source       metricsSource
	descs        map[authcore.MetricID]*prometheus.Desc
	auditDropped *prometheus.Desc
}

// NewCollector creates a collector reading from the given engine.
func NewCollector(engine *authcore.Engine) *Collector {
	return NewCollectorFromSource(engine)
}

// NewCollectorFromSource creates a collector from a custom metrics source.
func NewCollectorFromSource(source metricsSource) *Collector {
	descs := make(map[authcore.MetricID]*prometheus.Desc)
	for _, id := range authcore.MetricIDs() {
		name := "authcore_" + authcore.MetricName(id)
		descs[id] = prometheus.NewDesc(name, "authcore engine counter.", nil, nil)
	}
	return &Collector{
		source: source,
		descs:  descs,
		auditDropped: prometheus.NewDesc(
			"authcore_audit_dropped_total",
			"Dropped audit events due to dispatcher backpressure.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.descs {
		ch <- desc
	}
	ch <- c.auditDropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.source.MetricsSnapshot()
	for id, desc := range c.descs {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(snapshot.Counters[id]))
	}
	ch <- prometheus.MustNewConstMetric(c.auditDropped, prometheus.CounterValue, float64(c.source.AuditDropped()))
}

// Handler registers the collector on a fresh registry and returns a scrape
// handler for it.
func Handler(engine *authcore.Engine) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(engine))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
