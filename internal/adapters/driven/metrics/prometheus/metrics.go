package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Metrics = (*Metrics)(nil)

const namespace = "mapstore"

// Result label values.
const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics records map handle activity as Prometheus series.
type Metrics struct {
	registry *prometheus.Registry

	reloads        *prometheus.CounterVec
	reloadDuration prometheus.Histogram
	writes         *prometheus.CounterVec
	writeDuration  prometheus.Histogram
	changes        *prometheus.CounterVec
	points         *prometheus.GaugeVec
}

// New creates the metrics and registers them on a fresh registry.
// Go runtime and process collectors are registered as well.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Map file reads by result.",
		}, []string{"result"}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Time spent reading map files.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Map file writes by result.",
		}, []string{"result"}),
		writeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "Time spent writing map files.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_changes_total",
			Help:      "Change notifications per document component.",
		}, []string{"reason", "component"}),
		points: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_points",
			Help:      "Points held by each scan layer of the live map.",
		}, []string{"scan_type"}),
	}

	m.registry.MustRegister(
		m.reloads, m.reloadDuration,
		m.writes, m.writeDuration,
		m.changes, m.points,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReload implements driven.Metrics.
func (m *Metrics) ObserveReload(d time.Duration, err error) {
	m.reloads.WithLabelValues(result(err)).Inc()
	m.reloadDuration.Observe(d.Seconds())
}

// ObserveWrite implements driven.Metrics.
func (m *Metrics) ObserveWrite(d time.Duration, err error) {
	m.writes.WithLabelValues(result(err)).Inc()
	m.writeDuration.Observe(d.Seconds())
}

// ObserveChange implements driven.Metrics.
func (m *Metrics) ObserveChange(event domain.MapChangedEvent) {
	for _, c := range event.Components {
		m.changes.WithLabelValues(string(event.Reason), string(c)).Inc()
	}
}

// SetPoints implements driven.Metrics.
func (m *Metrics) SetPoints(scanType string, n int) {
	m.points.WithLabelValues(scanType).Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
