package mesh

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "meshgrid"

// Metrics are the Prometheus instruments of a grid. A nil *Metrics records
// nothing.
type Metrics struct {
	BuildSeconds *prometheus.HistogramVec // by view: links, downward, compact
	Rejections   *prometheus.CounterVec   // capacity rejections by limit
	Cells        prometheus.Gauge
	Nodes        prometheus.Gauge
	SubEntities  prometheus.Gauge
}

// NewMetrics registers the grid instruments on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BuildSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "grid",
			Name:      "build_duration_seconds",
			Help:      "Time spent building adjacency views and compacting",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"view"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "grid",
			Name:      "capacity_rejections_total",
			Help:      "Operations refused for exceeding a hard limit",
		}, []string{"limit"}),
		Cells: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "grid",
			Name:      "cells",
			Help:      "Live cells after the last compaction",
		}),
		Nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "grid",
			Name:      "nodes",
			Help:      "Live nodes after the last compaction",
		}),
		SubEntities: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "grid",
			Name:      "sub_entities",
			Help:      "Sub-entities in the last downward index built",
		}),
	}
}

func (m *Metrics) observeBuild(view string, d time.Duration) {
	if m == nil {
		return
	}
	m.BuildSeconds.WithLabelValues(view).Observe(d.Seconds())
}

func (m *Metrics) reject(limit string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(limit).Inc()
}

func (m *Metrics) setCounts(nodes, cells int) {
	if m == nil {
		return
	}
	m.Nodes.Set(float64(nodes))
	m.Cells.Set(float64(cells))
}

func (m *Metrics) setSubEntities(n int) {
	if m == nil {
		return
	}
	m.SubEntities.Set(float64(n))
}
