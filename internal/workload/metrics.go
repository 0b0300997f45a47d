package workload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the progress of workloads to prometheus.
type Metrics struct {
	Changes    *prometheus.CounterVec
	TreeSize   prometheus.Gauge
	TreeHeight prometheus.Gauge
}

// NewMetrics creates the workload metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Changes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "treebench_changes_total",
			Help: "Number of changes applied to the map, by operation",
		}, []string{"op"}),
		TreeSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "treebench_tree_size",
			Help: "Number of entries in the map",
		}),
		TreeHeight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "treebench_tree_height",
			Help: "Number of nodes on the longest path from the root of the tree",
		}),
	}
}

func (m *Metrics) observe(op Op) {
	if m != nil {
		m.Changes.WithLabelValues(op.String()).Inc()
	}
}

func (m *Metrics) observeShape(size, height int) {
	if m != nil {
		m.TreeSize.Set(float64(size))
		m.TreeHeight.Set(float64(height))
	}
}
