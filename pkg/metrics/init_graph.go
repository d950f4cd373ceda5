package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_graph_nodes",
			Help: "Number of distinct nodes in the input graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_graph_edges",
			Help: "Number of accepted edges in the input graph",
		},
	)

	r.DiscardedPairs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_graph_discarded_pairs",
			Help: "Input pairs dropped as self-loops or reversed duplicates",
		},
	)

	r.DuplicatePairs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_graph_duplicate_pairs",
			Help: "Input pairs that repeated an already accepted edge",
		},
	)
}
