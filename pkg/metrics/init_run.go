package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkcom_runs_total",
			Help: "Total number of clustering runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkcom_run_duration_seconds",
			Help:    "Duration of a single-threshold clustering run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~262s
		},
	)

	r.Comparisons = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkcom_similarity_comparisons_total",
			Help: "Total number of edge pairs whose similarity was computed",
		},
	)

	r.Merges = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkcom_cluster_merges_total",
			Help: "Total number of cluster merges performed",
		},
	)

	r.Clusters = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_clusters",
			Help: "Number of link clusters in the latest result",
		},
	)

	r.Threshold = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_threshold",
			Help: "Similarity threshold of the latest result",
		},
	)

	r.PartitionDensity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "linkcom_partition_density",
			Help: "Partition density of the latest result; absent when not applicable",
		},
		[]string{"variant"}, // all, excluding_one_edge
	)

	r.SweepPointsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "linkcom_sweep_points_total",
			Help: "Total number of thresholds evaluated by sweeps",
		},
	)

	r.SweepBestThreshold = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "linkcom_sweep_best_threshold",
			Help: "Threshold with the highest partition density in the latest sweep",
		},
	)
}
