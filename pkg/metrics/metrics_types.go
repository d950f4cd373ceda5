package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Run Metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Comparisons prometheus.Counter
	Merges      prometheus.Counter

	// Graph Metrics
	GraphNodes     prometheus.Gauge
	GraphEdges     prometheus.Gauge
	DiscardedPairs prometheus.Gauge
	DuplicatePairs prometheus.Gauge

	// Result Metrics
	Clusters         prometheus.Gauge
	Threshold        prometheus.Gauge
	PartitionDensity *prometheus.GaugeVec

	// Sweep Metrics
	SweepPointsTotal   prometheus.Counter
	SweepBestThreshold prometheus.Gauge

	// System Metrics
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initRunMetrics()
	r.initGraphMetrics()
	r.initSystemMetrics()

	return r
}
