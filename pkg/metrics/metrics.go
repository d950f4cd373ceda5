package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
)

// Run statuses and density variants used as label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	VariantAll              = "all"
	VariantExcludingOneEdge = "excluding_one_edge"
)

// RecordRun records a completed clustering run
func (r *Registry) RecordRun(res *linkcom.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.RunsTotal.WithLabelValues(StatusSuccess).Inc()
	r.RunDuration.Observe(res.Stats.Duration.Seconds())
	r.Comparisons.Add(float64(res.Stats.Comparisons))
	r.Merges.Add(float64(res.Stats.Merges))

	r.GraphNodes.Set(float64(res.Stats.Nodes))
	r.GraphEdges.Set(float64(res.Stats.Edges))
	r.DiscardedPairs.Set(float64(res.Stats.Discarded))
	r.DuplicatePairs.Set(float64(res.Stats.Duplicates))

	r.Clusters.Set(float64(len(res.Clusters)))
	r.Threshold.Set(res.Threshold)
	r.setDensity(VariantAll, res.Density.PartitionDensity)
	r.setDensity(VariantExcludingOneEdge, res.Density.ExcludingSingletons)
}

func (r *Registry) setDensity(variant string, d linkcom.Density) {
	if !d.Applicable {
		r.PartitionDensity.DeleteLabelValues(variant)
		return
	}
	r.PartitionDensity.WithLabelValues(variant).Set(d.Value)
}

// RecordFailure counts a run that did not produce a result
func (r *Registry) RecordFailure() {
	r.RunsTotal.WithLabelValues(StatusError).Inc()
}

// RecordSweep records a threshold sweep. The best point, when there is one,
// becomes the latest result.
func (r *Registry) RecordSweep(sweep *linkcom.SweepResult) {
	r.SweepPointsTotal.Add(float64(len(sweep.Points)))

	best, ok := sweep.BestPoint()
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.SweepBestThreshold.Set(best.Threshold)
	r.Threshold.Set(best.Threshold)
	r.Clusters.Set(float64(best.Clusters))
	r.setDensity(VariantAll, best.Density.PartitionDensity)
	r.setDensity(VariantExcludingOneEdge, best.Density.ExcludingSingletons)
}

// UpdateSystemMetrics samples runtime statistics
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile writes all metrics in the text exposition format for the
// node exporter textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
