package linkcom

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-linkcom/pkg/parallel"
	"github.com/dd0wney/cluso-linkcom/pkg/partition"
)

// IntersectionSize counts the common members of two ascending slices with a
// single merge scan.
func IntersectionSize(a, b []NodeIndex) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case b[j] < a[i]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

// Jaccard returns |a ∩ b| / |a ∪ b| for two ascending sets. Inclusive
// neighborhoods are never empty, so the union is at least 1 there; two empty
// inputs give 0.
func Jaccard(a, b []NodeIndex) float64 {
	inter := IntersectionSize(a, b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// EngineStats counts the work done by one similarity pass.
type EngineStats struct {
	Comparisons int64
	Merges      int64
}

// edgePair is a merge request between two edges sharing a keystone.
type edgePair struct {
	a, b EdgeID
}

// mergeBatch bounds how many merge requests a parallel shard buffers before
// taking the partition lock.
const mergeBatch = 256

// SimilarityEngine compares every pair of edges that share a keystone node and
// merges their clusters when the Jaccard similarity of the two far endpoints
// reaches the threshold. It is the only mutator of its partition.
type SimilarityEngine struct {
	nb   *Neighborhoods
	part *ClusterPartition

	mu          sync.Mutex // serializes partition access in RunParallel
	comparisons atomic.Int64
	merges      atomic.Int64
}

// NewSimilarityEngine binds an engine to immutable neighborhoods and the
// partition it will mutate.
func NewSimilarityEngine(nb *Neighborhoods, part *ClusterPartition) *SimilarityEngine {
	return &SimilarityEngine{nb: nb, part: part}
}

// Stats returns the counters accumulated so far.
func (e *SimilarityEngine) Stats() EngineStats {
	return EngineStats{
		Comparisons: e.comparisons.Load(),
		Merges:      e.merges.Load(),
	}
}

// Run processes keystones 0..numNodes-1 in ascending order.
func (e *SimilarityEngine) Run(threshold float64) {
	for k := 0; k < e.nb.Len(); k++ {
		e.processKeystone(NodeIndex(k), threshold)
	}
}

// RunOrder processes the given keystones in the given order. The resulting
// partition does not depend on the order.
func (e *SimilarityEngine) RunOrder(threshold float64, keystones []NodeIndex) {
	for _, k := range keystones {
		e.processKeystone(k, threshold)
	}
}

func (e *SimilarityEngine) processKeystone(k NodeIndex, threshold float64) {
	e.visitPairs(k, threshold, func(p edgePair) {
		if e.part.Merge(p.a, p.b) {
			e.merges.Add(1)
		}
	})
}

// visitPairs calls fn for every pair of edges incident to k whose far
// endpoints n_i < n_j are at least threshold-similar.
func (e *SimilarityEngine) visitPairs(k NodeIndex, threshold float64, fn func(edgePair)) {
	members := e.nb.members[k]
	edges := e.nb.edges[k]

	var compared int64
	for x := 0; x < len(members); x++ {
		ni := members[x]
		if ni == k {
			continue
		}
		hoodI := e.nb.members[ni]
		for y := x + 1; y < len(members); y++ {
			nj := members[y]
			if nj == k {
				continue
			}
			compared++
			if Jaccard(hoodI, e.nb.members[nj]) >= threshold {
				fn(edgePair{a: edges[x], b: edges[y]})
			}
		}
	}
	e.comparisons.Add(compared)
}

// RunParallel shards keystones with the given strategy and runs the shards on
// a worker pool. Similarities are computed without locking; merges are
// buffered per shard and applied under the engine lock.
func (e *SimilarityEngine) RunParallel(threshold float64, workers int, strategy partition.Strategy) error {
	pool, err := parallel.NewWorkerPool(workers)
	if err != nil {
		return fmt.Errorf("similarity pass: %w", err)
	}

	for _, shard := range partition.Assign(strategy, e.nb.Len()) {
		if len(shard) == 0 {
			continue
		}
		pool.Submit(func() error {
			buf := make([]edgePair, 0, mergeBatch)
			for _, k := range shard {
				e.visitPairs(NodeIndex(k), threshold, func(p edgePair) {
					buf = append(buf, p)
					if len(buf) == mergeBatch {
						e.applyLocked(buf)
						buf = buf[:0]
					}
				})
			}
			e.applyLocked(buf)
			return nil
		})
	}

	return pool.Wait()
}

func (e *SimilarityEngine) applyLocked(pairs []edgePair) {
	if len(pairs) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var merged int64
	for _, p := range pairs {
		if e.part.Merge(p.a, p.b) {
			merged++
		}
	}
	e.merges.Add(merged)
}

// KeystoneCost estimates the pair-comparison work of every keystone.
func (nb *Neighborhoods) KeystoneCost() []int64 {
	cost := make([]int64, nb.Len())
	for k := range cost {
		d := int64(nb.Degree(NodeIndex(k)))
		cost[k] = d * (d - 1) / 2
	}
	return cost
}
