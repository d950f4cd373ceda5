package linkcom

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dd0wney/cluso-linkcom/pkg/logging"
	"github.com/dd0wney/cluso-linkcom/pkg/partition"
)

// Clusterer owns the immutable graph state of one input: the edge list and the
// inclusive neighborhoods. Each Run builds its own partition, so runs are
// independent and may execute concurrently.
type Clusterer struct {
	graph    *EdgeList
	hoods    *Neighborhoods
	logger   logging.Logger
	workers  int
	sharding partition.Kind
}

// Option configures a Clusterer
type Option func(*Clusterer)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(c *Clusterer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers runs the similarity pass on n workers; n <= 1 runs it inline.
func WithWorkers(n int) Option {
	return func(c *Clusterer) { c.workers = n }
}

// WithSharding selects how keystones are spread over workers.
func WithSharding(kind partition.Kind) Option {
	return func(c *Clusterer) { c.sharding = kind }
}

// NewClusterer ingests raw pairs and builds neighborhoods.
func NewClusterer(pairs []RawPair, opts ...Option) *Clusterer {
	c := &Clusterer{
		logger:   logging.NewNopLogger(),
		workers:  1,
		sharding: partition.KindHash,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.Component("linkcom"))

	c.graph = Ingest(pairs)
	c.hoods = BuildNeighborhoods(c.graph)
	c.logger.Debug("graph built",
		logging.Int("pairs", len(pairs)),
		logging.Nodes(c.graph.NumNodes()),
		logging.Edges(c.graph.NumEdges()),
		logging.Int("discarded", c.graph.Discarded()),
		logging.Int("duplicates", c.graph.Duplicates()),
	)
	return c
}

// Graph returns the normalized edge list.
func (c *Clusterer) Graph() *EdgeList { return c.graph }

// Neighborhoods returns the inclusive neighborhoods.
func (c *Clusterer) Neighborhoods() *Neighborhoods { return c.hoods }

// RunStats describes one clustering run.
type RunStats struct {
	Nodes       int
	Edges       int
	Discarded   int
	Duplicates  int
	Comparisons int64
	Merges      int64
	Workers     int
	Duration    time.Duration
}

// Result is the frozen outcome of one run.
type Result struct {
	Threshold float64
	Clusters  []LinkCluster // ordered by cluster ID
	Density   DensityReport
	Stats     RunStats

	graph *EdgeList
}

// CheckThreshold rejects thresholds outside [0,1], including NaN.
func CheckThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// Run clusters the edges at the given similarity threshold.
func (c *Clusterer) Run(threshold float64) (*Result, error) {
	if err := CheckThreshold(threshold); err != nil {
		return nil, err
	}
	start := time.Now()

	part := NewClusterPartition(c.graph.NumEdges())
	engine := NewSimilarityEngine(c.hoods, part)

	workers := c.workers
	if workers > 1 && c.hoods.Len() > 1 {
		strategy, err := partition.New(c.sharding, workers, c.hoods.Len())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownSharding, err)
		}
		if c.logger.GetLevel() <= logging.DebugLevel {
			m := partition.ComputeMetrics(strategy, c.hoods.KeystoneCost())
			c.logger.Debug("keystones sharded",
				logging.String("sharding", string(c.sharding)),
				logging.Workers(workers),
				logging.Float64("load_balance", m.LoadBalance),
			)
		}
		if err := engine.RunParallel(threshold, workers, strategy); err != nil {
			return nil, fmt.Errorf("similarity pass: %w", err)
		}
	} else {
		workers = 1
		engine.Run(threshold)
	}

	if err := part.Verify(); err != nil {
		panic(err)
	}

	res := c.freeze(part, threshold)
	es := engine.Stats()
	res.Stats = RunStats{
		Nodes:       c.graph.NumNodes(),
		Edges:       c.graph.NumEdges(),
		Discarded:   c.graph.Discarded(),
		Duplicates:  c.graph.Duplicates(),
		Comparisons: es.Comparisons,
		Merges:      es.Merges,
		Workers:     workers,
		Duration:    time.Since(start),
	}

	if res.Stats.Edges == 0 {
		c.logger.Warn("no edges accepted, densities not applicable", logging.Threshold(threshold))
	}
	c.logger.Info("clustering complete",
		logging.Threshold(threshold),
		logging.Clusters(len(res.Clusters)),
		logging.Int64("comparisons", es.Comparisons),
		logging.Int64("merges", es.Merges),
		logging.String("partition_density", res.Density.PartitionDensity.String()),
		logging.Latency(res.Stats.Duration),
	)
	return res, nil
}

// freeze converts the final partition into link clusters and computes density.
func (c *Clusterer) freeze(part *ClusterPartition, threshold float64) *Result {
	raw := part.Clusters()
	clusters := make([]LinkCluster, 0, len(raw))
	for _, ec := range raw {
		lc := LinkCluster{
			ID:    EdgeID(ec.Handle),
			Edges: make([]Edge, len(ec.Edges)),
		}
		seen := make(map[NodeIndex]struct{}, len(ec.Edges)+1)
		for i, id := range ec.Edges {
			e := c.graph.Edge(id)
			lc.Edges[i] = e
			for _, n := range [2]NodeIndex{e.I, e.J} {
				if _, ok := seen[n]; !ok {
					seen[n] = struct{}{}
					lc.Nodes = append(lc.Nodes, n)
				}
			}
		}
		sort.Slice(lc.Edges, func(i, j int) bool {
			if lc.Edges[i].I != lc.Edges[j].I {
				return lc.Edges[i].I < lc.Edges[j].I
			}
			return lc.Edges[i].J < lc.Edges[j].J
		})
		sort.Slice(lc.Nodes, func(i, j int) bool { return lc.Nodes[i] < lc.Nodes[j] })
		clusters = append(clusters, lc)
	}

	return &Result{
		Threshold: threshold,
		Clusters:  clusters,
		Density:   ComputeDensity(clusters),
		graph:     c.graph,
	}
}

// NodeID maps a node index back to its input identifier.
func (r *Result) NodeID(idx NodeIndex) NodeID { return r.graph.NodeID(idx) }

// ExternalEdges renders the edges of c with input identifiers, in the
// cluster's edge order.
func (r *Result) ExternalEdges(c LinkCluster) []ExternalEdge {
	out := make([]ExternalEdge, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = ExternalEdge{A: r.graph.NodeID(e.I), B: r.graph.NodeID(e.J)}
	}
	return out
}

// ExternalNodes returns the distinct input identifiers of c in ascending order.
func (r *Result) ExternalNodes(c LinkCluster) []NodeID {
	out := make([]NodeID, len(c.Nodes))
	for i, n := range c.Nodes {
		out[i] = r.graph.NodeID(n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Memberships counts, for every node index, how many clusters it belongs to.
func (r *Result) Memberships() []int {
	counts := make([]int, r.graph.NumNodes())
	for _, c := range r.Clusters {
		for _, n := range c.Nodes {
			counts[n]++
		}
	}
	return counts
}
