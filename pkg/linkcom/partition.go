package linkcom

import (
	"fmt"
	"sort"
)

// ClusterHandle addresses a cluster in the partition arena. A cluster keeps
// the handle it was created with for as long as it survives.
type ClusterHandle int

// EdgeCluster is a surviving cluster as reported by ClusterPartition.Clusters.
type EdgeCluster struct {
	Handle ClusterHandle
	Edges  []EdgeID // ascending
}

// ClusterPartition maps every edge to the link cluster it currently belongs to.
// Clusters live in an arena indexed by handle; an absorbed cluster's slot is
// released. The partition is not safe for concurrent use.
type ClusterPartition struct {
	slots  [][]EdgeID
	owner  []ClusterHandle
	live   int
	merges int
}

// NewClusterPartition creates one singleton cluster per edge; the cluster of
// edge e starts with handle e.
func NewClusterPartition(numEdges int) *ClusterPartition {
	p := &ClusterPartition{
		slots: make([][]EdgeID, numEdges),
		owner: make([]ClusterHandle, numEdges),
		live:  numEdges,
	}
	for e := 0; e < numEdges; e++ {
		p.slots[e] = []EdgeID{EdgeID(e)}
		p.owner[e] = ClusterHandle(e)
	}
	return p
}

// ClusterOf returns the handle of the cluster containing e.
func (p *ClusterPartition) ClusterOf(e EdgeID) ClusterHandle {
	if e < 0 || int(e) >= len(p.owner) {
		panic(fmt.Errorf("%w: edge %d is not in the partition", ErrInvariantViolation, e))
	}
	return p.owner[e]
}

// Merge unites the clusters of a and b. The cluster with fewer edges is
// absorbed into the larger one; on a tie the cluster of a survives. It
// returns false when a and b were already in the same cluster.
func (p *ClusterPartition) Merge(a, b EdgeID) bool {
	keep, drop := p.ClusterOf(a), p.ClusterOf(b)
	if keep == drop {
		return false
	}
	if len(p.slots[drop]) > len(p.slots[keep]) {
		keep, drop = drop, keep
	}

	for _, e := range p.slots[drop] {
		p.owner[e] = keep
	}
	p.slots[keep] = append(p.slots[keep], p.slots[drop]...)
	p.slots[drop] = nil
	p.live--
	p.merges++
	return true
}

// Size returns the number of edges in the cluster h, or 0 for a released handle.
func (p *ClusterPartition) Size(h ClusterHandle) int { return len(p.slots[h]) }

// Len returns the number of surviving clusters.
func (p *ClusterPartition) Len() int { return p.live }

// NumEdges returns the number of edges under partition.
func (p *ClusterPartition) NumEdges() int { return len(p.owner) }

// Merges returns the number of merges that changed the partition.
func (p *ClusterPartition) Merges() int { return p.merges }

// Clusters returns the surviving clusters ordered by handle, each with its
// member edges in ascending order.
func (p *ClusterPartition) Clusters() []EdgeCluster {
	out := make([]EdgeCluster, 0, p.live)
	for h, members := range p.slots {
		if len(members) == 0 {
			continue
		}
		edges := append([]EdgeID(nil), members...)
		sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
		out = append(out, EdgeCluster{Handle: ClusterHandle(h), Edges: edges})
	}
	return out
}

// Verify checks that every edge belongs to exactly one surviving cluster and
// that the edge index agrees with the arena.
func (p *ClusterPartition) Verify() error {
	seen := make([]bool, len(p.owner))
	live := 0
	for h, members := range p.slots {
		if len(members) == 0 {
			continue
		}
		live++
		for _, e := range members {
			if e < 0 || int(e) >= len(p.owner) {
				return fmt.Errorf("%w: cluster %d holds unknown edge %d", ErrInvariantViolation, h, e)
			}
			if seen[e] {
				return fmt.Errorf("%w: edge %d appears in more than one cluster", ErrInvariantViolation, e)
			}
			seen[e] = true
			if p.owner[e] != ClusterHandle(h) {
				return fmt.Errorf("%w: edge %d indexed to cluster %d but stored in %d", ErrInvariantViolation, e, p.owner[e], h)
			}
		}
	}
	for e, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: edge %d belongs to no cluster", ErrInvariantViolation, e)
		}
	}
	if live != p.live {
		return fmt.Errorf("%w: %d live clusters, counter says %d", ErrInvariantViolation, live, p.live)
	}
	return nil
}
