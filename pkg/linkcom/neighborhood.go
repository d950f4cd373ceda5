package linkcom

import (
	"sort"
)

// Neighborhoods holds the inclusive neighbor set of every node as an
// ascending slice. Alongside each member it records the EdgeID joining the
// member to the owner (noEdge for the owner itself).
type Neighborhoods struct {
	members [][]NodeIndex
	edges   [][]EdgeID
}

type neighborEntry struct {
	node NodeIndex
	edge EdgeID
}

// BuildNeighborhoods constructs inclusive neighborhoods for every node of el.
// Self-membership is added only after all edges have been placed.
func BuildNeighborhoods(el *EdgeList) *Neighborhoods {
	n := el.NumNodes()
	entries := make([][]neighborEntry, n)

	for id, e := range el.Edges() {
		entries[e.I] = append(entries[e.I], neighborEntry{node: e.J, edge: EdgeID(id)})
		entries[e.J] = append(entries[e.J], neighborEntry{node: e.I, edge: EdgeID(id)})
	}

	nb := &Neighborhoods{
		members: make([][]NodeIndex, n),
		edges:   make([][]EdgeID, n),
	}
	for i := range entries {
		list := append(entries[i], neighborEntry{node: NodeIndex(i), edge: noEdge})
		sort.Slice(list, func(a, b int) bool { return list[a].node < list[b].node })

		members := make([]NodeIndex, len(list))
		edges := make([]EdgeID, len(list))
		for k, entry := range list {
			members[k] = entry.node
			edges[k] = entry.edge
		}
		nb.members[i] = members
		nb.edges[i] = edges
	}
	return nb
}

// Len returns the number of nodes.
func (nb *Neighborhoods) Len() int { return len(nb.members) }

// Of returns the inclusive neighborhood of n in ascending order. The slice must
// not be modified.
func (nb *Neighborhoods) Of(n NodeIndex) []NodeIndex { return nb.members[n] }

// Contains reports whether m is in the inclusive neighborhood of n.
func (nb *Neighborhoods) Contains(n, m NodeIndex) bool {
	set := nb.members[n]
	k := sort.Search(len(set), func(i int) bool { return set[i] >= m })
	return k < len(set) && set[k] == m
}

// Degree returns the number of incident edges of n.
func (nb *Neighborhoods) Degree(n NodeIndex) int { return len(nb.members[n]) - 1 }
