package linkcom

// EdgeList is the normalized, de-duplicated edge set of one input together
// with the node index space it was built in.
type EdgeList struct {
	edges   []Edge
	nodeIDs []NodeID
	lookup  map[Edge]EdgeID

	discarded  int
	duplicates int
}

// nodeIndexer assigns dense indices to node identifiers in first-seen order.
type nodeIndexer struct {
	index map[NodeID]NodeIndex
	ids   []NodeID
}

func (ix *nodeIndexer) indexOf(id NodeID) NodeIndex {
	if idx, ok := ix.index[id]; ok {
		return idx
	}
	idx := NodeIndex(len(ix.ids))
	ix.index[id] = idx
	ix.ids = append(ix.ids, id)
	return idx
}

// Ingest normalizes raw pairs into an EdgeList. Pairs with B <= A are dropped,
// which removes self-loops and the reverse copy of an undirected edge. A pair
// whose edge was already accepted keeps its first EdgeID.
func Ingest(pairs []RawPair) *EdgeList {
	ix := &nodeIndexer{index: make(map[NodeID]NodeIndex)}
	el := &EdgeList{lookup: make(map[Edge]EdgeID)}

	for _, p := range pairs {
		if p.B <= p.A {
			el.discarded++
			continue
		}
		a := ix.indexOf(p.A)
		b := ix.indexOf(p.B)

		e := newEdge(a, b)
		if _, seen := el.lookup[e]; seen {
			el.duplicates++
			continue
		}
		el.lookup[e] = EdgeID(len(el.edges))
		el.edges = append(el.edges, e)
	}

	el.nodeIDs = ix.ids
	return el
}

// NumNodes returns the size of the node index space.
func (el *EdgeList) NumNodes() int { return len(el.nodeIDs) }

// NumEdges returns the number of accepted edges.
func (el *EdgeList) NumEdges() int { return len(el.edges) }

// Edge returns the edge with the given id.
func (el *EdgeList) Edge(id EdgeID) Edge { return el.edges[id] }

// Edges returns the accepted edges in EdgeID order. The slice must not be modified.
func (el *EdgeList) Edges() []Edge { return el.edges }

// NodeID maps an index back to the input identifier.
func (el *EdgeList) NodeID(idx NodeIndex) NodeID { return el.nodeIDs[idx] }

// Lookup returns the EdgeID of the edge between a and b, in either order.
func (el *EdgeList) Lookup(a, b NodeIndex) (EdgeID, bool) {
	id, ok := el.lookup[newEdge(a, b)]
	return id, ok
}

// Discarded is the number of pairs dropped because B <= A.
func (el *EdgeList) Discarded() int { return el.discarded }

// Duplicates is the number of accepted pairs that repeated an existing edge.
func (el *EdgeList) Duplicates() int { return el.duplicates }
