// Package linkcom detects overlapping link communities: edges are clustered
// by single-linkage merging on the Jaccard similarity of inclusive
// neighborhoods, so a node belongs to every community one of its edges joins.
package linkcom

import (
	"errors"
)

var (
	ErrInvalidThreshold   = errors.New("threshold must be in [0,1]")
	ErrInvariantViolation = errors.New("edge partition invariant violated")
	ErrUnknownSharding    = errors.New("unknown keystone sharding strategy")
)

// NodeID is a node identifier as it appears in the input.
type NodeID int64

// NodeIndex is a dense node index in [0, numNodes), assigned in first-seen order.
type NodeIndex int

// EdgeID is the discovery position of an accepted edge.
type EdgeID int

// noEdge marks the self entry of an inclusive neighborhood.
const noEdge EdgeID = -1

// RawPair is one input record.
type RawPair struct {
	A, B NodeID
}

// Edge is an undirected edge between node indices with I < J.
type Edge struct {
	I, J NodeIndex
}

// newEdge normalizes an index pair so that I < J.
func newEdge(a, b NodeIndex) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{I: a, J: b}
}

// ExternalEdge is an edge rendered with input identifiers.
type ExternalEdge struct {
	A, B NodeID
}

// LinkCluster is one link community.
type LinkCluster struct {
	// ID is the EdgeID the surviving cluster was seeded with.
	ID    EdgeID
	Edges []Edge      // ascending by (I, J)
	Nodes []NodeIndex // distinct, ascending
}

// EdgeCount returns mc, the number of member edges.
func (c LinkCluster) EdgeCount() int { return len(c.Edges) }

// NodeCount returns nc, the number of distinct nodes touched by the member edges.
func (c LinkCluster) NodeCount() int { return len(c.Nodes) }
