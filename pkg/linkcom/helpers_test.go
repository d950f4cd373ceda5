package linkcom

import (
	"fmt"
	"sort"
	"strings"
)

func pairs(vals ...int64) []RawPair {
	if len(vals)%2 != 0 {
		panic("pairs needs an even number of values")
	}
	out := make([]RawPair, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		out = append(out, RawPair{A: NodeID(vals[i]), B: NodeID(vals[i+1])})
	}
	return out
}

// canonical renders a partition as sorted cluster strings of edge ids.
func canonical(clusters []EdgeCluster) []string {
	out := make([]string, 0, len(clusters))
	for _, c := range clusters {
		ids := make([]string, len(c.Edges))
		for i, e := range c.Edges {
			ids[i] = fmt.Sprint(int(e))
		}
		out = append(out, strings.Join(ids, ","))
	}
	sort.Strings(out)
	return out
}

// externalCanonical renders a result as sorted cluster strings of input ids.
func externalCanonical(res *Result) []string {
	out := make([]string, 0, len(res.Clusters))
	for _, c := range res.Clusters {
		edges := res.ExternalEdges(c)
		parts := make([]string, len(edges))
		for i, e := range edges {
			parts[i] = fmt.Sprintf("%d-%d", e.A, e.B)
		}
		sort.Strings(parts)
		out = append(out, strings.Join(parts, " "))
	}
	sort.Strings(out)
	return out
}

// runEngine clusters el sequentially and returns the partition.
func runEngine(el *EdgeList, threshold float64) *ClusterPartition {
	part := NewClusterPartition(el.NumEdges())
	NewSimilarityEngine(BuildNeighborhoods(el), part).Run(threshold)
	return part
}

// clusterOfEdge maps each edge id to the index of its cluster in list.
func clusterOfEdge(clusters []EdgeCluster, numEdges int) []int {
	owner := make([]int, numEdges)
	for i, c := range clusters {
		for _, e := range c.Edges {
			owner[e] = i
		}
	}
	return owner
}
