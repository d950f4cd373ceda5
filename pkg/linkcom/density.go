package linkcom

import (
	"strconv"
)

// Density is a partition-density value that may be undefined.
type Density struct {
	Value      float64
	Applicable bool
}

// String formats the value with six decimals, or "not applicable".
func (d Density) String() string {
	if !d.Applicable {
		return "not applicable"
	}
	return strconv.FormatFloat(d.Value, 'f', 6, 64)
}

// DensityReport holds the partition density of a final partition and the
// sums it was computed from.
type DensityReport struct {
	// PartitionDensity is 2·wSum/M over all clusters.
	PartitionDensity Density
	// ExcludingSingletons is 2·wSum/Mns, leaving out one-edge clusters.
	ExcludingSingletons Density

	M           int     // total edges
	Mns         int     // edges in clusters with nc != 2
	WeightedSum float64 // wSum
}

// clusterWeight returns mc·(mc-(nc-1)) / ((nc-2)·(nc-1)). Callers exclude nc == 2.
func clusterWeight(mc, nc int) float64 {
	m, n := float64(mc), float64(nc)
	return m * (m - (n - 1)) / ((n - 2) * (n - 1))
}

// ComputeDensity evaluates partition density over the final clusters.
// A cluster touching exactly two nodes is a single edge and adds to M only.
func ComputeDensity(clusters []LinkCluster) DensityReport {
	var r DensityReport
	for _, c := range clusters {
		mc, nc := c.EdgeCount(), c.NodeCount()
		r.M += mc
		if nc == 2 {
			continue
		}
		r.Mns += mc
		r.WeightedSum += clusterWeight(mc, nc)
	}

	if r.M > 0 {
		r.PartitionDensity = Density{Value: 2 * r.WeightedSum / float64(r.M), Applicable: true}
	}
	if r.Mns > 0 {
		r.ExcludingSingletons = Density{Value: 2 * r.WeightedSum / float64(r.Mns), Applicable: true}
	}
	return r
}
