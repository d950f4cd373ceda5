package linkcom

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-linkcom/pkg/logging"
	"github.com/dd0wney/cluso-linkcom/pkg/partition"
)

func TestClusterer_PawAtZero(t *testing.T) {
	res, err := NewClusterer(paw).Run(0)
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	c := res.Clusters[0]
	assert.Equal(t, 4, c.EdgeCount())
	assert.Equal(t, 4, c.NodeCount())
	assert.Equal(t, []NodeID{1, 2, 3, 4}, res.ExternalNodes(c))

	assert.InDelta(t, 2.0/3.0, res.Density.WeightedSum, 1e-12)
	assert.InDelta(t, 1.0/3.0, res.Density.PartitionDensity.Value, 1e-12)
	assert.InDelta(t, 1.0/3.0, res.Density.ExcludingSingletons.Value, 1e-12)
}

func TestClusterer_PawAtOne(t *testing.T) {
	res, err := NewClusterer(paw).Run(1)
	require.NoError(t, err)

	assert.Equal(t, []string{"1-2", "1-3 2-3", "3-4"}, externalCanonical(res))
	assert.Equal(t, 4, res.Density.M)
	assert.Equal(t, 2, res.Density.Mns)
	assert.Equal(t, 0.0, res.Density.PartitionDensity.Value)
	assert.True(t, res.Density.ExcludingSingletons.Applicable)
}

func TestClusterer_Triangle(t *testing.T) {
	res, err := NewClusterer(pairs(1, 2, 2, 3, 1, 3)).Run(0)
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	assert.Equal(t, 3, res.Clusters[0].EdgeCount())
	assert.Equal(t, 3, res.Clusters[0].NodeCount())
	assert.Equal(t, 1.5, res.Density.WeightedSum)
	assert.Equal(t, 1.0, res.Density.PartitionDensity.Value)
}

func TestClusterer_InvalidThreshold(t *testing.T) {
	c := NewClusterer(paw)
	for _, th := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		_, err := c.Run(th)
		assert.True(t, errors.Is(err, ErrInvalidThreshold), "threshold %v: %v", th, err)
	}
}

func TestClusterer_EmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.WarnLevel, logging.FormatJSON)

	res, err := NewClusterer(pairs(2, 1, 3, 3), WithLogger(logger)).Run(0.5)
	require.NoError(t, err)

	assert.Empty(t, res.Clusters)
	assert.False(t, res.Density.PartitionDensity.Applicable)
	assert.False(t, res.Density.ExcludingSingletons.Applicable)
	assert.Equal(t, 2, res.Stats.Discarded)
	assert.True(t, strings.Contains(buf.String(), "no edges accepted"), buf.String())
}

func TestClusterer_ExternalRendering(t *testing.T) {
	// the index order (10, 20, 5) differs from identifier order
	res, err := NewClusterer(pairs(10, 20, 5, 10, 5, 20)).Run(0)
	require.NoError(t, err)
	require.Len(t, res.Clusters, 1)

	c := res.Clusters[0]
	assert.Equal(t, []NodeID{5, 10, 20}, res.ExternalNodes(c))
	assert.Equal(t, []ExternalEdge{{10, 20}, {10, 5}, {20, 5}}, res.ExternalEdges(c))
}

func TestClusterer_Overlap(t *testing.T) {
	// two triangles sharing node 3: at 0.5 each triangle is its own community
	// and node 3 belongs to both
	res, err := NewClusterer(pairs(1, 2, 2, 3, 1, 3, 3, 4, 4, 5, 3, 5)).Run(0.5)
	require.NoError(t, err)

	assert.Equal(t, []string{"1-2 1-3 2-3", "3-4 3-5 4-5"}, externalCanonical(res))

	counts := res.Memberships()
	hub := -1
	for idx := 0; idx < len(counts); idx++ {
		if res.NodeID(NodeIndex(idx)) == 3 {
			hub = idx
		}
	}
	require.NotEqual(t, -1, hub)
	assert.Equal(t, 2, counts[hub])
}

func TestClusterer_ParallelRun(t *testing.T) {
	seq, err := NewClusterer(paw).Run(0.5)
	require.NoError(t, err)

	for _, kind := range []string{"hash", "range"} {
		par, err := NewClusterer(paw, WithWorkers(4), WithSharding(partition.Kind(kind))).Run(0.5)
		require.NoError(t, err)
		assert.Equal(t, externalCanonical(seq), externalCanonical(par))
		assert.Equal(t, 4, par.Stats.Workers)
		assert.Equal(t, seq.Stats.Comparisons, par.Stats.Comparisons)
	}

	_, err = NewClusterer(paw, WithWorkers(2), WithSharding("metis")).Run(0.5)
	assert.True(t, errors.Is(err, ErrUnknownSharding), "got %v", err)
}

func TestClusterer_RunsAreIndependent(t *testing.T) {
	c := NewClusterer(paw)
	first, err := c.Run(0)
	require.NoError(t, err)
	_, err = c.Run(1)
	require.NoError(t, err)
	again, err := c.Run(0)
	require.NoError(t, err)

	assert.Equal(t, externalCanonical(first), externalCanonical(again))
	assert.Equal(t, first.Stats.Merges, again.Stats.Merges)
}
