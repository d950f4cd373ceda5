package linkcom

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholds(t *testing.T) {
	got, err := Thresholds(0, 1, 0.25)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, got)

	got, err = Thresholds(0.1, 0.3, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, got)

	got, err = Thresholds(0.5, 0.5, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, got)

	for _, bad := range [][3]float64{
		{-0.1, 1, 0.1},
		{0, 1.5, 0.1},
		{0, 1, 0},
		{0.8, 0.2, 0.1},
	} {
		_, err := Thresholds(bad[0], bad[1], bad[2])
		assert.True(t, errors.Is(err, ErrInvalidSweep), "%v: %v", bad, err)
	}
}

func TestSweep_PicksDensestPartition(t *testing.T) {
	c := NewClusterer(paw)

	sr, err := c.Sweep(context.Background(), []float64{0, 0.5, 1}, 2)
	require.NoError(t, err)
	require.Len(t, sr.Points, 3)

	assert.Equal(t, 1, sr.Points[0].Clusters)
	assert.Equal(t, 2, sr.Points[1].Clusters)
	assert.Equal(t, 3, sr.Points[2].Clusters)

	// densities: 1/3 at 0, 0.75 at 0.5, 0 at 1
	best, ok := sr.BestPoint()
	require.True(t, ok)
	assert.Equal(t, 0.5, best.Threshold)
	assert.InDelta(t, 0.75, best.Density.PartitionDensity.Value, 1e-12)
}

func TestSweep_TiesGoToLowerThreshold(t *testing.T) {
	c := NewClusterer(paw)

	sr, err := c.Sweep(context.Background(), []float64{0.75, 0.5}, 1)
	require.NoError(t, err)
	best, ok := sr.BestPoint()
	require.True(t, ok)
	assert.Equal(t, 0.5, best.Threshold)
	assert.Equal(t, 1, sr.Best)
}

func TestSweep_NoApplicableDensity(t *testing.T) {
	c := NewClusterer(nil)
	sr, err := c.Sweep(context.Background(), []float64{0, 1}, 2)
	require.NoError(t, err)
	_, ok := sr.BestPoint()
	assert.False(t, ok)
	assert.Equal(t, -1, sr.Best)
}

func TestSweep_Errors(t *testing.T) {
	c := NewClusterer(paw)

	_, err := c.Sweep(context.Background(), nil, 1)
	assert.True(t, errors.Is(err, ErrInvalidSweep))

	_, err = c.Sweep(context.Background(), []float64{0.5, 2}, 1)
	assert.True(t, errors.Is(err, ErrInvalidThreshold))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Sweep(ctx, []float64{0, 0.5}, 1)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
