package linkcom

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-linkcom/pkg/logging"
)

// ErrInvalidSweep is returned for an empty or malformed threshold grid.
var ErrInvalidSweep = errors.New("invalid threshold sweep")

// SweepPoint is the outcome of one threshold in a sweep.
type SweepPoint struct {
	Threshold float64
	Clusters  int
	Density   DensityReport
}

// SweepResult lists every point in the order the thresholds were given.
type SweepResult struct {
	Points []SweepPoint
	// Best indexes the point with the highest applicable partition density,
	// or is -1 when no point has one. Ties go to the lower threshold.
	Best int
}

// BestPoint returns the best point, if any.
func (s *SweepResult) BestPoint() (SweepPoint, bool) {
	if s.Best < 0 {
		return SweepPoint{}, false
	}
	return s.Points[s.Best], true
}

// Thresholds builds the inclusive grid start, start+step, ..., <= stop.
func Thresholds(start, stop, step float64) ([]float64, error) {
	if err := CheckThreshold(start); err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidSweep, err)
	}
	if err := CheckThreshold(stop); err != nil {
		return nil, fmt.Errorf("%w: stop: %v", ErrInvalidSweep, err)
	}
	if !(step > 0) {
		return nil, fmt.Errorf("%w: step must be positive, got %v", ErrInvalidSweep, step)
	}
	if stop < start {
		return nil, fmt.Errorf("%w: stop %v is below start %v", ErrInvalidSweep, stop, start)
	}

	n := int(math.Floor((stop-start)/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		t := math.Round((start+float64(i)*step)*1e9) / 1e9
		out = append(out, math.Min(t, 1))
	}
	return out, nil
}

// Sweep runs the clustering once per threshold, at most concurrency runs at
// a time, and picks the partition with maximum density.
func (c *Clusterer) Sweep(ctx context.Context, thresholds []float64, concurrency int) (*SweepResult, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("%w: no thresholds", ErrInvalidSweep)
	}
	for _, t := range thresholds {
		if err := CheckThreshold(t); err != nil {
			return nil, err
		}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	op := logging.StartTimer(c.logger, "threshold sweep complete",
		logging.Int("points", len(thresholds)),
		logging.Int("concurrency", concurrency),
	)

	points := make([]SweepPoint, len(thresholds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, t := range thresholds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.Run(t)
			if err != nil {
				return fmt.Errorf("threshold %v: %w", t, err)
			}
			points[i] = SweepPoint{
				Threshold: t,
				Clusters:  len(res.Clusters),
				Density:   res.Density,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		op.EndError(err)
		return nil, err
	}

	sr := &SweepResult{Points: points, Best: -1}
	for i, p := range points {
		d := p.Density.PartitionDensity
		if !d.Applicable {
			continue
		}
		if sr.Best < 0 {
			sr.Best = i
			continue
		}
		best := points[sr.Best]
		if d.Value > best.Density.PartitionDensity.Value ||
			(d.Value == best.Density.PartitionDensity.Value && p.Threshold < best.Threshold) {
			sr.Best = i
		}
	}

	fields := []logging.Field{}
	if bp, ok := sr.BestPoint(); ok {
		fields = append(fields, logging.Threshold(bp.Threshold), logging.Float64("partition_density", bp.Density.PartitionDensity.Value))
	}
	op.End(fields...)
	return sr, nil
}
