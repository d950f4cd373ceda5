package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-linkcom/pkg/config"
	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
	"github.com/dd0wney/cluso-linkcom/pkg/logging"
	"github.com/dd0wney/cluso-linkcom/pkg/metrics"
	"github.com/dd0wney/cluso-linkcom/pkg/report"
)

type sweepFlags struct {
	start, stop, step float64
	concurrency       int
}

func (c *cli) newSweepCmd() *cobra.Command {
	var sf sweepFlags

	cmd := &cobra.Command{
		Use:   "sweep <network.pairs>",
		Short: "Cluster at a grid of thresholds and keep the densest partition",
		Long: `sweep clusters the graph once per threshold in [start, stop] and reports
the partition density of each. The partition with the highest density is
written as the result, the way the threshold is usually chosen for link
communities.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSweep(cmd, args[0], sf)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&sf.start, "start", 0, "first threshold")
	f.Float64Var(&sf.stop, "stop", 1, "last threshold")
	f.Float64Var(&sf.step, "step", 0.05, "threshold increment")
	f.IntVar(&sf.concurrency, "concurrency", 0, "thresholds clustered at once")
	return cmd
}

func (c *cli) runSweep(cmd *cobra.Command, input string, sf sweepFlags) error {
	cfg, logger, err := c.setup(cmd, func(cfg *config.Config) error {
		flags := cmd.Flags()
		if flags.Changed("start") {
			cfg.Sweep.Start = sf.start
		}
		if flags.Changed("stop") {
			cfg.Sweep.Stop = sf.stop
		}
		if flags.Changed("step") {
			cfg.Sweep.Step = sf.step
		}
		if flags.Changed("concurrency") {
			cfg.Sweep.Concurrency = sf.concurrency
		}
		return nil
	})
	if err != nil {
		return err
	}

	thresholds, err := linkcom.Thresholds(cfg.Sweep.Start, cfg.Sweep.Stop, cfg.Sweep.Step)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	clusterer, err := c.load(cmd.Context(), cfg, logger, input)
	if err != nil {
		reg.RecordFailure()
		c.flushMetrics(cfg, reg, logger)
		return err
	}

	sweep, err := clusterer.Sweep(cmd.Context(), thresholds, cfg.Sweep.Concurrency)
	if err != nil {
		reg.RecordFailure()
		c.flushMetrics(cfg, reg, logger)
		return err
	}
	reg.RecordSweep(sweep)

	if !c.quiet {
		fmt.Fprintln(c.stdout, report.RenderSweep(sweep))
	}

	best, ok := sweep.BestPoint()
	if !ok {
		logger.Warn("no threshold produced an applicable partition density, nothing written")
		c.flushMetrics(cfg, reg, logger)
		return nil
	}

	res, err := clusterer.Run(best.Threshold)
	if err != nil {
		reg.RecordFailure()
		c.flushMetrics(cfg, reg, logger)
		return err
	}
	logger.Info("best threshold selected",
		logging.Threshold(best.Threshold),
		logging.String("partition_density", best.Density.PartitionDensity.String()),
	)

	if err := c.writeResult(cfg, logger, input, res); err != nil {
		reg.RecordFailure()
		c.flushMetrics(cfg, reg, logger)
		return err
	}
	reg.RecordRun(res)
	c.flushMetrics(cfg, reg, logger)

	if !c.quiet {
		fmt.Fprintln(c.stdout, report.Render(report.Summarize(res)))
	}
	return nil
}
