package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-linkcom/pkg/config"
	"github.com/dd0wney/cluso-linkcom/pkg/edgelist"
	"github.com/dd0wney/cluso-linkcom/pkg/linkcom"
	"github.com/dd0wney/cluso-linkcom/pkg/logging"
	"github.com/dd0wney/cluso-linkcom/pkg/metrics"
	"github.com/dd0wney/cluso-linkcom/pkg/partition"
	"github.com/dd0wney/cluso-linkcom/pkg/report"
)

// cli carries flag values and the process streams shared by all commands.
type cli struct {
	configFile  string
	envFile     string
	workers     int
	sharding    string
	format      string
	outDir      string
	metricsFile string
	logLevel    string
	logFormat   string
	quiet       bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "linkcom <network.pairs> [threshold]",
		Short: "Detect overlapping link communities",
		Long: `linkcom groups the edges of an undirected graph into communities by the
Jaccard similarity of their endpoints' neighborhoods, so nodes may belong to
several communities. The input is a whitespace-separated edge list read from
a file, a .snappy file, s3://bucket/key or "-" for stdin.

Results are written next to the input (or to --out-dir) as .clusters,
.groups, .stats and .info files, and optionally as Parquet.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          c.runCluster,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "YAML configuration file")
	pf.StringVar(&c.envFile, "env-file", "", "dotenv file (default .env when present)")
	pf.IntVar(&c.workers, "workers", 0, "parallel similarity workers")
	pf.StringVar(&c.sharding, "sharding", "", "keystone sharding: hash or range")
	pf.StringVar(&c.format, "format", "", "output format: text, parquet or both")
	pf.StringVar(&c.outDir, "out-dir", "", "directory for result files (default: next to the input)")
	pf.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&c.logFormat, "log-format", "", "log format: json or text")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "do not print the summary")

	root.AddCommand(c.newSweepCmd())
	return root
}

// setup loads configuration, applies flags set on the command line and
// builds the run logger.
func (c *cli) setup(cmd *cobra.Command, override func(*config.Config) error) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: c.configFile, EnvFile: c.envFile})
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = c.workers
	}
	if flags.Changed("sharding") {
		cfg.Sharding = c.sharding
	}
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("out-dir") {
		cfg.OutputDir = c.outDir
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = c.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = c.logFormat
	}
	if override != nil {
		if err := override(cfg); err != nil {
			return nil, nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(c.stderr, logging.ParseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format)).
		With(logging.RunID(uuid.NewString()))
	return cfg, logger, nil
}

func (c *cli) runCluster(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg, logger, err := c.setup(cmd, func(cfg *config.Config) error {
		if len(args) < 2 {
			return nil
		}
		t, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", linkcom.ErrInvalidThreshold, args[1])
		}
		cfg.Threshold = t
		return nil
	})
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

	res, err := clusterer.Run(cfg.Threshold)
	if err != nil {
		reg.RecordFailure()
		c.flushMetrics(cfg, reg, logger)
		return err
	}
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

// load reads the edge list and prepares a clusterer for it.
func (c *cli) load(ctx context.Context, cfg *config.Config, logger logging.Logger, input string) (*linkcom.Clusterer, error) {
	op := logging.StartTimer(logger, "edge list loaded", logging.Path(input))
	pairs, err := edgelist.Load(ctx, input, edgelist.Options{
		Stdin: c.stdin,
		S3Config: edgelist.S3Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		},
	})
	if err != nil {
		op.EndError(err)
		return nil, err
	}
	op.End(logging.Int("pairs", len(pairs)))

	return linkcom.NewClusterer(pairs,
		linkcom.WithLogger(logger),
		linkcom.WithWorkers(cfg.Workers),
		linkcom.WithSharding(partition.Kind(cfg.Sharding)),
	), nil
}

func (c *cli) writeResult(cfg *config.Config, logger logging.Logger, input string, res *linkcom.Result) error {
	paths := report.PathsFor(input, cfg.OutputDir)

	if cfg.WritesText() {
		if err := report.WriteText(paths, res); err != nil {
			return err
		}
		logger.Info("results written",
			logging.Path(paths.Clusters),
			logging.String("groups", paths.Groups),
			logging.String("stats", paths.Stats),
			logging.String("info", paths.Info),
		)
	}
	if cfg.WritesParquet() {
		if err := report.WriteParquetFile(paths.Parquet, res); err != nil {
			return err
		}
		logger.Info("parquet export written", logging.Path(paths.Parquet))
	}
	return nil
}

// flushMetrics writes the textfile when configured. Failures are logged, not
// returned, so they never mask the run's own outcome.
func (c *cli) flushMetrics(cfg *config.Config, reg *metrics.Registry, logger logging.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	reg.UpdateSystemMetrics()
	if err := reg.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error("metrics textfile not written", logging.Path(cfg.MetricsFile), logging.Error(err))
	}
}
