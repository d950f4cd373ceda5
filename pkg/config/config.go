// Package config loads linkcom settings from defaults, an optional YAML file,
// an optional .env file and LINKCOM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-linkcom/pkg/partition"
	"github.com/dd0wney/cluso-linkcom/pkg/validation"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LINKCOM"

// DefaultEnvFile is read when present; a missing default file is not an error.
const DefaultEnvFile = ".env"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Limits on parallelism.
const (
	MaxWorkers          = 1024
	MaxSweepConcurrency = 256
)

// Output formats.
const (
	FormatText    = "text"
	FormatParquet = "parquet"
	FormatBoth    = "both"
)

// Config holds every tunable of a clustering run.
type Config struct {
	Threshold float64 `yaml:"threshold" envconfig:"THRESHOLD" validate:"threshold"`
	Workers   int     `yaml:"workers" envconfig:"WORKERS"`
	Sharding  string  `yaml:"sharding" envconfig:"SHARDING"`

	OutputDir   string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`

	Log   LogConfig   `yaml:"log" envconfig:"LOG"`
	Sweep SweepConfig `yaml:"sweep" envconfig:"SWEEP"`
	S3    S3Config    `yaml:"s3" envconfig:"S3"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// SweepConfig configures the threshold grid of the sweep command.
type SweepConfig struct {
	Start       float64 `yaml:"start" envconfig:"START" validate:"threshold"`
	Stop        float64 `yaml:"stop" envconfig:"STOP" validate:"threshold"`
	Step        float64 `yaml:"step" envconfig:"STEP"`
	Concurrency int     `yaml:"concurrency" envconfig:"CONCURRENCY"`
}

// S3Config configures access to s3:// inputs.
type S3Config struct {
	Region          string `yaml:"region" envconfig:"REGION"`
	Endpoint        string `yaml:"endpoint" envconfig:"ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" envconfig:"USE_PATH_STYLE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Threshold: 0.5,
		Workers:   validation.ClampInt(runtime.GOMAXPROCS(0), 1, MaxWorkers),
		Sharding:  "hash",
		Format:    FormatText,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Sweep: SweepConfig{
			Start:       0,
			Stop:        1,
			Step:        0.05,
			Concurrency: validation.ClampInt(runtime.GOMAXPROCS(0), 1, MaxSweepConcurrency),
		},
	}
}

// LoadOptions names the optional sources read by Load.
type LoadOptions struct {
	// ConfigFile is a YAML file; empty skips it.
	ConfigFile string
	// EnvFile is a dotenv file; empty means DefaultEnvFile, which may be absent.
	EnvFile string
}

// Load builds a Config: defaults, then the YAML file, then the environment
// (with the dotenv file filling variables not already set). The result is
// not validated, so callers can apply flag overrides first.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", opts.ConfigFile, err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if opts.EnvFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cv := validation.NewConfigValidator("Config").
		RangeInt("Workers", c.Workers, 1, MaxWorkers).
		Custom("Sharding", func() error {
			_, err := partition.New(partition.Kind(c.Sharding), 1, 1)
			return err
		}).
		OneOf("Format", c.Format, []string{FormatText, FormatParquet, FormatBoth}).
		PositiveFloat("Sweep.Step", c.Sweep.Step).
		RangeFloat("Sweep.Step", c.Sweep.Step, 0, 1).
		RangeInt("Sweep.Concurrency", c.Sweep.Concurrency, 1, MaxSweepConcurrency).
		Ordered("Sweep.Start", c.Sweep.Start, "Sweep.Stop", c.Sweep.Stop).
		When(c.S3.AccessKeyID != "", func(cv *validation.ConfigValidator) {
			cv.Required("S3.SecretAccessKey", c.S3.SecretAccessKey)
		})
	if err := cv.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WritesText reports whether the text artifacts are requested.
func (c *Config) WritesText() bool { return c.Format == FormatText || c.Format == FormatBoth }

// WritesParquet reports whether the Parquet export is requested.
func (c *Config) WritesParquet() bool { return c.Format == FormatParquet || c.Format == FormatBoth }
