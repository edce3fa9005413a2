// Package config loads arimasearch settings from a yaml file, ARIMA_ prefixed environment
// variables and defaults, and converts them into forecaster options.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
)

const (
	ScorerInSampleMSE = "in_sample_mse"
	ScorerCVRMSE      = "cv_rmse"
)

var (
	ErrInvalidLevel      = errors.New("invalid log level")
	ErrInvalidFormat     = errors.New("invalid log format")
	ErrInvalidSplitRatio = errors.New("split ratio must be between 0 and 1 exclusive")
	ErrInvalidScorer     = errors.New("unknown scorer")
	ErrEmptyDomain       = errors.New("search domain needs at least one p, d and q")
	ErrInvalidSplits     = errors.New("cross-validation needs at least one split")
	ErrNoValueColumn     = errors.New("no value column configured")
	ErrInvalidHorizon    = errors.New("horizon must be non-negative")
)

// Config is the complete arimasearch configuration
type Config struct {
	Data            DataConfig            `mapstructure:"data"`
	Pipeline        PipelineConfig        `mapstructure:"pipeline"`
	Preprocess      PreprocessConfig      `mapstructure:"preprocess"`
	Search          SearchConfig          `mapstructure:"search"`
	Model           ModelConfig           `mapstructure:"model"`
	CrossValidation CrossValidationConfig `mapstructure:"crossval"`
	Output          OutputConfig          `mapstructure:"output"`
	Logging         LoggingConfig         `mapstructure:"logging"`
}

// DataConfig describes the input csv
type DataConfig struct {
	Path        string        `mapstructure:"path"`
	ValueColumn string        `mapstructure:"value_column"`
	TimeColumn  string        `mapstructure:"time_column"`
	TimeLayout  string        `mapstructure:"time_layout"`
	Interval    time.Duration `mapstructure:"interval"`
}

type PipelineConfig struct {
	Label         string  `mapstructure:"label"`
	SplitRatio    float64 `mapstructure:"split_ratio"`
	IntervalAlpha float64 `mapstructure:"interval_alpha"`
	Horizon       int     `mapstructure:"horizon"`
}

type PreprocessConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	MaxDifferencing int     `mapstructure:"max_differencing"`
	SeasonalPeriod  int     `mapstructure:"seasonal_period"`
	Significance    float64 `mapstructure:"significance"`
}

// SearchConfig enables the grid search over Domain. When disabled the model params are
// used as is.
type SearchConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Workers int               `mapstructure:"workers"`
	Scorer  string            `mapstructure:"scorer"`
	Domain  gridsearch.Domain `mapstructure:"domain"`
}

type ModelConfig struct {
	Params       sarima.Params `mapstructure:"params"`
	MaxEvals     int           `mapstructure:"max_evaluations"`
	Tolerance    float64       `mapstructure:"tolerance"`
	IncludeMean  bool          `mapstructure:"include_mean"`
	IncludeDrift bool          `mapstructure:"include_drift"`
}

type CrossValidationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	NSplits int  `mapstructure:"n_splits"`
	Gap     int  `mapstructure:"gap"`
	Workers int  `mapstructure:"workers"`
}

// OutputConfig names the files results are written to. Empty paths are skipped.
type OutputConfig struct {
	ResultsPath string `mapstructure:"results_path"`
	PlotPath    string `mapstructure:"plot_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Data.ValueColumn == "" {
		return fmt.Errorf("data config: %w", ErrNoValueColumn)
	}
	if c.Pipeline.SplitRatio <= 0 || c.Pipeline.SplitRatio >= 1 {
		return fmt.Errorf("pipeline config: split_ratio %v, %w", c.Pipeline.SplitRatio, ErrInvalidSplitRatio)
	}
	if c.Pipeline.Horizon < 0 {
		return fmt.Errorf("pipeline config: horizon %d, %w", c.Pipeline.Horizon, ErrInvalidHorizon)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search config: %w", err)
	}
	if !c.Search.Enabled {
		if err := c.Model.Params.Validate(); err != nil {
			return fmt.Errorf("model config: %w", err)
		}
	}
	if c.CrossValidation.Enabled && c.CrossValidation.NSplits < 1 {
		return fmt.Errorf("crossval config: n_splits %d, %w", c.CrossValidation.NSplits, ErrInvalidSplits)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (c *SearchConfig) Validate() error {
	switch c.Scorer {
	case ScorerInSampleMSE, ScorerCVRMSE:
	default:
		return fmt.Errorf("%q, %w", c.Scorer, ErrInvalidScorer)
	}
	if c.Enabled && (len(c.Domain.P) == 0 || len(c.Domain.D) == 0 || len(c.Domain.Q) == 0) {
		return ErrEmptyDomain
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("%q, %w", c.Level, ErrInvalidLevel)
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("%q, %w", c.Format, ErrInvalidFormat)
	}
	return nil
}
