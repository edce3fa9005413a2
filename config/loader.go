package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/spf13/viper"
)

// Load loads configuration from the file at configPath, falling back to config.yaml in the
// working directory. Missing files leave the defaults in place. Any key can be overridden
// with an ARIMA_ prefixed environment variable such as ARIMA_PIPELINE_SPLIT_RATIO.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)

	v.SetEnvPrefix("ARIMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("data.path", def.Data.Path)
	v.SetDefault("data.value_column", def.Data.ValueColumn)
	v.SetDefault("data.time_column", def.Data.TimeColumn)
	v.SetDefault("data.time_layout", def.Data.TimeLayout)
	v.SetDefault("data.interval", def.Data.Interval.String())

	v.SetDefault("pipeline.label", def.Pipeline.Label)
	v.SetDefault("pipeline.split_ratio", def.Pipeline.SplitRatio)
	v.SetDefault("pipeline.interval_alpha", def.Pipeline.IntervalAlpha)
	v.SetDefault("pipeline.horizon", def.Pipeline.Horizon)

	v.SetDefault("preprocess.enabled", def.Preprocess.Enabled)
	v.SetDefault("preprocess.max_differencing", def.Preprocess.MaxDifferencing)
	v.SetDefault("preprocess.seasonal_period", def.Preprocess.SeasonalPeriod)
	v.SetDefault("preprocess.significance", def.Preprocess.Significance)

	v.SetDefault("search.enabled", def.Search.Enabled)
	v.SetDefault("search.workers", def.Search.Workers)
	v.SetDefault("search.scorer", def.Search.Scorer)
	v.SetDefault("search.domain.p", def.Search.Domain.P)
	v.SetDefault("search.domain.d", def.Search.Domain.D)
	v.SetDefault("search.domain.q", def.Search.Domain.Q)
	v.SetDefault("search.domain.sp", def.Search.Domain.SP)
	v.SetDefault("search.domain.sd", def.Search.Domain.SD)
	v.SetDefault("search.domain.sq", def.Search.Domain.SQ)
	v.SetDefault("search.domain.s", def.Search.Domain.S)

	v.SetDefault("model.params.order.p", def.Model.Params.Order.P)
	v.SetDefault("model.params.order.d", def.Model.Params.Order.D)
	v.SetDefault("model.params.order.q", def.Model.Params.Order.Q)
	v.SetDefault("model.params.seasonal.sp", def.Model.Params.Seasonal.P)
	v.SetDefault("model.params.seasonal.sd", def.Model.Params.Seasonal.D)
	v.SetDefault("model.params.seasonal.sq", def.Model.Params.Seasonal.Q)
	v.SetDefault("model.params.seasonal.s", def.Model.Params.Seasonal.S)
	v.SetDefault("model.max_evaluations", def.Model.MaxEvals)
	v.SetDefault("model.tolerance", def.Model.Tolerance)
	v.SetDefault("model.include_mean", def.Model.IncludeMean)
	v.SetDefault("model.include_drift", def.Model.IncludeDrift)

	v.SetDefault("crossval.enabled", def.CrossValidation.Enabled)
	v.SetDefault("crossval.n_splits", def.CrossValidation.NSplits)
	v.SetDefault("crossval.gap", def.CrossValidation.Gap)
	v.SetDefault("crossval.workers", def.CrossValidation.Workers)

	v.SetDefault("output.results_path", def.Output.ResultsPath)
	v.SetDefault("output.plot_path", def.Output.PlotPath)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output_path", def.Logging.OutputPath)
	v.SetDefault("logging.time_format", def.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			ValueColumn: "value",
			Interval:    24 * time.Hour,
		},
		Pipeline: PipelineConfig{
			SplitRatio:    0.8,
			IntervalAlpha: 0.05,
		},
		Preprocess: PreprocessConfig{
			Enabled:         true,
			MaxDifferencing: 1,
			Significance:    0.05,
		},
		Search: SearchConfig{
			Enabled: true,
			Scorer:  ScorerInSampleMSE,
			Domain: gridsearch.Domain{
				P: []int{0, 1, 2},
				D: []int{0, 1},
				Q: []int{0, 1, 2},
			},
		},
		Model: ModelConfig{
			Params:      sarima.NewARIMA(1, 0, 0),
			MaxEvals:    5000,
			Tolerance:   1e-10,
			IncludeMean: true,
		},
		CrossValidation: CrossValidationConfig{
			NSplits: 5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
			TimeFormat: "RFC3339",
		},
	}
}
