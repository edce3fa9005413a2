package config

import (
	forecaster "github.com/aouyang1/go-arima"
	"github.com/aouyang1/go-arima/crossval"
	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/rs/zerolog"
)

// CSVOptions returns the options to read the configured input
func (c *Config) CSVOptions() *timedataset.CSVOptions {
	opt := timedataset.NewDefaultCSVOptions()
	opt.ValueColumn = c.Data.ValueColumn
	opt.TimeColumn = c.Data.TimeColumn
	opt.TimeLayout = c.Data.TimeLayout
	if c.Data.Interval > 0 {
		opt.Interval = c.Data.Interval
	}
	return opt
}

// ForecasterOptions converts the configuration into forecaster options logging to logger
func (c *Config) ForecasterOptions(logger zerolog.Logger) *forecaster.Options {
	modelOpt := &sarima.Options{
		MaxEvaluations: c.Model.MaxEvals,
		Tolerance:      c.Model.Tolerance,
		IncludeMean:    c.Model.IncludeMean,
		IncludeDrift:   c.Model.IncludeDrift,
	}

	opt := forecaster.NewDefaultOptions()
	opt.Label = c.Pipeline.Label
	opt.SplitRatio = c.Pipeline.SplitRatio
	opt.IntervalAlpha = c.Pipeline.IntervalAlpha
	opt.Horizon = c.Pipeline.Horizon
	opt.Preprocess = forecaster.PreprocessOptions{
		Enabled:         c.Preprocess.Enabled,
		MaxDifferencing: c.Preprocess.MaxDifferencing,
		SeasonalPeriod:  c.Preprocess.SeasonalPeriod,
		Significance:    c.Preprocess.Significance,
	}
	opt.Model = modelOpt
	opt.Logger = logger

	var cvOpt *crossval.Options
	if c.CrossValidation.Enabled || c.Search.Scorer == ScorerCVRMSE {
		cvOpt = &crossval.Options{
			NSplits: c.CrossValidation.NSplits,
			Gap:     c.CrossValidation.Gap,
			Workers: c.CrossValidation.Workers,
			Logger:  logger,
		}
	}
	if c.CrossValidation.Enabled {
		opt.CrossValidation = cvOpt
	}

	if c.Search.Enabled {
		domain := c.Search.Domain
		opt.Domain = &domain
		opt.Search = &gridsearch.Options{
			Workers: c.Search.Workers,
		}
		if c.Search.Scorer == ScorerCVRMSE {
			opt.Search.Scorer = crossval.Scorer(cvOpt)
		}
	} else {
		params := c.Model.Params
		opt.Params = &params
	}
	return opt
}
