package forecaster

import (
	"errors"
	"fmt"
	"io"

	"github.com/aouyang1/go-arima/crossval"
	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/aouyang1/go-arima/stats"
	"github.com/rs/zerolog"
)

var (
	ErrNoParams             = errors.New("either a search domain or explicit model params are required")
	ErrInvalidSignificance  = errors.New("significance must be in (0, 1)")
	ErrInvalidDifferencing  = errors.New("max differencing rounds must be non-negative")
	ErrInvalidIntervalAlpha = errors.New("interval alpha must be in (0, 1)")
	ErrInvalidHorizon       = errors.New("horizon must be non-negative")
)

// PreprocessOptions configures differencing the series until the augmented Dickey-Fuller
// test rejects a unit root. Up to MaxDifferencing ordinary rounds are applied followed by
// one seasonal round when SeasonalPeriod is greater than 1.
type PreprocessOptions struct {
	Enabled         bool    `json:"enabled" mapstructure:"enabled"`
	MaxDifferencing int     `json:"max_differencing" mapstructure:"max_differencing"`
	SeasonalPeriod  int     `json:"seasonal_period" mapstructure:"seasonal_period"`
	Significance    float64 `json:"significance" mapstructure:"significance"`
}

func NewDefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Enabled:         true,
		MaxDifferencing: 1,
		Significance:    stats.DefaultSignificance,
	}
}

// Options configures a forecaster run. Exactly one of Domain or Params selects the model:
// Domain runs a grid search and takes precedence over Params.
type Options struct {
	Label      string            `json:"label"`
	SplitRatio float64           `json:"split_ratio"`
	Preprocess PreprocessOptions `json:"preprocess"`

	Domain *gridsearch.Domain `json:"domain,omitempty"`
	Params *sarima.Params     `json:"params,omitempty"`

	// Search tunes the grid search. The fit function and logger default to the ones of
	// the forecaster.
	Search *gridsearch.Options `json:"-"`

	// CrossValidation evaluates the selected params on the training set when set
	CrossValidation *crossval.Options `json:"cross_validation,omitempty"`

	Model *sarima.Options `json:"model,omitempty"`

	// IntervalAlpha sets the width of the forecast prediction interval
	IntervalAlpha float64 `json:"interval_alpha"`

	// Horizon is the number of steps forecast past the end of the series after refitting
	// the selected params on all of it. Zero skips the projection.
	Horizon int `json:"horizon"`

	Logger zerolog.Logger `json:"-"`

	// Plot receives an html page of the fit and forecast when set
	Plot io.Writer `json:"-"`
}

// NewDefaultOptions returns options with preprocessing enabled, an 80/20 train/test split
// and no model selection configured.
func NewDefaultOptions() *Options {
	return &Options{
		SplitRatio:    0.8,
		Preprocess:    NewDefaultPreprocessOptions(),
		IntervalAlpha: 0.05,
		Logger:        zerolog.Nop(),
	}
}

// Validate checks the options and fills in defaults for unset fields
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	res := *o
	if res.Domain == nil && res.Params == nil {
		return nil, ErrNoParams
	}
	if res.Preprocess.MaxDifferencing < 0 {
		return nil, fmt.Errorf("%d rounds, %w", res.Preprocess.MaxDifferencing, ErrInvalidDifferencing)
	}
	if res.Preprocess.Significance == 0 {
		res.Preprocess.Significance = stats.DefaultSignificance
	}
	if res.Preprocess.Significance < 0 || res.Preprocess.Significance >= 1 {
		return nil, fmt.Errorf("significance of %v, %w", res.Preprocess.Significance, ErrInvalidSignificance)
	}
	if res.IntervalAlpha == 0 {
		res.IntervalAlpha = 0.05
	}
	if res.IntervalAlpha < 0 || res.IntervalAlpha >= 1 {
		return nil, fmt.Errorf("alpha of %v, %w", res.IntervalAlpha, ErrInvalidIntervalAlpha)
	}
	if res.Horizon < 0 {
		return nil, fmt.Errorf("horizon of %d, %w", res.Horizon, ErrInvalidHorizon)
	}
	if res.Params != nil {
		if err := res.Params.Validate(); err != nil {
			return nil, err
		}
	}
	return &res, nil
}
