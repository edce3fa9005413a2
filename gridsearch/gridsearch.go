// Package gridsearch exhaustively evaluates every candidate order of a domain and
// selects the one with the lowest score.
package gridsearch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/aouyang1/go-arima/forecast"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSuccessfulFit = errors.New("no candidate could be fit and scored")
	ErrNonFiniteScore  = errors.New("score is not finite")
	ErrNoData          = errors.New("no series to search on")
)

// Scorer evaluates params on a series using fit, lower is better
type Scorer func(ctx context.Context, y []float64, params sarima.Params, fit sarima.FitFunc) (float64, error)

// InSampleMSE scores a candidate by the mean squared error between the series and its
// fitted values
func InSampleMSE(ctx context.Context, y []float64, params sarima.Params, fit sarima.FitFunc) (float64, error) {
	return forecast.InSampleMSE(y, params, fit)
}

type Options struct {
	// Workers bounds the number of candidates evaluated concurrently
	Workers int
	Scorer  Scorer
	FitFunc sarima.FitFunc
	Logger  zerolog.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		Workers: runtime.GOMAXPROCS(0),
		Scorer:  InSampleMSE,
		FitFunc: sarima.NewFitFunc(nil),
		Logger:  zerolog.Nop(),
	}
}

// Validate fills in defaults for unset fields
func (o *Options) Validate() *Options {
	def := NewDefaultOptions()
	if o == nil {
		return def
	}
	res := *o
	if res.Workers <= 0 {
		res.Workers = def.Workers
	}
	if res.Scorer == nil {
		res.Scorer = def.Scorer
	}
	if res.FitFunc == nil {
		res.FitFunc = def.FitFunc
	}
	return &res
}

// Candidate is the outcome of one combination. Err is set when the fit or score failed,
// otherwise Score holds the result.
type Candidate struct {
	Index  int           `json:"index"`
	Params sarima.Params `json:"params"`
	Score  float64       `json:"score"`
	Error  string        `json:"error,omitempty"`
	Err    error         `json:"-"`
}

// Failed reports whether the candidate could not be fit or scored
func (c Candidate) Failed() bool {
	return c.Err != nil
}

// Report holds the selected candidate and every evaluated candidate in enumeration order
type Report struct {
	Best       Candidate     `json:"best"`
	Candidates []Candidate   `json:"candidates"`
	Elapsed    time.Duration `json:"elapsed"`
}

// NumFailed counts candidates that could not be fit or scored
func (r *Report) NumFailed() int {
	var n int
	for _, c := range r.Candidates {
		if c.Failed() {
			n++
		}
	}
	return n
}

// Search fits and scores every combination of the domain on y. The best candidate is the
// first in enumeration order with the strictly lowest finite score, independent of the
// number of workers. Cancelling ctx stops scheduling new candidates and returns the
// context error.
func Search(ctx context.Context, y []float64, domain Domain, opt *Options) (*Report, error) {
	opt = opt.Validate()
	if len(y) == 0 {
		return nil, ErrNoData
	}

	combos, err := domain.Enumerate()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	candidates := make([]Candidate, len(combos))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opt.Workers)
	for i, params := range combos {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			candidates[i] = evaluate(egCtx, y, i, params, opt)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("grid search interrupted, %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("grid search interrupted, %w", err)
	}

	report := &Report{
		Candidates: candidates,
		Elapsed:    time.Since(start),
	}
	bestIdx := -1
	for i, c := range candidates {
		if c.Failed() {
			continue
		}
		if bestIdx < 0 || c.Score < candidates[bestIdx].Score {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, fmt.Errorf("%d candidates evaluated, %w", len(candidates), ErrNoSuccessfulFit)
	}
	report.Best = candidates[bestIdx]

	opt.Logger.Info().
		Str("best", report.Best.Params.String()).
		Float64("score", report.Best.Score).
		Int("candidates", len(candidates)).
		Int("failed", report.NumFailed()).
		Dur("elapsed", report.Elapsed).
		Msg("grid search complete")
	return report, nil
}

func evaluate(ctx context.Context, y []float64, idx int, params sarima.Params, opt *Options) Candidate {
	c := Candidate{
		Index:  idx,
		Params: params,
	}

	score, err := opt.Scorer(ctx, y, params, opt.FitFunc)
	switch {
	case err != nil:
		c.Err = err
	case math.IsNaN(score) || math.IsInf(score, 0):
		c.Err = fmt.Errorf("score %v, %w", score, ErrNonFiniteScore)
	default:
		c.Score = score
	}

	if c.Err != nil {
		c.Error = c.Err.Error()
		opt.Logger.Warn().Err(c.Err).Str("params", params.String()).Msg("unable to evaluate candidate")
		return c
	}
	opt.Logger.Debug().Str("params", params.String()).Float64("score", c.Score).Msg("evaluated candidate")
	return c
}
