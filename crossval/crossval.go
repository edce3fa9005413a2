// Package crossval evaluates model orders with forward chaining time series
// cross-validation, fitting on a growing prefix and forecasting the block that follows.
package crossval

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/aouyang1/go-arima/forecast"
	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

var ErrFoldFailed = errors.New("cross-validation fold failed")

type Options struct {
	NSplits int `json:"n_splits" mapstructure:"n_splits"`
	Gap     int `json:"gap" mapstructure:"gap"`

	// Workers bounds the number of folds evaluated concurrently
	Workers int            `json:"workers" mapstructure:"workers"`
	FitFunc sarima.FitFunc `json:"-" mapstructure:"-"`
	Logger  zerolog.Logger `json:"-" mapstructure:"-"`
}

func NewDefaultOptions() *Options {
	return &Options{
		NSplits: 5,
		Workers: runtime.GOMAXPROCS(0),
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
	if res.NSplits == 0 {
		res.NSplits = def.NSplits
	}
	if res.Workers <= 0 {
		res.Workers = def.Workers
	}
	if res.FitFunc == nil {
		res.FitFunc = def.FitFunc
	}
	return &res
}

// FoldResult is the forecast error of a single fold
type FoldResult struct {
	Fold Fold    `json:"fold"`
	RMSE float64 `json:"rmse"`
}

// Result holds every fold in order and the mean RMSE across folds
type Result struct {
	Params   sarima.Params `json:"params"`
	Folds    []FoldResult  `json:"folds"`
	MeanRMSE float64       `json:"mean_rmse"`
}

// CrossValidate fits params on the training range of every fold, forecasts the test
// range and reports the RMSE per fold and its mean. Exactly NSplits folds are evaluated.
// Any fold failure fails the whole evaluation.
func CrossValidate(ctx context.Context, y []float64, params sarima.Params, opt *Options) (*Result, error) {
	opt = opt.Validate()

	folds, err := TimeSeriesSplit(len(y), opt.NSplits, opt.Gap)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Params: params,
		Folds:  make([]FoldResult, len(folds)),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opt.Workers)
	for i, fold := range folds {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			train := y[fold.TrainStart:fold.TrainEnd]
			test := y[fold.TestStart:fold.TestEnd]
			eval, err := forecast.Evaluate(train, test, params, opt.FitFunc)
			if err != nil {
				return fmt.Errorf("fold %d of %s, %w, %w", fold.Index, params, ErrFoldFailed, err)
			}
			res.Folds[i] = FoldResult{Fold: fold, RMSE: eval.Scores.RMSE}
			opt.Logger.Debug().
				Str("params", params.String()).
				Int("fold", fold.Index).
				Int("train", fold.TrainLen()).
				Int("test", fold.TestLen()).
				Float64("rmse", eval.Scores.RMSE).
				Msg("evaluated fold")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rmse := make([]float64, len(res.Folds))
	for i, f := range res.Folds {
		rmse[i] = f.RMSE
	}
	res.MeanRMSE = stat.Mean(rmse, nil)
	return res, nil
}

// Scorer adapts cross-validation into a grid search scorer using the mean RMSE across
// folds. Folds of a candidate run sequentially.
func Scorer(opt *Options) gridsearch.Scorer {
	opt = opt.Validate()
	return func(ctx context.Context, y []float64, params sarima.Params, fit sarima.FitFunc) (float64, error) {
		foldOpt := *opt
		foldOpt.Workers = 1
		if fit != nil {
			foldOpt.FitFunc = fit
		}
		res, err := CrossValidate(ctx, y, params, &foldOpt)
		if err != nil {
			return 0, err
		}
		return res.MeanRMSE, nil
	}
}
