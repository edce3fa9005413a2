package crossval

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/aouyang1/go-arima/gridsearch"
	"github.com/aouyang1/go-arima/sarima"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFit = errors.New("fit failed")

func TestCrossValidate(t *testing.T) {
	y := timedataset.GenerateTrendY(12, 1)

	var calls atomic.Int64
	fit := sarima.NewFitFunc(nil)
	counting := func(y []float64, params sarima.Params) (sarima.Predictor, error) {
		calls.Add(1)
		return fit(y, params)
	}

	for _, workers := range []int{1, 4} {
		calls.Store(0)
		res, err := CrossValidate(context.Background(), y, sarima.NewARIMA(0, 1, 0), &Options{
			NSplits: 3,
			Workers: workers,
			FitFunc: counting,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), calls.Load())
		require.Len(t, res.Folds, 3)

		// a random walk forecasts the last training value
		expected := math.Sqrt(14.0 / 3.0)
		for i, f := range res.Folds {
			assert.Equal(t, i, f.Fold.Index)
			assert.InDelta(t, expected, f.RMSE, 1e-9)
		}
		assert.InDelta(t, expected, res.MeanRMSE, 1e-9)
	}
}

func TestCrossValidateDrift(t *testing.T) {
	y := timedataset.GenerateTrendY(30, 0.5)

	res, err := CrossValidate(context.Background(), y, sarima.NewARIMA(0, 1, 0), &Options{
		NSplits: 4,
		FitFunc: sarima.NewFitFunc(&sarima.Options{IncludeDrift: true}),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, res.MeanRMSE, 1e-6)
}

func TestCrossValidateErrors(t *testing.T) {
	y := timedataset.GenerateTrendY(12, 1)
	failSecond := func(y []float64, params sarima.Params) (sarima.Predictor, error) {
		if len(y) == 6 {
			return nil, errFit
		}
		return sarima.NewFitFunc(nil)(y, params)
	}

	_, err := CrossValidate(context.Background(), y, sarima.NewARIMA(0, 1, 0), &Options{NSplits: 3, FitFunc: failSecond})
	require.ErrorIs(t, err, ErrFoldFailed)
	require.ErrorIs(t, err, errFit)
	assert.Contains(t, err.Error(), "fold 1")

	_, err = CrossValidate(context.Background(), y[:3], sarima.NewARIMA(0, 1, 0), &Options{NSplits: 3})
	require.ErrorIs(t, err, ErrTooFewSamples)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = CrossValidate(ctx, y, sarima.NewARIMA(0, 1, 0), &Options{NSplits: 3})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScorer(t *testing.T) {
	y := timedataset.GenerateTrendY(12, 1)

	scorer := Scorer(&Options{NSplits: 3})
	score, err := scorer(context.Background(), y, sarima.NewARIMA(0, 1, 0), nil)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(14.0/3.0), score, 1e-9)

	report, err := gridsearch.Search(context.Background(), y, gridsearch.Domain{
		P: []int{0},
		D: []int{0, 1},
		Q: []int{0},
	}, &gridsearch.Options{
		Scorer:  scorer,
		FitFunc: sarima.NewFitFunc(&sarima.Options{IncludeDrift: true}),
	})
	require.NoError(t, err)
	assert.Equal(t, sarima.NewARIMA(0, 1, 0), report.Best.Params)
	assert.InDelta(t, 0.0, report.Best.Score, 1e-6)
}
