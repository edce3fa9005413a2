package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/aouyang1/go-arima/sarima"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFit = errors.New("fit failed")

type constPredictor struct {
	n   int
	val float64
}

func (c constPredictor) FittedValues() []float64 {
	res := make([]float64, c.n)
	for i := range res {
		res[i] = c.val
	}
	return res
}

func (c constPredictor) Forecast(steps int) ([]float64, error) {
	if steps > 3 {
		return nil, sarima.ErrInvalidSteps
	}
	res := make([]float64, steps)
	for i := range res {
		res[i] = c.val
	}
	return res, nil
}

func TestEvaluate(t *testing.T) {
	y := timedataset.GenerateTrendY(40, 2).Add(timedataset.GenerateConstY(40, 5))
	train, test := y[:30], y[30:]

	res, err := Evaluate(train, test, sarima.NewARIMA(0, 1, 0), sarima.NewFitFunc(&sarima.Options{IncludeDrift: true}))
	require.NoError(t, err)
	require.Len(t, res.Forecast, len(test))
	assert.InDeltaSlice(t, []float64(test), res.Forecast, 1e-6)
	assert.InDelta(t, 0.0, res.Scores.MSE, 1e-9)
	assert.InDelta(t, 0.0, res.Scores.RMSE, 1e-6)
	assert.InDelta(t, 1.0, res.Scores.R2, 1e-9)
	assert.Len(t, res.Fitted, len(train))
	assert.True(t, math.IsNaN(res.Fitted[0]))
}

func TestEvaluateErrors(t *testing.T) {
	failing := func(y []float64, params sarima.Params) (sarima.Predictor, error) {
		return nil, errFit
	}
	short := func(y []float64, params sarima.Params) (sarima.Predictor, error) {
		return constPredictor{n: len(y), val: 1}, nil
	}

	testData := map[string]struct {
		train []float64
		test  []float64
		fit   sarima.FitFunc
		err   error
	}{
		"empty train":    {test: []float64{1}, fit: short, err: ErrEmptyTrain},
		"empty test":     {train: []float64{1}, fit: short, err: ErrEmptyTest},
		"fit failure":    {train: []float64{1}, test: []float64{1}, fit: failing, err: errFit},
		"forecast error": {train: []float64{1}, test: []float64{1, 2, 3, 4}, fit: short, err: sarima.ErrInvalidSteps},
		"default fitter": {train: []float64{1, 2}, test: []float64{1}, err: sarima.ErrInsufficientData},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Evaluate(td.train, td.test, sarima.NewARIMA(2, 0, 0), td.fit)
			require.ErrorIs(t, err, td.err)
		})
	}
}

func TestInSampleMSE(t *testing.T) {
	y := []float64{3, 5, 4, 8}

	mse, err := InSampleMSE(y, sarima.NewARIMA(0, 0, 0), func(y []float64, params sarima.Params) (sarima.Predictor, error) {
		return constPredictor{n: len(y), val: 5}, nil
	})
	require.NoError(t, err)
	assert.InDelta(t, (4.0+0+1+9)/4, mse, 1e-9)

	// random walk fit skips the first undefined fitted value
	mse, err = InSampleMSE(y, sarima.NewARIMA(0, 1, 0), sarima.NewFitFunc(nil))
	require.NoError(t, err)
	assert.InDelta(t, (4.0+1+16)/3, mse, 1e-9)

	_, err = InSampleMSE(y, sarima.NewARIMA(0, 0, 0), nil)
	require.ErrorIs(t, err, ErrNoFitFunc)
}
