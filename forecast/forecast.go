// Package forecast fits a model on a training series, forecasts over a held out test
// series and scores the forecast against the actual values.
package forecast

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-arima/sarima"
)

var (
	ErrEmptyTrain = errors.New("no training data")
	ErrEmptyTest  = errors.New("no test data")
	ErrNoFitFunc  = errors.New("no fit function")
)

// Evaluation is the outcome of fitting on a training series and forecasting the test series
type Evaluation struct {
	Params   sarima.Params    `json:"params"`
	Fitted   []float64        `json:"fitted"`
	Forecast []float64        `json:"forecast"`
	Scores   *Scores          `json:"scores"`
	Model    sarima.Predictor `json:"-"`
}

// Evaluate fits params on train, forecasts len(test) steps and scores the forecast
// against test. A nil fit uses the default conditional sum of squares fitter.
func Evaluate(train, test []float64, params sarima.Params, fit sarima.FitFunc) (*Evaluation, error) {
	if len(train) == 0 {
		return nil, ErrEmptyTrain
	}
	if len(test) == 0 {
		return nil, ErrEmptyTest
	}
	if fit == nil {
		fit = sarima.NewFitFunc(nil)
	}

	model, err := fit(train, params)
	if err != nil {
		return nil, fmt.Errorf("unable to fit %s, %w", params, err)
	}

	predicted, err := model.Forecast(len(test))
	if err != nil {
		return nil, fmt.Errorf("unable to forecast %s, %w", params, err)
	}

	scores, err := NewScores(predicted, test)
	if err != nil {
		return nil, fmt.Errorf("unable to score %s, %w", params, err)
	}

	return &Evaluation{
		Params:   params,
		Fitted:   model.FittedValues(),
		Forecast: predicted,
		Scores:   scores,
		Model:    model,
	}, nil
}

// InSampleMSE fits params on y and returns the mean squared error between y and the
// fitted values, skipping points without a fitted value.
func InSampleMSE(y []float64, params sarima.Params, fit sarima.FitFunc) (float64, error) {
	if fit == nil {
		return 0, ErrNoFitFunc
	}
	model, err := fit(y, params)
	if err != nil {
		return 0, fmt.Errorf("unable to fit %s, %w", params, err)
	}
	mse, err := MSE(model.FittedValues(), y)
	if err != nil {
		return 0, fmt.Errorf("unable to score %s, %w", params, err)
	}
	return mse, nil
}
