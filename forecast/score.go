package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValidPoints  = errors.New("no points where both predicted and actual are defined")
)

// Scores tracks the fit scores
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	RMSE float64 `json:"root_mean_squared_error"`
	MAPE float64 `json:"mean_average_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean average percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAPE: mape,
		R2:   rs,
	}, nil
}

// validPairs drops every index where either the predicted or actual value is NaN
func validPairs(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	if len(actualCopy) == 0 {
		return nil, nil, ErrNoValidPoints
	}
	return predictCopy, actualCopy, nil
}

// MSE computes the mean squared error over the points where both series are defined.
// A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	predicted, actual, err := validPairs(predicted, actual)
	if err != nil {
		return 0, err
	}

	var sse float64
	for i, a := range actual {
		d := a - predicted[i]
		sse += d * d
	}
	return sse / float64(len(actual)), nil
}

// RMSE is the square root of the mean squared error and is in the units of the series
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAPE calculates the mean average percent error. This is the same as sum(abs((y-yhat)/y)).
// A score of 0 means a perfect match with no errors. Points with an actual of zero are
// skipped.
func MAPE(predicted, actual []float64) (float64, error) {
	predicted, actual, err := validPairs(predicted, actual)
	if err != nil {
		return 0, err
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		if actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
	}
	mape /= float64(len(actual))
	return mape, nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship. A constant actual series scores 1 when matched exactly
// and 0 otherwise.
func RSquared(predicted, actual []float64) (float64, error) {
	predicted, actual, err := validPairs(predicted, actual)
	if err != nil {
		return 0, err
	}

	if floats.Max(actual) == floats.Min(actual) {
		if floats.Equal(predicted, actual) {
			return 1.0, nil
		}
		return 0.0, nil
	}
	return stat.RSquaredFrom(predicted, actual, nil), nil
}
