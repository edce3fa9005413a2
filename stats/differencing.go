package stats

import (
	"errors"
	"fmt"
)

var ErrInvalidLag = errors.New("lag must be at least 1 and less than the series length")

// Difference returns y[t]-y[t-lag] for every t where it is defined, producing a series of
// length len(y)-lag.
func Difference(y []float64, lag int) ([]float64, error) {
	n := len(y)
	if lag < 1 || lag >= n {
		return nil, fmt.Errorf("lag %d with %d points, %w", lag, n, ErrInvalidLag)
	}

	res := make([]float64, n-lag)
	for i := lag; i < n; i++ {
		res[i-lag] = y[i] - y[i-lag]
	}
	return res, nil
}

// SeasonalDifference differences the series at the seasonal period
func SeasonalDifference(y []float64, period int) ([]float64, error) {
	return Difference(y, period)
}

// Diff applies a single round of differencing, at lag 1 when seasonal is false and at the
// seasonal period otherwise.
func Diff(y []float64, seasonal bool, period int) ([]float64, error) {
	if seasonal {
		return SeasonalDifference(y, period)
	}
	return Difference(y, 1)
}
