package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-arima/stats"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrInvalidSplitRatio  = errors.New("split ratio must be between 0 and 1 exclusive")
	ErrEmptySplit         = errors.New("split produces an empty train or test set")
	ErrInvalidLag         = stats.ErrInvalidLag
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length.
type TimeDataset struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
// Time points must be strictly increasing.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.Y)
}

func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// DropNan returns a copy of the dataset without the points whose value is NaN
func (td *TimeDataset) DropNan() *TimeDataset {
	if td == nil {
		return nil
	}
	res := &TimeDataset{
		T: make([]time.Time, 0, len(td.T)),
		Y: make([]float64, 0, len(td.Y)),
	}
	for i := 0; i < len(td.Y); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		res.T = append(res.T, td.T[i])
		res.Y = append(res.Y, td.Y[i])
	}
	return res
}

// Split performs a prefix split of the dataset where the first floor(ratio*n) points are
// returned as the training set and the remainder as the test set. Order is preserved.
func (td *TimeDataset) Split(ratio float64) (*TimeDataset, *TimeDataset, error) {
	if td == nil || len(td.Y) == 0 {
		return nil, nil, ErrNoTrainingData
	}
	if math.IsNaN(ratio) || ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("got %.4f, %w", ratio, ErrInvalidSplitRatio)
	}

	n := len(td.Y)
	cut := int(math.Floor(ratio * float64(n)))
	if cut == 0 || cut == n {
		return nil, nil, fmt.Errorf("%d points split at %d, %w", n, cut, ErrEmptySplit)
	}

	train := &TimeDataset{
		T: append([]time.Time(nil), td.T[:cut]...),
		Y: append([]float64(nil), td.Y[:cut]...),
	}
	test := &TimeDataset{
		T: append([]time.Time(nil), td.T[cut:]...),
		Y: append([]float64(nil), td.Y[cut:]...),
	}
	return train, test, nil
}

// Diff returns a new dataset of lagged differences y[t]-y[t-lag]. The first lag time points
// have no defined difference and are dropped.
func (td *TimeDataset) Diff(lag int) (*TimeDataset, error) {
	if td == nil {
		return nil, ErrNoTrainingData
	}
	y, err := stats.Difference(td.Y, lag)
	if err != nil {
		return nil, fmt.Errorf("unable to difference dataset, %w", err)
	}
	return &TimeDataset{
		T: append([]time.Time(nil), td.T[lag:]...),
		Y: y,
	}, nil
}
