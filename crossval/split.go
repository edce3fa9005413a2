package crossval

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSplits = errors.New("number of splits must be at least 1")
	ErrInvalidGap    = errors.New("gap must be non-negative")
	ErrTooFewSamples = errors.New("too few samples for the number of splits")
)

// Fold is a forward chaining split where the test range immediately follows the
// training range less the gap. Ranges are half open.
type Fold struct {
	Index      int `json:"index"`
	TrainStart int `json:"train_start"`
	TrainEnd   int `json:"train_end"`
	TestStart  int `json:"test_start"`
	TestEnd    int `json:"test_end"`
}

func (f Fold) TrainLen() int {
	return f.TrainEnd - f.TrainStart
}

func (f Fold) TestLen() int {
	return f.TestEnd - f.TestStart
}

// TimeSeriesSplit divides n samples into nSplits folds. Every test range has n/(nSplits+1)
// samples and the last one ends at n. Each training range starts at zero and ends gap
// samples before its test range so training ranges grow fold over fold.
func TimeSeriesSplit(n, nSplits, gap int) ([]Fold, error) {
	if nSplits < 1 {
		return nil, fmt.Errorf("%d splits, %w", nSplits, ErrInvalidSplits)
	}
	if gap < 0 {
		return nil, fmt.Errorf("gap of %d, %w", gap, ErrInvalidGap)
	}

	testSize := n / (nSplits + 1)
	if testSize < 1 {
		return nil, fmt.Errorf("%d samples for %d splits, %w", n, nSplits, ErrTooFewSamples)
	}

	folds := make([]Fold, 0, nSplits)
	for i := 0; i < nSplits; i++ {
		testStart := n - (nSplits-i)*testSize
		trainEnd := testStart - gap
		if trainEnd < 1 {
			return nil, fmt.Errorf("fold %d has no training samples with a gap of %d, %w", i, gap, ErrTooFewSamples)
		}
		folds = append(folds, Fold{
			Index:      i,
			TrainStart: 0,
			TrainEnd:   trainEnd,
			TestStart:  testStart,
			TestEnd:    testStart + testSize,
		})
	}
	return folds, nil
}
