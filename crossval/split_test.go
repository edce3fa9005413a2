package crossval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSeriesSplit(t *testing.T) {
	testData := map[string]struct {
		n        int
		nSplits  int
		gap      int
		expected []Fold
		err      error
	}{
		"three splits": {
			n: 10, nSplits: 3,
			expected: []Fold{
				{Index: 0, TrainEnd: 4, TestStart: 4, TestEnd: 6},
				{Index: 1, TrainEnd: 6, TestStart: 6, TestEnd: 8},
				{Index: 2, TrainEnd: 8, TestStart: 8, TestEnd: 10},
			},
		},
		"with gap": {
			n: 10, nSplits: 3, gap: 1,
			expected: []Fold{
				{Index: 0, TrainEnd: 3, TestStart: 4, TestEnd: 6},
				{Index: 1, TrainEnd: 5, TestStart: 6, TestEnd: 8},
				{Index: 2, TrainEnd: 7, TestStart: 8, TestEnd: 10},
			},
		},
		"remainder goes to first train": {
			n: 11, nSplits: 2,
			expected: []Fold{
				{Index: 0, TrainEnd: 5, TestStart: 5, TestEnd: 8},
				{Index: 1, TrainEnd: 8, TestStart: 8, TestEnd: 11},
			},
		},
		"zero splits":   {n: 10, nSplits: 0, err: ErrInvalidSplits},
		"negative gap":  {n: 10, nSplits: 2, gap: -1, err: ErrInvalidGap},
		"too few":       {n: 3, nSplits: 3, err: ErrTooFewSamples},
		"gap too large": {n: 10, nSplits: 3, gap: 4, err: ErrTooFewSamples},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := TimeSeriesSplit(td.n, td.nSplits, td.gap)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestTimeSeriesSplitOrdering(t *testing.T) {
	folds, err := TimeSeriesSplit(100, 7, 2)
	require.NoError(t, err)
	require.Len(t, folds, 7)

	for i, f := range folds {
		assert.Less(t, f.TrainEnd, f.TestStart)
		assert.Equal(t, 100/8, f.TestLen())
		if i > 0 {
			assert.Greater(t, f.TrainLen(), folds[i-1].TrainLen())
			assert.Equal(t, folds[i-1].TestEnd, f.TestStart)
		}
	}
	assert.Equal(t, 100, folds[len(folds)-1].TestEnd)
}
