package gridsearch

import (
	"testing"

	"github.com/aouyang1/go-arima/sarima"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, Range(0, 2))
	assert.Equal(t, []int{3}, Range(3, 3))
	assert.Nil(t, Range(2, 1))
}

func TestEnumerate(t *testing.T) {
	testData := map[string]struct {
		domain   Domain
		expected []sarima.Params
		err      error
	}{
		"non-seasonal": {
			domain: Domain{P: []int{0, 1}, D: []int{0}, Q: []int{0, 1}},
			expected: []sarima.Params{
				sarima.NewARIMA(0, 0, 0),
				sarima.NewARIMA(0, 0, 1),
				sarima.NewARIMA(1, 0, 0),
				sarima.NewARIMA(1, 0, 1),
			},
		},
		"seasonal": {
			domain: Domain{P: []int{1}, D: []int{1}, Q: []int{0}, SP: []int{0, 1}, SD: []int{1}, SQ: []int{0}, S: []int{4, 12}},
			expected: []sarima.Params{
				sarima.NewSARIMA(1, 1, 0, 0, 1, 0, 4),
				sarima.NewSARIMA(1, 1, 0, 0, 1, 0, 12),
				sarima.NewSARIMA(1, 1, 0, 1, 1, 0, 4),
				sarima.NewSARIMA(1, 1, 0, 1, 1, 0, 12),
			},
		},
		"single": {
			domain:   Domain{P: []int{2}, D: []int{1}, Q: []int{2}},
			expected: []sarima.Params{sarima.NewARIMA(2, 1, 2)},
		},
		"missing q": {
			domain: Domain{P: []int{2}, D: []int{1}},
			err:    ErrEmptyDomain,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := td.domain.Enumerate()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, res)
			assert.Equal(t, len(td.expected), td.domain.Size())
		})
	}
}
