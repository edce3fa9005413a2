package timedataset

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	testData := map[string]struct {
		input    string
		opt      *CSVOptions
		expected *TimeDataset
		err      error
	}{
		"missing value column": {
			input: "date,sales\n2020-01-01,1\n",
			opt:   &CSVOptions{ValueColumn: "passengers", TimeColumn: "date"},
			err:   ErrColumnNotFound,
		},
		"missing time column": {
			input: "date,sales\n2020-01-01,1\n",
			opt:   &CSVOptions{ValueColumn: "sales", TimeColumn: "month"},
			err:   ErrColumnNotFound,
		},
		"header only": {
			input: "date,sales\n",
			opt:   &CSVOptions{ValueColumn: "sales", TimeColumn: "date"},
			err:   ErrNoRows,
		},
		"named time column": {
			input: "date,sales\n2020-01-01,1.5\n2020-01-02,2\n2020-01-03,-3\n",
			opt:   &CSVOptions{ValueColumn: "sales", TimeColumn: "date"},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
					time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1.5, 2, -3},
			},
		},
		"custom layout": {
			input: "month;sales\n2020-01;1\n2020-02;2\n",
			opt:   &CSVOptions{ValueColumn: "sales", TimeColumn: "month", TimeLayout: "2006-01", Comma: ';'},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1, 2},
			},
		},
		"blank index header": {
			input: ",value\n0,1.5\n1,2.5\n2,3.5\n",
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1.5, 2.5, 3.5},
			},
		},
		"generated index": {
			input: "value\n4\n5\n",
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{4, 5},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ReadCSV(strings.NewReader(td.input), td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestReadCSVMissingValues(t *testing.T) {
	res, err := ReadCSV(strings.NewReader("value\n1\n\n3\n"), nil)
	require.Nil(t, err)
	require.Equal(t, 2, res.Len())

	res, err = ReadCSV(strings.NewReader("x,value\na,1\nb,\nc,3\n"), nil)
	require.Nil(t, err)
	require.Equal(t, 3, res.Len())
	assert.True(t, math.IsNaN(res.Y[1]))
	assert.Equal(t, 2, res.DropNan().Len())
}
