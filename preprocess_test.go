package forecaster

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aouyang1/go-arima/stats"
	"github.com/aouyang1/go-arima/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataset(t *testing.T, y []float64) *timedataset.TimeDataset {
	t.Helper()
	nowFunc := func() time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(y)) * time.Hour)
	}
	td, err := timedataset.NewUnivariateDataset(timedataset.GenerateT(len(y), time.Hour, nowFunc), y)
	require.NoError(t, err)
	return td
}

func TestPreprocess(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))
	walk := timedataset.GenerateRandomWalk(rng, 200, 0.5, 1.0)
	noise := timedataset.GenerateNoise(rng, 200, 1.0)

	testData := map[string]struct {
		y          []float64
		opt        PreprocessOptions
		rounds     []DifferencingRound
		stationary bool
	}{
		"already stationary": {
			y:          noise,
			opt:        NewDefaultPreprocessOptions(),
			stationary: true,
		},
		"monotonic walk": {
			y:          walk,
			opt:        NewDefaultPreprocessOptions(),
			rounds:     []DifferencingRound{{Lag: 1}},
			stationary: true,
		},
		"seasonal only": {
			y:      walk,
			opt:    PreprocessOptions{Enabled: true, SeasonalPeriod: 4},
			rounds: []DifferencingRound{{Seasonal: true, Lag: 4}},
		},
		"no rounds allowed": {
			y:   walk,
			opt: PreprocessOptions{Enabled: true},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds := newDataset(t, td.y)
			res, info, err := Preprocess(ds, td.opt)
			require.NoError(t, err)

			require.Len(t, info.Rounds, len(td.rounds))
			lost := 0
			for i, r := range info.Rounds {
				assert.Equal(t, td.rounds[i].Seasonal, r.Seasonal)
				assert.Equal(t, td.rounds[i].Lag, r.Lag)
				lost += r.Lag
			}
			assert.Equal(t, ds.Len()-lost, res.Len())
			assert.Equal(t, ds.T[lost:], res.T)
			if len(td.rounds) == 0 {
				assert.Equal(t, info.InitialPValue, info.PValue)
			}
			if td.stationary {
				assert.True(t, info.Stationary)
				assert.LessOrEqual(t, info.PValue, stats.DefaultSignificance)
			}
		})
	}
}

func TestPreprocessNonStationaryNeedsDifferencing(t *testing.T) {
	rng := rand.New(rand.NewPCG(31, 32))
	ds := newDataset(t, timedataset.GenerateRandomWalk(rng, 300, 0.5, 1.0))

	stationary, err := stats.IsStationary(ds.Y)
	require.NoError(t, err)
	require.False(t, stationary)

	_, info, err := Preprocess(ds, NewDefaultPreprocessOptions())
	require.NoError(t, err)
	assert.Greater(t, info.InitialPValue, stats.DefaultSignificance)
	assert.NotEmpty(t, info.Rounds)
	assert.True(t, info.Stationary)
}

func TestPreprocessTooShort(t *testing.T) {
	_, _, err := Preprocess(newDataset(t, []float64{1, 2, 3}), NewDefaultPreprocessOptions())
	require.ErrorIs(t, err, stats.ErrInsufficientSamples)
}
