package timedataset

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateT(t *testing.T) {
	nowFunc := func() time.Time {
		return time.Date(1970, 1, 8, 0, 0, 0, 0, time.UTC)
	}

	numPnts := 7
	res := GenerateT(numPnts, 24*time.Hour, nowFunc)
	assert.Len(t, res, numPnts)

	assert.Equal(t, res[0], time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, res[numPnts-1], time.Date(1970, 1, 7, 0, 0, 0, 0, time.UTC))
}

func TestSeries(t *testing.T) {
	numPnts := 5
	s := Series(GenerateConstY(numPnts, 1))

	res := s.Add(GenerateConstY(numPnts, 2))
	require.Equal(t, Series([]float64{3, 3, 3, 3, 3}), res)

	s.Add(GenerateTrendY(numPnts, 0.5))
	assert.Equal(t, Series([]float64{3, 3.5, 4, 4.5, 5}), s)

	c := Series(GenerateConstY(numPnts, 1)).Cumsum()
	assert.Equal(t, Series([]float64{1, 2, 3, 4, 5}), c)
}

func TestGenerateSeasonalY(t *testing.T) {
	period := 4
	y := GenerateSeasonalY(3*period, period, 2.0, 0)
	require.Len(t, y, 3*period)
	for i := period; i < len(y); i++ {
		assert.InDelta(t, y[i-period], y[i], 1e-9)
	}
	assert.InDelta(t, 2.0, y[1], 1e-9)
}

func TestGenerateRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	y := GenerateRandomWalk(rng, 100, 0.5, 1.0)
	require.Len(t, y, 100)
	for i := 1; i < len(y); i++ {
		step := y[i] - y[i-1]
		assert.GreaterOrEqual(t, step, 0.5)
		assert.Less(t, step, 1.5)
	}
}

func TestGenerateAR(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	y := GenerateAR(rng, 50, []float64{0.5}, 0)
	assert.Len(t, y, 50)
	for _, v := range y {
		assert.Equal(t, 0.0, v)
	}

	rng = rand.New(rand.NewPCG(3, 4))
	noise := GenerateNoise(rng, 50, 1.0)
	rng = rand.New(rand.NewPCG(3, 4))
	white := GenerateAR(rng, 50, nil, 1.0)
	assert.Equal(t, noise, white)
}
