package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT generates n timestamps spaced by interval ending one interval before the
// minute truncated time returned by nowFunc
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a generated sequence of values
type Series []float64

// Add adds src to the series in place
func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Cumsum integrates the series in place
func (s Series) Cumsum() Series {
	floats.CumSum(s, s)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, n)
	floats.AddConst(val, y)
	return Series(y)
}

// GenerateTrendY generates a linear trend starting at 0 increasing by slope every point
func GenerateTrendY(n int, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY generates a sine wave repeating every period points
func GenerateSeasonalY(n, period int, amp, phase float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*float64(i)/float64(period)+phase))
	}
	return Series(y)
}

// GenerateNoise generates gaussian noise with the provided standard deviation
func GenerateNoise(rng *rand.Rand, n int, stddev float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*stddev)
	}
	return Series(y)
}

// GenerateRandomWalk generates a random walk whose steps are drift plus uniform noise
// in [0, stepScale). With a non-negative drift the walk is monotonically non-decreasing.
func GenerateRandomWalk(rng *rand.Rand, n int, drift, stepScale float64) Series {
	y := make([]float64, n)
	var level float64
	for i := 0; i < n; i++ {
		level += drift + rng.Float64()*stepScale
		y[i] = level
	}
	return Series(y)
}

// GenerateAR generates an autoregressive process y[t] = sum(coef[i]*y[t-i-1]) + e[t]
// with gaussian innovations
func GenerateAR(rng *rand.Rand, n int, coef []float64, stddev float64) Series {
	y := make([]float64, n)
	for t := 0; t < n; t++ {
		val := rng.NormFloat64() * stddev
		for i, c := range coef {
			if t-i-1 < 0 {
				break
			}
			val += c * y[t-i-1]
		}
		y[t] = val
	}
	return Series(y)
}
