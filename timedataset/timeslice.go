package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCannotInferFreq = errors.New("cannot infer frequency from time slice")
	ErrNegativeSteps   = errors.New("number of steps must be non-negative")
)

// TimeSlice is an ordered set of observation times
type TimeSlice []time.Time

// EndTime returns the last time point or the zero time when empty
func (t TimeSlice) EndTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common interval between consecutive points. Ties
// resolve to the shorter interval.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	counts := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		counts[t[i].Sub(t[i-1])]++
	}

	var best time.Duration
	var bestCnt int
	for delta, cnt := range counts {
		if cnt > bestCnt || (cnt == bestCnt && delta < best) {
			best, bestCnt = delta, cnt
		}
	}
	if best <= 0 {
		return 0, fmt.Errorf("most common interval is %s, %w", best, ErrCannotInferFreq)
	}
	return best, nil
}

// IsRegular reports whether every consecutive pair of points is the same interval apart.
// Slices with fewer than two points are regular.
func (t TimeSlice) IsRegular() bool {
	for i := 2; i < len(t); i++ {
		if t[i].Sub(t[i-1]) != t[1].Sub(t[0]) {
			return false
		}
	}
	return true
}

// Project generates n time points following the end of the slice spaced by the
// estimated frequency.
func (t TimeSlice) Project(n int) ([]time.Time, error) {
	if n < 0 {
		return nil, fmt.Errorf("%d steps, %w", n, ErrNegativeSteps)
	}
	freq, err := t.EstimateFreq()
	if err != nil {
		return nil, err
	}

	end := t.EndTime()
	res := make([]time.Time, n)
	for i := range res {
		res[i] = end.Add(time.Duration(i+1) * freq)
	}
	return res, nil
}
