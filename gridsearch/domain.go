package gridsearch

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-arima/sarima"
)

var ErrEmptyDomain = errors.New("non-seasonal orders must each have at least one value")

// Domain is the set of candidate orders. Empty seasonal lists mean no seasonal term.
type Domain struct {
	P  []int `json:"p" mapstructure:"p"`
	D  []int `json:"d" mapstructure:"d"`
	Q  []int `json:"q" mapstructure:"q"`
	SP []int `json:"sp" mapstructure:"sp"`
	SD []int `json:"sd" mapstructure:"sd"`
	SQ []int `json:"sq" mapstructure:"sq"`
	S  []int `json:"s" mapstructure:"s"`
}

// Range returns the integers from lo to hi inclusive
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	res := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		res = append(res, i)
	}
	return res
}

func orZero(v []int) []int {
	if len(v) == 0 {
		return []int{0}
	}
	return v
}

// Size is the number of combinations the domain enumerates
func (d Domain) Size() int {
	return len(d.P) * len(d.D) * len(d.Q) *
		len(orZero(d.SP)) * len(orZero(d.SD)) * len(orZero(d.SQ)) * len(orZero(d.S))
}

// Enumerate lists every combination in nested p, d, q, P, D, Q, S order
func (d Domain) Enumerate() ([]sarima.Params, error) {
	if len(d.P) == 0 || len(d.D) == 0 || len(d.Q) == 0 {
		return nil, fmt.Errorf("p=%v d=%v q=%v, %w", d.P, d.D, d.Q, ErrEmptyDomain)
	}

	res := make([]sarima.Params, 0, d.Size())
	for _, p := range d.P {
		for _, dd := range d.D {
			for _, q := range d.Q {
				for _, sp := range orZero(d.SP) {
					for _, sd := range orZero(d.SD) {
						for _, sq := range orZero(d.SQ) {
							for _, s := range orZero(d.S) {
								res = append(res, sarima.NewSARIMA(p, dd, q, sp, sd, sq, s))
							}
						}
					}
				}
			}
		}
	}
	return res, nil
}
