// Package mat holds helpers for building gonum matrices from row oriented slices
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var ErrColMismatch = errors.New("column size mismatch")

// NewDenseFromArray builds a dense matrix where each inner slice is a row. All rows
// must have the same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if m == 0 || n <= 0 {
		return nil, mat.ErrZeroLength
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Companion returns the k x k companion matrix of the lag polynomial
// 1 - c[0]*B - ... - c[k-1]*B^k. Its eigenvalues are the inverse roots of the polynomial.
func Companion(c []float64) (*mat.Dense, error) {
	k := len(c)
	if k == 0 {
		return nil, mat.ErrZeroLength
	}
	m := mat.NewDense(k, k, nil)
	m.SetRow(0, c)
	for i := 1; i < k; i++ {
		m.Set(i, i-1, 1)
	}
	return m, nil
}
