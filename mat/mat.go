package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch = errors.New("column size mismatch")
	ErrNegativeDim = errors.New("negative dimensions not allowed")
)

// NewDenseFromArray builds a dense matrix where each inner slice is a row. All rows
// must share the same length.
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
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// Flatten returns the values of x in row order as a new slice
func Flatten(x mat.Matrix) []float64 {
	m, n := x.Dims()
	res := make([]float64, 0, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			res = append(res, x.At(i, j))
		}
	}
	return res
}

// Tile repeats x n times back to back, pairing each flattened row of an observation
// matrix with the shared argument vector.
func Tile(x []float64, n int) ([]float64, error) {
	if n < 0 {
		return nil, ErrNegativeDim
	}
	res := make([]float64, 0, len(x)*n)
	for i := 0; i < n; i++ {
		res = append(res, x...)
	}
	return res, nil
}
