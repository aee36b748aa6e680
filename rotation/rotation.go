// Package rotation generates random orthogonal rotations, optionally combined with a
// reduction of dimensionality.
package rotation

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/aouyang1/go-neurofx/simulate"

	"gonum.org/v1/gonum/mat"
)

// SurrogateRowFactor sets the number of rows of random surrogate data per column
const SurrogateRowFactor = 10

var (
	ErrNonPositiveDim      = errors.New("dimensions must be positive")
	ErrInsufficientColumns = errors.New("data has fewer columns than the rotation dimensionality")
	ErrSVDFailed           = errors.New("singular value decomposition failed")
)

// Options configures Random
type Options struct {
	// NT is the dimensionality of the target space. 0 keeps the source dimensionality.
	NT int

	// Data derives the rotation. It needs at least max(ns, nt) columns and a rank high
	// enough to span them. When nil, standard normal surrogate data is drawn.
	Data mat.Matrix

	// Rand is the source of the surrogate data. A nil Rand uses the global source.
	Rand *rand.Rand
}

// Random returns an ns x nt matrix with orthonormal rows or columns taken from the right
// singular vectors of the data. When ns equals nt the result is a proper rotation with a
// determinant of +1.
func Random(ns int, opt *Options) (*mat.Dense, error) {
	if opt == nil {
		opt = &Options{}
	}
	nt := opt.NT
	if nt == 0 {
		nt = ns
	}
	if ns <= 0 || nt <= 0 {
		return nil, fmt.Errorf("source %d and target %d, %w", ns, nt, ErrNonPositiveDim)
	}

	d := max(ns, nt)
	data := opt.Data
	if data == nil {
		data = surrogate(d, opt.Rand)
	}
	rows, cols := data.Dims()
	if cols < d {
		return nil, fmt.Errorf("got %d columns, need %d, %w", cols, d, ErrInsufficientColumns)
	}

	var svd mat.SVD
	if ok := svd.Factorize(mat.DenseCopyOf(data).Slice(0, rows, 0, d), mat.SVDFull); !ok {
		return nil, ErrSVDFailed
	}
	var v mat.Dense
	svd.VTo(&v)

	// rows of V transpose are the columns of V
	r := mat.DenseCopyOf(v.Slice(0, nt, 0, ns).T())

	if ns == nt && mat.Det(r) < 0 {
		for i := 0; i < ns; i++ {
			r.Set(i, 0, -r.At(i, 0))
		}
	}
	return r, nil
}

func surrogate(d int, rng *rand.Rand) *mat.Dense {
	rows := SurrogateRowFactor * d
	return mat.NewDense(rows, d, simulate.GenerateNormal(rows*d, 0.0, 1.0, rng))
}
