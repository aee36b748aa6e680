package histogram

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInvalidBinCount = errors.New("number of bins must be positive")
	ErrInvalidRange    = errors.New("invalid histogram range")
)

// Counts bins x into nbins equal width bins spanning [lo, hi]. Every bin is half open except
// the last, which also includes hi. Values outside the range and NaN are ignored. A zero
// width range is widened to [lo-0.5, hi+0.5]. The returned edges have nbins+1 entries.
func Counts(x []float64, nbins int, lo, hi float64) ([]float64, []float64, error) {
	if nbins < 1 {
		return nil, nil, ErrInvalidBinCount
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, nil, fmt.Errorf("range [%g, %g] is not finite, %w", lo, hi, ErrInvalidRange)
	}
	if lo > hi {
		return nil, nil, fmt.Errorf("lower bound %g is above upper bound %g, %w", lo, hi, ErrInvalidRange)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := floats.Span(make([]float64, nbins+1), lo, hi)

	inRange := make([]float64, 0, len(x))
	for _, val := range x {
		if val >= lo && val <= hi {
			inRange = append(inRange, val)
		}
	}
	counts := make([]float64, nbins)
	if len(inRange) == 0 {
		return counts, edges, nil
	}
	sort.Float64s(inRange)

	// close the last bin so values equal to hi are counted
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[nbins] = math.Nextafter(hi, math.Inf(1))

	stat.Histogram(counts, dividers, inRange, nil)
	return counts, edges, nil
}
