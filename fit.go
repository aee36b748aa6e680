// Package neurofx provides the parametric response models and curve fitting helpers used
// when analysing neuroimaging signals. The model functions live in the hrf and gaussian
// packages, the least squares adapter in leastsq and the rotation generator in rotation.
// This package ties binning and fitting together with FitHistogram.
package neurofx

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/aouyang1/go-neurofx/histogram"
	"github.com/aouyang1/go-neurofx/leastsq"
	mat_ "github.com/aouyang1/go-neurofx/mat"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// BinWidthDecimals is the rounding applied to edge differences before requiring a single width
const BinWidthDecimals = 6

var (
	ErrNoData             = errors.New("no data to bin")
	ErrNonUniformBinWidth = errors.New("histogram bins do not share a single width")
)

// FitHistogram bins every row of X into its own histogram and fits fx to the binned counts.
// All rows share one set of bins so the counts can be fit jointly, with each row treated as
// a repeated observation of the same distribution. The counts are fit against the bin
// centers with leastsq.Fit.
func FitHistogram(X [][]float64, fx leastsq.Func, params []float64, opt *HistogramOptions) (*HistogramResult, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return nil, ErrNoData
	}
	for i, row := range X {
		if len(row) == 0 {
			return nil, fmt.Errorf("row %d is empty, %w", i, ErrNoData)
		}
	}
	data, err := mat_.NewDenseFromArray(X)
	if err != nil {
		return nil, fmt.Errorf("unable to load data, %w", err)
	}

	rng := opt.Range
	if rng == nil {
		// global bounds keep the bins identical across rows
		rng = &Range{Min: mat.Min(data), Max: mat.Max(data)}
	}

	counts := make([][]float64, len(X))
	var binLeft []float64
	var binWidth float64
	for i, row := range X {
		c, edges, err := histogram.Counts(row, opt.NBins, rng.Min, rng.Max)
		if err != nil {
			return nil, fmt.Errorf("unable to bin row %d, %w", i, err)
		}
		if binLeft == nil {
			binLeft = edges[:opt.NBins]
			binWidth, err = uniformWidth(edges)
			if err != nil {
				return nil, err
			}
		}
		if ignored := len(row) - int(floats.Sum(c)); ignored > 0 {
			slog.Debug("values outside the histogram range are ignored", "row", i, "ignored", ignored)
		}
		counts[i] = c
	}

	res := &HistogramResult{
		Counts:   counts,
		BinLeft:  binLeft,
		BinWidth: binWidth,
	}

	countsMx, err := mat_.NewDenseFromArray(counts)
	if err != nil {
		return nil, fmt.Errorf("unable to stack histograms, %w", err)
	}
	res.Fit, err = leastsq.Fit(fx, params, countsMx, res.BinCenters(), opt.Fit)
	if err != nil {
		return nil, fmt.Errorf("unable to fit histogram, %w", err)
	}
	return res, nil
}

// uniformWidth rounds the edge differences half to even to absorb numerical noise and
// requires them to collapse to one width
func uniformWidth(edges []float64) (float64, error) {
	widths := make(map[float64]struct{})
	var width float64
	for i := 0; i < len(edges)-1; i++ {
		width = math.Abs(scalar.RoundEven(edges[i]-edges[i+1], BinWidthDecimals))
		widths[width] = struct{}{}
	}
	if len(widths) != 1 {
		return 0, fmt.Errorf("found %d distinct widths, %w", len(widths), ErrNonUniformBinWidth)
	}
	return width, nil
}
