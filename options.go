package neurofx

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-neurofx/leastsq"
)

const DefaultNBins = 20

var (
	ErrNonPositiveBins = errors.New("number of bins must be positive")
	ErrInvalidRange    = errors.New("invalid histogram range")
)

// Range bounds the histogram bins
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HistogramOptions configures FitHistogram
type HistogramOptions struct {
	// NBins is the number of equal width bins per row
	NBins int `json:"nbins"`

	// Range spanned by the bins. When nil the global minimum and maximum across all rows are
	// used so every row shares the same bins.
	Range *Range `json:"range,omitempty"`

	// Fit configures the least squares fit of the binned counts
	Fit *leastsq.Options `json:"fit,omitempty"`
}

// NewDefaultHistogramOptions returns 20 bins over the data range with default fit options
func NewDefaultHistogramOptions() *HistogramOptions {
	return &HistogramOptions{
		NBins: DefaultNBins,
		Fit:   leastsq.NewDefaultOptions(),
	}
}

// Validate runs basic validation on histogram options and returns a normalized copy. The
// receiver is left untouched.
func (h *HistogramOptions) Validate() (*HistogramOptions, error) {
	if h == nil {
		h = NewDefaultHistogramOptions()
	} else {
		cp := *h
		h = &cp
	}
	if h.NBins <= 0 {
		return nil, ErrNonPositiveBins
	}
	if h.Range != nil {
		if math.IsNaN(h.Range.Min) || math.IsNaN(h.Range.Max) || h.Range.Min > h.Range.Max {
			return nil, fmt.Errorf("range [%g, %g], %w", h.Range.Min, h.Range.Max, ErrInvalidRange)
		}
	}
	fitOpt, err := h.Fit.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid fit options, %w", err)
	}
	h.Fit = fitOpt
	return h, nil
}
