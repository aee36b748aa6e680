package neurofx

import "github.com/aouyang1/go-neurofx/leastsq"

// HistogramResult holds the per row histograms and the fit of the binned counts. Counts has
// one row per input row, including when there is only a single row.
type HistogramResult struct {
	Counts   [][]float64     `json:"counts"`
	BinLeft  []float64       `json:"bin_left"`
	BinWidth float64         `json:"bin_width"`
	Fit      *leastsq.Result `json:"fit"`
}

// BinCenters returns the midpoint of every bin, the arguments the counts were fit against
func (h *HistogramResult) BinCenters() []float64 {
	centers := make([]float64, len(h.BinLeft))
	for i, left := range h.BinLeft {
		centers[i] = left + h.BinWidth/2.0
	}
	return centers
}
