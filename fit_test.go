package neurofx

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aouyang1/go-neurofx/gaussian"
	"github.com/aouyang1/go-neurofx/leastsq"
	mat_ "github.com/aouyang1/go-neurofx/mat"
	"github.com/aouyang1/go-neurofx/simulate"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleGaussian fits amplitude, mean and std of one component
func singleGaussian(x, params []float64) []float64 {
	return gaussian.Dual(x, params[0], params[1], params[2], 0.0, 0.0, 1.0)
}

func TestHistogramOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *HistogramOptions
		err      error
		expected *HistogramOptions
	}{
		"nil": {nil, nil, NewDefaultHistogramOptions()},
		"nil fit options": {
			&HistogramOptions{NBins: 5},
			nil,
			&HistogramOptions{NBins: 5, Fit: leastsq.NewDefaultOptions()},
		},
		"zero bins": {
			&HistogramOptions{NBins: 0},
			ErrNonPositiveBins, nil,
		},
		"inverted range": {
			&HistogramOptions{NBins: 5, Range: &Range{Min: 2, Max: 1}},
			ErrInvalidRange, nil,
		},
		"invalid fit options": {
			&HistogramOptions{NBins: 5, Fit: &leastsq.Options{Xtol: -1}},
			leastsq.ErrNegativeTolerance, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestHistogramOptionsValidateLeavesInputUntouched(t *testing.T) {
	shared := &HistogramOptions{NBins: 5}
	opt, err := shared.Validate()
	require.Nil(t, err)
	assert.NotNil(t, opt.Fit)
	assert.Nil(t, shared.Fit)
	assert.NotSame(t, shared, opt)
}

func TestFitHistogramIdenticalRows(t *testing.T) {
	row := simulate.GenerateNormal(2000, 1.0, 0.5, rand.New(rand.NewPCG(3, 5)))
	X := [][]float64{row, row}

	nbins := 25
	res, err := FitHistogram(X, singleGaussian, []float64{100.0, 0.8, 0.7}, &HistogramOptions{NBins: nbins})
	require.Nil(t, err)

	require.Len(t, res.Counts, 2)
	assert.Equal(t, res.Counts[0], res.Counts[1])
	assert.Len(t, res.Counts[0], nbins)
	assert.Len(t, res.BinLeft, nbins)

	lo, hi := row[0], row[0]
	for _, val := range row {
		lo = min(lo, val)
		hi = max(hi, val)
	}
	assert.InDelta(t, (hi-lo)/float64(nbins), res.BinWidth, 1e-6)
	assert.Equal(t, lo, res.BinLeft[0])

	total := 0.0
	for _, c := range res.Counts[0] {
		total += c
	}
	assert.Equal(t, float64(len(row)), total)
}

func TestFitHistogramRecoversNormal(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 23))
	n := 5000
	X := [][]float64{
		simulate.GenerateNormal(n, 1.0, 0.5, rng),
		simulate.GenerateNormal(n, 1.0, 0.5, rng),
	}

	opt := &HistogramOptions{NBins: 30, Range: &Range{Min: -1.0, Max: 3.0}}
	binWidth := 4.0 / 30.0
	res, err := FitHistogram(X, singleGaussian, []float64{float64(n) * binWidth * 0.8, 0.8, 0.7}, opt)
	require.Nil(t, err)
	require.NotNil(t, res.Fit)
	assert.True(t, res.Fit.Status.Success(), res.Fit.Status.String())

	assert.InDelta(t, binWidth, res.BinWidth, 1e-6)
	assert.InDelta(t, float64(n)*binWidth, res.Fit.Params[0], 0.05*float64(n)*binWidth, "amp")
	assert.InDelta(t, 1.0, res.Fit.Params[1], 0.05, "mean")
	assert.InDelta(t, 0.5, res.Fit.Params[2], 0.05, "std")
}

func TestFitHistogramSingleRow(t *testing.T) {
	row := simulate.GenerateNormal(3000, 0.0, 1.0, rand.New(rand.NewPCG(1, 1)))
	res, err := FitHistogram([][]float64{row}, gaussian.DualPositiveFunc, []float64{200, 0.1, 1.2, 0, 0, 1}, nil)
	require.Nil(t, err)
	require.Len(t, res.Counts, 1)
	assert.Len(t, res.Counts[0], DefaultNBins)
	assert.Len(t, res.Fit.Params, gaussian.DualArity)

	centers := res.BinCenters()
	require.Len(t, centers, DefaultNBins)
	for i, left := range res.BinLeft {
		assert.InDelta(t, left+res.BinWidth/2.0, centers[i], 1e-12)
	}
}

func TestFitHistogramErrors(t *testing.T) {
	testData := map[string]struct {
		X   [][]float64
		fx  leastsq.Func
		p   []float64
		opt *HistogramOptions
		err error
	}{
		"no rows": {
			nil, singleGaussian, []float64{1, 0, 1}, nil,
			ErrNoData,
		},
		"empty row": {
			[][]float64{{1, 2}, {}}, singleGaussian, []float64{1, 0, 1}, nil,
			ErrNoData,
		},
		"ragged rows": {
			[][]float64{{1, 2, 3}, {1, 2}}, singleGaussian, []float64{1, 0, 1}, nil,
			mat_.ErrColMismatch,
		},
		"invalid options": {
			[][]float64{{1, 2, 3}}, singleGaussian, []float64{1, 0, 1}, &HistogramOptions{NBins: -3},
			ErrNonPositiveBins,
		},
		"fit misuse": {
			[][]float64{{1, 2, 3}}, nil, []float64{1, 0, 1}, nil,
			leastsq.ErrNoFunc,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := FitHistogram(td.X, td.fx, td.p, td.opt)
			assert.ErrorIs(t, err, td.err)
			assert.Nil(t, res)
		})
	}
}

func TestUniformWidth(t *testing.T) {
	testData := map[string]struct {
		edges    []float64
		expected float64
		err      error
	}{
		"exact":           {[]float64{0, 0.25, 0.5, 0.75}, 0.25, nil},
		"numerical noise": {[]float64{0, 0.1, 0.2, 0.30000000001, 0.4}, 0.1, nil},
		"descending":      {[]float64{0.4, 0.3, 0.2}, 0.1, nil},
		"non uniform":     {[]float64{0, 1, 3}, 0, ErrNonUniformBinWidth},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			width, err := uniformWidth(td.edges)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected, width, 1e-12)
		})
	}
}

func TestHistogramResultJSON(t *testing.T) {
	res := &HistogramResult{
		Counts:   [][]float64{{1, 2}},
		BinLeft:  []float64{0, 0.5},
		BinWidth: 0.5,
		Fit: &leastsq.Result{
			Params: []float64{1, 2},
			Status: leastsq.StatusFtol,
		},
	}
	out, err := json.Marshal(res)
	require.Nil(t, err)

	var decoded map[string]any
	require.Nil(t, json.Unmarshal(out, &decoded))
	for _, key := range []string{"counts", "bin_left", "bin_width", "fit"} {
		assert.Contains(t, decoded, key)
	}
	fit, ok := decoded["fit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, fit["status"])
}

func TestPlotHistogramFit(t *testing.T) {
	row := simulate.GenerateNormal(500, 0.0, 1.0, rand.New(rand.NewPCG(9, 9)))
	res, err := FitHistogram([][]float64{row}, singleGaussian, []float64{50, 0, 1}, &HistogramOptions{NBins: 10})
	require.Nil(t, err)

	path := filepath.Join(t.TempDir(), "histogram.html")
	require.Nil(t, PlotHistogramFit(path, res, singleGaussian))

	contents, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.True(t, strings.Contains(string(contents), "Histogram Fit"))

	assert.ErrorIs(t, PlotHistogramFit(path, nil, singleGaussian), ErrNoFitResult)
}

func TestLineSeriesLenMismatch(t *testing.T) {
	_, err := LineSeries("mismatch", []string{"a"}, []float64{0, 1}, [][]float64{{1}})
	assert.ErrorIs(t, err, ErrSeriesLenMismatch)
}
