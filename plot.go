package neurofx

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/aouyang1/go-neurofx/leastsq"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var (
	ErrNoFitResult       = errors.New("no fit result to plot")
	ErrSeriesLenMismatch = errors.New("series length does not match arguments")
)

// LineSeries generates an echart multi-line chart for values sharing the arguments x. Each
// series in y must have the same length as x. NaN values are left as gaps.
func LineSeries(title string, seriesName []string, x []float64, y [][]float64) (*charts.Line, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	labels := make([]string, len(x))
	for i, xPnt := range x {
		labels[i] = strconv.FormatFloat(xPnt, 'g', 6, 64)
	}
	line = line.SetXAxis(labels)

	for i, series := range y {
		if len(series) != len(x) {
			return nil, fmt.Errorf("series %d has %d values for %d arguments, %w", i, len(series), len(x), ErrSeriesLenMismatch)
		}
		lineData := make([]opts.LineData, 0, len(series))
		for _, val := range series {
			if math.IsNaN(val) {
				lineData = append(lineData, opts.LineData{Value: "-"})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: val})
		}
		name := fmt.Sprintf("series %d", i)
		if i < len(seriesName) {
			name = seriesName[i]
		}
		line = line.AddSeries(name, lineData)
	}
	return line, nil
}

// PlotHistogramFit uses the Apache Echarts library to generate an html file showing every
// histogram row and the fitted curve evaluated at the bin centers
func PlotHistogramFit(path string, res *HistogramResult, fx leastsq.Func) error {
	if res == nil || res.Fit == nil {
		return ErrNoFitResult
	}
	centers := res.BinCenters()

	names := make([]string, 0, len(res.Counts)+1)
	series := make([][]float64, 0, len(res.Counts)+1)
	for i, counts := range res.Counts {
		names = append(names, fmt.Sprintf("histogram %d", i))
		series = append(series, counts)
	}
	names = append(names, "fit")
	series = append(series, fx(centers, res.Fit.Params))

	line, err := LineSeries("Histogram Fit", names, centers, series)
	if err != nil {
		return fmt.Errorf("unable to chart histogram fit, %w", err)
	}

	page := components.NewPage()
	page.AddCharts(line)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(file)
}
