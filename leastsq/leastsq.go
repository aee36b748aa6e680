// Package leastsq fits parametric functions to one or more observation series with
// nonlinear least squares.
package leastsq

import (
	"errors"
	"fmt"
	"log/slog"

	mat_ "github.com/aouyang1/go-neurofx/mat"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoFunc             = errors.New("no function to fit")
	ErrNoParams           = errors.New("no initial parameters")
	ErrNoObservations     = errors.New("no observations to fit")
	ErrArgLenMismatch     = errors.New("function arguments have a different length than the observation columns")
	ErrPredictionLen      = errors.New("function returned a different number of values than arguments")
	ErrModelEvaluation    = errors.New("unable to evaluate model")
	ErrInsufficientPoints = errors.New("fewer observations than parameters")
)

// Func is a parametric model evaluated at every argument in x. Auxiliary fixed values a
// model needs are captured by a closure rather than passed as params.
type Func func(x, params []float64) []float64

// Result is the outcome of a fit. Non-convergence is reported through Status and never
// as an error.
type Result struct {
	Params      []float64 `json:"params"`
	Status      Status    `json:"status"`
	Evaluations int       `json:"evaluations"`

	// Cost is the final sum of squared residuals
	Cost float64 `json:"cost"`
}

// problem holds the flattened observations and counts model evaluations
type problem struct {
	fx   Func
	x    []float64
	y    []float64
	nfev int
}

func (p *problem) residual(dst, params []float64) {
	pred := p.fx(p.x, params)
	p.nfev++
	for i, yPnt := range p.y {
		dst[i] = yPnt - pred[i]
	}
}

// FitSeries fits fx to a single observation series. See Fit.
func FitSeries(fx Func, params []float64, y []float64, x []float64, opt *Options) (*Result, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	return Fit(fx, params, mat.NewDense(1, len(y), y), x, opt)
}

// Fit minimizes the squared difference between each row of y and fx evaluated at x,
// starting from params. Every row is an observation series sharing the same arguments, so
// all rows are fit jointly to one parameter set. A nil x uses 0..m-1 for m columns.
func Fit(fx Func, params []float64, y mat.Matrix, x []float64, opt *Options) (res *Result, err error) {
	opt, err = opt.Validate()
	if err != nil {
		return nil, err
	}
	if fx == nil {
		return nil, ErrNoFunc
	}
	if len(params) == 0 {
		return nil, ErrNoParams
	}
	if y == nil {
		return nil, ErrNoObservations
	}
	nSeries, m := y.Dims()
	if nSeries == 0 || m == 0 {
		return nil, ErrNoObservations
	}

	if x == nil {
		x = make([]float64, m)
		for i := range x {
			x[i] = float64(i)
		}
	}
	if len(x) != m {
		return nil, fmt.Errorf("got %d arguments for %d columns, %w", len(x), m, ErrArgLenMismatch)
	}

	xFlat, err := mat_.Tile(x, nSeries)
	if err != nil {
		return nil, err
	}
	p := &problem{
		fx: fx,
		x:  xFlat,
		y:  mat_.Flatten(y),
	}
	if len(p.y) < len(params) {
		return nil, fmt.Errorf("%d observations for %d parameters, %w", len(p.y), len(params), ErrInsufficientPoints)
	}

	// a model rejecting its parameters panics with an error, surface it as misuse
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rErr, ok := r.(error)
		if !ok {
			panic(r)
		}
		res = nil
		err = fmt.Errorf("%w, %w", ErrModelEvaluation, rErr)
	}()

	if pred := fx(p.x, params); len(pred) != len(p.x) {
		return nil, fmt.Errorf("got %d values for %d arguments, %w", len(pred), len(p.x), ErrPredictionLen)
	}

	if opt.Method == MethodLevenbergMarquardt {
		res = levenbergMarquardt(p, params, opt)
	} else {
		res, err = minimize(p, params, opt)
		if err != nil {
			return nil, err
		}
	}

	if !res.Status.Success() {
		slog.Warn("least squares fit did not converge",
			"method", string(opt.Method),
			"status", int(res.Status),
			"reason", res.Status.String(),
			"evaluations", res.Evaluations,
		)
	}
	return res, nil
}
