package leastsq

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// minimize fits with one of gonum's general purpose minimizers on the sum of squared
// residuals. NaN costs are reported as +Inf so the minimizer treats them as infeasible.
func minimize(p *problem, params []float64, opt *Options) (*Result, error) {
	r := make([]float64, len(p.y))
	cost := func(x []float64) float64 {
		p.residual(r, x)
		c := floats.Dot(r, r)
		if math.IsNaN(c) {
			return math.Inf(1)
		}
		return c
	}

	prob := optimize.Problem{
		Func: cost,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, cost, x, &fd.Settings{Step: opt.Step})
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: opt.maxEvaluations(len(params)),
	}

	x0 := make([]float64, len(params))
	copy(x0, params)

	res, err := optimize.Minimize(prob, x0, settings, opt.Method.gonumMethod())
	if res == nil {
		return nil, fmt.Errorf("unable to minimize with %s, %w", opt.Method, err)
	}
	status := statusFromGonum(res.Status)
	if err != nil {
		slog.Warn("minimizer terminated with an error", "method", string(opt.Method), "error", err.Error())
		if status.Success() {
			status = StatusXtolTooSmall
		}
	}

	return &Result{
		Params:      res.X,
		Status:      status,
		Evaluations: p.nfev,
		Cost:        res.F,
	}, nil
}
