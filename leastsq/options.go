package leastsq

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

const (
	// DefaultTolerance matches the relative tolerance MINPACK's lmdif driver is usually run with
	DefaultTolerance = 1.49012e-8

	// DefaultEvaluationsFactor sets the evaluation budget to factor*(n+1) when MaxEvaluations is 0
	DefaultEvaluationsFactor = 200
)

var (
	ErrNegativeTolerance   = errors.New("negative tolerance")
	ErrNegativeEvaluations = errors.New("negative max evaluations")
	ErrNegativeStep        = errors.New("negative finite difference step")
	ErrUnknownMethod       = errors.New("unknown fit method")
)

// Method selects the minimizer used to fit the model
type Method string

const (
	MethodLevenbergMarquardt Method = "levenberg-marquardt"
	MethodNelderMead         Method = "nelder-mead"
	MethodLBFGS              Method = "lbfgs"
	MethodBFGS               Method = "bfgs"
	MethodGradientDescent    Method = "gradient-descent"
)

// gonumMethod returns the general purpose minimizer for the method. Levenberg-Marquardt
// has no gonum counterpart and returns nil.
func (m Method) gonumMethod() optimize.Method {
	switch m {
	case MethodNelderMead:
		return &optimize.NelderMead{}
	case MethodLBFGS:
		return &optimize.LBFGS{}
	case MethodBFGS:
		return &optimize.BFGS{}
	case MethodGradientDescent:
		return &optimize.GradientDescent{}
	default:
		return nil
	}
}

// Options configures a least squares fit
type Options struct {
	// Method is the minimizer. Levenberg-Marquardt is used when empty.
	Method Method `json:"method"`

	// MaxEvaluations caps the number of model evaluations, including those spent on the
	// finite difference Jacobian. 0 uses DefaultEvaluationsFactor*(n+1) for n parameters.
	MaxEvaluations int `json:"max_evaluations"`

	// Ftol is the relative error desired in the sum of squares
	Ftol float64 `json:"ftol"`

	// Xtol is the relative error desired in the approximate solution
	Xtol float64 `json:"xtol"`

	// Gtol is the orthogonality desired between the residual and the Jacobian columns
	Gtol float64 `json:"gtol"`

	// Step is the finite difference step of the Jacobian. 0 uses the forward difference default.
	Step float64 `json:"step"`
}

// NewDefaultOptions returns Levenberg-Marquardt options with MINPACK's usual tolerances
func NewDefaultOptions() *Options {
	return &Options{
		Method: MethodLevenbergMarquardt,
		Ftol:   DefaultTolerance,
		Xtol:   DefaultTolerance,
		Gtol:   0.0,
	}
}

// Validate runs basic validation on fit options and returns a normalized copy. The
// receiver is left untouched.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	} else {
		cp := *o
		o = &cp
	}
	if o.Method == "" {
		o.Method = MethodLevenbergMarquardt
	}
	if o.Method != MethodLevenbergMarquardt && o.Method.gonumMethod() == nil {
		return nil, fmt.Errorf("%s, %w", o.Method, ErrUnknownMethod)
	}
	if o.MaxEvaluations < 0 {
		return nil, ErrNegativeEvaluations
	}
	if o.Ftol < 0 || o.Xtol < 0 || o.Gtol < 0 {
		return nil, ErrNegativeTolerance
	}
	if o.Step < 0 {
		return nil, ErrNegativeStep
	}
	return o, nil
}

func (o *Options) maxEvaluations(nParams int) int {
	if o.MaxEvaluations > 0 {
		return o.MaxEvaluations
	}
	return DefaultEvaluationsFactor * (nParams + 1)
}
