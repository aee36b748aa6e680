// Package gaussian evaluates weighted mixtures of two normal densities for fitting
// distributions such as binned histograms.
package gaussian

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DualArity is the number of parameters the dual fit functions expect:
// amp1, mean1, std1, amp2, mean2, std2
const DualArity = 6

var ErrParamArity = errors.New("unexpected number of model parameters")

// Component describes one weighted normal density
type Component struct {
	Amp  float64 `json:"amp"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Params holds both components of a dual gaussian
type Params struct {
	First  Component `json:"first"`
	Second Component `json:"second"`
}

// NewDefaultParams returns two unit amplitude standard normals
func NewDefaultParams() Params {
	c := Component{Amp: 1.0, Mean: 0.0, Std: 1.0}
	return Params{First: c, Second: c}
}

// Slice orders the parameters the way DualFunc expects them
func (p Params) Slice() []float64 {
	return []float64{
		p.First.Amp, p.First.Mean, p.First.Std,
		p.Second.Amp, p.Second.Mean, p.Second.Std,
	}
}

// Dual evaluates amp1*N(x; mean1, std1) + amp2*N(x; mean2, std2). A non-positive standard
// deviation is an infeasible parameterization and every returned value is NaN.
func Dual(x []float64, amp1, mean1, std1, amp2, mean2, std2 float64) []float64 {
	res := make([]float64, len(x))
	if std1 <= 0 || std2 <= 0 {
		return fillNaN(res)
	}

	first := distuv.Normal{Mu: mean1, Sigma: std1}
	second := distuv.Normal{Mu: mean2, Sigma: std2}
	for i, xPnt := range x {
		res[i] = amp1*first.Prob(xPnt) + amp2*second.Prob(xPnt)
	}
	return res
}

// DualPositive is Dual constrained to non-negative amplitudes. A negative amplitude yields
// NaN values the same way an invalid standard deviation does.
func DualPositive(x []float64, amp1, mean1, std1, amp2, mean2, std2 float64) []float64 {
	if amp1 < 0 || amp2 < 0 {
		return fillNaN(make([]float64, len(x)))
	}
	return Dual(x, amp1, mean1, std1, amp2, mean2, std2)
}

// Eval evaluates Dual with typed parameters
func (p Params) Eval(x []float64) []float64 {
	return Dual(x, p.First.Amp, p.First.Mean, p.First.Std, p.Second.Amp, p.Second.Mean, p.Second.Std)
}

// DualFunc adapts Dual to a fit function
func DualFunc(x, params []float64) []float64 {
	checkArity(params)
	return Dual(x, params[0], params[1], params[2], params[3], params[4], params[5])
}

// DualPositiveFunc adapts DualPositive to a fit function
func DualPositiveFunc(x, params []float64) []float64 {
	checkArity(params)
	return DualPositive(x, params[0], params[1], params[2], params[3], params[4], params[5])
}

func checkArity(params []float64) {
	if len(params) != DualArity {
		panic(fmt.Errorf("dual gaussian expects %d params, got %d, %w", DualArity, len(params), ErrParamArity))
	}
}

func fillNaN(x []float64) []float64 {
	for i := range x {
		x[i] = math.NaN()
	}
	return x
}
