// Package hrf models the hemodynamic response with gamma shaped curves.
package hrf

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

const (
	DefaultPeakA = 5.4
	DefaultPeakW = 5.2
	DefaultPeakK = 1.0

	DefaultUndershootA = 10.8
	DefaultUndershootW = 7.35
	DefaultUndershootK = 0.35

	// SingleGammaArity is the number of parameters SingleGammaFunc expects: A, W, K
	SingleGammaArity = 3

	// DoubleGammaArity is the number of parameters DoubleGammaFunc expects: A1, W1, K1, A2, W2, K2
	DoubleGammaArity = 6
)

var ErrParamArity = errors.New("unexpected number of model parameters")

// fwhmFactor converts a full-width at half-maximum into the gamma shape terms
const fwhmFactor = 8.0 * math.Ln2

// Gamma parameterizes a single gamma response curve
type Gamma struct {
	// A is the time to peak
	A float64 `json:"a"`

	// W is the full-width at half-maximum
	W float64 `json:"w"`

	// K scales the curve. The value at t = A equals K.
	K float64 `json:"k"`
}

// NewDefaultGamma returns the canonical single gamma response parameters
func NewDefaultGamma() Gamma {
	return Gamma{
		A: DefaultPeakA,
		W: DefaultPeakW,
		K: DefaultPeakK,
	}
}

// DoubleGamma parameterizes a response with a peak and a later undershoot
type DoubleGamma struct {
	Peak       Gamma `json:"peak"`
	Undershoot Gamma `json:"undershoot"`
}

// NewDefaultDoubleGamma returns the canonical double gamma response parameters
func NewDefaultDoubleGamma() DoubleGamma {
	return DoubleGamma{
		Peak: NewDefaultGamma(),
		Undershoot: Gamma{
			A: DefaultUndershootA,
			W: DefaultUndershootW,
			K: DefaultUndershootK,
		},
	}
}

// SingleGammaAt evaluates the single gamma response at time t. The power term is computed
// in complex arithmetic so times before zero still produce a real value. Degenerate
// parameters such as W = 0 propagate Inf or NaN.
func SingleGammaAt(t float64, g Gamma) float64 {
	shape := g.A * g.A / (g.W * g.W) * fwhmFactor
	scale := g.W * g.W / g.A / fwhmFactor

	pow := cmplx.Pow(complex(t/g.A, 0), complex(shape, 0))
	return g.K * real(pow) * math.Exp(-(t-g.A)/scale)
}

// SingleGamma evaluates the single gamma response at every time point
func SingleGamma(t []float64, g Gamma) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		res[i] = SingleGammaAt(tPnt, g)
	}
	return res
}

// DoubleGammaAt evaluates the peak response minus the undershoot response at time t
func DoubleGammaAt(t float64, d DoubleGamma) float64 {
	return SingleGammaAt(t, d.Peak) - SingleGammaAt(t, d.Undershoot)
}

// DoubleGammaHRF evaluates the double gamma response at every time point
func DoubleGammaHRF(t []float64, d DoubleGamma) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		res[i] = DoubleGammaAt(tPnt, d)
	}
	return res
}

// SingleGammaFunc adapts SingleGamma to a fit function taking params A, W, K
func SingleGammaFunc(t, params []float64) []float64 {
	if len(params) != SingleGammaArity {
		panic(fmt.Errorf("single gamma expects %d params, got %d, %w", SingleGammaArity, len(params), ErrParamArity))
	}
	return SingleGamma(t, Gamma{A: params[0], W: params[1], K: params[2]})
}

// DoubleGammaFunc adapts DoubleGammaHRF to a fit function taking params A1, W1, K1, A2, W2, K2
func DoubleGammaFunc(t, params []float64) []float64 {
	if len(params) != DoubleGammaArity {
		panic(fmt.Errorf("double gamma expects %d params, got %d, %w", DoubleGammaArity, len(params), ErrParamArity))
	}
	d := DoubleGamma{
		Peak:       Gamma{A: params[0], W: params[1], K: params[2]},
		Undershoot: Gamma{A: params[3], W: params[4], K: params[5]},
	}
	return DoubleGammaHRF(t, d)
}
