package leastsq

import (
	"fmt"

	"gonum.org/v1/gonum/optimize"
)

// Status reports how a fit terminated. The values follow the MINPACK info convention so
// 1 through 4 mean the fit converged.
type Status int

const (
	statusRunning Status = -1

	StatusImproperInput  Status = 0
	StatusFtol           Status = 1
	StatusXtol           Status = 2
	StatusFtolXtol       Status = 3
	StatusGtol           Status = 4
	StatusMaxEvaluations Status = 5
	StatusFtolTooSmall   Status = 6
	StatusXtolTooSmall   Status = 7
	StatusGtolTooSmall   Status = 8
)

// Success is true when one of the convergence criteria was met
func (s Status) Success() bool {
	return s >= StatusFtol && s <= StatusGtol
}

func (s Status) String() string {
	switch s {
	case StatusImproperInput:
		return "improper input parameters"
	case StatusFtol:
		return "relative reduction in the sum of squares is at most ftol"
	case StatusXtol:
		return "relative error between two consecutive iterates is at most xtol"
	case StatusFtolXtol:
		return "both ftol and xtol are satisfied"
	case StatusGtol:
		return "residual is orthogonal to the Jacobian columns to gtol"
	case StatusMaxEvaluations:
		return "number of evaluations reached the maximum"
	case StatusFtolTooSmall:
		return "ftol is too small, no further reduction in the sum of squares is possible"
	case StatusXtolTooSmall:
		return "xtol is too small, no further improvement in the solution is possible"
	case StatusGtolTooSmall:
		return "gtol is too small, residual is orthogonal to the Jacobian to machine precision"
	default:
		return fmt.Sprintf("unknown status %d", int(s))
	}
}

// statusFromGonum maps a gonum optimize termination onto the MINPACK convention
func statusFromGonum(s optimize.Status) Status {
	switch s {
	case optimize.FunctionConvergence, optimize.FunctionThreshold:
		return StatusFtol
	case optimize.StepConvergence:
		return StatusXtol
	case optimize.Success, optimize.MethodConverge:
		return StatusFtolXtol
	case optimize.GradientThreshold:
		return StatusGtol
	case optimize.IterationLimit, optimize.RuntimeLimit, optimize.FunctionEvaluationLimit,
		optimize.GradientEvaluationLimit, optimize.HessianEvaluationLimit:
		return StatusMaxEvaluations
	default:
		return StatusXtolTooSmall
	}
}
