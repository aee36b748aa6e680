package leastsq

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	epsilon = 2.220446049250313e-16

	// initial damping relative to the largest squared column scale
	dampingInit = 1e-3

	dampingFactor = 10.0

	// damping beyond this multiple of the largest squared column scale makes the step vanish
	dampingMax = 1e16
)

// levenbergMarquardt minimizes the residual sum of squares with a scaled Levenberg-Marquardt
// iteration. Each damped step solves min ||[J; sqrt(lambda)*D] s + [r; 0]|| by QR
// factorization, D being the running maximum of the Jacobian column norms.
func levenbergMarquardt(p *problem, params []float64, opt *Options) *Result {
	n := len(params)
	m := len(p.y)
	maxfev := opt.maxEvaluations(n)

	x := make([]float64, n)
	copy(x, params)

	r := make([]float64, m)
	p.residual(r, x)
	fnorm := floats.Norm(r, 2)
	if math.IsNaN(fnorm) || math.IsInf(fnorm, 0) {
		slog.Warn("initial parameters produce non-finite residuals", "params", params)
		return &Result{
			Params:      x,
			Status:      StatusImproperInput,
			Evaluations: p.nfev,
			Cost:        math.NaN(),
		}
	}

	jac := mat.NewDense(m, n, nil)
	diag := make([]float64, n)
	colNorm := make([]float64, n)
	col := make([]float64, m)

	aug := mat.NewDense(m+n, n, nil)
	rhs := mat.NewDense(m+n, 1, nil)
	var sol mat.Dense
	qr := new(mat.QR)

	step := make([]float64, n)
	xNext := make([]float64, n)
	rNext := make([]float64, m)
	scaled := make([]float64, n)
	var jStep mat.VecDense

	var lambda, maxScale float64
	status := statusRunning
	for iter := 0; status == statusRunning; iter++ {
		fd.Jacobian(jac, p.residual, x, &fd.JacobianSettings{
			Formula:     fd.Forward,
			OriginValue: r,
			Step:        opt.Step,
		})

		for j := 0; j < n; j++ {
			mat.Col(col, j, jac)
			colNorm[j] = floats.Norm(col, 2)
			switch {
			case iter == 0 && colNorm[j] == 0:
				diag[j] = 1.0
			case iter == 0:
				diag[j] = colNorm[j]
			default:
				diag[j] = math.Max(diag[j], colNorm[j])
			}
		}

		// cosine of the angle between the residual and each Jacobian column
		gnorm := 0.0
		if fnorm != 0 {
			for j := 0; j < n; j++ {
				if colNorm[j] == 0 {
					continue
				}
				mat.Col(col, j, jac)
				gnorm = math.Max(gnorm, math.Abs(floats.Dot(col, r)/fnorm/colNorm[j]))
			}
		}
		if gnorm <= opt.Gtol {
			status = StatusGtol
			break
		}
		if gnorm <= epsilon {
			status = StatusGtolTooSmall
			break
		}

		if iter == 0 {
			for _, d := range diag {
				maxScale = math.Max(maxScale, d*d)
			}
			lambda = dampingInit * maxScale
		}

		for j := 0; j < n; j++ {
			scaled[j] = diag[j] * x[j]
		}
		xnorm := floats.Norm(scaled, 2)

		// retry the step with heavier damping until the residual drops
		for {
			if p.nfev >= maxfev {
				status = StatusMaxEvaluations
				break
			}
			if lambda > dampingMax*maxScale {
				status = StatusXtolTooSmall
				break
			}

			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					aug.Set(i, j, jac.At(i, j))
				}
				rhs.Set(i, 0, -r[i])
			}
			sqrtLambda := math.Sqrt(lambda)
			for j := 0; j < n; j++ {
				for k := 0; k < n; k++ {
					aug.Set(m+j, k, 0)
				}
				aug.Set(m+j, j, sqrtLambda*diag[j])
				rhs.Set(m+j, 0, 0)
			}

			qr.Factorize(aug)
			if err := qr.SolveTo(&sol, false, rhs); err != nil {
				lambda *= dampingFactor
				continue
			}
			mat.Col(step, 0, &sol)

			for j := 0; j < n; j++ {
				scaled[j] = diag[j] * step[j]
			}
			dxnorm := floats.Norm(scaled, 2)

			floats.AddTo(xNext, x, step)
			p.residual(rNext, xNext)
			fnext := floats.Norm(rNext, 2)

			if math.IsNaN(fnext) || math.IsInf(fnext, 0) || fnext >= fnorm {
				if dxnorm <= opt.Xtol*xnorm {
					status = StatusXtol
					break
				}
				lambda *= dampingFactor
				continue
			}

			// predicted reduction of the linearized model relative to the current sum of squares
			jStep.MulVec(jac, mat.NewVecDense(n, step))
			jnorm := mat.Norm(&jStep, 2) / fnorm
			dnorm := sqrtLambda * dxnorm / fnorm
			prered := jnorm*jnorm + 2.0*dnorm*dnorm
			actred := 1.0 - (fnext/fnorm)*(fnext/fnorm)

			copy(x, xNext)
			copy(r, rNext)
			fnorm = fnext
			lambda = math.Max(lambda/dampingFactor, epsilon*maxScale)

			ftolMet := math.Abs(actred) <= opt.Ftol && prered <= opt.Ftol
			xtolMet := dxnorm <= opt.Xtol*xnorm
			switch {
			case ftolMet && xtolMet:
				status = StatusFtolXtol
			case ftolMet:
				status = StatusFtol
			case xtolMet:
				status = StatusXtol
			case math.Abs(actred) <= epsilon && prered <= epsilon:
				status = StatusFtolTooSmall
			case dxnorm <= epsilon*xnorm:
				status = StatusXtolTooSmall
			case p.nfev >= maxfev:
				status = StatusMaxEvaluations
			}
			break
		}
	}

	return &Result{
		Params:      x,
		Status:      status,
		Evaluations: p.nfev,
		Cost:        fnorm * fnorm,
	}
}
