package characteristic

import (
	"fmt"
	"math"
	"math/cmplx"
)

// VarianceGamma returns the characteristic function of ln(S_t) under the
// Variance-Gamma model with diffusion scale sigma, subordinated drift theta
// and gamma time scale nu. The additive drift term is solved at construction
// so that phi(-i) = exp((r-q)t), the risk-neutral consistency condition; a
// parameter set for which the uncorrected exponent at u=-i is non-real or
// non-positive fails with ErrInconsistentModel.
func VarianceGamma(t, spot, r, q, sigma, theta, nu float64) (Function, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma %g must be positive", ErrInvalidParameter, sigma)
	}
	if nu <= 0 {
		return nil, fmt.Errorf("%w: nu %g must be positive", ErrInvalidParameter, nu)
	}

	// CF of the raw VG increment over [0,t].
	increment := func(u complex128) complex128 {
		z := 1 - complex(0, theta*nu)*u + complex(0.5*sigma*sigma*nu, 0)*u*u
		return cmplx.Pow(z, complex(-t/nu, 0))
	}

	atMinusI := increment(complex(0, -1))
	if math.Abs(imag(atMinusI)) > imagTolerance {
		return nil, fmt.Errorf("%w: VG exponent at -i is not real (imag %g)", ErrInconsistentModel, imag(atMinusI))
	}
	if real(atMinusI) <= 0 {
		return nil, fmt.Errorf("%w: VG exponent at -i is %g <= 0", ErrInconsistentModel, real(atMinusI))
	}

	driftCorr := r - q
	if t > 1e-16 {
		driftCorr -= math.Log(real(atMinusI)) / t
	}
	lnS := math.Log(spot)

	return func(u complex128) complex128 {
		return cmplx.Exp(complex(0, 1)*u*complex(lnS+driftCorr*t, 0)) * increment(u)
	}, nil
}

// NIG returns the characteristic function of ln(S_t) under the Normal
// Inverse Gaussian model with tail parameter alpha, asymmetry beta and scale
// delta, requiring |beta| < alpha. As with VG, the drift is corrected at
// construction so that phi(-i) = exp((r-q)t); |beta+1| >= alpha makes the
// exponent at -i complex and fails with ErrInconsistentModel.
func NIG(t, spot, r, q, alpha, beta, delta float64) (Function, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("%w: alpha %g must be positive", ErrInvalidParameter, alpha)
	}
	if delta <= 0 {
		return nil, fmt.Errorf("%w: delta %g must be positive", ErrInvalidParameter, delta)
	}
	if math.Abs(beta) >= alpha {
		return nil, fmt.Errorf("%w: |beta| %g must be < alpha %g", ErrInvalidParameter, math.Abs(beta), alpha)
	}

	gamma := math.Sqrt(alpha*alpha - beta*beta)
	psi := func(u complex128) complex128 {
		bu := complex(beta, 0) + complex(0, 1)*u
		return -complex(delta, 0) * (cmplx.Sqrt(complex(alpha*alpha, 0)-bu*bu) - complex(gamma, 0))
	}

	atMinusI := psi(complex(0, -1))
	if math.Abs(imag(atMinusI)) > imagTolerance {
		return nil, fmt.Errorf("%w: NIG exponent at -i is not real (imag %g)", ErrInconsistentModel, imag(atMinusI))
	}

	driftCorr := (r - q) - real(atMinusI)
	lnS := math.Log(spot)

	return func(u complex128) complex128 {
		main := cmplx.Exp(complex(0, 1) * u * complex(lnS+driftCorr*t, 0))
		return main * cmplx.Exp(complex(t, 0)*psi(u))
	}, nil
}

// OrnsteinUhlenbeck returns the characteristic function of X_t for the OU
// process dX_t = kappa (theta - X_t) dt + sigma dW_t started at x0. X_t is
// Gaussian with known transition mean and variance, so the CF is exact. The
// OU process is a level, not a price, so no drift correction applies.
func OrnsteinUhlenbeck(t, x0, kappa, theta, sigma float64) (Function, error) {
	if kappa <= 0 {
		return nil, fmt.Errorf("%w: mean reversion %g must be positive", ErrInvalidParameter, kappa)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("%w: sigma %g must be positive", ErrInvalidParameter, sigma)
	}

	decay := math.Exp(-kappa * t)
	mean := x0*decay + theta*(1-decay)
	variance := sigma * sigma / (2 * kappa) * (1 - decay*decay)

	return func(u complex128) complex128 {
		return cmplx.Exp(complex(0, 1)*u*complex(mean, 0) - complex(0.5*variance, 0)*u*u)
	}, nil
}
