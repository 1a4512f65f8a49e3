package characteristic

import (
	"fmt"
	"math"
	"math/cmplx"
)

// BlackScholes returns the lognormal characteristic function of ln(S_t) under
// geometric Brownian motion with volatility sigma. It is the degenerate
// reference case for the Fourier pricers: the FFT output must reproduce the
// closed-form Black-Scholes price with this CF plugged in.
func BlackScholes(t, spot, r, q, sigma float64) (Function, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: volatility %g < 0", ErrInvalidParameter, sigma)
	}

	drift := math.Log(spot) + (r-q-0.5*sigma*sigma)*t
	variance := sigma * sigma * t

	return func(u complex128) complex128 {
		return cmplx.Exp(complex(0, 1)*u*complex(drift, 0) - complex(0.5*variance, 0)*u*u)
	}, nil
}

// BlackScholesNormalized returns the characteristic function of the
// normalized log return X = ln(S_t/S_0). The forward-centered FFT engine
// works in this normalized domain, where k = 0 corresponds to K = S_0.
func BlackScholesNormalized(t, r, q, sigma float64) (Function, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("%w: volatility %g < 0", ErrInvalidParameter, sigma)
	}

	drift := (r - q - 0.5*sigma*sigma) * t
	variance := sigma * sigma * t

	return func(u complex128) complex128 {
		return cmplx.Exp(complex(0, 1)*u*complex(drift, 0) - complex(0.5*variance, 0)*u*u)
	}, nil
}

// Normalize converts a CF of ln(S_t) into a CF of ln(S_t/S_0) by removing
// the spot level, phi_X(u) = phi(u) * exp(-iu ln S_0). The forward-centered
// engine consumes CFs in this form.
func Normalize(phi Function, spot float64) (Function, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	lnS := math.Log(spot)
	return func(u complex128) complex128 {
		return phi(u) * cmplx.Exp(-complex(0, 1)*u*complex(lnS, 0))
	}, nil
}
