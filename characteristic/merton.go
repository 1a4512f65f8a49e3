package characteristic

import (
	"fmt"
	"math"
	"math/cmplx"
)

// MertonJump returns the characteristic function of ln(S_t) under the Merton
// jump-diffusion model: Gaussian diffusion with volatility sigma plus
// compound-Poisson lognormal jumps (intensity lambda, mean log jump muJ,
// jump volatility sigmaJ).
func MertonJump(t, spot, r, q, sigma, lambda, muJ, sigmaJ float64) (Function, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: volatility %g < 0", ErrInvalidParameter, sigma)
	}
	if lambda < 0 {
		return nil, fmt.Errorf("%w: jump intensity %g < 0", ErrInvalidParameter, lambda)
	}
	if sigmaJ < 0 {
		return nil, fmt.Errorf("%w: jump volatility %g < 0", ErrInvalidParameter, sigmaJ)
	}

	kappaJ := math.Exp(muJ+0.5*sigmaJ*sigmaJ) - 1
	drift := r - q - lambda*kappaJ - 0.5*sigma*sigma
	lnS := math.Log(spot)

	return func(u complex128) complex128 {
		diffusion := complex(0, 1)*u*complex(lnS+drift*t, 0) - complex(0.5*sigma*sigma*t, 0)*u*u
		jump := complex(lambda*t, 0) * (cmplx.Exp(complex(0, muJ)*u-complex(0.5*sigmaJ*sigmaJ, 0)*u*u) - 1)
		return cmplx.Exp(diffusion + jump)
	}, nil
}

// Kou returns the characteristic function of ln(S_t) under the Kou
// double-exponential jump-diffusion model. Jumps arrive with intensity
// lambda; a jump is upward Exp(eta1) with probability pUp and downward
// -Exp(eta2) otherwise. eta1 > 1 is required so that E[e^Y], the martingale
// compensator, is finite.
func Kou(t, spot, r, q, sigma, lambda, pUp, eta1, eta2 float64) (Function, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: volatility %g < 0", ErrInvalidParameter, sigma)
	}
	if lambda < 0 {
		return nil, fmt.Errorf("%w: jump intensity %g < 0", ErrInvalidParameter, lambda)
	}
	if pUp < 0 || pUp > 1 {
		return nil, fmt.Errorf("%w: up-jump probability %g outside [0,1]", ErrInvalidParameter, pUp)
	}
	if eta1 <= 1 {
		return nil, fmt.Errorf("%w: up-jump rate %g must exceed 1 for a finite compensator", ErrInvalidParameter, eta1)
	}
	if eta2 <= 0 {
		return nil, fmt.Errorf("%w: down-jump rate %g must be positive", ErrInvalidParameter, eta2)
	}

	// E[e^Y] for the double-exponential mixture, computed analytically.
	expJump := pUp*eta1/(eta1-1) + (1-pUp)*eta2/(eta2+1)
	kappaJ := expJump - 1
	lnS := math.Log(spot)

	return func(u complex128) complex128 {
		iu := complex(0, 1) * u
		drift := iu * complex(lnS+(r-q-0.5*sigma*sigma-lambda*kappaJ)*t, 0)
		diffusion := -complex(0.5*sigma*sigma*t, 0) * u * u
		mgf := complex(pUp*eta1, 0)/(complex(eta1, 0)-iu) +
			complex((1-pUp)*eta2, 0)/(complex(eta2, 0)+iu)
		return cmplx.Exp(drift + diffusion + complex(lambda*t, 0)*(mgf-1))
	}, nil
}
