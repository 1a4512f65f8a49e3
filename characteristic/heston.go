package characteristic

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Heston returns the characteristic function of ln(S_t) under the Heston
// stochastic-volatility model
//
//	dS_t = S_t (r - q) dt + S_t sqrt(v_t) dW_1
//	dv_t = kappa (theta - v_t) dt + sigma sqrt(v_t) dW_2
//
// with corr(dW_1, dW_2) = rho and initial variance v0. The branch argument
// selects the sign convention for the complex square-root ratio; use
// StableBranch unless deliberately reproducing the original Heston form.
func Heston(t, spot, r, q, v0, kappa, theta, sigma, rho float64, branch Branch) (Function, error) {
	if err := validateHeston(spot, v0, kappa, theta, sigma, rho); err != nil {
		return nil, err
	}
	return hestonExponent(t, math.Log(spot), r-q, v0, kappa, theta, sigma, rho, branch), nil
}

// Bates returns the characteristic function of ln(S_t) under the Bates model:
// Heston dynamics plus lognormal Merton jumps with intensity lambda, mean log
// jump size muJ and jump volatility sigmaJ. The drift carries the jump
// compensator kappaJ = exp(muJ + sigmaJ^2/2) - 1 so the discounted price
// stays a martingale.
func Bates(t, spot, r, q, v0, kappa, theta, sigma, rho, lambda, muJ, sigmaJ float64, branch Branch) (Function, error) {
	if err := validateHeston(spot, v0, kappa, theta, sigma, rho); err != nil {
		return nil, err
	}
	if lambda < 0 {
		return nil, fmt.Errorf("%w: jump intensity %g < 0", ErrInvalidParameter, lambda)
	}
	if sigmaJ < 0 {
		return nil, fmt.Errorf("%w: jump volatility %g < 0", ErrInvalidParameter, sigmaJ)
	}

	kappaJ := math.Exp(muJ+0.5*sigmaJ*sigmaJ) - 1
	heston := hestonExponent(t, math.Log(spot), r-q-lambda*kappaJ, v0, kappa, theta, sigma, rho, branch)

	return func(u complex128) complex128 {
		jump := cmplx.Exp(complex(0, muJ)*u - complex(0.5*sigmaJ*sigmaJ, 0)*u*u)
		return heston(u) * cmplx.Exp(complex(lambda*t, 0)*(jump-1))
	}, nil
}

func validateHeston(spot, v0, kappa, theta, sigma, rho float64) error {
	if spot <= 0 {
		return fmt.Errorf("%w: spot %g must be positive", ErrInvalidParameter, spot)
	}
	if v0 < 0 {
		return fmt.Errorf("%w: initial variance %g < 0", ErrInvalidParameter, v0)
	}
	if kappa < 0 {
		return fmt.Errorf("%w: mean reversion %g < 0", ErrInvalidParameter, kappa)
	}
	if theta < 0 {
		return fmt.Errorf("%w: long-run variance %g < 0", ErrInvalidParameter, theta)
	}
	if sigma <= 0 {
		return fmt.Errorf("%w: vol of vol %g must be positive", ErrInvalidParameter, sigma)
	}
	if rho < -1 || rho > 1 {
		return fmt.Errorf("%w: correlation %g outside [-1,1]", ErrInvalidParameter, rho)
	}
	return nil
}

// hestonExponent builds the Heston CF with an arbitrary drift, shared between
// Heston (drift r-q) and Bates (drift shifted by the jump compensator).
func hestonExponent(t, lnS, drift, v0, kappa, theta, sigma, rho float64, branch Branch) Function {
	sigma2 := sigma * sigma

	return func(u complex128) complex128 {
		iu := complex(0, 1) * u
		beta := complex(kappa, 0) - complex(rho*sigma, 0)*iu
		d := cmplx.Sqrt((complex(rho*sigma, 0)*iu-complex(kappa, 0))*(complex(rho*sigma, 0)*iu-complex(kappa, 0)) +
			complex(sigma2, 0)*(u*u+iu))

		// The branch is the sign of the complex square root. Negating d here
		// recovers the original Heston form, which overflows for long
		// maturities; the default keeps |g| <= 1.
		if branch == NaiveBranch {
			d = -d
		}

		g := (beta - d) / (beta + d)
		expDT := cmplx.Exp(-d * complex(t, 0))
		b := (beta - d) / complex(sigma2, 0) * (1 - expDT) / (1 - g*expDT)
		a := complex(kappa*theta/sigma2, 0) *
			((beta-d)*complex(t, 0) - 2*cmplx.Log((1-g*expDT)/(1-g)))

		return cmplx.Exp(iu*complex(lnS+drift*t, 0) + a + b*complex(v0, 0))
	}
}
