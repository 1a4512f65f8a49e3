// Package greeks computes sensitivities of any pricer by finite differences,
// so the Fourier, lattice and Monte-Carlo engines share one greek surface
// without each implementing its own derivatives.
package greeks

import "math"

// Pricer maps a spot level to an option value. The other inputs of the
// underlying engine are closed over by the caller.
type Pricer func(spot float64) float64

// Delta is the central first derivative of price in spot.
func Delta(price Pricer, spot, h float64) float64 {
	return (price(spot+h) - price(spot-h)) / (2 * h)
}

// Gamma is the five-point central second derivative of price in spot. The
// higher-order stencil keeps the result usable even when the pricer itself
// carries interpolation noise.
func Gamma(price Pricer, spot, h float64) float64 {
	f2 := price(spot + 2*h)
	f1 := price(spot + h)
	f0 := price(spot)
	fm1 := price(spot - h)
	fm2 := price(spot - 2*h)
	return (-f2 + 16*f1 - 30*f0 + 16*fm1 - fm2) / (12 * h * h)
}

// FirstDerivative is the central first derivative of f at x, used for vega,
// rho and theta bumps where the bumped variable is not the spot.
func FirstDerivative(f func(float64) float64, x, h float64) float64 {
	return (f(x+h) - f(x-h)) / (2 * h)
}

// ImpliedVolatility inverts price(sigma) for sigma on [lo, hi] by bisection,
// falling back to secant steps once the bracket is tight. It works for any
// engine whose price is increasing in volatility and returns NaN when the
// target lies outside [price(lo), price(hi)].
func ImpliedVolatility(price func(sigma float64) float64, target, lo, hi float64) float64 {
	fLo := price(lo) - target
	fHi := price(hi) - target
	if fLo > 0 || fHi < 0 {
		return math.NaN()
	}
	if fLo == 0 {
		return lo
	}
	if fHi == 0 {
		return hi
	}

	const (
		bisections = 40
		secants    = 10
		tol        = 1e-10
	)

	for i := 0; i < bisections; i++ {
		mid := (lo + hi) / 2
		fMid := price(mid) - target
		if math.Abs(fMid) < tol {
			return mid
		}
		if fMid < 0 {
			lo, fLo = mid, fMid
		} else {
			hi, fHi = mid, fMid
		}
	}

	// Polish the bisection bracket with secant steps.
	x0, f0 := lo, fLo
	x1, f1 := hi, fHi
	for i := 0; i < secants; i++ {
		if f1 == f0 {
			break
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if x2 < lo || x2 > hi {
			break
		}
		f2 := price(x2) - target
		if math.Abs(f2) < tol {
			return x2
		}
		x0, f0 = x1, f1
		x1, f1 = x2, f2
	}
	return x1
}
