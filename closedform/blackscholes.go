// Package closedform holds the Black-Scholes-Merton analytics used as the
// reference for every other pricer: price, the full greek set, and a
// Newton-Raphson implied volatility solver. All formulas carry a continuous
// dividend yield q.
package closedform

import "math"

const (
	maxIterations = 100
	epsilon       = 1e-8
)

// Result bundles the price and greeks of a single option.
type Result struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Price returns the Black-Scholes-Merton value of a European option.
func Price(s, k, t, r, q, sigma float64, isCall bool) float64 {
	if t <= 0 || sigma <= 0 {
		// Immediate exercise value at expiry or zero volatility.
		fwd := s * math.Exp((r-q)*t)
		disc := math.Exp(-r * t)
		if isCall {
			return disc * math.Max(fwd-k, 0)
		}
		return disc * math.Max(k-fwd, 0)
	}

	d1, d2 := dValues(s, k, t, r, q, sigma)
	if isCall {
		return s*math.Exp(-q*t)*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	}
	return k*math.Exp(-r*t)*normCDF(-d2) - s*math.Exp(-q*t)*normCDF(-d1)
}

// Greeks returns the price together with delta, gamma, theta, vega and rho.
// Theta is per year and vega/rho per unit change in sigma/r.
func Greeks(s, k, t, r, q, sigma float64, isCall bool) Result {
	d1, d2 := dValues(s, k, t, r, q, sigma)
	sqT := math.Sqrt(t)
	dfQ := math.Exp(-q * t)
	dfR := math.Exp(-r * t)

	var delta, theta, rho float64
	if isCall {
		delta = dfQ * normCDF(d1)
		theta = -(s*dfQ*normPDF(d1)*sigma)/(2*sqT) -
			r*k*dfR*normCDF(d2) + q*s*dfQ*normCDF(d1)
		rho = k * t * dfR * normCDF(d2)
	} else {
		delta = dfQ * (normCDF(d1) - 1)
		theta = -(s*dfQ*normPDF(d1)*sigma)/(2*sqT) +
			r*k*dfR*normCDF(-d2) - q*s*dfQ*normCDF(-d1)
		rho = -k * t * dfR * normCDF(-d2)
	}

	return Result{
		Price: Price(s, k, t, r, q, sigma, isCall),
		Delta: delta,
		Gamma: dfQ * normPDF(d1) / (s * sigma * sqT),
		Theta: theta,
		Vega:  s * dfQ * normPDF(d1) * sqT,
		Rho:   rho,
	}
}

// Vega returns the Black-Scholes-Merton vega, shared with the implied
// volatility Newton iteration.
func Vega(s, k, t, r, q, sigma float64) float64 {
	d1, _ := dValues(s, k, t, r, q, sigma)
	return s * math.Exp(-q*t) * normPDF(d1) * math.Sqrt(t)
}

// ImpliedVolatility inverts the price for sigma with Newton-Raphson. It
// returns NaN when the iteration fails to converge, matching the behavior
// expected for quotes outside no-arbitrage bounds.
func ImpliedVolatility(targetPrice, s, k, t, r, q float64, isCall bool) float64 {
	sigma := 0.5 // initial guess
	for i := 0; i < maxIterations; i++ {
		price := Price(s, k, t, r, q, sigma, isCall)
		vega := Vega(s, k, t, r, q, sigma)

		diff := price - targetPrice
		if math.Abs(diff) < epsilon {
			return sigma
		}
		if vega < epsilon {
			break
		}

		sigma = sigma - diff/vega
		if sigma <= 0 {
			sigma = 0.0001 // avoid negative volatility
		}
	}
	return math.NaN()
}

func dValues(s, k, t, r, q, sigma float64) (float64, float64) {
	sqT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r-q+0.5*sigma*sigma)*t) / (sigma * sqT)
	return d1, d1 - sigma*sqT
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
