package sde

import (
	"math"

	"golang.org/x/exp/rand"
)

// GBM simulates geometric Brownian motion with constant volatility.
type GBM struct {
	Sigma float64
}

func (g *GBM) SimulatePrice(s0, r, q, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)
	drift := (r - q - 0.5*g.Sigma*g.Sigma) * dt

	s := s0
	for i := 0; i < steps; i++ {
		s *= math.Exp(drift + g.Sigma*sqrtDt*rng.NormFloat64())
	}
	return s
}

// Heston simulates the Heston stochastic-volatility model with a
// full-truncation Euler scheme: the variance is floored at zero after each
// step.
type Heston struct {
	V0    float64 // initial variance
	Kappa float64 // mean reversion speed of variance
	Theta float64 // long-run variance
	Sigma float64 // volatility of variance
	Rho   float64 // correlation between price and variance shocks
}

func (h *Heston) SimulatePrice(s0, r, q, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)
	rhoBar := math.Sqrt(1 - h.Rho*h.Rho)

	s := s0
	v := h.V0
	for i := 0; i < steps; i++ {
		z1 := rng.NormFloat64()
		z2 := h.Rho*z1 + rhoBar*rng.NormFloat64()

		s *= math.Exp((r-q-0.5*v)*dt + math.Sqrt(v)*sqrtDt*z1)
		v += h.Kappa*(h.Theta-v)*dt + h.Sigma*math.Sqrt(v)*sqrtDt*z2
		v = math.Max(0, v)
	}
	return s
}

// SABR simulates dF = alpha F^beta dW1, dalpha = nu alpha dW2 with
// correlated shocks. The forward absorbs at zero.
type SABR struct {
	Alpha0 float64 // initial volatility level
	Beta   float64 // elasticity exponent in [0,1]
	Rho    float64 // correlation in [-1,1]
	Nu     float64 // volatility of volatility
}

func (s *SABR) SimulatePrice(f0, r, q, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)
	rhoBar := math.Sqrt(1 - s.Rho*s.Rho)

	f := f0
	alpha := s.Alpha0
	for i := 0; i < steps; i++ {
		if f <= 0 {
			return 0
		}
		z1 := rng.NormFloat64()
		z2 := s.Rho*z1 + rhoBar*rng.NormFloat64()

		f += alpha * math.Pow(f, s.Beta) * sqrtDt * z1
		alpha *= math.Exp(-0.5*s.Nu*s.Nu*dt + s.Nu*sqrtDt*z2)
	}
	return math.Max(f, 0)
}

// OrnsteinUhlenbeck simulates the mean-reverting level process
// dX = kappa (theta - X) dt + sigma dW with the exact Gaussian transition,
// so the step count only sets the sampling resolution, not the accuracy.
// The terminal value is a level, not a price; r and q are ignored.
type OrnsteinUhlenbeck struct {
	Kappa float64
	Theta float64
	Sigma float64
}

func (o *OrnsteinUhlenbeck) SimulatePrice(x0, _, _, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	decay := math.Exp(-o.Kappa * dt)
	stdev := o.Sigma * math.Sqrt((1-decay*decay)/(2*o.Kappa))

	x := x0
	for i := 0; i < steps; i++ {
		x = x*decay + o.Theta*(1-decay) + stdev*rng.NormFloat64()
	}
	return x
}
