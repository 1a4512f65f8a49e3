// Package lattice prices options on recombining binomial and trinomial
// trees. These are the simple alternative pricers sharing the model facade's
// market context with the Fourier engine; both converge to the closed-form
// Black-Scholes value as the step count grows.
package lattice

import (
	"fmt"
	"math"
)

// CRR prices a European or American option on a Cox-Ross-Rubinstein binomial
// tree with the given number of steps.
func CRR(s, k, t, r, q, sigma float64, steps int, isCall, american bool) (float64, error) {
	if s <= 0 || k <= 0 {
		return 0, fmt.Errorf("lattice: spot %g and strike %g must be positive", s, k)
	}
	if t <= 0 || sigma <= 0 || steps < 1 {
		return 0, fmt.Errorf("lattice: need positive maturity, volatility and steps")
	}

	dt := t / float64(steps)
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	p := (math.Exp((r-q)*dt) - d) / (u - d)
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("lattice: risk-neutral probability %g outside (0,1); shrink dt", p)
	}
	disc := math.Exp(-r * dt)

	values := make([]float64, steps+1)
	for j := 0; j <= steps; j++ {
		sT := s * math.Pow(u, float64(j)) * math.Pow(d, float64(steps-j))
		values[j] = payoff(sT, k, isCall)
	}

	for n := steps - 1; n >= 0; n-- {
		for j := 0; j <= n; j++ {
			values[j] = disc * (p*values[j+1] + (1-p)*values[j])
			if american {
				sN := s * math.Pow(u, float64(j)) * math.Pow(d, float64(n-j))
				values[j] = math.Max(values[j], payoff(sN, k, isCall))
			}
		}
	}
	return values[0], nil
}

// TOPM prices a European or American option on a trinomial tree with
// up/middle/down branching. The middle probability absorbs the remainder.
func TOPM(s, k, t, r, q, sigma float64, steps int, isCall, american bool) (float64, error) {
	if s <= 0 || k <= 0 {
		return 0, fmt.Errorf("lattice: spot %g and strike %g must be positive", s, k)
	}
	if t <= 0 || sigma <= 0 || steps < 1 {
		return 0, fmt.Errorf("lattice: need positive maturity, volatility and steps")
	}

	dt := t / float64(steps)
	u := math.Exp(sigma * math.Sqrt(2*dt))

	eh := math.Exp((r - q) * dt / 2)
	su := math.Exp(sigma * math.Sqrt(dt/2))
	sd := 1 / su
	pu := math.Pow((eh-sd)/(su-sd), 2)
	pd := math.Pow((su-eh)/(su-sd), 2)
	pm := 1 - pu - pd
	if pu <= 0 || pd <= 0 || pm <= 0 {
		return 0, fmt.Errorf("lattice: trinomial probabilities (%g, %g, %g) degenerate; shrink dt", pu, pm, pd)
	}
	disc := math.Exp(-r * dt)

	// 2*steps+1 terminal nodes, index i maps to s*u^(i-steps).
	values := make([]float64, 2*steps+1)
	for i := range values {
		sT := s * math.Pow(u, float64(i-steps))
		values[i] = payoff(sT, k, isCall)
	}

	for n := steps - 1; n >= 0; n-- {
		next := make([]float64, 2*n+1)
		for i := range next {
			// Children of node i at level n sit at i, i+1, i+2 in level n+1.
			next[i] = disc * (pd*values[i] + pm*values[i+1] + pu*values[i+2])
			if american {
				sN := s * math.Pow(u, float64(i-n))
				next[i] = math.Max(next[i], payoff(sN, k, isCall))
			}
		}
		values = next
	}
	return values[0], nil
}

func payoff(s, k float64, isCall bool) float64 {
	if isCall {
		return math.Max(s-k, 0)
	}
	return math.Max(k-s, 0)
}
