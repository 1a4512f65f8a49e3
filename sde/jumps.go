package sde

import (
	"math"

	"golang.org/x/exp/rand"
)

// MertonJump simulates the Merton jump-diffusion: Gaussian diffusion plus
// lognormal jumps. The drift carries the jump compensator so the discounted
// price stays a martingale.
type MertonJump struct {
	Sigma  float64 // diffusive volatility
	Lambda float64 // jump intensity
	MuJ    float64 // mean log jump size
	SigmaJ float64 // jump size volatility
}

func (m *MertonJump) SimulatePrice(s0, r, q, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)
	kappaJ := math.Exp(m.MuJ+0.5*m.SigmaJ*m.SigmaJ) - 1
	drift := (r - q - m.Lambda*kappaJ - 0.5*m.Sigma*m.Sigma) * dt

	s := s0
	for i := 0; i < steps; i++ {
		x := drift + m.Sigma*sqrtDt*rng.NormFloat64()
		if rng.Float64() < m.Lambda*dt {
			x += m.MuJ + m.SigmaJ*rng.NormFloat64()
		}
		s *= math.Exp(x)
	}
	return s
}

// KouJump simulates the Kou double-exponential jump-diffusion: upward jumps
// Exp(Eta1) with probability PUp, downward jumps -Exp(Eta2) otherwise, with
// the analytic compensator in the drift.
type KouJump struct {
	Sigma  float64
	Lambda float64
	PUp    float64
	Eta1   float64 // up-jump rate, > 1
	Eta2   float64 // down-jump rate, > 0
}

func (k *KouJump) SimulatePrice(s0, r, q, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)
	expJump := k.PUp*k.Eta1/(k.Eta1-1) + (1-k.PUp)*k.Eta2/(k.Eta2+1)
	drift := (r - q - k.Lambda*(expJump-1) - 0.5*k.Sigma*k.Sigma) * dt

	s := s0
	for i := 0; i < steps; i++ {
		x := drift + k.Sigma*sqrtDt*rng.NormFloat64()
		if rng.Float64() < k.Lambda*dt {
			if rng.Float64() < k.PUp {
				x += rng.ExpFloat64() / k.Eta1
			} else {
				x -= rng.ExpFloat64() / k.Eta2
			}
		}
		s *= math.Exp(x)
	}
	return s
}

// Bates simulates Heston variance dynamics with Merton-type jumps on the
// price, compensated in the drift.
type Bates struct {
	V0     float64
	Kappa  float64
	Theta  float64
	Sigma  float64 // volatility of variance
	Rho    float64
	Lambda float64
	MuJ    float64
	SigmaJ float64
}

func (b *Bates) SimulatePrice(s0, r, q, t float64, steps int, rng *rand.Rand) float64 {
	dt := t / float64(steps)
	sqrtDt := math.Sqrt(dt)
	rhoBar := math.Sqrt(1 - b.Rho*b.Rho)
	kappaJ := math.Exp(b.MuJ+0.5*b.SigmaJ*b.SigmaJ) - 1

	s := s0
	v := b.V0
	for i := 0; i < steps; i++ {
		z1 := rng.NormFloat64()
		z2 := b.Rho*z1 + rhoBar*rng.NormFloat64()

		x := (r-q-b.Lambda*kappaJ-0.5*v)*dt + math.Sqrt(v)*sqrtDt*z1
		if rng.Float64() < b.Lambda*dt {
			x += b.MuJ + b.SigmaJ*rng.NormFloat64()
		}
		s *= math.Exp(x)
		v += b.Kappa*(b.Theta-v)*dt + b.Sigma*math.Sqrt(v)*sqrtDt*z2
		v = math.Max(0, v)
	}
	return s
}
