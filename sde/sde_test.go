package sde

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/jbickel/fourprice/closedform"
)

// Monte-Carlo assertions use wide tolerances; these are sanity checks on the
// dynamics and compensators, not precision tests.

func TestGBMMatchesBlackScholes(t *testing.T) {
	const (
		s0, k, r, q, sigma, maturity = 100.0, 100.0, 0.05, 0.02, 0.2, 1.0
	)
	sim := &GBM{Sigma: sigma}
	price := OptionPrice(sim, s0, k, r, q, maturity, 16, 200000, true)
	want := closedform.Price(s0, k, maturity, r, q, sigma, true)
	if math.Abs(price-want) > 0.25 {
		t.Errorf("MC price %.4f, closed form %.4f", price, want)
	}

	put := OptionPrice(sim, s0, k, r, q, maturity, 16, 200000, false)
	wantPut := closedform.Price(s0, k, maturity, r, q, sigma, false)
	if math.Abs(put-wantPut) > 0.25 {
		t.Errorf("MC put %.4f, closed form %.4f", put, wantPut)
	}
}

// Every risk-neutral price simulator must reproduce the forward:
// E[S_T] = S0 exp((r-q)T). This is the compensator check for the jump and
// subordinated models.
func TestMartingaleProperty(t *testing.T) {
	const (
		s0, r, q, maturity = 100.0, 0.05, 0.01, 1.0
		steps              = 100
		sims               = 200000
	)
	forward := s0 * math.Exp((r-q)*maturity)

	simulators := map[string]Simulator{
		"gbm":    &GBM{Sigma: 0.2},
		"heston": &Heston{V0: 0.04, Kappa: 1.5, Theta: 0.04, Sigma: 0.3, Rho: -0.7},
		"merton": &MertonJump{Sigma: 0.2, Lambda: 0.8, MuJ: -0.05, SigmaJ: 0.1},
		"kou":    &KouJump{Sigma: 0.2, Lambda: 1.0, PUp: 0.4, Eta1: 10, Eta2: 5},
		"bates":  &Bates{V0: 0.04, Kappa: 1.5, Theta: 0.04, Sigma: 0.3, Rho: -0.7, Lambda: 0.5, MuJ: -0.1, SigmaJ: 0.15},
		"vg":     &VarianceGamma{Sigma: 0.2, Theta: -0.14, Nu: 0.2},
		"nig":    &NIG{Alpha: 15, Beta: -5, Delta: 0.5},
	}

	for name, sim := range simulators {
		rng := rand.New(rand.NewSource(42))
		sum := 0.0
		for i := 0; i < sims; i++ {
			sum += sim.SimulatePrice(s0, r, q, maturity, steps, rng)
		}
		mean := sum / sims
		if rel := math.Abs(mean-forward) / forward; rel > 0.02 {
			t.Errorf("%s: E[S_T] = %.3f, forward %.3f (rel err %.4f)", name, mean, forward, rel)
		}
	}
}

func TestOrnsteinUhlenbeckMeanReversion(t *testing.T) {
	const (
		x0, kappa, theta, sigma, maturity = 0.2, 3.0, 0.05, 0.1, 2.0
		sims                              = 100000
	)
	sim := &OrnsteinUhlenbeck{Kappa: kappa, Theta: theta, Sigma: sigma}

	rng := rand.New(rand.NewSource(7))
	sum := 0.0
	for i := 0; i < sims; i++ {
		sum += sim.SimulatePrice(x0, 0, 0, maturity, 50, rng)
	}
	mean := sum / sims

	decay := math.Exp(-kappa * maturity)
	want := x0*decay + theta*(1-decay)
	if math.Abs(mean-want) > 0.005 {
		t.Errorf("E[X_T] = %.5f, want %.5f", mean, want)
	}
}

func TestSABRDegeneratesToLognormal(t *testing.T) {
	// With beta=1 and nu=0 SABR is plain GBM with zero rate.
	const (
		s0, k, alpha0, maturity = 100.0, 105.0, 0.2, 1.0
	)
	sim := &SABR{Alpha0: alpha0, Beta: 1, Rho: 0, Nu: 0}
	price := OptionPrice(sim, s0, k, 0, 0, maturity, 200, 200000, true)
	want := closedform.Price(s0, k, maturity, 0, 0, alpha0, true)
	if math.Abs(price-want) > 0.35 {
		t.Errorf("SABR(beta=1,nu=0) price %.4f, lognormal %.4f", price, want)
	}
}

func TestSeededSimulationIsDeterministic(t *testing.T) {
	sim := &Heston{V0: 0.04, Kappa: 1.5, Theta: 0.04, Sigma: 0.3, Rho: -0.7}

	a := sim.SimulatePrice(100, 0.05, 0, 1, 50, rand.New(rand.NewSource(99)))
	b := sim.SimulatePrice(100, 0.05, 0, 1, 50, rand.New(rand.NewSource(99)))
	if a != b {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestInverseGaussianMoments(t *testing.T) {
	const (
		mu, lambda = 0.5, 2.0
		sims       = 200000
	)
	rng := rand.New(rand.NewSource(3))

	sum := 0.0
	for i := 0; i < sims; i++ {
		x := inverseGaussian(mu, lambda, rng)
		if x <= 0 {
			t.Fatalf("non-positive sample %v", x)
		}
		sum += x
	}
	mean := sum / sims
	if math.Abs(mean-mu) > 0.01 {
		t.Errorf("IG mean %.4f, want %.4f", mean, mu)
	}
}
