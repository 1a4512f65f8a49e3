package models

import (
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// Heston is the stochastic-volatility model. Branch picks the square-root
// sign convention for the characteristic function; leave it at the zero
// value (StableBranch) unless reproducing the original Heston form.
type Heston struct {
	V0     float64 // initial variance
	Kappa  float64 // mean reversion speed of variance
	Theta  float64 // long-run variance
	Sigma  float64 // volatility of variance
	Rho    float64 // correlation between price and variance shocks
	Branch characteristic.Branch
}

func NewHeston(v0, kappa, theta, sigma, rho float64) (*Heston, error) {
	m := &Heston{V0: v0, Kappa: kappa, Theta: theta, Sigma: sigma, Rho: rho}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Heston) Name() string { return "heston" }

func (m *Heston) Validate() error {
	_, err := m.CharacteristicFunction(1, 100, 0, 0)
	return err
}

func (m *Heston) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.Heston(t, spot, r, q, m.V0, m.Kappa, m.Theta, m.Sigma, m.Rho, m.Branch)
}

func (m *Heston) SDE() sde.Simulator {
	return &sde.Heston{V0: m.V0, Kappa: m.Kappa, Theta: m.Theta, Sigma: m.Sigma, Rho: m.Rho}
}

func (m *Heston) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"v0":    &next.V0,
		"kappa": &next.Kappa,
		"theta": &next.Theta,
		"sigma": &next.Sigma,
		"rho":   &next.Rho,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *Heston) Key() string {
	return fmt.Sprintf("heston|%g|%g|%g|%g|%g|%d", m.V0, m.Kappa, m.Theta, m.Sigma, m.Rho, m.Branch)
}

// Bates extends Heston with compensated lognormal jumps on the price.
type Bates struct {
	V0     float64
	Kappa  float64
	Theta  float64
	Sigma  float64
	Rho    float64
	Lambda float64 // jump intensity
	MuJ    float64 // mean log jump size
	SigmaJ float64 // jump size volatility
	Branch characteristic.Branch
}

func NewBates(v0, kappa, theta, sigma, rho, lambda, muJ, sigmaJ float64) (*Bates, error) {
	m := &Bates{V0: v0, Kappa: kappa, Theta: theta, Sigma: sigma, Rho: rho,
		Lambda: lambda, MuJ: muJ, SigmaJ: sigmaJ}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Bates) Name() string { return "bates" }

func (m *Bates) Validate() error {
	_, err := m.CharacteristicFunction(1, 100, 0, 0)
	return err
}

func (m *Bates) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.Bates(t, spot, r, q, m.V0, m.Kappa, m.Theta, m.Sigma, m.Rho,
		m.Lambda, m.MuJ, m.SigmaJ, m.Branch)
}

func (m *Bates) SDE() sde.Simulator {
	return &sde.Bates{V0: m.V0, Kappa: m.Kappa, Theta: m.Theta, Sigma: m.Sigma, Rho: m.Rho,
		Lambda: m.Lambda, MuJ: m.MuJ, SigmaJ: m.SigmaJ}
}

func (m *Bates) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"v0":     &next.V0,
		"kappa":  &next.Kappa,
		"theta":  &next.Theta,
		"sigma":  &next.Sigma,
		"rho":    &next.Rho,
		"lambda": &next.Lambda,
		"muJ":    &next.MuJ,
		"sigmaJ": &next.SigmaJ,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *Bates) Key() string {
	return fmt.Sprintf("bates|%g|%g|%g|%g|%g|%g|%g|%g|%d",
		m.V0, m.Kappa, m.Theta, m.Sigma, m.Rho, m.Lambda, m.MuJ, m.SigmaJ, m.Branch)
}
