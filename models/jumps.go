package models

import (
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// MertonJump is the Gaussian jump-diffusion model.
type MertonJump struct {
	Sigma  float64 // diffusive volatility
	Lambda float64 // jump intensity
	MuJ    float64 // mean log jump size
	SigmaJ float64 // jump size volatility
}

func NewMertonJump(sigma, lambda, muJ, sigmaJ float64) (*MertonJump, error) {
	m := &MertonJump{Sigma: sigma, Lambda: lambda, MuJ: muJ, SigmaJ: sigmaJ}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MertonJump) Name() string { return "merton-jump" }

func (m *MertonJump) Validate() error {
	_, err := m.CharacteristicFunction(1, 100, 0, 0)
	return err
}

func (m *MertonJump) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.MertonJump(t, spot, r, q, m.Sigma, m.Lambda, m.MuJ, m.SigmaJ)
}

func (m *MertonJump) SDE() sde.Simulator {
	return &sde.MertonJump{Sigma: m.Sigma, Lambda: m.Lambda, MuJ: m.MuJ, SigmaJ: m.SigmaJ}
}

func (m *MertonJump) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"sigma":  &next.Sigma,
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

func (m *MertonJump) Key() string {
	return fmt.Sprintf("merton|%g|%g|%g|%g", m.Sigma, m.Lambda, m.MuJ, m.SigmaJ)
}

// Kou is the double-exponential jump-diffusion model.
type Kou struct {
	Sigma  float64
	Lambda float64
	PUp    float64 // probability of an upward jump
	Eta1   float64 // up-jump rate, > 1
	Eta2   float64 // down-jump rate, > 0
}

func NewKou(sigma, lambda, pUp, eta1, eta2 float64) (*Kou, error) {
	m := &Kou{Sigma: sigma, Lambda: lambda, PUp: pUp, Eta1: eta1, Eta2: eta2}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Kou) Name() string { return "kou" }

func (m *Kou) Validate() error {
	_, err := m.CharacteristicFunction(1, 100, 0, 0)
	return err
}

func (m *Kou) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.Kou(t, spot, r, q, m.Sigma, m.Lambda, m.PUp, m.Eta1, m.Eta2)
}

func (m *Kou) SDE() sde.Simulator {
	return &sde.KouJump{Sigma: m.Sigma, Lambda: m.Lambda, PUp: m.PUp, Eta1: m.Eta1, Eta2: m.Eta2}
}

func (m *Kou) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"sigma":  &next.Sigma,
		"lambda": &next.Lambda,
		"pUp":    &next.PUp,
		"eta1":   &next.Eta1,
		"eta2":   &next.Eta2,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *Kou) Key() string {
	return fmt.Sprintf("kou|%g|%g|%g|%g|%g", m.Sigma, m.Lambda, m.PUp, m.Eta1, m.Eta2)
}
