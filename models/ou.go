package models

import (
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// OrnsteinUhlenbeck is the mean-reverting Gaussian level model. It is not a
// price process: the spot passed to CharacteristicFunction is the initial
// level X0 and no drift correction applies.
type OrnsteinUhlenbeck struct {
	Kappa float64 // mean reversion speed
	Theta float64 // long-run mean
	Sigma float64
}

func NewOrnsteinUhlenbeck(kappa, theta, sigma float64) (*OrnsteinUhlenbeck, error) {
	m := &OrnsteinUhlenbeck{Kappa: kappa, Theta: theta, Sigma: sigma}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *OrnsteinUhlenbeck) Name() string { return "ornstein-uhlenbeck" }

func (m *OrnsteinUhlenbeck) Validate() error {
	_, err := m.CharacteristicFunction(1, 1, 0, 0)
	return err
}

func (m *OrnsteinUhlenbeck) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.OrnsteinUhlenbeck(t, spot, m.Kappa, m.Theta, m.Sigma)
}

func (m *OrnsteinUhlenbeck) SDE() sde.Simulator {
	return &sde.OrnsteinUhlenbeck{Kappa: m.Kappa, Theta: m.Theta, Sigma: m.Sigma}
}

func (m *OrnsteinUhlenbeck) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"kappa": &next.Kappa,
		"theta": &next.Theta,
		"sigma": &next.Sigma,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *OrnsteinUhlenbeck) Key() string {
	return fmt.Sprintf("ou|%g|%g|%g", m.Kappa, m.Theta, m.Sigma)
}
