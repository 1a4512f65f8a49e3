package models

import (
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// BlackScholes is the lognormal reference model with a single intrinsic
// parameter, the diffusive volatility.
type BlackScholes struct {
	Sigma float64
}

func NewBlackScholes(sigma float64) (*BlackScholes, error) {
	m := &BlackScholes{Sigma: sigma}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *BlackScholes) Name() string { return "black-scholes" }

func (m *BlackScholes) Validate() error {
	if m.Sigma < 0 {
		return fmt.Errorf("%w: volatility %g < 0", characteristic.ErrInvalidParameter, m.Sigma)
	}
	return nil
}

func (m *BlackScholes) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.BlackScholes(t, spot, r, q, m.Sigma)
}

func (m *BlackScholes) SDE() sde.Simulator {
	return &sde.GBM{Sigma: m.Sigma}
}

func (m *BlackScholes) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{"sigma": &next.Sigma}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *BlackScholes) Key() string {
	return fmt.Sprintf("bs|%g", m.Sigma)
}
