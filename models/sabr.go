package models

import (
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// SABR is the stochastic-alpha-beta-rho forward model. It has no closed-form
// characteristic function and prices through simulation only.
type SABR struct {
	Alpha0 float64 // initial volatility level
	Beta   float64 // elasticity exponent in [0,1]
	Rho    float64 // correlation in [-1,1]
	Nu     float64 // volatility of volatility
}

func NewSABR(alpha0, beta, rho, nu float64) (*SABR, error) {
	m := &SABR{Alpha0: alpha0, Beta: beta, Rho: rho, Nu: nu}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SABR) Name() string { return "sabr" }

func (m *SABR) Validate() error {
	if m.Alpha0 <= 0 {
		return fmt.Errorf("%w: alpha0 %g must be positive", characteristic.ErrInvalidParameter, m.Alpha0)
	}
	if m.Beta < 0 || m.Beta > 1 {
		return fmt.Errorf("%w: beta %g outside [0,1]", characteristic.ErrInvalidParameter, m.Beta)
	}
	if m.Rho < -1 || m.Rho > 1 {
		return fmt.Errorf("%w: rho %g outside [-1,1]", characteristic.ErrInvalidParameter, m.Rho)
	}
	if m.Nu < 0 {
		return fmt.Errorf("%w: nu %g < 0", characteristic.ErrInvalidParameter, m.Nu)
	}
	return nil
}

func (m *SABR) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return nil, ErrNoCharacteristicFunction
}

func (m *SABR) SDE() sde.Simulator {
	return &sde.SABR{Alpha0: m.Alpha0, Beta: m.Beta, Rho: m.Rho, Nu: m.Nu}
}

func (m *SABR) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"alpha0": &next.Alpha0,
		"beta":   &next.Beta,
		"rho":    &next.Rho,
		"nu":     &next.Nu,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *SABR) Key() string {
	return fmt.Sprintf("sabr|%g|%g|%g|%g", m.Alpha0, m.Beta, m.Rho, m.Nu)
}
