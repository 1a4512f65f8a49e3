package models

import (
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// VarianceGamma is the gamma-subordinated Brownian model. Its characteristic
// function solves for a drift offset at construction so that phi(-i)
// reproduces the risk-neutral forward; Validate surfaces parameter
// combinations for which that solve fails.
type VarianceGamma struct {
	Sigma float64
	Theta float64
	Nu    float64
}

func NewVarianceGamma(sigma, theta, nu float64) (*VarianceGamma, error) {
	m := &VarianceGamma{Sigma: sigma, Theta: theta, Nu: nu}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *VarianceGamma) Name() string { return "variance-gamma" }

func (m *VarianceGamma) Validate() error {
	_, err := m.CharacteristicFunction(1, 100, 0, 0)
	return err
}

func (m *VarianceGamma) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.VarianceGamma(t, spot, r, q, m.Sigma, m.Theta, m.Nu)
}

func (m *VarianceGamma) SDE() sde.Simulator {
	return &sde.VarianceGamma{Sigma: m.Sigma, Theta: m.Theta, Nu: m.Nu}
}

func (m *VarianceGamma) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"sigma": &next.Sigma,
		"theta": &next.Theta,
		"nu":    &next.Nu,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *VarianceGamma) Key() string {
	return fmt.Sprintf("vg|%g|%g|%g", m.Sigma, m.Theta, m.Nu)
}

// NIG is the Normal Inverse Gaussian model, requiring |beta| < alpha and,
// for risk-neutral consistency, |beta+1| < alpha.
type NIG struct {
	Alpha float64
	Beta  float64
	Delta float64
}

func NewNIG(alpha, beta, delta float64) (*NIG, error) {
	m := &NIG{Alpha: alpha, Beta: beta, Delta: delta}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *NIG) Name() string { return "nig" }

func (m *NIG) Validate() error {
	_, err := m.CharacteristicFunction(1, 100, 0, 0)
	return err
}

func (m *NIG) CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error) {
	return characteristic.NIG(t, spot, r, q, m.Alpha, m.Beta, m.Delta)
}

func (m *NIG) SDE() sde.Simulator {
	return &sde.NIG{Alpha: m.Alpha, Beta: m.Beta, Delta: m.Delta}
}

func (m *NIG) With(params map[string]float64) (Model, error) {
	next := *m
	err := applyParams(map[string]*float64{
		"alpha": &next.Alpha,
		"beta":  &next.Beta,
		"delta": &next.Delta,
	}, params)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (m *NIG) Key() string {
	return fmt.Sprintf("nig|%g|%g|%g", m.Alpha, m.Beta, m.Delta)
}
