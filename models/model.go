// Package models exposes the pricing-model facade. Each model bundles its
// intrinsic parameters, validates their domain, and hands out the matching
// characteristic function and Monte-Carlo simulator. Models are immutable:
// calibration derives updated models through With rather than mutating in
// place, so concurrent objective evaluations never alias parameter state.
package models

import (
	"errors"
	"fmt"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/sde"
)

// ErrNoCharacteristicFunction is returned by models that have no closed-form
// transform (SABR); such models price through simulation only.
var ErrNoCharacteristicFunction = errors.New("models: model has no closed-form characteristic function")

// ErrUnknownParameter is returned by With for a parameter name the model does
// not carry.
var ErrUnknownParameter = errors.New("models: unknown parameter")

// Model is the capability set shared by every pricing model: validate the
// intrinsic parameters, produce the characteristic function for a market
// context, produce an SDE simulator, derive an updated copy, and expose a
// parameter tuple surrogate for memoization by external callers.
type Model interface {
	Name() string
	Validate() error
	CharacteristicFunction(t, spot, r, q float64) (characteristic.Function, error)
	SDE() sde.Simulator
	With(params map[string]float64) (Model, error)
	Key() string
}

func applyParams(dst map[string]*float64, params map[string]float64) error {
	for name, value := range params {
		field, ok := dst[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
		*field = value
	}
	return nil
}
