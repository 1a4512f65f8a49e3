// Package characteristic provides closed-form characteristic functions for the
// log-price distributions of the supported asset-return models. Each
// constructor validates its parameter domain, applies any risk-neutral drift
// correction the model needs, and returns a callable closed over the market
// context (maturity, spot, rate, dividend yield).
package characteristic

import "errors"

// Function is the Fourier transform of the log-price distribution at
// maturity, evaluated at a complex frequency u. Every valid Function
// satisfies phi(0) == 1.
type Function func(u complex128) complex128

var (
	// ErrInvalidParameter reports a model intrinsic parameter outside its
	// mathematical domain. Raised eagerly at construction, never clamped.
	ErrInvalidParameter = errors.New("characteristic: parameter outside model domain")

	// ErrInconsistentModel reports a failed drift-correction or realness
	// assumption: the parameter combination cannot produce a risk-neutral
	// price process. Not a transient fault, never retried.
	ErrInconsistentModel = errors.New("characteristic: risk-neutral drift correction failed")
)

// Branch selects the sign convention for the complex square root ratio in the
// Heston and Bates characteristic functions.
type Branch int

const (
	// StableBranch is the "Little Trap" form g = (beta-d)/(beta+d), which
	// stays numerically stable for long maturities and extreme parameters.
	StableBranch Branch = iota

	// NaiveBranch is the original Heston form g = (beta+d)/(beta-d). It
	// accumulates catastrophic cancellation as maturity grows and exists
	// for comparison only.
	NaiveBranch
)

// imagTolerance bounds the imaginary part allowed when a drift-correction
// evaluation must come out real.
const imagTolerance = 1e-12
