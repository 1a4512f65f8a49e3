package fourier

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/jbickel/fourprice/characteristic"
)

// Engine is the reference-strike-centered Carr-Madan FFT pricer. It builds a
// frequency grid of L = 2^N points with spacing 2^(Trunc-N) covering
// [0, 2^Trunc), evaluates the damped transform with trapezoid half-weighting
// at the first node (discretization error O(spacing^2)), inverts with an FFT
// and recenters the log-strike grid on the reference strike.
//
// Trunc and N trade off strike-grid width against resolution: increasing N
// narrows the strike spacing without changing the domain width, increasing
// Trunc widens the domain at fixed N. Requested strikes outside the
// recoverable range are clamped to the boundary value, silently.
type Engine struct {
	Alpha     float64 // damping coefficient, > 0
	Trunc     int     // truncation exponent, B = 2^Trunc
	N         int     // grid-size exponent, L = 2^N points
	ATMEps    float64 // at-the-money tolerance on |S-K|
	Normalize bool    // rescale S to 1 (and K to K/S) before transforming
}

// NewEngine returns an Engine with the defaults used throughout: alpha 1.5,
// truncation 2^7, 2^12 grid points, ATM tolerance 0.01.
func NewEngine() *Engine {
	return &Engine{Alpha: 1.5, Trunc: 7, N: 12, ATMEps: 0.01}
}

// PriceCurve is the log-strike grid output of one FFT pricing call: parallel
// arrays of strikes and option values, defined at every grid point as a side
// effect of pricing any single strike. Ephemeral, never cached across calls.
type PriceCurve struct {
	Strikes []float64
	Values  []float64
}

// Price prices a single European option at the reference strike k, returning
// the value at the grid point nearest the strike together with the full
// curve.
func (e *Engine) Price(phi characteristic.Function, s, k, t, r, q float64, isCall bool) (float64, PriceCurve, error) {
	curve, err := e.curve(phi, s, k, t, r, q, isCall)
	if err != nil {
		return 0, PriceCurve{}, err
	}

	best := 0
	for j := range curve.Strikes {
		if math.Abs(curve.Strikes[j]-k) < math.Abs(curve.Strikes[best]-k) {
			best = j
		}
	}
	return curve.Values[best], curve, nil
}

// PriceStrikes prices the requested strikes by linear interpolation on the
// computed curve, centered at reference strike k. Strikes beyond the grid are
// clamped to the nearest boundary value.
func (e *Engine) PriceStrikes(phi characteristic.Function, s, k, t, r, q float64, isCall bool, strikes []float64) ([]float64, PriceCurve, error) {
	curve, err := e.curve(phi, s, k, t, r, q, isCall)
	if err != nil {
		return nil, PriceCurve{}, err
	}

	out := make([]float64, len(strikes))
	for i, strike := range strikes {
		out[i] = interpClamped(curve.Strikes, curve.Values, strike)
	}
	return out, curve, nil
}

func (e *Engine) validate(s, k, t float64) error {
	if e.Alpha <= 0 {
		return fmt.Errorf("fourier: damping coefficient %g must be positive", e.Alpha)
	}
	if e.Trunc < 1 || e.N < 1 {
		return fmt.Errorf("fourier: truncation exponent %d and grid exponent %d must be >= 1", e.Trunc, e.N)
	}
	if e.N > 26 {
		return fmt.Errorf("fourier: grid exponent %d too large", e.N)
	}
	if s <= 0 || k <= 0 {
		return fmt.Errorf("fourier: spot %g and strike %g must be positive", s, k)
	}
	if t < 0 {
		return fmt.Errorf("fourier: maturity %g < 0", t)
	}
	return nil
}

func (e *Engine) curve(phi characteristic.Function, s, k, t, r, q float64, isCall bool) (PriceCurve, error) {
	if err := e.validate(s, k, t); err != nil {
		return PriceCurve{}, err
	}

	sOrig := s
	if e.Normalize {
		// Rescaling keeps the log-strike grid centered near zero whatever
		// the absolute price level, which conditions the transform better.
		var err error
		phi, err = characteristic.Normalize(phi, sOrig)
		if err != nil {
			return PriceCurve{}, err
		}
		s = 1
		k = k / sOrig
	}

	kRef := math.Log(k)
	disc := math.Exp(-r * t)
	qDisc := math.Exp(-q * t)
	var dampener Dampener
	var transform Transform
	if e.Normalize {
		// The rescaled grid straddles log-strike zero, where the sinh
		// dampener vanishes and truncation noise swamps the damped signal.
		// The exponential transform holds at every strike, so use it
		// unconditionally here.
		dampener, transform = expFuncs(phi, e.Alpha)
	} else {
		dampener, transform = GenFuncs(phi, s, k, e.Alpha, disc, e.ATMEps)
	}

	dy := math.Pow(2, float64(e.Trunc-e.N))
	b := math.Pow(2, float64(e.Trunc))
	l := 1 << e.N

	grid := make([]complex128, l)
	for j := 0; j < l; j++ {
		y := float64(j) * dy
		grid[j] = cmplx.Exp(complex(0, -kRef*y)) * transform(complex(y, 0))
	}
	grid[0] /= 2 // trapezoid half-weight at the first node

	inverse := fft.IFFT(grid)

	// Undamp each grid point at its own log strike. Index L/2 of the output
	// grid corresponds to the reference strike; a log-strike offset of
	// +delta pairs with the negated inverse-transform index, since the
	// forward kernel e^{-iuk} and the inverse FFT kernel carry opposite
	// signs.
	mul := disc * b / math.Pi
	deltaK := 2 * math.Pi / b
	values := make([]float64, l)
	strikes := make([]float64, l)
	for j := 0; j < l; j++ {
		kj := kRef + (float64(j)-float64(l)/2)*deltaK
		damp := dampener(kj)
		shifted := real(inverse[((l/2-j)%l+l)%l])
		if math.Abs(damp) < degeneracyGuard {
			values[j] = 0
		} else {
			values[j] = mul * shifted / damp
		}
		strikes[j] = math.Exp(kj)
	}

	if e.Normalize {
		for j := range values {
			values[j] *= sOrig
			strikes[j] *= sOrig
		}
		s = sOrig
	}

	if !isCall {
		for j := range values {
			values[j] += -s*qDisc + strikes[j]*disc
		}
	}

	return PriceCurve{Strikes: strikes, Values: values}, nil
}
