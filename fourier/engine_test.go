package fourier

import (
	"math"
	"testing"

	"github.com/jbickel/fourprice/characteristic"
	"github.com/jbickel/fourprice/closedform"
)

func bsPhi(t *testing.T, maturity, spot, r, q, sigma float64) characteristic.Function {
	t.Helper()
	phi, err := characteristic.BlackScholes(maturity, spot, r, q, sigma)
	if err != nil {
		t.Fatal(err)
	}
	return phi
}

// The degenerate lognormal case must reproduce the closed-form Black-Scholes
// value: S=K=100, r=q=0, sigma=0.2, T=1 prices at 7.9660.
func TestATMCallMatchesBlackScholes(t *testing.T) {
	engine := NewEngine()
	phi := bsPhi(t, 1, 100, 0, 0, 0.2)

	price, _, err := engine.Price(phi, 100, 100, 1, 0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(price-7.9660) > 1e-3 {
		t.Errorf("ATM call = %.6f, want 7.9660 within 1e-3", price)
	}
	want := closedform.Price(100, 100, 1, 0, 0, 0.2, true)
	if math.Abs(price-want) > 1e-3 {
		t.Errorf("ATM call = %.6f, closed form %.6f", price, want)
	}
}

func TestCallMatchesClosedFormAcrossStrikes(t *testing.T) {
	const (
		s, r, q, sigma, maturity = 100.0, 0.05, 0.02, 0.25, 0.5
	)
	engine := NewEngine()
	phi := bsPhi(t, maturity, s, r, q, sigma)

	for _, k := range []float64{80, 90, 95, 105, 110, 120} {
		price, _, err := engine.Price(phi, s, k, maturity, r, q, true)
		if err != nil {
			t.Fatal(err)
		}
		want := closedform.Price(s, k, maturity, r, q, sigma, true)
		if math.Abs(price-want) > 2e-2 {
			t.Errorf("K=%g: fft %.5f, closed form %.5f", k, price, want)
		}
	}
}

// A deep in-the-money call carries intrinsic value already; the sinh branch
// must not add the forward-minus-strike term on top of it.
func TestDeepITMCallCarriesNoExtraIntrinsic(t *testing.T) {
	const (
		s, k, r, q, sigma, maturity = 100.0, 80.0, 0.05, 0.02, 0.25, 0.5
	)
	engine := NewEngine()
	phi := bsPhi(t, maturity, s, r, q, sigma)

	price, _, err := engine.Price(phi, s, k, maturity, r, q, true)
	if err != nil {
		t.Fatal(err)
	}
	want := closedform.Price(s, k, maturity, r, q, sigma, true)
	if math.Abs(price-want) > 2e-2 {
		t.Errorf("ITM call %.5f, closed form %.5f", price, want)
	}
	doubled := want + s*math.Exp(-q*maturity) - k*math.Exp(-r*maturity)
	if math.Abs(price-doubled) < 1 {
		t.Errorf("ITM call %.5f sits at parity-doubled value %.5f", price, doubled)
	}
}

func TestPutMatchesClosedForm(t *testing.T) {
	const (
		s, r, q, sigma, maturity = 100.0, 0.05, 0.02, 0.25, 0.5
	)
	engine := NewEngine()
	phi := bsPhi(t, maturity, s, r, q, sigma)

	for _, k := range []float64{85, 100, 115} {
		price, _, err := engine.Price(phi, s, k, maturity, r, q, false)
		if err != nil {
			t.Fatal(err)
		}
		want := closedform.Price(s, k, maturity, r, q, sigma, false)
		if math.Abs(price-want) > 2e-2 {
			t.Errorf("K=%g: fft put %.5f, closed form %.5f", k, price, want)
		}
	}
}

// C - P must equal S e^{-qT} - K e^{-rT} exactly, since the put curve is the
// call curve shifted by the parity terms.
func TestPutCallParityExact(t *testing.T) {
	const (
		s, k, r, q, sigma, maturity = 100.0, 110.0, 0.05, 0.02, 0.25, 0.5
	)
	engine := NewEngine()
	phi := bsPhi(t, maturity, s, r, q, sigma)

	call, _, err := engine.Price(phi, s, k, maturity, r, q, true)
	if err != nil {
		t.Fatal(err)
	}
	put, _, err := engine.Price(phi, s, k, maturity, r, q, false)
	if err != nil {
		t.Fatal(err)
	}

	want := s*math.Exp(-q*maturity) - k*math.Exp(-r*maturity)
	if diff := (call - put) - want; math.Abs(diff) > 1e-10 {
		t.Errorf("C-P-parity = %g, want 0", diff)
	}
}

// Pricing twice with identical inputs must give bit-identical curves: the
// engine holds no state across calls.
func TestCurveIdempotent(t *testing.T) {
	engine := NewEngine()
	phi := bsPhi(t, 0.5, 100, 0.05, 0.02, 0.25)

	_, first, err := engine.Price(phi, 100, 110, 0.5, 0.05, 0.02, true)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := engine.Price(phi, 100, 110, 0.5, 0.05, 0.02, true)
	if err != nil {
		t.Fatal(err)
	}

	for j := range first.Values {
		if first.Values[j] != second.Values[j] || first.Strikes[j] != second.Strikes[j] {
			t.Fatalf("curves differ at %d: (%v,%v) vs (%v,%v)",
				j, first.Strikes[j], first.Values[j], second.Strikes[j], second.Values[j])
		}
	}
}

// Strikes on either side of the ATM tolerance hit different damping regimes;
// the prices must still line up.
func TestATMBoundaryContinuity(t *testing.T) {
	const (
		s, r, q, sigma, maturity = 100.0, 0.03, 0.03, 0.2, 1.0
	)
	engine := NewEngine()
	phi := bsPhi(t, maturity, s, r, q, sigma)

	inside := s + engine.ATMEps*0.9
	outside := s + engine.ATMEps*1.2
	if !IsATM(s, inside, engine.ATMEps) || IsATM(s, outside, engine.ATMEps) {
		t.Fatal("strikes do not straddle the ATM boundary")
	}

	atm, _, err := engine.Price(phi, s, inside, maturity, r, q, true)
	if err != nil {
		t.Fatal(err)
	}
	nonATM, _, err := engine.Price(phi, s, outside, maturity, r, q, true)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(atm-nonATM) > 5e-2 {
		t.Errorf("damping regimes disagree at the boundary: %.5f vs %.5f", atm, nonATM)
	}
}

// A requested strike exactly on a grid node must return that node's value
// bit-for-bit, with no interpolation noise.
func TestInterpolationExactOnGridNode(t *testing.T) {
	engine := NewEngine()
	phi := bsPhi(t, 0.5, 100, 0.05, 0.02, 0.25)

	_, curve, err := engine.Price(phi, 100, 110, 0.5, 0.05, 0.02, true)
	if err != nil {
		t.Fatal(err)
	}

	idx := len(curve.Strikes)/2 + 3
	got, _, err := engine.PriceStrikes(phi, 100, 110, 0.5, 0.05, 0.02, true, []float64{curve.Strikes[idx]})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != curve.Values[idx] {
		t.Errorf("grid-node query = %v, want node value %v", got[0], curve.Values[idx])
	}
}

// The normalized engine rescales the spot to 1 before transforming; its
// prices must match the plain engine and the closed form on both sides of
// the money, not only at the ATM strike.
func TestNormalizedEngineAgrees(t *testing.T) {
	const (
		s, r, q, sigma, maturity = 100.0, 0.05, 0.02, 0.25, 0.5
	)
	phi := bsPhi(t, maturity, s, r, q, sigma)

	plain := NewEngine()
	normalized := NewEngine()
	normalized.Normalize = true

	for _, k := range []float64{80, 90, 100, 110, 120} {
		a, _, err := plain.Price(phi, s, k, maturity, r, q, true)
		if err != nil {
			t.Fatal(err)
		}
		b, _, err := normalized.Price(phi, s, k, maturity, r, q, true)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(a-b) > 2e-2 {
			t.Errorf("K=%g: normalized %.5f vs plain %.5f", k, b, a)
		}
		want := closedform.Price(s, k, maturity, r, q, sigma, true)
		if math.Abs(b-want) > 2e-2 {
			t.Errorf("K=%g: normalized %.5f, closed form %.5f", k, b, want)
		}
	}
}

// A finite-difference delta over the FFT pricer must rebuild the
// characteristic function at each bumped spot; the CF carries the spot, so a
// frozen one only responds through the discounting terms and the derivative
// comes out far above 1.
func TestDeltaRequiresFreshCharacteristicFunction(t *testing.T) {
	const (
		s, k, r, q, sigma, maturity = 100.0, 100.0, 0.0379, 0.0, 0.25, 0.5
	)
	engine := NewEngine()

	price := func(spot float64) float64 {
		phi := bsPhi(t, maturity, spot, r, q, sigma)
		p, _, err := engine.Price(phi, spot, k, maturity, r, q, true)
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	h := 0.5
	delta := (price(s+h) - price(s-h)) / (2 * h)
	want := closedform.Greeks(s, k, maturity, r, q, sigma, true).Delta
	if math.Abs(delta-want) > 5e-2 {
		t.Errorf("fft delta %.4f, closed form %.4f", delta, want)
	}
	if delta > 1 {
		t.Errorf("fft delta %.4f outside [0,1] for a call", delta)
	}
}

func TestEngineRejectsBadInputs(t *testing.T) {
	phi := bsPhi(t, 0.5, 100, 0.05, 0.02, 0.25)

	bad := []*Engine{
		{Alpha: 0, Trunc: 7, N: 12, ATMEps: 0.01},
		{Alpha: 1.5, Trunc: 0, N: 12, ATMEps: 0.01},
		{Alpha: 1.5, Trunc: 7, N: 30, ATMEps: 0.01},
	}
	for i, e := range bad {
		if _, _, err := e.Price(phi, 100, 100, 0.5, 0.05, 0.02, true); err == nil {
			t.Errorf("engine %d accepted invalid configuration", i)
		}
	}

	good := NewEngine()
	if _, _, err := good.Price(phi, -100, 100, 0.5, 0.05, 0.02, true); err == nil {
		t.Error("accepted negative spot")
	}
	if _, _, err := good.Price(phi, 100, 100, -0.5, 0.05, 0.02, true); err == nil {
		t.Error("accepted negative maturity")
	}
}

func TestInterpClamped(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{10, 20, 40, 80}

	if got := interpClamped(xs, ys, 1); got != 20 {
		t.Errorf("node query = %v, want 20", got)
	}
	if got := interpClamped(xs, ys, 1.5); got != 30 {
		t.Errorf("midpoint = %v, want 30", got)
	}
	if got := interpClamped(xs, ys, -5); got != 10 {
		t.Errorf("left clamp = %v, want 10", got)
	}
	if got := interpClamped(xs, ys, 9); got != 80 {
		t.Errorf("right clamp = %v, want 80", got)
	}
}
