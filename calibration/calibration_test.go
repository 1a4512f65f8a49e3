package calibration

import (
	"math"
	"testing"

	"github.com/jbickel/fourprice/closedform"
	"github.com/jbickel/fourprice/models"
)

func syntheticQuotes(t *testing.T, spot, rate, yield, sigma, maturity float64) []Quote {
	t.Helper()
	var quotes []Quote
	for _, k := range []float64{85, 92.5, 107.5, 115} {
		quotes = append(quotes, Quote{
			Strike:   k,
			Maturity: maturity,
			Price:    closedform.Price(spot, k, maturity, rate, yield, sigma, true),
			IsCall:   true,
		})
	}
	for _, k := range []float64{90, 110} {
		quotes = append(quotes, Quote{
			Strike:   k,
			Maturity: maturity,
			Price:    closedform.Price(spot, k, maturity, rate, yield, sigma, false),
			IsCall:   false,
		})
	}
	return quotes
}

// Fitting Black-Scholes to its own prices must recover the volatility.
func TestRecoverBlackScholesVolatility(t *testing.T) {
	const (
		spot, rate, yield, trueSigma, maturity = 100.0, 0.05, 0.02, 0.22, 0.5
	)
	quotes := syntheticQuotes(t, spot, rate, yield, trueSigma, maturity)

	start, err := models.NewBlackScholes(0.45)
	if err != nil {
		t.Fatal(err)
	}

	cal := NewCalibrator(spot, rate, yield)
	result, err := cal.Calibrate(start, []string{"sigma"}, []float64{0.45}, quotes)
	if err != nil {
		t.Fatal(err)
	}

	if got := result.Params["sigma"]; math.Abs(got-trueSigma) > 5e-3 {
		t.Errorf("calibrated sigma %.5f, want %.5f", got, trueSigma)
	}
	if result.RMSE > 0.05 {
		t.Errorf("RMSE %.5f too large for a self-consistent fit", result.RMSE)
	}
	if result.Evaluations == 0 {
		t.Error("no objective evaluations recorded")
	}

	// The starting model must be untouched.
	if start.Sigma != 0.45 {
		t.Errorf("initial model mutated: sigma %g", start.Sigma)
	}
}

func TestCalibrateRejectsBadInput(t *testing.T) {
	start, err := models.NewBlackScholes(0.3)
	if err != nil {
		t.Fatal(err)
	}
	cal := NewCalibrator(100, 0.05, 0)

	if _, err := cal.Calibrate(start, nil, nil, []Quote{{Strike: 100, Maturity: 1, Price: 10, IsCall: true}}); err == nil {
		t.Error("accepted empty parameter list")
	}
	if _, err := cal.Calibrate(start, []string{"sigma"}, []float64{0.3, 0.4}, []Quote{{Strike: 100, Maturity: 1, Price: 10, IsCall: true}}); err == nil {
		t.Error("accepted mismatched names and starting values")
	}
	if _, err := cal.Calibrate(start, []string{"sigma"}, []float64{0.3}, nil); err == nil {
		t.Error("accepted empty quote set")
	}
}

func TestGroupByMaturity(t *testing.T) {
	quotes := []Quote{
		{Strike: 90, Maturity: 0.25},
		{Strike: 100, Maturity: 0.5},
		{Strike: 110, Maturity: 0.25},
	}
	groups := groupByMaturity(quotes)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	sizes := map[float64]int{}
	for _, g := range groups {
		sizes[g.maturity] = len(g.quotes)
	}
	if sizes[0.25] != 2 || sizes[0.5] != 1 {
		t.Errorf("group sizes %v", sizes)
	}
}
