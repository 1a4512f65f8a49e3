package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jbickel/fourprice/backtest"
	"github.com/jbickel/fourprice/calibration"
	"github.com/jbickel/fourprice/closedform"
	"github.com/jbickel/fourprice/fourier"
	"github.com/jbickel/fourprice/greeks"
	"github.com/jbickel/fourprice/lattice"
	"github.com/jbickel/fourprice/marketdata"
	"github.com/jbickel/fourprice/models"
	"github.com/jbickel/fourprice/parity"
	"github.com/jbickel/fourprice/sde"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, falling back to defaults")
	}

	spot := 100.0
	strike := 100.0
	maturity := 0.5
	rate := 0.0379
	yield := 0.0
	sigma := 0.25

	if key := os.Getenv("FRED_KEY"); key != "" {
		if r, err := marketdata.RiskFreeRate(key); err == nil {
			rate = r
		} else {
			fmt.Printf("FRED rate lookup failed, using default: %s\n", err)
		}
	}

	fmt.Printf("Pricing S=%.2f K=%.2f T=%.2f r=%.4f q=%.4f\n", spot, strike, maturity, rate, yield)

	bs, err := models.NewBlackScholes(sigma)
	if err != nil {
		log.Fatal(err)
	}

	engine := fourier.NewEngine()
	phi, err := bs.CharacteristicFunction(maturity, spot, rate, yield)
	if err != nil {
		log.Fatal(err)
	}

	fftPrice, _, err := engine.Price(phi, spot, strike, maturity, rate, yield, true)
	if err != nil {
		log.Fatal(err)
	}

	closed := closedform.Price(spot, strike, maturity, rate, yield, sigma, true)
	crr, err := lattice.CRR(spot, strike, maturity, rate, yield, sigma, 500, true, false)
	if err != nil {
		log.Fatal(err)
	}
	topm, err := lattice.TOPM(spot, strike, maturity, rate, yield, sigma, 500, true, false)
	if err != nil {
		log.Fatal(err)
	}
	mc := sde.OptionPrice(bs.SDE(), spot, strike, rate, yield, maturity, 252, 100000, true)

	fmt.Printf("Black-Scholes call:\n")
	fmt.Printf("  closed form  %.4f\n", closed)
	fmt.Printf("  Carr-Madan   %.4f\n", fftPrice)
	fmt.Printf("  CRR lattice  %.4f\n", crr)
	fmt.Printf("  TOPM lattice %.4f\n", topm)
	fmt.Printf("  Monte Carlo  %.4f\n", mc)

	put, _, err := engine.Price(phi, spot, strike, maturity, rate, yield, false)
	if err != nil {
		log.Fatal(err)
	}
	impliedR, err := parity.ImpliedRate(fftPrice, put, spot, strike, maturity, yield)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Parity-implied rate from FFT call/put pair: %.4f\n", impliedR)

	// The characteristic function carries the spot, so each bumped
	// evaluation needs a fresh one.
	delta := greeks.Delta(func(s float64) float64 {
		phiS, err := bs.CharacteristicFunction(maturity, s, rate, yield)
		if err != nil {
			return math.NaN()
		}
		p, _, err := engine.Price(phiS, s, strike, maturity, rate, yield, true)
		if err != nil {
			return math.NaN()
		}
		return p
	}, spot, 0.5)
	fmt.Printf("FFT delta %.4f (closed form %.4f)\n", delta, closedform.Greeks(spot, strike, maturity, rate, yield, sigma, true).Delta)

	demoHeston(spot, maturity, rate, yield)
	demoCalibration(spot, rate, yield)
	demoBacktest(spot, rate, yield, sigma)
}

func demoHeston(spot, maturity, rate, yield float64) {
	heston, err := models.NewHeston(0.04, 1.5, 0.04, 0.3, -0.7)
	if err != nil {
		log.Fatal(err)
	}
	phi, err := heston.CharacteristicFunction(maturity, spot, rate, yield)
	if err != nil {
		log.Fatal(err)
	}

	engine := fourier.NewEngine()
	strikes := []float64{80, 90, 100, 110, 120}
	prices, _, err := engine.PriceStrikes(phi, spot, spot, maturity, rate, yield, true, strikes)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Heston call curve:\n")
	for i, k := range strikes {
		iv := greeks.ImpliedVolatility(func(sigma float64) float64 {
			return closedform.Price(spot, k, maturity, rate, yield, sigma, true)
		}, prices[i], 1e-4, 3)
		fmt.Printf("  K=%.0f price %.4f implied vol %.4f\n", k, prices[i], iv)
	}
}

func demoCalibration(spot, rate, yield float64) {
	// Synthetic quotes from a known volatility, so the fit has a known answer.
	trueSigma := 0.22
	maturity := 0.5
	var quotes []calibration.Quote
	for _, k := range []float64{85, 95, 100, 105, 115} {
		quotes = append(quotes, calibration.Quote{
			Strike:   k,
			Maturity: maturity,
			Price:    closedform.Price(spot, k, maturity, rate, yield, trueSigma, true),
			IsCall:   true,
		})
	}

	start, err := models.NewBlackScholes(0.4)
	if err != nil {
		log.Fatal(err)
	}
	cal := calibration.NewCalibrator(spot, rate, yield)
	cal.Progress = true

	began := time.Now()
	result, err := cal.Calibrate(start, []string{"sigma"}, []float64{0.4}, quotes)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Calibrated sigma %.4f (true %.4f) in %d evaluations, RMSE %.6f, %v\n",
		result.Params["sigma"], trueSigma, result.Evaluations, result.RMSE, time.Since(began))
}

func demoBacktest(spot, rate, yield, sigma float64) {
	path := os.Getenv("BACKTEST_QUOTES")
	if path == "" {
		return
	}
	records, err := backtest.LoadQuotesFile(path)
	if err != nil {
		log.Fatal(err)
	}

	bs, err := models.NewBlackScholes(sigma)
	if err != nil {
		log.Fatal(err)
	}
	report, err := backtest.Evaluate(bs, fourier.NewEngine(), records)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Backtest over %d quotes: RMSE %.4f MAE %.4f max %.4f bias %+.4f\n",
		report.N, report.RMSE, report.MAE, report.MaxError, report.Bias)
}
