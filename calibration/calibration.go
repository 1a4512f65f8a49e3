// Package calibration fits model parameters to observed option quotes by
// minimizing squared pricing error with Nelder-Mead. The objective never
// mutates the calibrated model: each trial point prices through a fresh copy
// produced by Model.With, so concurrent evaluations cannot race.
package calibration

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"gonum.org/v1/gonum/optimize"

	"github.com/jbickel/fourprice/fourier"
	"github.com/jbickel/fourprice/models"
)

// Quote is a single market observation to fit against.
type Quote struct {
	Strike   float64
	Maturity float64
	Price    float64
	IsCall   bool
}

// penalty is the objective value for trial points the model rejects.
const penalty = 1e10

// Calibrator drives the fit. Quotes sharing a maturity are priced off a
// single transform of that maturity's characteristic function.
type Calibrator struct {
	Engine *fourier.Engine
	Spot   float64
	Rate   float64
	Yield  float64

	// Progress enables a progress bar over objective evaluations.
	Progress bool
}

// NewCalibrator returns a calibrator with the default Fourier engine.
func NewCalibrator(spot, rate, yield float64) *Calibrator {
	return &Calibrator{
		Engine: fourier.NewEngine(),
		Spot:   spot,
		Rate:   rate,
		Yield:  yield,
	}
}

// Result holds the fitted model and the fit diagnostics.
type Result struct {
	Model       models.Model
	Params      map[string]float64
	RMSE        float64
	Evaluations int
}

// Calibrate searches over the named parameters, starting from their values
// in the initial model, and returns the best-fitting copy.
func (c *Calibrator) Calibrate(initial models.Model, paramNames []string, start []float64, quotes []Quote) (*Result, error) {
	if len(paramNames) == 0 || len(paramNames) != len(start) {
		return nil, fmt.Errorf("calibration: need matching parameter names and starting values")
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("calibration: no quotes to fit")
	}

	groups := groupByMaturity(quotes)
	workers := workerCount()

	var bar *mpb.Bar
	var progress *mpb.Progress
	if c.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(0,
			mpb.PrependDecorators(
				decor.Name("Calibrating"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	evals := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			evals++
			if bar != nil {
				bar.SetTotal(int64(evals), false)
				bar.Increment()
			}
			params := make(map[string]float64, len(paramNames))
			for i, name := range paramNames {
				params[name] = x[i]
			}
			trial, err := initial.With(params)
			if err != nil {
				return penalty
			}
			return c.meanSquaredError(trial, groups, workers)
		},
	}

	result, err := optimize.Minimize(problem, start, nil, &optimize.NelderMead{})
	if progress != nil {
		bar.SetTotal(int64(evals), true)
		progress.Wait()
	}
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}

	params := make(map[string]float64, len(paramNames))
	for i, name := range paramNames {
		params[name] = result.X[i]
	}
	fitted, err := initial.With(params)
	if err != nil {
		return nil, fmt.Errorf("calibration: optimizer converged to invalid parameters: %w", err)
	}

	return &Result{
		Model:       fitted,
		Params:      params,
		RMSE:        math.Sqrt(result.F),
		Evaluations: evals,
	}, nil
}

// maturityGroup collects the quotes of one expiry so they share an FFT.
type maturityGroup struct {
	maturity float64
	quotes   []Quote
}

func groupByMaturity(quotes []Quote) []maturityGroup {
	byT := make(map[float64][]Quote)
	for _, q := range quotes {
		byT[q.Maturity] = append(byT[q.Maturity], q)
	}
	groups := make([]maturityGroup, 0, len(byT))
	for t, qs := range byT {
		groups = append(groups, maturityGroup{maturity: t, quotes: qs})
	}
	return groups
}

func (c *Calibrator) meanSquaredError(m models.Model, groups []maturityGroup, workers int) float64 {
	jobs := make(chan maturityGroup, len(groups))
	errs := make(chan float64, len(groups))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				errs <- c.groupError(m, g)
			}
		}()
	}

	for _, g := range groups {
		jobs <- g
	}
	close(jobs)
	wg.Wait()
	close(errs)

	total := 0.0
	n := 0
	for _, g := range groups {
		n += len(g.quotes)
	}
	for e := range errs {
		total += e
	}
	return total / float64(n)
}

// groupError prices one expiry's quotes and returns their summed squared
// error. Calls and puts are split so each side interpolates its own curve.
func (c *Calibrator) groupError(m models.Model, g maturityGroup) float64 {
	phi, err := m.CharacteristicFunction(g.maturity, c.Spot, c.Rate, c.Yield)
	if err != nil {
		return penalty * float64(len(g.quotes))
	}

	sum := 0.0
	for _, side := range []bool{true, false} {
		var strikes []float64
		var targets []float64
		for _, q := range g.quotes {
			if q.IsCall == side {
				strikes = append(strikes, q.Strike)
				targets = append(targets, q.Price)
			}
		}
		if len(strikes) == 0 {
			continue
		}
		prices, _, err := c.Engine.PriceStrikes(phi, c.Spot, strikes[0], g.maturity, c.Rate, c.Yield, side, strikes)
		if err != nil {
			return penalty * float64(len(g.quotes))
		}
		for i, p := range prices {
			d := p - targets[i]
			sum += d * d
		}
	}
	return sum
}

func workerCount() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts < 1 {
		return runtime.NumCPU()
	}
	return counts
}
