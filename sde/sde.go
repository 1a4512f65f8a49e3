// Package sde provides Monte-Carlo simulators for the supported models and a
// batched option pricer over them. Simulators draw one terminal value per
// call from a caller-supplied generator; the batch pricer fans paths out over
// a worker pool with one generator per worker.
package sde

import (
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
)

// Simulator draws a single terminal value at horizon t from s0 under the
// model's risk-neutral dynamics with steps discretization steps.
type Simulator interface {
	SimulatePrice(s0, r, q, t float64, steps int, rng *rand.Rand) float64
}

var rngPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(uint64(rand.Int63())))
	},
}

// OptionPrice estimates the discounted European option value by simulation:
// sims paths of steps steps each, split across GOMAXPROCS workers with
// per-worker generators and a mutex-guarded payoff accumulator.
func OptionPrice(sim Simulator, s0, k, r, q, t float64, steps, sims int, isCall bool) float64 {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > sims {
		numWorkers = 1
	}
	perWorker := sims / numWorkers

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0.0

	for w := 0; w < numWorkers; w++ {
		count := perWorker
		if w == numWorkers-1 {
			count = sims - perWorker*(numWorkers-1)
		}
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			rng := rngPool.Get().(*rand.Rand)
			defer rngPool.Put(rng)

			local := 0.0
			for i := 0; i < count; i++ {
				sT := sim.SimulatePrice(s0, r, q, t, steps, rng)
				if isCall {
					local += math.Max(sT-k, 0)
				} else {
					local += math.Max(k-sT, 0)
				}
			}

			mu.Lock()
			total += local
			mu.Unlock()
		}(count)
	}

	wg.Wait()
	return math.Exp(-r*t) * total / float64(sims)
}
