package fourier

import "sort"

// interpClamped linearly interpolates ys over the ascending grid xs at x.
// A query exactly on a grid node returns the node value bit-for-bit; queries
// beyond either end clamp to the boundary value, silently trading precision
// for robustness. Callers needing exactness must pick truncation and grid
// parameters that cover their strikes.
func interpClamped(xs, ys []float64, x float64) float64 {
	n := len(xs)
	idx := sort.SearchFloat64s(xs, x)
	if idx < n && xs[idx] == x {
		return ys[idx]
	}
	if idx <= 0 {
		return ys[0]
	}
	if idx >= n {
		return ys[n-1]
	}
	x1, x2 := xs[idx-1], xs[idx]
	y1, y2 := ys[idx-1], ys[idx]
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}
