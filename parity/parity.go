// Package parity converts between European call and put values and checks
// the no-arbitrage relations tying both to the forward.
package parity

import (
	"fmt"
	"math"
)

// CallFromPut applies put-call parity: C = P + S e^{-qT} - K e^{-rT}.
func CallFromPut(put, s, k, t, r, q float64) float64 {
	return put + s*math.Exp(-q*t) - k*math.Exp(-r*t)
}

// PutFromCall applies put-call parity: P = C - S e^{-qT} + K e^{-rT}.
func PutFromCall(call, s, k, t, r, q float64) float64 {
	return call - s*math.Exp(-q*t) + k*math.Exp(-r*t)
}

// CheckCall reports whether a call value lies inside its no-arbitrage
// bounds max(S e^{-qT} - K e^{-rT}, 0) <= C <= S e^{-qT}, within tol.
func CheckCall(call, s, k, t, r, q, tol float64) error {
	lower := math.Max(s*math.Exp(-q*t)-k*math.Exp(-r*t), 0)
	upper := s * math.Exp(-q*t)
	if call < lower-tol || call > upper+tol {
		return fmt.Errorf("parity: call %g outside [%g, %g]", call, lower, upper)
	}
	return nil
}

// CheckPut reports whether a put value lies inside its no-arbitrage
// bounds max(K e^{-rT} - S e^{-qT}, 0) <= P <= K e^{-rT}, within tol.
func CheckPut(put, s, k, t, r, q, tol float64) error {
	lower := math.Max(k*math.Exp(-r*t)-s*math.Exp(-q*t), 0)
	upper := k * math.Exp(-r*t)
	if put < lower-tol || put > upper+tol {
		return fmt.Errorf("parity: put %g outside [%g, %g]", put, lower, upper)
	}
	return nil
}

// ImpliedRate backs the risk-free rate out of a call/put pair at the same
// strike and maturity: r = -ln((S e^{-qT} - (C - P)) / K) / T.
func ImpliedRate(call, put, s, k, t, q float64) (float64, error) {
	if t <= 0 || k <= 0 {
		return 0, fmt.Errorf("parity: need positive maturity and strike")
	}
	x := (s*math.Exp(-q*t) - (call - put)) / k
	if x <= 0 {
		return 0, fmt.Errorf("parity: quotes imply a non-positive discount factor %g", x)
	}
	return -math.Log(x) / t, nil
}
