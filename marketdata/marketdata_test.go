package marketdata

import (
	"math"
	"testing"
	"time"

	"github.com/xhhuango/json"
)

const chainPayload = `{
  "options": {
    "option": [
      {"symbol": "SPY240621C00450000", "underlying": "SPY", "strike": 450,
       "bid": 12.4, "ask": 12.6, "option_type": "call", "expiration_date": "2024-06-21"},
      {"symbol": "SPY240621P00450000", "underlying": "SPY", "strike": 450,
       "bid": 8.1, "ask": 8.3, "option_type": "put", "expiration_date": "2024-06-21"},
      {"symbol": "SPY240621C00500000", "underlying": "SPY", "strike": 500,
       "bid": 0, "ask": 0.05, "option_type": "call", "expiration_date": "2024-06-21"}
    ]
  }
}`

func TestChainDecoding(t *testing.T) {
	chain := &OptionChain{}
	if err := json.Unmarshal([]byte(chainPayload), chain); err != nil {
		t.Fatal(err)
	}
	if got := len(chain.Options.Option); got != 3 {
		t.Fatalf("decoded %d options, want 3", got)
	}
	first := chain.Options.Option[0]
	if first.Strike != 450 || first.OptionType != "call" || first.Bid != 12.4 {
		t.Errorf("first contract decoded wrong: %+v", first)
	}
}

func TestCalibrationQuotes(t *testing.T) {
	chain := &OptionChain{}
	if err := json.Unmarshal([]byte(chainPayload), chain); err != nil {
		t.Fatal(err)
	}
	chains := map[string]*OptionChain{"2024-06-21": chain}

	now := time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)
	quotes, err := CalibrationQuotes(chains, now)
	if err != nil {
		t.Fatal(err)
	}

	// The zero-bid contract is dropped.
	if len(quotes) != 2 {
		t.Fatalf("got %d quotes, want 2", len(quotes))
	}
	for _, q := range quotes {
		if q.Strike != 450 {
			t.Errorf("unexpected strike %g", q.Strike)
		}
		if math.Abs(q.Maturity-92.0/365) > 1e-9 {
			t.Errorf("maturity %g, want %g", q.Maturity, 92.0/365)
		}
	}
	if quotes[0].IsCall == quotes[1].IsCall {
		t.Error("expected one call and one put")
	}
	for _, q := range quotes {
		if q.IsCall && math.Abs(q.Price-12.5) > 1e-9 {
			t.Errorf("call mid %g, want 12.5", q.Price)
		}
		if !q.IsCall && math.Abs(q.Price-8.2) > 1e-9 {
			t.Errorf("put mid %g, want 8.2", q.Price)
		}
	}
}

func TestLastClose(t *testing.T) {
	h := &QuoteHistory{}
	payload := `{"history": {"day": [
	  {"date": "2024-03-20", "close": 512.3},
	  {"date": "2024-03-21", "close": 515.7}
	]}}`
	if err := json.Unmarshal([]byte(payload), h); err != nil {
		t.Fatal(err)
	}
	got, err := h.LastClose()
	if err != nil {
		t.Fatal(err)
	}
	if got != 515.7 {
		t.Errorf("last close %g, want 515.7", got)
	}

	empty := &QuoteHistory{}
	if _, err := empty.LastClose(); err == nil {
		t.Error("empty history accepted")
	}
}
