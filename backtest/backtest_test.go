package backtest

import (
	"bytes"
	"testing"

	"github.com/jbickel/fourprice/closedform"
	"github.com/jbickel/fourprice/fourier"
	"github.com/jbickel/fourprice/models"
)

func syntheticRecords(sigma float64) []QuoteRecord {
	var records []QuoteRecord
	for _, k := range []float64{85, 95, 110, 120} {
		records = append(records, QuoteRecord{
			Date:       "2024-03-15",
			Spot:       100,
			Strike:     k,
			Maturity:   0.5,
			Rate:       0.05,
			Yield:      0.02,
			Price:      closedform.Price(100, k, 0.5, 0.05, 0.02, sigma, true),
			OptionType: "call",
		})
	}
	return records
}

func TestCSVRoundTrip(t *testing.T) {
	records := syntheticRecords(0.25)

	var buf bytes.Buffer
	if err := WriteQuotes(&buf, records); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadQuotes(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded) != len(records) {
		t.Fatalf("got %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i] != records[i] {
			t.Errorf("record %d: %+v != %+v", i, loaded[i], records[i])
		}
	}
}

// A model evaluated against its own prices should report near-zero error;
// a mis-specified one should not.
func TestEvaluate(t *testing.T) {
	records := syntheticRecords(0.25)
	engine := fourier.NewEngine()

	matched, err := models.NewBlackScholes(0.25)
	if err != nil {
		t.Fatal(err)
	}
	report, err := Evaluate(matched, engine, records)
	if err != nil {
		t.Fatal(err)
	}
	if report.N != len(records) {
		t.Errorf("N = %d, want %d", report.N, len(records))
	}
	if report.RMSE > 0.02 {
		t.Errorf("self-consistent RMSE %.5f too large", report.RMSE)
	}
	if report.MaxError > 0.05 {
		t.Errorf("self-consistent max error %.5f too large", report.MaxError)
	}
	if report.MAE > report.RMSE+1e-12 {
		t.Errorf("MAE %.5f exceeds RMSE %.5f", report.MAE, report.RMSE)
	}

	wrong, err := models.NewBlackScholes(0.40)
	if err != nil {
		t.Fatal(err)
	}
	wrongReport, err := Evaluate(wrong, engine, records)
	if err != nil {
		t.Fatal(err)
	}
	if wrongReport.RMSE < 1 {
		t.Errorf("mis-specified model RMSE %.5f implausibly small", wrongReport.RMSE)
	}
	if wrongReport.Bias < 0 {
		t.Errorf("overpriced model reports negative bias %.5f", wrongReport.Bias)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	m, err := models.NewBlackScholes(0.2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Evaluate(m, fourier.NewEngine(), nil); err == nil {
		t.Error("accepted empty record set")
	}
}
