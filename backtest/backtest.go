// Package backtest replays recorded option quotes through a model and
// reports the pricing error, so a calibrated parameter set can be judged
// out of sample.
package backtest

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/jbickel/fourprice/fourier"
	"github.com/jbickel/fourprice/models"
)

// QuoteRecord is one row of a recorded quote file.
type QuoteRecord struct {
	Date       string  `csv:"date"`
	Spot       float64 `csv:"spot"`
	Strike     float64 `csv:"strike"`
	Maturity   float64 `csv:"maturity"`
	Rate       float64 `csv:"rate"`
	Yield      float64 `csv:"yield"`
	Price      float64 `csv:"price"`
	OptionType string  `csv:"option_type"` // "call" or "put"
}

// LoadQuotes reads quote records from CSV.
func LoadQuotes(r io.Reader) ([]QuoteRecord, error) {
	var records []QuoteRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	return records, nil
}

// LoadQuotesFile reads quote records from a CSV file on disk.
func LoadQuotesFile(path string) ([]QuoteRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	defer f.Close()
	return LoadQuotes(f)
}

// WriteQuotes writes quote records as CSV.
func WriteQuotes(w io.Writer, records []QuoteRecord) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	return nil
}

// Report summarizes the model-versus-market pricing error over a quote set.
type Report struct {
	N        int
	RMSE     float64
	MAE      float64
	MaxError float64
	Bias     float64 // mean signed error, model minus market
}

// Evaluate prices every record with the model and engine and reports the
// error statistics. Records the model cannot price fail the whole run.
func Evaluate(m models.Model, engine *fourier.Engine, records []QuoteRecord) (*Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("backtest: no records")
	}

	errs := make([]float64, len(records))
	absErrs := make([]float64, len(records))
	sqErrs := make([]float64, len(records))
	maxErr := 0.0

	for i, rec := range records {
		phi, err := m.CharacteristicFunction(rec.Maturity, rec.Spot, rec.Rate, rec.Yield)
		if err != nil {
			return nil, fmt.Errorf("backtest: row %d: %w", i, err)
		}
		price, _, err := engine.Price(phi, rec.Spot, rec.Strike, rec.Maturity, rec.Rate, rec.Yield, rec.OptionType == "call")
		if err != nil {
			return nil, fmt.Errorf("backtest: row %d: %w", i, err)
		}

		e := price - rec.Price
		errs[i] = e
		absErrs[i] = math.Abs(e)
		sqErrs[i] = e * e
		if absErrs[i] > maxErr {
			maxErr = absErrs[i]
		}
	}

	return &Report{
		N:        len(records),
		RMSE:     math.Sqrt(stat.Mean(sqErrs, nil)),
		MAE:      stat.Mean(absErrs, nil),
		MaxError: maxErr,
		Bias:     stat.Mean(errs, nil),
	}, nil
}
