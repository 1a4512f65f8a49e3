// Package marketdata fetches the inputs the pricers need from outside:
// underlying price history and option chains from the Tradier markets API,
// and the risk-free rate from FRED.
package marketdata

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/xhhuango/json"

	"github.com/jbickel/fourprice/calibration"
)

const (
	tradierBase = "https://api.tradier.com/v1"
	fredBase    = "https://api.stlouisfed.org/fred/series/observations"

	// FRED series for the 3-month Treasury bill secondary market rate.
	riskFreeSeries = "DTB3"
)

// Client talks to the Tradier markets API.
type Client struct {
	Token string
	HTTP  *http.Client
}

func NewClient(token string) *Client {
	return &Client{Token: token, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

func (c *Client) get(rawURL string, out interface{}) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("marketdata: bad url: %w", err)
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("marketdata: %w", err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	req.Header.Add("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("marketdata: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("marketdata: failed to read response data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("marketdata: %s returned %s", u.Host, resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("marketdata: failed to unmarshal response data: %w", err)
	}
	return nil
}

// History fetches daily bars for symbol between start and end (2006-01-02).
func (c *Client) History(symbol, start, end string) (*QuoteHistory, error) {
	apiURL := fmt.Sprintf("%s/markets/history?symbol=%s&interval=daily&start=%s&end=%s&session_filter=all",
		tradierBase, symbol, start, end)

	history := &QuoteHistory{}
	if err := c.get(apiURL, history); err != nil {
		return nil, err
	}
	return history, nil
}

// LastClose returns the most recent closing price in a history.
func (h *QuoteHistory) LastClose() (float64, error) {
	days := h.History.Day
	if len(days) == 0 {
		return 0, fmt.Errorf("marketdata: empty price history")
	}
	return days[len(days)-1].Close, nil
}

// OptionChains fetches the option chain of every expiration between minDTE
// and maxDTE days out, keyed by expiration date.
func (c *Client) OptionChains(symbol string, minDTE, maxDTE int) (map[string]*OptionChain, error) {
	expURL := fmt.Sprintf("%s/markets/options/expirations?symbol=%s&includeAllRoots=true&strikes=true",
		tradierBase, symbol)

	expirations := &OptionExpirations{}
	if err := c.get(expURL, expirations); err != nil {
		return nil, err
	}

	chains := make(map[string]*OptionChain)
	today := time.Now()

	for _, expiration := range expirations.Expirations.Expiration {
		expirationTime, err := time.Parse("2006-01-02", expiration.Date)
		if err != nil {
			return nil, fmt.Errorf("marketdata: failed to parse expiration date: %w", err)
		}

		dte := int(expirationTime.Sub(today).Hours() / 24)
		if dte < minDTE || dte > maxDTE {
			continue
		}

		chainURL := fmt.Sprintf("%s/markets/options/chains?symbol=%s&expiration=%s&greeks=true",
			tradierBase, symbol, expiration.Date)

		chain := &OptionChain{}
		if err := c.get(chainURL, chain); err != nil {
			return nil, err
		}
		chains[expiration.Date] = chain
	}

	return chains, nil
}

// CalibrationQuotes flattens option chains into calibration quotes, using
// mid prices and skipping contracts with a crossed or empty market.
func CalibrationQuotes(chains map[string]*OptionChain, now time.Time) ([]calibration.Quote, error) {
	var quotes []calibration.Quote
	for expDate, chain := range chains {
		expirationTime, err := time.Parse("2006-01-02", expDate)
		if err != nil {
			return nil, fmt.Errorf("marketdata: failed to parse expiration date: %w", err)
		}
		maturity := expirationTime.Sub(now).Hours() / 24 / 365

		for _, opt := range chain.Options.Option {
			if opt.Bid <= 0 || opt.Ask < opt.Bid {
				continue
			}
			quotes = append(quotes, calibration.Quote{
				Strike:   opt.Strike,
				Maturity: maturity,
				Price:    (opt.Bid + opt.Ask) / 2,
				IsCall:   opt.OptionType == "call",
			})
		}
	}
	return quotes, nil
}

// RiskFreeRate fetches the latest 3-month T-bill rate from FRED, as a
// decimal. apiKey is the FRED API key.
func RiskFreeRate(apiKey string) (float64, error) {
	apiURL := fmt.Sprintf("%s?series_id=%s&api_key=%s&file_type=json&sort_order=desc&limit=10",
		fredBase, riskFreeSeries, apiKey)

	client := &Client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	observations := &fredObservations{}
	if err := client.get(apiURL, observations); err != nil {
		return 0, err
	}

	// FRED reports missing days as ".", so take the first parseable value.
	for _, obs := range observations.Observations {
		rate, err := strconv.ParseFloat(obs.Value, 64)
		if err == nil {
			return rate / 100, nil
		}
	}
	return 0, fmt.Errorf("marketdata: no usable observations for %s", riskFreeSeries)
}

type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}
