package marketdata

// QuoteHistory is the Tradier daily-bar history payload.
type QuoteHistory struct {
	History struct {
		Day []struct {
			Date   string  `json:"date"`
			Open   float64 `json:"open"`
			High   float64 `json:"high"`
			Low    float64 `json:"low"`
			Close  float64 `json:"close"`
			Volume int     `json:"volume"`
		} `json:"day"`
	} `json:"history"`
}

// OptionExpirations is the Tradier expirations payload.
type OptionExpirations struct {
	Expirations struct {
		Expiration []struct {
			Date         string `json:"date"`
			ContractSize int    `json:"contract_size"`
			Strikes      struct {
				Strike []float64 `json:"strike"`
			} `json:"strikes"`
		} `json:"expiration"`
	} `json:"expirations"`
}

// Option is a single contract in a Tradier chain. Fields the pricers never
// touch are dropped.
type Option struct {
	Symbol         string  `json:"symbol"`
	Underlying     string  `json:"underlying"`
	Strike         float64 `json:"strike"`
	Bid            float64 `json:"bid"`
	Ask            float64 `json:"ask"`
	Volume         int     `json:"volume"`
	OpenInterest   int     `json:"open_interest"`
	ExpirationDate string  `json:"expiration_date"`
	OptionType     string  `json:"option_type"`
	Greeks         struct {
		Delta  float64 `json:"delta"`
		Gamma  float64 `json:"gamma"`
		Theta  float64 `json:"theta"`
		Vega   float64 `json:"vega"`
		Rho    float64 `json:"rho"`
		MidIv  float64 `json:"mid_iv"`
		SmvVol float64 `json:"smv_vol"`
	} `json:"greeks"`
}

// OptionChain is one expiration's contracts.
type OptionChain struct {
	Options struct {
		Option []Option `json:"option"`
	} `json:"options"`
}
