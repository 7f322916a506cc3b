package api

// AggsResponse from GET /v2/aggs/ticker/{ticker}/prev
type AggsResponse struct {
	Ticker       string   `json:"ticker"`
	QueryCount   int      `json:"queryCount"`
	ResultsCount int      `json:"resultsCount"`
	Adjusted     bool     `json:"adjusted"`
	Results      []AggBar `json:"results"`
	Status       string   `json:"status"`
	RequestID    string   `json:"request_id"`
}

// AggBar is a single aggregate bar. Field keys follow Polygon's compact
// aggregate encoding.
type AggBar struct {
	Ticker    string   `json:"T"`
	Open      float64  `json:"o"`
	High      float64  `json:"h"`
	Low       float64  `json:"l"`
	Close     float64  `json:"c"`
	Volume    float64  `json:"v"`
	VWAP      *float64 `json:"vw,omitempty"`
	Timestamp int64    `json:"t"` // ms since epoch
	Trades    int      `json:"n"`
}

// ContractsResponse from GET /v3/reference/options/contracts
type ContractsResponse struct {
	Results   []APIContract `json:"results"`
	Status    string        `json:"status"`
	RequestID string        `json:"request_id"`
	NextURL   string        `json:"next_url"`
}

// APIContract represents an option contract from the reference endpoint.
type APIContract struct {
	Ticker            string  `json:"ticker"`
	UnderlyingTicker  string  `json:"underlying_ticker"`
	ContractType      string  `json:"contract_type"`
	ExerciseStyle     string  `json:"exercise_style"`
	ExpirationDate    string  `json:"expiration_date"`
	StrikePrice       float64 `json:"strike_price"`
	SharesPerContract int     `json:"shares_per_contract"`
	PrimaryExchange   string  `json:"primary_exchange"`
}

// LastTradeResponse from GET /v2/last/trade/{ticker}
type LastTradeResponse struct {
	Results   *APITrade `json:"results"`
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
}

// APITrade is the last executed trade for a ticker.
type APITrade struct {
	Ticker    string  `json:"T"`
	Price     float64 `json:"p"`
	Size      float64 `json:"s"`
	Timestamp int64   `json:"t"` // ns since epoch (SIP)
	Exchange  int     `json:"x"`
}

// QuotesResponse from GET /v3/quotes/{ticker}
type QuotesResponse struct {
	Results   []APIQuote `json:"results"`
	Status    string     `json:"status"`
	RequestID string     `json:"request_id"`
	NextURL   string     `json:"next_url"`
}

// APIQuote is one NBBO quote observation.
type APIQuote struct {
	BidPrice     float64 `json:"bid_price"`
	BidSize      float64 `json:"bid_size"`
	AskPrice     float64 `json:"ask_price"`
	AskSize      float64 `json:"ask_size"`
	SIPTimestamp int64   `json:"sip_timestamp"` // ns since epoch
}

// GetContractsOptions configures a contract listing request.
type GetContractsOptions struct {
	UnderlyingTicker string
	ContractType     string // "call" or "put"
	ExpirationGTE    string // ISO date, inclusive lower bound
	ExpirationLTE    string // ISO date, inclusive upper bound
	Limit            int
	Cursor           string
}
