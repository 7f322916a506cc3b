package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "https://api.polygon.io"
	DefaultAPITimeout   = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 1 * time.Second

	// 13s keeps a full sequential run under the free tier's 5 calls/minute.
	DefaultRateInterval = 13 * time.Second
	DefaultRateBurst    = 1

	DefaultContractType    = "call"
	DefaultMaxExpirations  = 2
	DefaultStrikeWindowPct = 0.10
	DefaultPageLimit       = 1000

	DefaultTopK            = 3
	DefaultLiquidityWeight = 1.0
	DefaultSpreadWeight    = 1.0
	DefaultMoneynessWeight = 1.0

	DefaultStorageRoot   = "data"
	DefaultStoragePrefix = "magnificent-seven-options"

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultServerAddr   = ":8080"
	DefaultRecentWindow = 7
	DefaultServerTopK   = 3
	DefaultDataSource   = "batch-store"
)

// DefaultTickers is the tracked "magnificent seven" universe.
var DefaultTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"}

func (c *Config) applyDefaults() {
	// Provider defaults
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultBaseURL
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultAPITimeout
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}
	if c.Provider.RetryBackoff == 0 {
		c.Provider.RetryBackoff = DefaultRetryBackoff
	}
	if c.Provider.RateInterval == 0 {
		c.Provider.RateInterval = DefaultRateInterval
	}
	if c.Provider.RateBurst == 0 {
		c.Provider.RateBurst = DefaultRateBurst
	}

	// Universe defaults
	if len(c.Tickers) == 0 {
		c.Tickers = append([]string(nil), DefaultTickers...)
	}

	// Discovery defaults
	if c.Discovery.ContractType == "" {
		c.Discovery.ContractType = DefaultContractType
	}
	if c.Discovery.MaxExpirations == 0 {
		c.Discovery.MaxExpirations = DefaultMaxExpirations
	}
	if c.Discovery.StrikeWindowPct == 0 {
		c.Discovery.StrikeWindowPct = DefaultStrikeWindowPct
	}
	if c.Discovery.PageLimit == 0 {
		c.Discovery.PageLimit = DefaultPageLimit
	}

	// Selection defaults
	if c.Selection.TopK == 0 {
		c.Selection.TopK = DefaultTopK
	}
	if c.Selection.LiquidityWeight == nil {
		c.Selection.LiquidityWeight = weight(DefaultLiquidityWeight)
	}
	if c.Selection.SpreadWeight == nil {
		c.Selection.SpreadWeight = weight(DefaultSpreadWeight)
	}
	if c.Selection.MoneynessWeight == nil {
		c.Selection.MoneynessWeight = weight(DefaultMoneynessWeight)
	}

	// Storage defaults
	if c.Storage.Root == "" {
		c.Storage.Root = DefaultStorageRoot
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = DefaultStoragePrefix
	}

	// Warehouse defaults
	if c.Warehouse.Enabled {
		applyDBDefaults(&c.Warehouse.DB)
	}

	// Server defaults
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.RecentWindow == 0 {
		c.Server.RecentWindow = DefaultRecentWindow
	}
	if c.Server.TopK == 0 {
		c.Server.TopK = DefaultServerTopK
	}
	if c.Server.DataSource == "" {
		c.Server.DataSource = DefaultDataSource
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func weight(v float64) *float64 { return &v }
