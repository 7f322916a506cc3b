package config

import "time"

// Config is the root configuration for the analyzer.
type Config struct {
	Provider  ProviderConfig  `yaml:"provider"`
	Tickers   []string        `yaml:"tickers"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Selection SelectionConfig `yaml:"selection"`
	Storage   StorageConfig   `yaml:"storage"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
	Server    ServerConfig    `yaml:"server"`
}

// ProviderConfig holds market-data provider (Polygon) API settings.
type ProviderConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"` // Secret; reference via ${POLYGON_API_KEY}
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// RateInterval is the minimum delay between consecutive provider calls.
	// The free tier allows 5 calls/minute; the default stays under that
	// across a whole run.
	RateInterval time.Duration `yaml:"rate_interval"`
	RateBurst    int           `yaml:"rate_burst"`
}

// DiscoveryConfig bounds the candidate-contract selection window.
type DiscoveryConfig struct {
	ContractType string `yaml:"contract_type"` // "call" or "put"

	// MaxExpirations limits candidates to the N nearest upcoming
	// expiration dates.
	MaxExpirations int `yaml:"max_expirations"`

	// StrikeWindowPct bounds candidate strikes to within this fraction of
	// the reference price on either side (near-the-money selection).
	StrikeWindowPct float64 `yaml:"strike_window_pct"`

	// PageLimit is the provider page size for contract listing.
	PageLimit int `yaml:"page_limit"`
}

// SelectionConfig controls the scorer/selector stage.
type SelectionConfig struct {
	// Ranked toggles scoring. When false the selector passes through the
	// first discovered candidate per ticker, unscored.
	Ranked bool `yaml:"ranked"`

	// TopK is how many records survive selection.
	TopK int `yaml:"top_k"`

	// PerTicker applies TopK per underlying instead of globally.
	PerTicker bool `yaml:"per_ticker"`

	// Scoring weights; non-negative. A configured zero disables that
	// dimension; a nil (absent) weight takes the default.
	LiquidityWeight *float64 `yaml:"liquidity_weight"`
	SpreadWeight    *float64 `yaml:"spread_weight"`
	MoneynessWeight *float64 `yaml:"moneyness_weight"`
}

// StorageConfig locates the batch object store.
type StorageConfig struct {
	Root   string `yaml:"root"`   // Filesystem root of the store
	Prefix string `yaml:"prefix"` // Key prefix for batch objects
}

// WarehouseConfig holds the optional Postgres analytic store.
type WarehouseConfig struct {
	Enabled bool     `yaml:"enabled"`
	DB      DBConfig `yaml:"db"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ServerConfig holds the serving API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// RecentWindow is how many recent records the query engine pools
	// before ranking for the response.
	RecentWindow int `yaml:"recent_window"`

	// TopK is how many ranked options the response carries.
	TopK int `yaml:"top_k"`

	// DataSource labels the backing engine in the response payload.
	DataSource string `yaml:"data_source"`
}
