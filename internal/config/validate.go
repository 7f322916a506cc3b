package config

import (
	"errors"
	"fmt"
	"time"
)

// freeTierMinInterval is the provider's published free-tier limit of
// 5 calls/minute expressed as a minimum inter-call delay.
const freeTierMinInterval = 12 * time.Second

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return errors.New("provider.api_key is required")
	}
	if c.Provider.MaxRetries < 0 {
		return errors.New("provider.max_retries must be >= 0")
	}
	if c.Provider.RateInterval < freeTierMinInterval {
		return fmt.Errorf("provider.rate_interval must be >= %s to stay under 5 calls/minute, got %s",
			freeTierMinInterval, c.Provider.RateInterval)
	}

	if len(c.Tickers) == 0 {
		return errors.New("tickers must not be empty")
	}

	if c.Discovery.ContractType != "call" && c.Discovery.ContractType != "put" {
		return fmt.Errorf("discovery.contract_type must be \"call\" or \"put\", got %q", c.Discovery.ContractType)
	}
	if c.Discovery.MaxExpirations < 1 {
		return errors.New("discovery.max_expirations must be >= 1")
	}
	if c.Discovery.StrikeWindowPct <= 0 || c.Discovery.StrikeWindowPct > 1 {
		return fmt.Errorf("discovery.strike_window_pct must be in (0, 1], got %v", c.Discovery.StrikeWindowPct)
	}

	if c.Selection.TopK < 1 {
		return errors.New("selection.top_k must be >= 1")
	}
	for _, w := range []*float64{c.Selection.LiquidityWeight, c.Selection.SpreadWeight, c.Selection.MoneynessWeight} {
		if w != nil && *w < 0 {
			return errors.New("selection weights must be >= 0")
		}
	}

	if c.Storage.Root == "" {
		return errors.New("storage.root is required")
	}

	if c.Warehouse.Enabled {
		if err := c.Warehouse.DB.validate("warehouse.db"); err != nil {
			return err
		}
	}

	if c.Server.RecentWindow < 1 {
		return errors.New("server.recent_window must be >= 1")
	}
	if c.Server.TopK < 1 {
		return errors.New("server.top_k must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
