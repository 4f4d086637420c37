// Package config defines the trading engine configuration and its
// documented defaults. Values come from built-in defaults, then an
// optional TOML file, then TRADER_* environment variables.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Trading modes.
const (
	ModePaper = "paper"
	ModeLive  = "live"
)

// Config is the root configuration structure.
type Config struct {
	Mode     string `toml:"mode"`      // "paper" | "live"
	LogLevel string `toml:"log_level"` // logrus level name
	LogFile  string `toml:"log_file"`  // empty = stderr only

	Trading  TradingConfig  `toml:"trading"`
	Selector SelectorConfig `toml:"selector"`
	Exits    ExitsConfig    `toml:"exits"`
	Trailing TrailingConfig `toml:"trailing"`
	Feed     FeedConfig     `toml:"feed"`
	Storage  StorageConfig  `toml:"storage"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// TradingConfig bounds capital commitment and entry validation.
type TradingConfig struct {
	PositionSizePct float64 `toml:"position_size_pct"` // % of available quote balance
	MinNotional     float64 `toml:"min_notional"`      // clamp floor, quote units
	MaxNotional     float64 `toml:"max_notional"`      // clamp ceiling, quote units
	MaxPositions    int     `toml:"max_positions"`
	MaxTradesPerDay int     `toml:"max_trades_per_day"`
	MinLiquidityUSD float64 `toml:"min_liquidity_usd"`
	MinVolume24h    float64 `toml:"min_volume_24h"`
	TickIntervalSec int     `toml:"tick_interval_sec"`
}

// SelectorConfig governs candidate ranking.
type SelectorConfig struct {
	TopK             int     `toml:"top_k"`
	CooldownMinutes  int     `toml:"cooldown_minutes"`
	TokenMaxAgeHours int     `toml:"token_max_age_hours"`
	Momentum         Weights `toml:"momentum"`
}

// Weights are the momentum component caps. The bucket cut points inside
// each component are fixed; changing a cap scales that component's awards
// proportionally. Defaults reproduce the reference strategy exactly.
type Weights struct {
	VolLiqCap      float64 `toml:"vol_liq_cap"`
	TrendCap       float64 `toml:"trend_cap"`
	BuyPressureCap float64 `toml:"buy_pressure_cap"`
	StabilityCap   float64 `toml:"stability_cap"`
}

// ExitsConfig holds stop-loss and time-exit thresholds.
type ExitsConfig struct {
	NormalStopLossPct  float64 `toml:"normal_stop_loss_pct"` // positive number, e.g. 5 = -5%
	GraceStopLossPct   float64 `toml:"grace_stop_loss_pct"`
	GracePeriodMinutes int     `toml:"grace_period_minutes"`

	StagnationHours      int     `toml:"stagnation_hours"`
	StagnationMinProfit  float64 `toml:"stagnation_min_profit"`
	LowMomentumHours     int     `toml:"low_momentum_hours"`
	LowMomentumMinProfit float64 `toml:"low_momentum_min_profit"`
	MaxHoldHours         int     `toml:"max_hold_hours"`
	EmergencyHours       int     `toml:"emergency_hours"`
}

// TrailingConfig holds the activation threshold and the tier table.
type TrailingConfig struct {
	ActivationPct float64 `toml:"activation_pct"`
	Tiers         []Tier  `toml:"tiers"`
}

// Tier maps a profit bracket [MinProfit, MaxProfit) to a trailing
// distance below the peak price.
type Tier struct {
	MinProfit   float64 `toml:"min_profit"`
	MaxProfit   float64 `toml:"max_profit"`
	DistancePct float64 `toml:"distance_pct"`
}

// FeedConfig holds market/risk provider endpoints and retry bounds.
type FeedConfig struct {
	MarketBaseURL   string `toml:"market_base_url"`
	RiskBaseURL     string `toml:"risk_base_url"`
	TimeoutSec      int    `toml:"timeout_sec"`
	PriceRetries    int    `toml:"price_retries"`
	RetryBackoffSec int    `toml:"retry_backoff_sec"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	SnapshotPath  string `toml:"snapshot_path"`  // badger directory for position snapshots
	PostgresDSN   string `toml:"postgres_dsn"`   // ledger; empty = in-memory ledger
	ClickhouseDSN string `toml:"clickhouse_dsn"` // tick history; empty = disabled
}

// MetricsConfig holds the Prometheus listen address.
type MetricsConfig struct {
	Addr string `toml:"addr"` // empty = metrics endpoint disabled
}

// Defaults returns the documented default configuration. The strategy
// numbers are deliberately identical to the reference strategy.
func Defaults() Config {
	return Config{
		Mode:     ModePaper,
		LogLevel: "info",

		Trading: TradingConfig{
			PositionSizePct: 15,
			MinNotional:     0.05,
			MaxNotional:     2.0,
			MaxPositions:    2,
			MaxTradesPerDay: 3,
			MinLiquidityUSD: 30000,
			MinVolume24h:    50000,
			TickIntervalSec: 1,
		},
		Selector: SelectorConfig{
			TopK:             5,
			CooldownMinutes:  30,
			TokenMaxAgeHours: 12,
			Momentum: Weights{
				VolLiqCap:      30,
				TrendCap:       30,
				BuyPressureCap: 25,
				StabilityCap:   15,
			},
		},
		Exits: ExitsConfig{
			NormalStopLossPct:    5,
			GraceStopLossPct:     35,
			GracePeriodMinutes:   3,
			StagnationHours:      24,
			StagnationMinProfit:  5,
			LowMomentumHours:     48,
			LowMomentumMinProfit: 20,
			MaxHoldHours:         72,
			EmergencyHours:       120,
		},
		Trailing: TrailingConfig{
			ActivationPct: 12,
			Tiers: []Tier{
				{MinProfit: 12, MaxProfit: 30, DistancePct: 3},
				{MinProfit: 30, MaxProfit: 100, DistancePct: 5},
				{MinProfit: 100, MaxProfit: 300, DistancePct: 10},
				{MinProfit: 300, MaxProfit: 99999, DistancePct: 30},
			},
		},
		Feed: FeedConfig{
			MarketBaseURL:   "https://api.dexscreener.com",
			RiskBaseURL:     "https://api.honeypot.is",
			TimeoutSec:      8,
			PriceRetries:    3,
			RetryBackoffSec: 2,
		},
		Storage: StorageConfig{
			SnapshotPath: "data/positions",
		},
		Metrics: MetricsConfig{
			Addr: ":9101",
		},
	}
}

// TickInterval returns the poll interval as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Trading.TickIntervalSec) * time.Second
}

// Cooldown returns the rejection cooldown window as a duration.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Selector.CooldownMinutes) * time.Minute
}

// GracePeriod returns the post-entry grace window as a duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.Exits.GracePeriodMinutes) * time.Minute
}

// Validate checks the configuration and normalizes the tier table.
// It is called once at startup; a validation error is fatal.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case ModePaper, ModeLive:
		c.Mode = strings.ToLower(c.Mode)
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModePaper, ModeLive, c.Mode)
	}

	if c.Trading.PositionSizePct <= 0 || c.Trading.PositionSizePct > 100 {
		return fmt.Errorf("position_size_pct must be in (0, 100], got %v", c.Trading.PositionSizePct)
	}
	if c.Trading.MaxPositions <= 0 {
		return fmt.Errorf("max_positions must be positive, got %d", c.Trading.MaxPositions)
	}
	if c.Trading.MaxTradesPerDay <= 0 {
		return fmt.Errorf("max_trades_per_day must be positive, got %d", c.Trading.MaxTradesPerDay)
	}
	if c.Trading.TickIntervalSec <= 0 {
		return fmt.Errorf("tick_interval_sec must be positive, got %d", c.Trading.TickIntervalSec)
	}
	if c.Exits.NormalStopLossPct <= 0 || c.Exits.GraceStopLossPct <= 0 {
		return fmt.Errorf("stop loss percentages must be positive")
	}
	if !(c.Exits.StagnationHours < c.Exits.LowMomentumHours &&
		c.Exits.LowMomentumHours < c.Exits.MaxHoldHours &&
		c.Exits.MaxHoldHours < c.Exits.EmergencyHours) {
		return fmt.Errorf("time exit thresholds must be strictly increasing: %d, %d, %d, %d",
			c.Exits.StagnationHours, c.Exits.LowMomentumHours,
			c.Exits.MaxHoldHours, c.Exits.EmergencyHours)
	}
	if c.Trailing.ActivationPct <= 0 {
		return fmt.Errorf("trailing activation_pct must be positive, got %v", c.Trailing.ActivationPct)
	}
	if len(c.Trailing.Tiers) == 0 {
		return fmt.Errorf("trailing tier table must not be empty")
	}

	sort.Slice(c.Trailing.Tiers, func(i, j int) bool {
		return c.Trailing.Tiers[i].MinProfit < c.Trailing.Tiers[j].MinProfit
	})
	for i, tier := range c.Trailing.Tiers {
		if tier.MinProfit >= tier.MaxProfit {
			return fmt.Errorf("tier %d: min_profit %v must be below max_profit %v",
				i+1, tier.MinProfit, tier.MaxProfit)
		}
		if tier.DistancePct <= 0 || tier.DistancePct >= 100 {
			return fmt.Errorf("tier %d: distance_pct must be in (0, 100), got %v",
				i+1, tier.DistancePct)
		}
	}

	if c.Feed.PriceRetries < 0 || c.Feed.PriceRetries > 10 {
		return fmt.Errorf("price_retries must be in [0, 10], got %d", c.Feed.PriceRetries)
	}
	return nil
}
