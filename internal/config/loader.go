package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load builds the effective configuration: defaults, then an optional
// TOML file, then TRADER_* environment variables. A missing or broken
// config file is not fatal; the engine falls back to the documented
// defaults and says so.
func Load(path string, log *logrus.Logger) *Config {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if os.IsNotExist(err) {
				log.WithField("path", path).Warn("config file not found, using defaults")
			} else {
				log.WithField("path", path).WithError(err).Warn("config file unreadable, using defaults")
			}
			cfg = Defaults()
		}
	}

	// .env is optional and never overrides variables already exported.
	_ = godotenv.Load()

	applyEnv(&cfg)
	return &cfg
}

func applyEnv(cfg *Config) {
	envStr("TRADER_MODE", &cfg.Mode)
	envStr("TRADER_LOG_LEVEL", &cfg.LogLevel)
	envStr("TRADER_LOG_FILE", &cfg.LogFile)

	envFloat("TRADER_POSITION_SIZE_PCT", &cfg.Trading.PositionSizePct)
	envFloat("TRADER_MIN_NOTIONAL", &cfg.Trading.MinNotional)
	envFloat("TRADER_MAX_NOTIONAL", &cfg.Trading.MaxNotional)
	envInt("TRADER_MAX_POSITIONS", &cfg.Trading.MaxPositions)
	envInt("TRADER_MAX_TRADES_PER_DAY", &cfg.Trading.MaxTradesPerDay)
	envFloat("TRADER_MIN_LIQUIDITY_USD", &cfg.Trading.MinLiquidityUSD)
	envFloat("TRADER_MIN_VOLUME_24H", &cfg.Trading.MinVolume24h)
	envInt("TRADER_TICK_INTERVAL_SEC", &cfg.Trading.TickIntervalSec)

	envInt("TRADER_TOP_K", &cfg.Selector.TopK)
	envInt("TRADER_COOLDOWN_MINUTES", &cfg.Selector.CooldownMinutes)
	envInt("TRADER_TOKEN_MAX_AGE_HOURS", &cfg.Selector.TokenMaxAgeHours)

	envFloat("TRADER_NORMAL_STOP_LOSS_PCT", &cfg.Exits.NormalStopLossPct)
	envFloat("TRADER_GRACE_STOP_LOSS_PCT", &cfg.Exits.GraceStopLossPct)
	envInt("TRADER_GRACE_PERIOD_MINUTES", &cfg.Exits.GracePeriodMinutes)
	envInt("TRADER_STAGNATION_HOURS", &cfg.Exits.StagnationHours)
	envFloat("TRADER_STAGNATION_MIN_PROFIT", &cfg.Exits.StagnationMinProfit)
	envInt("TRADER_LOW_MOMENTUM_HOURS", &cfg.Exits.LowMomentumHours)
	envFloat("TRADER_LOW_MOMENTUM_MIN_PROFIT", &cfg.Exits.LowMomentumMinProfit)
	envInt("TRADER_MAX_HOLD_HOURS", &cfg.Exits.MaxHoldHours)
	envInt("TRADER_EMERGENCY_HOURS", &cfg.Exits.EmergencyHours)

	envFloat("TRADER_TRAILING_ACTIVATION_PCT", &cfg.Trailing.ActivationPct)

	envStr("TRADER_MARKET_BASE_URL", &cfg.Feed.MarketBaseURL)
	envStr("TRADER_RISK_BASE_URL", &cfg.Feed.RiskBaseURL)
	envInt("TRADER_FEED_TIMEOUT_SEC", &cfg.Feed.TimeoutSec)
	envInt("TRADER_PRICE_RETRIES", &cfg.Feed.PriceRetries)
	envInt("TRADER_RETRY_BACKOFF_SEC", &cfg.Feed.RetryBackoffSec)

	envStr("TRADER_SNAPSHOT_PATH", &cfg.Storage.SnapshotPath)
	envStr("TRADER_POSTGRES_DSN", &cfg.Storage.PostgresDSN)
	envStr("TRADER_CLICKHOUSE_DSN", &cfg.Storage.ClickhouseDSN)

	envStr("TRADER_METRICS_ADDR", &cfg.Metrics.Addr)
}

func envStr(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
