// Package main runs the position-management engine: candidate
// selection, pre-trade validation, the tick loop with its exit rules,
// and crash-safe persistence of open positions.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"token-trader/internal/config"
	"token-trader/internal/execution"
	"token-trader/internal/logging"
	"token-trader/internal/market"
	"token-trader/internal/observability"
	"token-trader/internal/risk"
	"token-trader/internal/selector"
	"token-trader/internal/storage"
	"token-trader/internal/storage/badgerdb"
	"token-trader/internal/storage/clickhouse"
	"token-trader/internal/storage/memory"
	"token-trader/internal/storage/migrations"
	"token-trader/internal/storage/postgres"
	"token-trader/internal/strategy"
	"token-trader/internal/trader"
	"token-trader/internal/validator"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	candidatesURL := flag.String("candidates-url", "", "Discovery service base URL (required)")
	paperBalance := flag.Float64("paper-balance", 10, "Starting quote balance in paper mode")
	flag.Parse()

	bootstrap := logging.New("info", "")
	cfg := config.Load(*configPath, bootstrap)
	if err := cfg.Validate(); err != nil {
		bootstrap.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFile)

	if *candidatesURL == "" {
		log.Fatal("-candidates-url is required")
	}
	if cfg.Mode == config.ModeLive {
		log.Fatal("live mode needs an on-chain execution gateway, none is configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("shutdown signal received")
		cancel()
	}()

	// position snapshots
	snapshots, err := badgerdb.Open(cfg.Storage.SnapshotPath, log)
	if err != nil {
		log.WithError(err).Fatal("open snapshot store")
	}
	defer snapshots.Close()

	// trade ledger
	var ledger storage.LedgerStore = memory.NewLedgerStore()
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			log.WithError(err).Fatal("connect postgres")
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			log.WithError(err).Fatal("postgres migrations")
		}
		ledger = postgres.NewLedgerStore(pool)
		log.Info("ledger: postgres")
	} else {
		log.Warn("ledger: in-memory, round trips are lost on restart")
	}

	// tick history
	var ticks storage.TickStore
	if cfg.Storage.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			log.WithError(err).Fatal("clickhouse migrations")
		}
		defer conn.Close()
		ticks = clickhouse.NewTickStore(conn)
		log.Info("tick history: clickhouse")
	}

	gateway := execution.NewPaperGateway(*paperBalance)
	feed := market.NewDexClient(cfg.Feed.MarketBaseURL, log,
		market.WithDexTimeout(time.Duration(cfg.Feed.TimeoutSec)*time.Second))
	checker := risk.NewOracleClient(cfg.Feed.RiskBaseURL,
		risk.WithOracleTimeout(time.Duration(cfg.Feed.TimeoutSec)*time.Second))
	candidates := market.NewCandidateClient(*candidatesURL,
		time.Duration(cfg.Feed.TimeoutSec)*time.Second)

	cooldown := selector.NewCooldown(cfg.Cooldown())
	manager := trader.NewManager(cfg, snapshots, ledger, gateway, log)

	recovered, err := manager.Recover(ctx)
	if err != nil {
		log.WithError(err).Fatal("position recovery")
	}
	for _, pos := range manager.Positions() {
		gateway.Restore(pos.TokenAddress, pos.Amount)
	}
	log.WithField("positions", recovered).Info("recovery complete")

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry, "")
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, registry, log)
	}

	engine := trader.NewEngine(trader.Options{
		Config:     cfg,
		Manager:    manager,
		Selector:   selector.New(cfg.Selector, feed, cooldown, log),
		Validator:  validator.New(cfg.Trading, feed, checker, cooldown, log),
		Evaluator:  strategy.NewEvaluator(cfg, feed, log, strategy.WithMetrics(metrics)),
		Candidates: candidates,
		Cooldown:   cooldown,
		Ticks:      ticks,
		Metrics:    metrics,
		Logger:     log,
	})

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("engine stopped")
	}
	log.Info("engine stopped")
}

func serveMetrics(addr string, registry *prometheus.Registry, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler(registry))
	log.WithField("addr", addr).Info("metrics endpoint listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("metrics endpoint failed")
	}
}
