// Package main runs the P&L projection service:
// - HTTP API serving projections to the dashboard
// - optional live fill ingestion keeping the local trade history current
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pnl-projection-service/internal/cache"
	"pnl-projection-service/internal/config"
	"pnl-projection-service/internal/history"
	"pnl-projection-service/internal/ingestion"
	"pnl-projection-service/internal/logging"
	"pnl-projection-service/internal/projection"
	"pnl-projection-service/internal/server"
	"pnl-projection-service/internal/simulation"
	"pnl-projection-service/internal/storage"
	chstore "pnl-projection-service/internal/storage/clickhouse"
	"pnl-projection-service/internal/storage/memory"
	"pnl-projection-service/internal/storage/migrations"
	pgstore "pnl-projection-service/internal/storage/postgres"
)

// stores holds the two persistence backends behind their interfaces.
type stores struct {
	trades    storage.TradeRecordStore
	snapshots storage.ProjectionSnapshotStore
	backend   string
}

func main() {
	cfg := config.Load()

	// Flags override environment values.
	listenAddr := flag.String("listen-addr", cfg.ListenAddr, "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", cfg.ClickhouseDSN, "ClickHouse connection string")
	redisAddr := flag.String("redis-addr", cfg.RedisAddr, "Redis address for the result cache (empty = in-process cache)")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	platformURL := flag.String("platform-url", cfg.PlatformBaseURL, "Trading platform API base URL (empty = synthetic history)")
	platformWSURL := flag.String("platform-ws-url", cfg.PlatformWSURL, "Trading platform fill stream WebSocket URL (empty = no live ingestion)")
	lookbackDays := flag.Int("lookback-days", cfg.LookbackDays, "Trade history window for parameter estimation, in days")
	cacheTTL := flag.Duration("cache-ttl", cfg.CacheTTL, "Lifetime of cached projections")
	workers := flag.Int("workers", cfg.SimulationWorkers, "Simulation worker pool size")
	simTimeout := flag.Duration("sim-timeout", cfg.SimulationTimeout, "Deadline for one simulation run")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	flag.Parse()

	logger := logging.NewLogger(*logLevel)
	defer logger.Sync()

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("-postgres-dsn and -clickhouse-dsn are required (use -use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatal("failed to create stores", zap.Error(err))
	}
	defer cleanup()

	resultCache, err := createCache(ctx, *redisAddr)
	if err != nil {
		logger.Fatal("failed to create result cache", zap.Error(err))
	}

	var platform history.Source
	if *platformURL != "" {
		platform = history.NewPlatformSource(history.PlatformOptions{BaseURL: *platformURL})
	}
	provider := history.NewProvider(history.ProviderOptions{
		Platform: platform,
		Store:    st.trades,
		Logger:   logger,
	})

	svc, err := projection.NewService(projection.ServiceOptions{
		Trades:       provider,
		Cache:        resultCache,
		Snapshots:    st.snapshots,
		Engine:       simulation.NewEngine(simulation.EngineOptions{Workers: *workers}),
		TTL:          *cacheTTL,
		LookbackDays: *lookbackDays,
		Timeout:      *simTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("failed to create projection service", zap.Error(err))
	}

	srv, err := server.NewServer(server.Options{
		Projections: svc,
		ListenAddr:  *listenAddr,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create http server", zap.Error(err))
	}
	srv.UpdateStatus("cache", resultCache.Name())
	srv.UpdateStatus("store", st.backend)
	srv.UpdateStatus("feed", "disabled")

	// Live fill ingestion runs only when a fill stream is configured.
	g, gctx := errgroup.WithContext(ctx)
	var feed *ingestion.FillFeed
	if *platformWSURL != "" {
		feed, err = ingestion.NewFillFeed(ctx, *platformWSURL, nil, logger)
		if err != nil {
			logger.Fatal("failed to connect fill feed", zap.Error(err))
		}
		runner, err := ingestion.NewRunner(ingestion.RunnerOptions{
			Feed:   feed,
			Store:  st.trades,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create ingestion runner", zap.Error(err))
		}
		g.Go(func() error {
			return runner.Run(gctx)
		})
		srv.UpdateStatus("feed", "connected")
		logger.Info("live fill ingestion started", zap.String("endpoint", *platformWSURL))
	}

	srv.Start()
	logger.Info("projection service started",
		zap.String("listenAddr", *listenAddr),
		zap.String("store", st.backend),
		zap.String("cache", resultCache.Name()),
	)

	// Handle shutdown signals.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
	case <-gctx.Done():
		logger.Error("background worker failed, shutting down")
	}
	cancel()

	// A second signal or a stalled shutdown forces exit.
	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("received second signal, forcing immediate shutdown", zap.String("signal", sig.String()))
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Warn("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		}
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if feed != nil {
		feed.Close()
	}
	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("ingestion stopped with error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// createStores builds the trade and snapshot stores, applying migrations
// for the database-backed pair.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		return &stores{
			trades:    memory.NewTradeRecordStore(),
			snapshots: memory.NewProjectionSnapshotStore(),
			backend:   "memory",
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	st := &stores{
		trades:    pgstore.NewTradeRecordStore(pool),
		snapshots: chstore.NewProjectionSnapshotStore(chConn),
		backend:   "postgres+clickhouse",
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return st, cleanup, nil
}

// createCache picks Redis when an address is configured, the in-process
// cache otherwise.
func createCache(ctx context.Context, redisAddr string) (cache.ResultCache, error) {
	if redisAddr == "" {
		return cache.NewMemory(cache.MemoryOptions{}), nil
	}
	return cache.NewRedis(ctx, cache.RedisOptions{Addr: redisAddr})
}
