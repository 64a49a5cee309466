// Package main is the entry point for the Stockroom API server.
// The server fronts the shared inventory database that remote-mode clients
// talk to over HTTP with an encrypted API key header.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/stockroom/internal/auth"
	"github.com/prn-tf/stockroom/internal/cache/memory"
	"github.com/prn-tf/stockroom/internal/config"
	"github.com/prn-tf/stockroom/internal/handler"
	"github.com/prn-tf/stockroom/internal/lock"
	"github.com/prn-tf/stockroom/internal/metrics"
	"github.com/prn-tf/stockroom/internal/repository"
	"github.com/prn-tf/stockroom/internal/repository/postgres"
	"github.com/prn-tf/stockroom/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (optional)")
	flag.Parse()

	// .env is a development convenience; deployments set real environment
	// variables.
	_ = godotenv.Load()

	// Initialize logger
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.MustLoad(*configPath)
	logger := serverLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("driver", cfg.Database.Driver).
		Str("lock_backend", cfg.Lock.Backend).
		Msg("Starting Stockroom API Server")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	locker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var listCache repository.Cache
	if cfg.Cache.Enabled {
		c := memory.NewCache(cfg.Cache.CleanupInterval)
		defer c.Stop()
		listCache = c
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	authMW, err := auth.NewMiddleware(cfg.Auth, logger)
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.RouterConfig{
		InventoryHandler: handler.NewInventoryHandler(handler.InventoryHandlerConfig{
			Items:    repos.Items,
			Cache:    listCache,
			CacheTTL: cfg.Cache.TTL,
			Locker:   locker,
			LockTTL:  cfg.Lock.TTL,
			Logger:   logger,
		}),
		UserHandler:    handler.NewUserHandler(repos.Users, logger),
		AuthMiddleware: authMW.Handler,
		Metrics:        m,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// openDatabase connects the configured driver and returns its repositories
// together with the handle used for shutdown.
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Repositories, repository.DatabaseHealth, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}
		return repository.Repositories{
			Items: postgres.NewItemRepository(db),
			Users: postgres.NewUserRepository(db),
		}, db, nil

	default: // sqlite, enforced by config validation
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return repository.Repositories{}, nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg.Database), logger)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}
		return repository.Repositories{
			Items: sqlite.NewItemRepository(db),
			Users: sqlite.NewUserRepository(db),
		}, db, nil
	}
}

// sqliteConfig maps the flat database section onto the sqlite package config.
// Unset tuning fields keep the package defaults.
func sqliteConfig(cfg config.DatabaseConfig) sqlite.Config {
	sc := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		sc.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		sc.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.CacheSize != 0 {
		sc.CacheSize = cfg.CacheSize
	}
	if cfg.SynchronousMode != "" {
		sc.SynchronousMode = cfg.SynchronousMode
	}
	return sc
}

// newLocker builds the configured lock backend. The redis backend verifies
// connectivity at startup so a bad address fails fast instead of surfacing
// as 500s under load.
func newLocker(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (lock.Locker, error) {
	switch cfg.Lock.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Redis.Addr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("using redis item locks")
		return lock.NewRedisLocker(client), nil
	case "none":
		return lock.NewNoOpLocker(), nil
	default: // memory, enforced by config validation
		return lock.NewMemoryLocker(), nil
	}
}

// serverLogger builds the root logger from the logging config.
func serverLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	var w io.Writer = out
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
