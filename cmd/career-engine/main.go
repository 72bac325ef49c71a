package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/career-engine/internal/api"
	"github.com/terra-clan/career-engine/internal/auth"
	"github.com/terra-clan/career-engine/internal/career"
	"github.com/terra-clan/career-engine/internal/catalog"
	"github.com/terra-clan/career-engine/internal/config"
	"github.com/terra-clan/career-engine/internal/events"
	"github.com/terra-clan/career-engine/internal/health"
	"github.com/terra-clan/career-engine/internal/locks"
	"github.com/terra-clan/career-engine/internal/metrics"
	"github.com/terra-clan/career-engine/internal/progress"
	"github.com/terra-clan/career-engine/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("career-engine failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting career-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Load the career catalog
	cat, err := catalog.Load(cfg.Catalog.Dir)
	if err != nil {
		return fmt.Errorf("failed to load career catalog: %w", err)
	}

	registry := health.NewRegistry(2 * time.Second)

	// Initialize storage
	repo, err := openRepository(initCtx, cfg.Storage)
	if err != nil {
		return err
	}
	defer repo.Close()
	registry.Register("storage", health.CheckerFunc(repo.Ping))

	// Initialize per-user locking
	var locker locks.Locker = locks.NewLocalLocker()
	if cfg.Redis.Address != "" {
		redisLocker, err := locks.NewRedisLocker(initCtx, locks.RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.LockTTL,
		})
		if err != nil {
			return err
		}
		defer redisLocker.Close()
		registry.Register("redis", redisLocker)
		locker = redisLocker
		slog.Info("redis connected successfully", "address", cfg.Redis.Address)
	}

	hub := events.NewHub()
	m := metrics.New()

	service := progress.NewService(
		repo,
		career.NewEngine(cat),
		auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL),
		auth.NewHasher(cfg.Auth.BcryptCost),
		progress.WithLocker(locker),
		progress.WithPublisher(hub),
		progress.WithMetrics(m),
		progress.WithRetries(cfg.Progress.UpdateRetries),
	)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, service, hub, registry, m)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return health.NewMonitor(registry, cfg.Server.HealthInterval, m.ObserveDependency).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("career-engine stopped")
	return nil
}

// openRepository connects the configured storage driver
func openRepository(ctx context.Context, cfg config.StorageConfig) (storage.Repository, error) {
	if cfg.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage; progress is lost on restart")
		return storage.NewMemoryRepository(), nil
	}

	if cfg.Migrate {
		slog.Info("running database migrations")
		if err := storage.MigrateFromDSN(ctx, cfg.DSN); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:      cfg.DSN,
		MaxConns: int32(cfg.MaxConns),
		MinConns: int32(cfg.MinConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database repository: %w", err)
	}
	slog.Info("database connected successfully")
	return repo, nil
}
