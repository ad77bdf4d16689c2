package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	grpclib "google.golang.org/grpc"

	"github.com/simaogato/wealthflow-sim/internal/adapter/cache"
	grpcadapter "github.com/simaogato/wealthflow-sim/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-sim/internal/adapter/repository/memory"
	"github.com/simaogato/wealthflow-sim/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-sim/internal/domain"
	"github.com/simaogato/wealthflow-sim/internal/platform/config"
	"github.com/simaogato/wealthflow-sim/internal/platform/logger"
	"github.com/simaogato/wealthflow-sim/internal/platform/metrics"
	"github.com/simaogato/wealthflow-sim/internal/usecase/comparison"
	"github.com/simaogato/wealthflow-sim/internal/usecase/projection"
	"github.com/simaogato/wealthflow-sim/internal/usecase/seeder"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wealthsim server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, logCloser, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	ctx := context.Background()

	// 2. Repositories
	scenarioRepo, snapshotRepo, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	// 3. Result cache
	resultCache, closeCache, err := openCache(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeCache.Close()

	// 4. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// 5. Services
	assumptions, err := cfg.Simulation.Assumptions()
	if err != nil {
		return fmt.Errorf("invalid simulation defaults: %w", err)
	}
	projectionService := projection.NewProjectionService(scenarioRepo, snapshotRepo, assumptions, resultCache, m, log)
	comparisonService := comparison.NewComparisonService(scenarioRepo, snapshotRepo)

	if err := seeder.NewPresetSeeder(scenarioRepo).Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed preset scenarios: %w", err)
	}
	log.Info("preset scenarios seeded", "count", len(seeder.Presets()))

	// 6. gRPC server
	interceptors := []grpclib.UnaryServerInterceptor{grpcadapter.LoggingInterceptor(log, m)}
	if cfg.Auth.Token != "" {
		interceptors = append(interceptors, grpcadapter.AuthInterceptor(cfg.Auth.Token))
	} else {
		log.Warn("auth.token is empty, gRPC requests are not authenticated")
	}
	grpcServer := grpclib.NewServer(grpclib.ChainUnaryInterceptor(interceptors...))
	grpcadapter.RegisterProjectionServiceServer(grpcServer, grpcadapter.NewServer(projectionService, comparisonService))

	addr := fmt.Sprintf(":%d", cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, registry, log)
		metricsServer.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("gRPC server listening", "addr", addr)
		serveErr <- grpcServer.Serve(lis)
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		log.Info("shutting down gracefully", "signal", sig.String())
	case err := <-serveErr:
		return fmt.Errorf("failed to serve gRPC: %w", err)
	}

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}

	return nil
}

// openStore connects to PostgreSQL when a DSN is configured and falls back to memory
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (domain.ScenarioRepository, domain.SnapshotRepository, io.Closer, error) {
	if cfg.DSN == "" {
		log.Info("using in-memory repositories")
		return memory.NewScenarioRepository(), memory.NewSnapshotRepository(), nopCloser{}, nil
	}

	db, err := postgres.NewDB(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Migrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
	}

	log.Info("using PostgreSQL repositories")
	return postgres.NewScenarioRepository(db), postgres.NewSnapshotRepository(db), db, nil
}

// openCache connects to Redis when an address is configured and falls back to memory
func openCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (domain.ResultCache, io.Closer, error) {
	if cfg.Addr == "" {
		log.Info("using in-memory result cache")
		return cache.NewMemoryCache(), nopCloser{}, nil
	}

	rc := cache.NewRedisCache(cfg.Addr, cfg.TTL)
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("using redis result cache", "addr", cfg.Addr, "ttl", cfg.TTL.String())
	return rc, rc, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
