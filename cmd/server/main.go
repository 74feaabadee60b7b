package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/instasorteo/contest-stats/internal/api"
	"github.com/instasorteo/contest-stats/internal/api/handler"
	"github.com/instasorteo/contest-stats/internal/config"
	"github.com/instasorteo/contest-stats/internal/db"
	"github.com/instasorteo/contest-stats/internal/metrics"
	"github.com/instasorteo/contest-stats/internal/ratelimiter"
	"github.com/instasorteo/contest-stats/internal/repository"
	"github.com/instasorteo/contest-stats/internal/service"
)

func main() {
	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	// ---- database ----
	if cfg.RunMigrations {
		if err := db.Migrate(cfg); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations applied")
	}

	openDB := func() (*sql.DB, error) { return db.Open(cfg) }

	// ---- metrics ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// The shared pool is created by the first statistics request, not here.
	pool := db.NewSharedPool(openDB, cfg.DBMaxConns)
	pool.OnOpen = func(conn *sql.DB) {
		m.RegisterDBStats(conn, cfg.DBName)
		logger.Info("shared database pool created", zap.Int("max_conns", cfg.DBMaxConns))
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("failed to close shared pool", zap.Error(err))
		}
	}()

	// ---- core dependencies ----
	repo := repository.NewMySQLStatsRepository(pool)
	svc := service.NewStatsService(repo, logger, m.StatsHook())
	limiter := ratelimiter.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	healthH := handler.NewHealthHandler(openDB, logger, cfg.ExposeDBErrors, m.HealthHook())
	statsH := handler.NewStatsHandler(svc, logger, cfg.ExposeDBErrors)

	// ---- HTTP server ----
	router := api.NewRouter(healthH, statsH, limiter, m, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("db_host", cfg.DBHost),
			zap.String("db_name", cfg.DBName),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped cleanly")
}
