package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/cityshare-api/internal/api"
	"github.com/alexivanou/cityshare-api/internal/auth"
	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/repository"
	"github.com/alexivanou/cityshare-api/internal/scheduler"
	"github.com/alexivanou/cityshare-api/internal/service"
	"github.com/alexivanou/cityshare-api/internal/stats"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.NewSchemaEnsurer(db, cfg.DB, logger).EnsureAll(ctx); err != nil {
		logger.Fatal("Failed to verify schema", zap.Error(err))
	}

	cache, err := querycache.NewFromConfig(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to initialize query cache", zap.Error(err))
	}
	logger.Info("Query cache ready", zap.String("type", string(cfg.Cache.Type)))

	clock := clockwork.NewRealClock()
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, clock)
	if err != nil {
		logger.Fatal("Failed to initialize session tokens", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB)
	svc := service.NewService(service.Options{
		Repos:     repos,
		Cache:     cache,
		CacheTTL:  cfg.Cache,
		Passwords: auth.NewPasswordService(cfg.Auth.BcryptCost),
		Tokens:    tokens,
		Clock:     clock,
		Logger:    logger,
	})

	health := database.NewHealthChecker(db, cfg.DB.QueryTimeout, database.DefaultReconnectPolicy, clock, logger)
	if err := health.Check(ctx); err != nil {
		logger.Warn("Initial database health check failed", zap.Error(err))
	}

	jobs, err := scheduler.New(clock, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	if err := jobs.AddJob("db-health", "Database health check", cfg.Scheduler.HealthCheckInterval, health.Check); err != nil {
		logger.Fatal("Failed to schedule health check", zap.Error(err))
	}
	if err := jobs.AddOneShot("cache-warm", "Warm query cache", cfg.Scheduler.CacheWarmDelay, svc.WarmCache); err != nil {
		logger.Fatal("Failed to schedule cache warm-up", zap.Error(err))
	}
	jobs.Start()

	router := api.NewRouter(svc, api.RouterConfig{
		Health: health,
		Stats:  stats.NewCollector(db, cfg.DB, cache, health),
		Cookie: api.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		},
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(); err != nil {
		logger.Error("Failed to stop scheduler", zap.Error(err))
	}

	logger.Info("Server exited")
}
