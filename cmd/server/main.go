package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsroom-api/internal/api"
	"github.com/newsroom-api/internal/auth"
	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/database"
	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/ogimage"
	"github.com/newsroom-api/internal/repository"
	"github.com/newsroom-api/internal/service"
	"github.com/newsroom-api/internal/social"
	"github.com/newsroom-api/internal/startup"
	"github.com/newsroom-api/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	startedAt := time.Now()

	// Initialize logger
	log := logger.New()
	log.Info().Str("version", version).Msg("Starting newsroom API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithLevel(cfg.Log.Level, cfg.Log.Format == "pretty")
	report := startup.NewBuilder(version, startedAt)

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	state, err := db.RunMigrations(cfg.Server.MigrationsPath)
	report.Migrations(state, err)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	report.Check("database", db.HealthCheck(pingCtx))
	cancel()

	m := metrics.New()

	// Optional image validation cache
	var cache ogimage.Cache = ogimage.NopCache{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, image validation cache disabled")
			report.Cache("disabled", err)
		} else {
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Image validation cache enabled")
			cache = ogimage.NewRedisCache(rdb, cfg.OgImage.CacheTTL)
			report.Cache("redis", nil)
		}
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	services := service.NewServices(repos, m, log)

	resolver := ogimage.FromConfig(cfg.Site, cfg.OgImage, cache, m, log)
	composer := social.NewComposer(cfg.Site, services.Article, resolver, resolver.Fallback(), log)

	// Initialize router
	router := api.NewRouter(services, api.Dependencies{
		Gate:     auth.NewGate(cfg.Auth),
		Composer: composer,
		Metrics:  m,
		Report:   report.Build(),
		DB:       db,
	}, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
