package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/api"
	"github.com/articmaze/sizeapp/internal/config"
	"github.com/articmaze/sizeapp/internal/metrics"
	"github.com/articmaze/sizeapp/internal/repository/postgres"
	"github.com/articmaze/sizeapp/internal/service"
	"github.com/articmaze/sizeapp/internal/shopify"
)

func main() {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Articmaze server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("api_version", cfg.Shopify.APIVersion),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Metrics and background task runner
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)
	runner := service.NewDeferredRunner(cfg.Deferred.TaskTimeout, m, logger)

	// Services
	clients := service.NewClientProvider(repos.Session, cfg.Shopify.APIVersion, logger)
	publisher := service.NewSettingsPublisher(clients, repos, runner, cfg.Shopify.AppURL, cfg.Deferred.SettingsPublishDelay, m, logger)
	oauth := shopify.NewOAuth(cfg.Shopify.APIKey, cfg.Shopify.APISecret, cfg.Shopify.Scopes, cfg.Shopify.AppURL+"/auth/callback")

	svc := &api.Services{
		Variants:  service.NewVariantSyncService(clients, runner, cfg.Deferred.VariantCleanupDelay, m, logger),
		Admin:     service.NewAdminService(repos, publisher, logger),
		Publisher: publisher,
		Installer: service.NewInstallService(oauth, clients, repos, logger),
	}

	// Initialize router
	router := api.NewRouter(cfg, svc, repos, registry, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let scheduled cleanups and publishes finish within the same deadline
	if err := runner.Wait(ctx); err != nil {
		logger.Warn("Deferred tasks still running at shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = level
	}
	return zcfg.Build()
}
