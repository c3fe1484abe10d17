package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tyt2025/shopifytyt/internal/api"
	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/repository/store"
	"github.com/tyt2025/shopifytyt/internal/seo"
	"github.com/tyt2025/shopifytyt/internal/service"
	"github.com/tyt2025/shopifytyt/internal/shopify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Shopify publish API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("store_backend", cfg.StoreBackend),
	)

	repos, closeStore, err := store.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer closeStore()

	if err := cfg.Shopify.Validate(); err != nil {
		logger.Warn("Shopify is not configured; publish requests will fail until it is", zap.Error(err))
	}
	client := shopify.NewClient(cfg.Shopify, nil, logger)

	var generator service.SEOGenerator
	if seoClient, err := seo.NewClient(cfg.OpenAI, logger); err != nil {
		logger.Info("SEO generation disabled", zap.Error(err))
	} else {
		generator = seoClient
	}

	publisher := service.NewPublisher(client, cfg.Shopify, cfg.Publish, repos, generator, logger)

	router := api.NewRouter(cfg, api.Dependencies{
		Repos:       repos,
		Publisher:   publisher,
		Collections: client,
		SEO:         generator,
	}, logger)

	// A batch runs every product's round trips inside one request
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	seedCtx, cancelSeed := context.WithCancel(context.Background())
	defer cancelSeed()
	go service.RunCollectionSeedOnce(seedCtx, cfg, client, logger)

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancelSeed()

	// In-flight batches get a grace period before their contexts are cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}
