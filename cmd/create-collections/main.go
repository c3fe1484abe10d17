package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/service"
	"github.com/tyt2025/shopifytyt/internal/shopify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Shopify.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Titles from the command line replace the default set
	titles := service.DefaultCollections
	if len(os.Args) > 1 {
		titles = domain.MergeTags(os.Args[1:])
	}

	client := shopify.NewClient(cfg.Shopify, nil, logger)
	resolver := service.NewCollectionResolver(client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("Ensuring %d collection(s) exist in %s...\n\n", len(titles), cfg.Shopify.StoreDomain)
	failed := service.EnsureCollections(ctx, resolver, titles, logger)

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n❌ %d of %d collection(s) could not be ensured\n", failed, len(titles))
		os.Exit(1)
	}
	fmt.Printf("\n✅ All %d collection(s) ready\n", len(titles))
}
