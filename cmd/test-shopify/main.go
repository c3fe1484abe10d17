package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/service"
	"github.com/tyt2025/shopifytyt/internal/shopify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing Shopify connection...\n\n")
	fmt.Printf("Store Domain: %s\n", cfg.Shopify.StoreDomain)
	fmt.Printf("API Version: %s\n", cfg.Shopify.APIVersion)
	fmt.Printf("Access Token: %s\n", maskToken(cfg.Shopify.AccessToken))
	fmt.Println()

	if err := cfg.Shopify.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(cfg.Shopify, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shop, err := client.Shop(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Connection failed: %v\n\n", err)
		var apiErr *shopify.APIError
		if stderrors.As(err, &apiErr) && apiErr.IsAuthError() {
			fmt.Println("Please check:")
			fmt.Println("  1. SHOPIFY_STORE_DOMAIN format: should be 'store-name.myshopify.com' (no https://)")
			fmt.Println("  2. SHOPIFY_ACCESS_TOKEN: should start with 'shpat_' and be the full token")
		}
		os.Exit(1)
	}
	fmt.Println("✅ Connection successful!")
	fmt.Printf("Shop: %s (%s, %s)\n\n", shop.Name, shop.Domain, shop.Currency)

	// The publish pipeline needs product, collection and publication scopes
	checks := []struct {
		name string
		run  func() error
	}{
		{"read_products", func() error {
			_, err := client.ListProducts(ctx, shopify.ProductListOptions{Limit: 1, Fields: []string{"id"}})
			return err
		}},
		{"read collections", func() error {
			_, err := client.ListCustomCollections(ctx, "")
			return err
		}},
		{"read_publications", func() error {
			pubs, err := client.ListPublications(ctx)
			if err == nil {
				matched := service.MatchPublications(pubs, cfg.Publish.Channels, cfg.Publish.DefaultChannel)
				for _, p := range matched {
					fmt.Printf("   channel target: %s (%d)\n", p.Name, p.ID)
				}
			}
			return err
		}},
	}

	failed := 0
	for _, check := range checks {
		if err := check.run(); err != nil {
			failed++
			fmt.Printf("❌ %s: %v\n", check.name, err)
			continue
		}
		fmt.Printf("✅ %s\n", check.name)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 14 {
		return "(set, too short to preview)"
	}
	return token[:10] + "..." + token[len(token)-4:]
}
