package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository/store"
)

func main() {
	page := flag.Int("page", 1, "Page number")
	limit := flag.Int("limit", domain.DefaultPageLimit, "Products per page (max 200)")
	search := flag.String("search", "", "Case-insensitive search over name and SKU")
	category := flag.String("category", "", "Exact category")
	activeOnly := flag.Bool("active", false, "Only active products")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	repos, closeStore, err := store.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := domain.ProductFilter{
		Page:       *page,
		Limit:      *limit,
		Search:     *search,
		Category:   *category,
		ActiveOnly: *activeOnly,
	}.Normalize()

	result, err := repos.Product.List(ctx, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list products: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tSTOCK\tCATEGORY\tSHOPIFY")
	for _, p := range result.Products {
		price := "-"
		switch {
		case p.PriceCOP != nil:
			price = p.PriceCOP.StringFixed(2)
		case p.Price != nil:
			price = p.Price.StringFixed(2)
		}
		shopifyState := "-"
		if p.IsPublished() {
			shopifyState = "published"
			if p.ShopifyProductID != "" {
				shopifyState = p.ShopifyProductID
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.SKU, truncate(p.Name, 48), price, p.Stock, p.Category, shopifyState)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d products total)\n", result.Page, result.TotalPages, result.Total)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
