package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
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

	client := shopify.NewClient(cfg.Shopify, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Optional filter: only titles containing this text
	filter := ""
	if len(os.Args) > 1 {
		filter = strings.ToLower(strings.Join(os.Args[1:], " "))
	}

	fmt.Println("🔍 Fetching all collections from Shopify...")
	fmt.Println("")

	collections, err := client.ListCollections(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list collections: %v\n", err)
		os.Exit(1)
	}

	sort.Slice(collections, func(i, j int) bool {
		return strings.ToLower(collections[i].Title) < strings.ToLower(collections[j].Title)
	})

	shown := 0
	for _, c := range collections {
		if filter != "" && !strings.Contains(strings.ToLower(c.Title), filter) {
			continue
		}
		shown++
		fmt.Printf("%d. %s\n", shown, c.Title)
		fmt.Printf("   ID: %d\n", c.ID)
		fmt.Printf("   Handle: %s\n", c.Handle)
		fmt.Printf("   Kind: %s\n", c.Kind)
		if c.Kind == shopify.CollectionKindSmart {
			fmt.Println("   ⚠️  Smart collection: products cannot be added manually")
		}
		fmt.Println("")
	}

	fmt.Printf("Total: %d collection(s)", shown)
	if filter != "" {
		fmt.Printf(" matching %q (of %d)", filter, len(collections))
	}
	fmt.Println()
}
