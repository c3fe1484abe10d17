package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository/store"
	"github.com/tyt2025/shopifytyt/internal/seo"
	"github.com/tyt2025/shopifytyt/internal/service"
	"github.com/tyt2025/shopifytyt/internal/shopify"
)

func main() {
	idsFlag := flag.String("ids", "", "Comma-separated local product ids to publish, in order")
	typeFlag := flag.String("type", "", "Product type for every product (falls back to the stored category)")
	tagsFlag := flag.String("tags", "", "Comma-separated tags added to every product")
	collectionsFlag := flag.String("collections", "", "Comma-separated collection titles for every product")
	generateSEO := flag.Bool("generate-seo", false, "Generate SEO title/description with the language model")
	force := flag.Bool("force", false, "Skip the already-published and duplicate checks")
	jsonOut := flag.Bool("json", false, "Print the full batch report as JSON")
	flag.Parse()

	ids := domain.SplitTags(*idsFlag)
	ids = append(ids, flag.Args()...)
	if len(ids) == 0 {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/publish/main.go --ids 12,15,20 --type \"Mouse\" --collections \"Accesorios,Linea Gamer\" [--tags gamer] [--generate-seo] [--force]")
		fmt.Println("  go run cmd/publish/main.go --type \"Mouse\" 12 15 20")
		os.Exit(1)
	}

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

	client := shopify.NewClient(cfg.Shopify, nil, logger)

	var generator service.SEOGenerator
	if *generateSEO {
		seoClient, err := seo.NewClient(cfg.OpenAI, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "--generate-seo needs OPENAI_API_KEY: %v\n", err)
			os.Exit(1)
		}
		generator = seoClient
	}

	publisher := service.NewPublisher(client, cfg.Shopify, cfg.Publish, repos, generator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := domain.OperatorInput{
		ProductType: strings.TrimSpace(*typeFlag),
		Tags:        domain.SplitTags(*tagsFlag),
		Collections: domain.SplitTags(*collectionsFlag),
		GenerateSEO: *generateSEO,
		Force:       *force,
	}

	fmt.Printf("Publishing %d product(s) to %s...\n\n", len(ids), cfg.Shopify.StoreDomain)
	report, runErr := publisher.PublishByIDs(ctx, ids, in)

	if *jsonOut {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
	} else if report != nil {
		for _, o := range report.Outcomes {
			mark := "✅"
			if !o.Success {
				mark = "❌"
			}
			fmt.Printf("%s %s\n", mark, service.OutcomeSummary(o))
			for _, w := range o.Warnings {
				fmt.Printf("   ⚠️  %s\n", w)
			}
			if o.Error != nil && o.Error.Hint != "" {
				fmt.Printf("   💡 %s\n", o.Error.Hint)
			}
		}
		fmt.Printf("\nRun %s: %d published, %d failed\n", report.RunID, report.Published, report.Failed)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "\nRun aborted: %v\n", runErr)
		os.Exit(1)
	}
	if report.Failed > 0 {
		os.Exit(2)
	}
}
