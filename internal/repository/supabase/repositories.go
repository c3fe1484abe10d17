package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/repository"
)

// NewRepositories creates repositories backed by the hosted data store's REST layer
func NewRepositories(cfg config.SupabaseConfig, logger *zap.Logger) (*repository.Repositories, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := supabase.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	productsTable := cfg.ProductsTable
	if productsTable == "" {
		productsTable = "productos"
	}
	eventsTable := cfg.EventsTable
	if eventsTable == "" {
		eventsTable = "publish_events"
	}

	return &repository.Repositories{
		Product:      NewProductRepository(client, productsTable, logger),
		PublishEvent: NewPublishEventRepository(client, eventsTable, logger),
	}, nil
}
