package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/shopify"
)

// CollectionResolver finds or creates collections by title. One resolver lives
// for one publish run; its cache is never shared across runs.
type CollectionResolver struct {
	client CatalogClient
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*shopify.Collection
}

// NewCollectionResolver creates a resolver with an empty cache
func NewCollectionResolver(client CatalogClient, logger *zap.Logger) *CollectionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionResolver{
		client: client,
		logger: logger,
		cache:  make(map[string]*shopify.Collection),
	}
}

// Resolve returns the collection whose title matches case-insensitively,
// creating a published custom collection when none exists. Calls for the same
// title are serialized, so one run never creates the same collection twice.
func (r *CollectionResolver) Resolve(ctx context.Context, title string) (*shopify.Collection, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("collection title is required")
	}
	key := strings.ToLower(title)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[key]; ok {
		return c, nil
	}

	candidates, err := r.client.ListCollections(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("lookup collection %q: %w", title, err)
	}
	for i := range candidates {
		if strings.EqualFold(strings.TrimSpace(candidates[i].Title), title) {
			found := candidates[i]
			r.cache[key] = &found
			return &found, nil
		}
	}

	created, err := r.client.CreateCustomCollection(ctx, title)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Created collection",
		zap.String("title", title),
		zap.Int64("collection_id", created.ID),
	)
	r.cache[key] = created
	return created, nil
}
