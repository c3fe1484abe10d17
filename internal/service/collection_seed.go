package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
)

// DefaultCollections is the store's base set of collections
var DefaultCollections = []string{
	"Impresión y pos",
	"Computadores",
	"Accesorios",
	"Linea Gamer",
	"Redes y Vigilancia",
	"Video y Tablets",
}

// EnsureCollections resolves each title, creating the missing ones, and
// returns how many could not be resolved.
func EnsureCollections(ctx context.Context, resolver *CollectionResolver, titles []string, logger *zap.Logger) int {
	failed := 0
	for _, title := range titles {
		collection, err := resolver.Resolve(ctx, title)
		if err != nil {
			failed++
			logger.Warn("Collection seed: failed to resolve collection", zap.String("title", title), zap.Error(err))
			continue
		}
		logger.Info("Collection seed: collection ready",
			zap.String("title", collection.Title),
			zap.Int64("collection_id", collection.ID),
			zap.String("kind", string(collection.Kind)),
		)
	}
	return failed
}

// RunCollectionSeedOnce ensures SEED_COLLECTIONS exist. It is skipped when no
// seed list or no Shopify credentials are configured.
func RunCollectionSeedOnce(ctx context.Context, cfg *config.Config, client CatalogClient, logger *zap.Logger) {
	if len(cfg.Publish.SeedCollections) == 0 {
		logger.Debug("Collection seed skipped: SEED_COLLECTIONS not set")
		return
	}
	if err := cfg.Shopify.Validate(); err != nil {
		logger.Debug("Collection seed skipped", zap.Error(err))
		return
	}

	resolver := NewCollectionResolver(client, logger)
	if failed := EnsureCollections(ctx, resolver, cfg.Publish.SeedCollections, logger); failed > 0 {
		logger.Warn("Collection seed finished with failures", zap.Int("failed", failed))
		return
	}
	logger.Info("Collection seed finished", zap.Int("collections", len(cfg.Publish.SeedCollections)))
}
