package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/shopify"
)

// ChannelPublisher exposes created products on the configured sales channels.
// The publication list is fetched on first use and kept once a lookup
// succeeds; a failed lookup is retried for the next product.
type ChannelPublisher struct {
	client         CatalogClient
	wanted         []string
	defaultChannel string
	logger         *zap.Logger

	mu      sync.Mutex
	loaded  bool
	targets []shopify.Publication
}

// NewChannelPublisher matches wanted against channel names by case-insensitive
// substring and falls back to the channel named like defaultChannel.
func NewChannelPublisher(client CatalogClient, wanted []string, defaultChannel string, logger *zap.Logger) *ChannelPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelPublisher{
		client:         client,
		wanted:         wanted,
		defaultChannel: defaultChannel,
		logger:         logger,
	}
}

// Publish publishes the product on every target channel and returns the names
// of the channels that accepted it. The error joins every failure.
func (p *ChannelPublisher) Publish(ctx context.Context, productID int64) ([]string, error) {
	targets, err := p.channelTargets(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no sales channel matches %v or %q", p.wanted, p.defaultChannel)
	}

	var published []string
	var failures []string
	for _, target := range targets {
		if err := p.client.PublishProduct(ctx, target.ID, productID); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", target.Name, err))
			continue
		}
		published = append(published, target.Name)
	}
	if len(failures) > 0 {
		return published, fmt.Errorf("channel publish failed: %s", strings.Join(failures, "; "))
	}
	return published, nil
}

func (p *ChannelPublisher) channelTargets(ctx context.Context) ([]shopify.Publication, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.targets, nil
	}
	targets, err := p.loadTargets(ctx)
	if err != nil {
		return nil, err
	}
	p.targets = targets
	p.loaded = true
	return targets, nil
}

func (p *ChannelPublisher) loadTargets(ctx context.Context) ([]shopify.Publication, error) {
	publications, err := p.client.ListPublications(ctx)
	if err != nil {
		return nil, err
	}
	targets := MatchPublications(publications, p.wanted, p.defaultChannel)
	p.logger.Debug("Sales channels selected",
		zap.Int("available", len(publications)),
		zap.Int("selected", len(targets)),
	)
	return targets, nil
}

// MatchPublications picks the publications whose name contains one of wanted.
// When none match, the first publication whose name contains fallback is used.
func MatchPublications(publications []shopify.Publication, wanted []string, fallback string) []shopify.Publication {
	var out []shopify.Publication
	seen := make(map[int64]bool)
	for _, w := range wanted {
		needle := strings.ToLower(strings.TrimSpace(w))
		if needle == "" {
			continue
		}
		for _, pub := range publications {
			if seen[pub.ID] || !strings.Contains(strings.ToLower(pub.Name), needle) {
				continue
			}
			seen[pub.ID] = true
			out = append(out, pub)
		}
	}
	if len(out) > 0 {
		return out
	}

	needle := strings.ToLower(strings.TrimSpace(fallback))
	if needle == "" {
		return nil
	}
	for _, pub := range publications {
		if strings.Contains(strings.ToLower(pub.Name), needle) {
			return []shopify.Publication{pub}
		}
	}
	return nil
}
