package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/shopify"
)

const defaultDuplicateScanLimit = 250

// ExistenceChecker decides whether a product is already in Shopify. Both
// checks scan one bounded page of products, so they only hold for small
// catalogs. The admin API's title filter is an exact match, so past the scan a
// title differing only in case is not found.
type ExistenceChecker struct {
	client    CatalogClient
	scanLimit int
	logger    *zap.Logger
}

// NewExistenceChecker creates a checker scanning at most scanLimit products per SKU lookup
func NewExistenceChecker(client CatalogClient, scanLimit int, logger *zap.Logger) *ExistenceChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scanLimit <= 0 {
		scanLimit = defaultDuplicateScanLimit
	}
	return &ExistenceChecker{
		client:    client,
		scanLimit: scanLimit,
		logger:    logger,
	}
}

// Check looks for a variant with the same SKU, then for a product with the same
// title. Both comparisons are trimmed and case-insensitive. A lookup error is
// returned alongside found=false; the title query still runs when the scan
// fails.
func (c *ExistenceChecker) Check(ctx context.Context, sku, title string) (bool, error) {
	sku = strings.TrimSpace(sku)
	title = strings.TrimSpace(title)
	if sku == "" && title == "" {
		return false, nil
	}

	products, scanErr := c.client.ListProducts(ctx, shopify.ProductListOptions{
		Limit:  c.scanLimit,
		Fields: []string{"id", "title", "variants"},
	})
	if scanErr == nil {
		if sku != "" && hasVariantSKU(products, sku) {
			return true, nil
		}
		if title != "" && hasTitle(products, title) {
			return true, nil
		}
		// A short page is the whole catalog
		if title == "" || len(products) < c.scanLimit {
			return false, nil
		}
	}

	if title == "" {
		return false, scanErr
	}
	products, err := c.client.ListProducts(ctx, shopify.ProductListOptions{
		Limit:  c.scanLimit,
		Title:  title,
		Fields: []string{"id", "title"},
	})
	if err != nil {
		if scanErr != nil {
			return false, scanErr
		}
		return false, err
	}
	if hasTitle(products, title) {
		return true, nil
	}
	return false, scanErr
}

// Exists is Check without the error: lookup failures are logged and count as
// "not found" so an unreachable catalog never blocks a publish.
func (c *ExistenceChecker) Exists(ctx context.Context, sku, title string) bool {
	found, err := c.Check(ctx, sku, title)
	if err != nil {
		c.logger.Warn("Existence check failed, assuming product is new",
			zap.String("sku", sku),
			zap.String("title", title),
			zap.Error(err),
		)
	}
	return found
}

func hasVariantSKU(products []shopify.Product, sku string) bool {
	for _, p := range products {
		for _, v := range p.Variants {
			if strings.EqualFold(strings.TrimSpace(v.SKU), sku) {
				return true
			}
		}
	}
	return false
}

func hasTitle(products []shopify.Product, title string) bool {
	for _, p := range products {
		if strings.EqualFold(strings.TrimSpace(p.Title), title) {
			return true
		}
	}
	return false
}
