package service

import (
	"context"

	"github.com/tyt2025/shopifytyt/internal/shopify"
)

// CatalogClient is the part of the Shopify admin API the publish pipeline uses.
// *shopify.Client implements it.
type CatalogClient interface {
	ListProducts(ctx context.Context, opts shopify.ProductListOptions) ([]shopify.Product, error)
	CreateProduct(ctx context.Context, product *shopify.Product) (*shopify.Product, error)
	CreateProductMetafield(ctx context.Context, productID int64, mf shopify.Metafield) (*shopify.Metafield, error)

	ListCollections(ctx context.Context, title string) ([]shopify.Collection, error)
	CreateCustomCollection(ctx context.Context, title string) (*shopify.Collection, error)
	CreateCollect(ctx context.Context, productID, collectionID int64) (*shopify.Collect, error)

	ListPublications(ctx context.Context) ([]shopify.Publication, error)
	PublishProduct(ctx context.Context, publicationID, productID int64) error

	AdminProductURL(productID int64) string
}

var _ CatalogClient = (*shopify.Client)(nil)
