package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/shopify"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

const (
	noBrandVendor = "Sin marca"

	productStatusActive = "active"

	metafieldTypeSingleLine = "single_line_text_field"

	seoNamespace        = "global"
	seoTitleKey         = "title_tag"
	seoDescriptionKey   = "description_tag"
	conditionNamespace  = "custom"
	conditionKey        = "google_condition"
	conditionValue      = "new"
	inventoryManagement = "shopify"
	inventoryPolicy     = "deny"
	manualFulfillment   = "manual"
)

// PayloadOptions are store-wide switches of the payload shape
type PayloadOptions struct {
	// Also send collection names as tags (stores that filter by tag)
	CollectionsAsTags bool
}

// BuildProduct maps a local product and the resolved operator input onto a
// Shopify create payload. It only fails when the product has no name.
func BuildProduct(p *domain.LocalProduct, in domain.ProductInput, opts PayloadOptions) (*shopify.Product, error) {
	if p == nil {
		return nil, &errors.ErrValidation{Message: "product is required"}
	}
	title := strings.TrimSpace(p.Name)
	if title == "" {
		return nil, &errors.ErrValidation{
			Message: "product name is required",
			Fields:  map[string]string{"product_name": "required"},
		}
	}

	vendor := strings.TrimSpace(p.Brand)
	if vendor == "" {
		vendor = noBrandVendor
	}

	tags := domain.MergeTags(in.Tags)
	if opts.CollectionsAsTags {
		tags = domain.MergeTags(in.Tags, in.Collections)
	}

	product := &shopify.Product{
		Title:       title,
		BodyHTML:    p.Description,
		Vendor:      vendor,
		ProductType: strings.TrimSpace(in.ProductType),
		Tags:        shopify.Tags(tags),
		Status:      productStatusActive,
		Variants: []shopify.Variant{{
			Price:               variantPrice(p),
			SKU:                 strings.TrimSpace(p.SKU),
			InventoryQuantity:   p.Stock,
			InventoryManagement: inventoryManagement,
			InventoryPolicy:     inventoryPolicy,
			FulfillmentService:  manualFulfillment,
		}},
		Metafields: []shopify.Metafield{{
			Namespace: conditionNamespace,
			Key:       conditionKey,
			Value:     conditionValue,
			Type:      metafieldTypeSingleLine,
		}},
	}

	if src := firstNonEmpty(p.MainImageURL, p.ImageURL); src != "" {
		product.Images = []shopify.Image{{Src: src, Alt: title}}
	}

	product.Metafields = append(product.Metafields, seoMetafields(p, in.SEO)...)

	return product, nil
}

// variantPrice is the first set price as a 2-decimal string. Values are taken
// as major currency units; no unit conversion is applied.
func variantPrice(p *domain.LocalProduct) string {
	switch {
	case p.PriceCOP != nil:
		return p.PriceCOP.StringFixed(2)
	case p.Price != nil:
		return p.Price.StringFixed(2)
	default:
		return decimal.Zero.StringFixed(2)
	}
}

// seoMetafields returns the title/description tag overrides. Nothing is sent
// unless the operator supplied at least one of the pair.
func seoMetafields(p *domain.LocalProduct, seo *domain.SEOCopy) []shopify.Metafield {
	if seo.IsEmpty() {
		return nil
	}

	title := firstNonEmpty(seo.Title, p.Name)
	description := firstNonEmpty(seo.Description, p.ShortDescription, p.Description)

	fields := []shopify.Metafield{{
		Namespace: seoNamespace,
		Key:       seoTitleKey,
		Value:     title,
		Type:      metafieldTypeSingleLine,
	}}
	if description != "" {
		fields = append(fields, shopify.Metafield{
			Namespace: seoNamespace,
			Key:       seoDescriptionKey,
			Value:     description,
			Type:      metafieldTypeSingleLine,
		})
	}
	return fields
}

// splitSEOMetafields separates the SEO tag metafields from the rest of a payload
func splitSEOMetafields(product *shopify.Product) []shopify.Metafield {
	var kept, seo []shopify.Metafield
	for _, mf := range product.Metafields {
		if mf.Namespace == seoNamespace {
			seo = append(seo, mf)
			continue
		}
		kept = append(kept, mf)
	}
	product.Metafields = kept
	return seo
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
