package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalProduct is one catalog row in the operator's data store, before migration
type LocalProduct struct {
	ID               string           `json:"id"`
	Name             string           `json:"product_name"`
	SKU              string           `json:"sku"`
	Brand            string           `json:"brand"`
	PriceCOP         *decimal.Decimal `json:"price_cop"`
	Price            *decimal.Decimal `json:"price"`
	Stock            int              `json:"available_stock"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	MainImageURL     string           `json:"main_image_url"`
	ImageURL         string           `json:"image_url_png"`
	Images           []string         `json:"images"`
	Category         string           `json:"category"`
	CategorySub      string           `json:"category_sub"`
	IsActive         bool             `json:"is_active"`

	// Operator-assigned taxonomy
	ShopifyCategory    string   `json:"shopify_category"`
	ShopifySubcategory string   `json:"shopify_subcategory"`
	Tags               []string `json:"etiquetas"`
	Collections        []string `json:"colecciones"`

	// Publish bookkeeping
	ShopifyProductID string `json:"shopify_product_id"`
	ShopifyPublished bool   `json:"shopify_published"`
}

// IsPublished reports whether the product must not be created again
func (p *LocalProduct) IsPublished() bool {
	return p.ShopifyProductID != "" || p.ShopifyPublished
}

// ProductFilter selects a page of local products
type ProductFilter struct {
	Page       int
	Limit      int
	Search     string // case-insensitive over name and SKU
	Category   string
	ActiveOnly bool
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize applies paging defaults
func (f ProductFilter) Normalize() ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

// Offset is the zero-based index of the first row of the page
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ProductPage is one page of a filtered product listing
type ProductPage struct {
	Products   []*LocalProduct `json:"products"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// ProductUpdate is a partial update; nil fields are left untouched
type ProductUpdate struct {
	ShopifyCategory    *string  `json:"shopify_category,omitempty"`
	ShopifySubcategory *string  `json:"shopify_subcategory,omitempty"`
	Tags               []string `json:"etiquetas,omitempty"`
	Collections        []string `json:"colecciones,omitempty"`
	ShopifyProductID   *string  `json:"shopify_product_id,omitempty"`
	ShopifyPublished   *bool    `json:"shopify_published,omitempty"`
}

// IsEmpty reports whether the update would change nothing
func (u ProductUpdate) IsEmpty() bool {
	return u.ShopifyCategory == nil &&
		u.ShopifySubcategory == nil &&
		u.Tags == nil &&
		u.Collections == nil &&
		u.ShopifyProductID == nil &&
		u.ShopifyPublished == nil
}

// SEOCopy is a short title/description pair for search engines
type SEOCopy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// IsEmpty reports whether neither field was supplied
func (s *SEOCopy) IsEmpty() bool {
	return s == nil || (s.Title == "" && s.Description == "")
}

// OperatorInput is the shared input of one publish action
type OperatorInput struct {
	ProductType string              `json:"product_type"`
	Tags        TagList             `json:"tags"`
	Collections TagList             `json:"collections"`
	SEO         map[string]*SEOCopy `json:"seo,omitempty"` // keyed by product id
	GenerateSEO bool                `json:"generate_seo"`
	Force       bool                `json:"force"`
}

// ProductInput is the operator input resolved for a single product
type ProductInput struct {
	ProductType string
	Tags        []string
	Collections []string
	SEO         *SEOCopy
}

// OutcomeError describes why a product was not published
type OutcomeError struct {
	Kind    FailureKind     `json:"kind"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail,omitempty"`
	Hint    string          `json:"hint,omitempty"`
}

// CollectionFailure is a collection that could not be resolved or bound
type CollectionFailure struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// PublishOutcome is the result of publishing one product
type PublishOutcome struct {
	ProductID         string              `json:"product_id"`
	ProductName       string              `json:"product_name"`
	SKU               string              `json:"sku"`
	Success           bool                `json:"success"`
	ShopifyID         int64               `json:"shopify_id,omitempty"`
	ShopifyHandle     string              `json:"shopify_handle,omitempty"`
	ShopifyAdminURL   string              `json:"shopify_admin_url,omitempty"`
	ProductType       string              `json:"product_type,omitempty"`
	CollectionsAdded  []string            `json:"collections_added"`
	CollectionsFailed []CollectionFailure `json:"collections_failed,omitempty"`
	Channels          []string            `json:"channels,omitempty"`
	Warnings          []string            `json:"warnings,omitempty"`
	Error             *OutcomeError       `json:"error,omitempty"`
}

// BatchReport aggregates the outcomes of one publish run in input order
type BatchReport struct {
	RunID      uuid.UUID         `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Published  int               `json:"published"`
	Failed     int               `json:"failed"`
	Outcomes   []*PublishOutcome `json:"outcomes"`
}

// Add appends an outcome and updates the counts
func (r *BatchReport) Add(o *PublishOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Success {
		r.Published++
	} else {
		r.Failed++
	}
}

// PublishEvent is the stored audit record of one outcome
type PublishEvent struct {
	ID        uuid.UUID       `json:"id"`
	RunID     uuid.UUID       `json:"run_id"`
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Status    OutcomeStatus   `json:"status"`
	Outcome   *PublishOutcome `json:"outcome"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPublishEvent builds the audit record for an outcome
func NewPublishEvent(runID uuid.UUID, o *PublishOutcome) *PublishEvent {
	status := OutcomeStatusFailed
	if o.Success {
		status = OutcomeStatusPublished
	}
	return &PublishEvent{
		ID:        uuid.New(),
		RunID:     runID,
		ProductID: o.ProductID,
		SKU:       o.SKU,
		Status:    status,
		Outcome:   o,
		CreatedAt: time.Now().UTC(),
	}
}
