package repository

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

// ProductRow is a product row as stored. The table went through several
// schemas, so both the current and the legacy column names are accepted here
// and nowhere else.
type ProductRow struct {
	ID               json.RawMessage      `json:"id"`
	ProductName      *string              `json:"product_name"`
	SKU              *string              `json:"sku"`
	Brand            *string              `json:"brand"`
	PriceCOP         *decimal.NullDecimal `json:"price_cop"`
	Price            *decimal.NullDecimal `json:"price"`
	AvailableStock   *float64             `json:"available_stock"`
	Description      *string              `json:"description"`
	ShortDescription *string              `json:"short_description"`
	MainImageURL     *string              `json:"main_image_url"`
	ImageURLPNG      *string              `json:"image_url_png"`
	Images           []string             `json:"images"`
	Category         *string              `json:"category"`
	CategorySub      *string              `json:"category_sub"`
	IsActive         *bool                `json:"is_active"`

	ShopifyCategory    *string  `json:"shopify_category"`
	ShopifySubcategory *string  `json:"shopify_subcategory"`
	Etiquetas          []string `json:"etiquetas"`
	Colecciones        []string `json:"colecciones"`
	ShopifyProductID   *string  `json:"shopify_product_id"`
	ShopifyPublished   *bool    `json:"shopify_published"`

	// Legacy columns
	Nombre       *string              `json:"nombre"`
	Marca        *string              `json:"marca"`
	Precio       *decimal.NullDecimal `json:"precio"`
	Stock        *float64             `json:"stock"`
	ImagenURL    *string              `json:"imagen_url"`
	TipoProducto *string              `json:"tipo_producto"`
	Descripcion  *string              `json:"descripcion"`
}

// LocalProductFromRow maps a stored row onto the canonical LocalProduct.
// Current column names win; legacy names only fill gaps.
func LocalProductFromRow(row *ProductRow) *domain.LocalProduct {
	p := &domain.LocalProduct{
		ID:                 rawID(row.ID),
		Name:               first(row.ProductName, row.Nombre),
		SKU:                first(row.SKU),
		Brand:              first(row.Brand, row.Marca),
		PriceCOP:           firstDecimal(row.PriceCOP),
		Price:              firstDecimal(row.Price, row.Precio),
		Stock:              firstInt(row.AvailableStock, row.Stock),
		Description:        first(row.Description, row.Descripcion),
		ShortDescription:   first(row.ShortDescription),
		MainImageURL:       first(row.MainImageURL),
		ImageURL:           first(row.ImageURLPNG, row.ImagenURL),
		Images:             domain.MergeTags(row.Images),
		Category:           first(row.Category),
		CategorySub:        first(row.CategorySub),
		IsActive:           row.IsActive == nil || *row.IsActive,
		ShopifyCategory:    first(row.ShopifyCategory, row.TipoProducto),
		ShopifySubcategory: first(row.ShopifySubcategory),
		Tags:               domain.MergeTags(row.Etiquetas),
		Collections:        domain.MergeTags(row.Colecciones),
		ShopifyProductID:   first(row.ShopifyProductID),
		ShopifyPublished:   row.ShopifyPublished != nil && *row.ShopifyPublished,
	}
	return p
}

// NewProductPage wraps one page of results with its paging metadata
func NewProductPage(products []*domain.LocalProduct, total int64, filter domain.ProductFilter) *domain.ProductPage {
	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}
	if products == nil {
		products = []*domain.LocalProduct{}
	}
	return &domain.ProductPage{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}
}

// UpdateColumns maps a partial update onto column values
func UpdateColumns(u domain.ProductUpdate) map[string]interface{} {
	cols := make(map[string]interface{})
	if u.ShopifyCategory != nil {
		cols["shopify_category"] = *u.ShopifyCategory
	}
	if u.ShopifySubcategory != nil {
		cols["shopify_subcategory"] = *u.ShopifySubcategory
	}
	if u.Tags != nil {
		cols["etiquetas"] = u.Tags
	}
	if u.Collections != nil {
		cols["colecciones"] = u.Collections
	}
	if u.ShopifyProductID != nil {
		cols["shopify_product_id"] = *u.ShopifyProductID
	}
	if u.ShopifyPublished != nil {
		cols["shopify_published"] = *u.ShopifyPublished
	}
	return cols
}

// rawID accepts numeric and string ids
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

func first(values ...*string) string {
	for _, v := range values {
		if v != nil {
			if s := strings.TrimSpace(*v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstDecimal(values ...*decimal.NullDecimal) *decimal.Decimal {
	for _, v := range values {
		if v != nil && v.Valid {
			d := v.Decimal
			return &d
		}
	}
	return nil
}

func firstInt(values ...*float64) int {
	for _, v := range values {
		if v != nil {
			return int(*v)
		}
	}
	return 0
}
