package repository

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/tyt2025/shopifytyt/internal/domain"
)

func decodeRow(t *testing.T, raw string) *domain.LocalProduct {
	t.Helper()
	var row ProductRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		t.Fatalf("unmarshal row: %v", err)
	}
	return LocalProductFromRow(&row)
}

func TestLocalProductFromRow_CurrentColumns(t *testing.T) {
	p := decodeRow(t, `{
		"id": 17,
		"product_name": "Portátil HP 15",
		"sku": "HP-15",
		"brand": "HP",
		"price_cop": 2500000,
		"available_stock": 4,
		"main_image_url": "https://img/main.jpg",
		"image_url_png": "https://img/alt.png",
		"is_active": true,
		"shopify_category": "Laptops",
		"etiquetas": ["hp", "HP", " oficina "],
		"colecciones": ["Computadores"],
		"shopify_product_id": null
	}`)

	if p.ID != "17" {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Name != "Portátil HP 15" || p.Brand != "HP" || p.SKU != "HP-15" {
		t.Errorf("unexpected identity fields: %+v", p)
	}
	if p.PriceCOP == nil || p.PriceCOP.StringFixed(2) != "2500000.00" {
		t.Errorf("PriceCOP = %v", p.PriceCOP)
	}
	if p.Stock != 4 {
		t.Errorf("Stock = %d", p.Stock)
	}
	if !reflect.DeepEqual(p.Tags, []string{"hp", "oficina"}) {
		t.Errorf("Tags = %v", p.Tags)
	}
	if p.IsPublished() {
		t.Error("product without shopify id should not be published")
	}
}

func TestLocalProductFromRow_LegacyColumns(t *testing.T) {
	p := decodeRow(t, `{
		"id": "abc",
		"nombre": "Mouse Gamer",
		"marca": "Logitech",
		"precio": "89900",
		"stock": 12,
		"imagen_url": "https://img/mouse.png",
		"tipo_producto": "Accesorios"
	}`)

	if p.ID != "abc" || p.Name != "Mouse Gamer" || p.Brand != "Logitech" {
		t.Errorf("unexpected identity fields: %+v", p)
	}
	if p.Price == nil || p.Price.String() != "89900" {
		t.Errorf("Price = %v", p.Price)
	}
	if p.Stock != 12 || p.ImageURL != "https://img/mouse.png" {
		t.Errorf("Stock/ImageURL = %d %q", p.Stock, p.ImageURL)
	}
	if p.ShopifyCategory != "Accesorios" {
		t.Errorf("ShopifyCategory = %q", p.ShopifyCategory)
	}
	if !p.IsActive {
		t.Error("missing is_active should default to active")
	}
}

func TestLocalProductFromRow_CurrentWinsOverLegacy(t *testing.T) {
	p := decodeRow(t, `{"id": 1, "product_name": "Nuevo", "nombre": "Viejo", "shopify_published": true}`)
	if p.Name != "Nuevo" {
		t.Errorf("Name = %q", p.Name)
	}
	if !p.IsPublished() {
		t.Error("shopify_published row should be published")
	}
}

func TestNewProductPage(t *testing.T) {
	page := NewProductPage(nil, 101, domain.ProductFilter{Page: 2, Limit: 50})
	if page.TotalPages != 3 || page.Page != 2 || page.Limit != 50 {
		t.Errorf("page = %+v", page)
	}
	if page.Products == nil {
		t.Error("products should be an empty slice, not nil")
	}
}

func TestUpdateColumns(t *testing.T) {
	category := "Laptops"
	cols := UpdateColumns(domain.ProductUpdate{ShopifyCategory: &category, Tags: []string{"hp"}})
	if len(cols) != 2 || cols["shopify_category"] != "Laptops" {
		t.Errorf("cols = %v", cols)
	}
	if len(UpdateColumns(domain.ProductUpdate{})) != 0 {
		t.Error("empty update should produce no columns")
	}
}
