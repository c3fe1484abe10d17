package shopify

import (
	"encoding/json"
	"strings"
)

// Tags is a tag list that travels as one comma-joined string on the wire
type Tags []string

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(t, ", "))
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var out Tags
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*t = out
	return nil
}

type Product struct {
	ID          int64       `json:"id,omitempty"`
	Title       string      `json:"title"`
	BodyHTML    string      `json:"body_html"`
	Vendor      string      `json:"vendor"`
	ProductType string      `json:"product_type"`
	Handle      string      `json:"handle,omitempty"`
	Tags        Tags        `json:"tags"`
	Status      string      `json:"status,omitempty"`
	Published   *bool       `json:"published,omitempty"`
	Variants    []Variant   `json:"variants"`
	Images      []Image     `json:"images,omitempty"`
	Metafields  []Metafield `json:"metafields,omitempty"`
}

type Variant struct {
	ID                  int64  `json:"id,omitempty"`
	Price               string `json:"price"`
	SKU                 string `json:"sku"`
	InventoryQuantity   int    `json:"inventory_quantity"`
	InventoryManagement string `json:"inventory_management,omitempty"`
	InventoryPolicy     string `json:"inventory_policy,omitempty"`
	FulfillmentService  string `json:"fulfillment_service,omitempty"`
}

type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type Metafield struct {
	ID        int64  `json:"id,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// CollectionKind tells custom (manual) and smart (rule based) collections apart
type CollectionKind string

const (
	CollectionKindCustom CollectionKind = "custom"
	CollectionKindSmart  CollectionKind = "smart"
)

type Collection struct {
	ID        int64          `json:"id,omitempty"`
	Title     string         `json:"title"`
	Handle    string         `json:"handle,omitempty"`
	Published *bool          `json:"published,omitempty"`
	Kind      CollectionKind `json:"kind,omitempty"`
}

type Collect struct {
	ID           int64 `json:"id,omitempty"`
	ProductID    int64 `json:"product_id"`
	CollectionID int64 `json:"collection_id"`
}

// Publication is a sales channel a product can be exposed on
type Publication struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ResourcePublication struct {
	PublicationID int64  `json:"publication_id,omitempty"`
	ResourceID    int64  `json:"resource_id"`
	ResourceType  string `json:"resource_type"`
	Published     bool   `json:"published"`
}

type Shop struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Currency string `json:"currency"`
}

// ProductListOptions filters GET /products.json
type ProductListOptions struct {
	Limit  int
	Title  string
	Fields []string
}
