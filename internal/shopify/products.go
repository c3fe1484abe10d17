package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// REST caps list endpoints at 250 rows per page
const maxPageSize = 250

// CreateProduct creates a product and returns it with its assigned id and handle
func (c *Client) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	if product == nil {
		return nil, errors.New("shopify product is required")
	}
	payload := map[string]interface{}{"product": product}

	var resp struct {
		Product *Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products.json", nil, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil || resp.Product.ID == 0 {
		return nil, errors.New("shopify product create returned empty product id")
	}
	return resp.Product, nil
}

// ListProducts returns one page of products matching opts
func (c *Client) ListProducts(ctx context.Context, opts ProductListOptions) ([]Product, error) {
	query := url.Values{}
	limit := opts.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if t := strings.TrimSpace(opts.Title); t != "" {
		query.Set("title", t)
	}
	if len(opts.Fields) > 0 {
		query.Set("fields", strings.Join(opts.Fields, ","))
	}

	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products.json", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return resp.Products, nil
}
