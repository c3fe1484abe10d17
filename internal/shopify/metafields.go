package shopify

import (
	"context"
	"fmt"
	"net/http"
)

// CreateProductMetafield attaches a metafield to an existing product
func (c *Client) CreateProductMetafield(ctx context.Context, productID int64, mf Metafield) (*Metafield, error) {
	payload := map[string]interface{}{"metafield": mf}
	var resp struct {
		Metafield *Metafield `json:"metafield"`
	}
	path := fmt.Sprintf("/products/%d/metafields.json", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("create metafield %s.%s: %w", mf.Namespace, mf.Key, err)
	}
	return resp.Metafield, nil
}
