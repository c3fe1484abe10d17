package shopify

import (
	"context"
	"fmt"
	"net/http"
)

// ListPublications lists the shop's sales channels
func (c *Client) ListPublications(ctx context.Context) ([]Publication, error) {
	var resp struct {
		Publications []Publication `json:"publications"`
	}
	if err := c.do(ctx, http.MethodGet, "/publications.json", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	return resp.Publications, nil
}

// PublishProduct marks a product as published on one sales channel
func (c *Client) PublishProduct(ctx context.Context, publicationID, productID int64) error {
	payload := map[string]interface{}{
		"resource_publication": ResourcePublication{
			ResourceID:   productID,
			ResourceType: "Product",
			Published:    true,
		},
	}
	path := fmt.Sprintf("/publications/%d/resource_publications.json", publicationID)
	if err := c.do(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		return fmt.Errorf("publish product %d on publication %d: %w", productID, publicationID, err)
	}
	return nil
}
