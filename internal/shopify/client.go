package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL     string
	storeDomain string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a Shopify REST admin API client. The store domain may carry a
// scheme (tests point it at an http:// server); https:// is assumed otherwise.
func NewClient(cfg config.ShopifyConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	domain := strings.TrimSuffix(strings.TrimSpace(cfg.StoreDomain), "/")
	base := domain
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "https://"), "http://")

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-01"
	}

	return &Client{
		baseURL:     fmt.Sprintf("%s/admin/api/%s", base, apiVersion),
		storeDomain: domain,
		accessToken: cfg.AccessToken,
		apiVersion:  apiVersion,
		httpClient:  httpClient,
		logger:      logger,
	}
}

// StoreDomain is the bare shop domain, e.g. "my-shop.myshopify.com"
func (c *Client) StoreDomain() string {
	return c.storeDomain
}

// AdminProductURL is the admin page of a product
func (c *Client) AdminProductURL(productID int64) string {
	return fmt.Sprintf("https://%s/admin/products/%d", c.storeDomain, productID)
}

// APIError is a non-2xx answer from the admin API. Errors holds the body's
// "errors" field as received.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	Path       string
	Errors     json.RawMessage
	Body       string
}

func (e *APIError) Error() string {
	detail := strings.TrimSpace(e.Body)
	if len(e.Errors) > 0 {
		detail = string(e.Errors)
	}
	if detail == "" {
		return fmt.Sprintf("shopify %s %s failed: %s", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("shopify %s %s failed: %s: %s", e.Method, e.Path, e.Status, detail)
}

// IsAuthError reports a credential problem (bad token or missing scope)
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newAPIError(method, path string, resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Method:     method,
		Path:       path,
		Body:       strings.TrimSpace(string(body)),
	}
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case len(envelope.Errors) > 0:
			apiErr.Errors = envelope.Errors
		case len(envelope.Error) > 0:
			apiErr.Errors = envelope.Error
		}
	}
	return apiErr
}

// do issues one authenticated request. path is relative to the versioned admin
// root and must start with "/". out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(method, path, resp, respBody)
		c.logger.Debug("Shopify request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(respBody))
	}
	return nil
}

// Shop returns the shop resource; used as a credential check
func (c *Client) Shop(ctx context.Context) (*Shop, error) {
	var resp struct {
		Shop Shop `json:"shop"`
	}
	if err := c.do(ctx, http.MethodGet, "/shop.json", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Shop, nil
}
