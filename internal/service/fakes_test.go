package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/internal/shopify"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

const apiPrefix = "/admin/api/2024-01"

// fakeShopify is an in-memory Shopify admin REST API
type fakeShopify struct {
	mu sync.Mutex

	products    []shopify.Product
	custom      []shopify.Collection
	smart       []shopify.Collection
	collects    []shopify.Collect
	metafields  map[int64][]shopify.Metafield
	publishedOn map[int64][]int64
	nextID      int64

	publications []shopify.Publication

	created           []shopify.Product
	collectionCreates int
	productListCalls  int
	publicationCalls  int

	// hooks
	rejectCreate  func(p shopify.Product) (int, string)
	failList      bool
	failPublish   bool
	failCollectOn string
	// failPublicationLists makes the first n publication lookups answer 503
	failPublicationLists int
}

func newFakeShopify(t *testing.T) (*fakeShopify, *shopify.Client) {
	t.Helper()
	fake, serverURL := newFakeShopifyServer(t)
	return fake, shopify.NewClient(testShopifyConfig(serverURL), nil, zaptest.NewLogger(t))
}

func newFakeShopifyServer(t *testing.T) (*fakeShopify, string) {
	t.Helper()
	fake := &fakeShopify{
		nextID:      1000,
		metafields:  make(map[int64][]shopify.Metafield),
		publishedOn: make(map[int64][]int64),
		publications: []shopify.Publication{
			{ID: 1, Name: "Online Store"},
			{ID: 2, Name: "Google & YouTube"},
		},
	}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server.URL
}

func testShopifyConfig(domain string) config.ShopifyConfig {
	return config.ShopifyConfig{StoreDomain: domain, AccessToken: "shpat_test", APIVersion: "2024-01"}
}

func (f *fakeShopify) id() int64 {
	f.nextID++
	return f.nextID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeShopify) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("X-Shopify-Access-Token") != "shpat_test" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errors": "[API] Invalid API key or access token"})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	title := r.URL.Query().Get("title")

	switch {
	case r.Method == http.MethodGet && path == "/products.json":
		f.productListCalls++
		if f.failList {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"errors": "boom"})
			return
		}
		out := []shopify.Product{}
		for _, p := range f.products {
			if title == "" || p.Title == title {
				out = append(out, p)
			}
		}
		if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit < len(out) {
			out = out[:limit]
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"products": out})

	case r.Method == http.MethodPost && path == "/products.json":
		var body struct {
			Product shopify.Product `json:"product"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": err.Error()})
			return
		}
		f.created = append(f.created, body.Product)
		if f.rejectCreate != nil {
			if status, resp := f.rejectCreate(body.Product); status != 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				fmt.Fprint(w, resp)
				return
			}
		}
		p := body.Product
		p.ID = f.id()
		p.Handle = strings.ReplaceAll(strings.ToLower(p.Title), " ", "-")
		f.products = append(f.products, p)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"product": p})

	case r.Method == http.MethodGet && path == "/custom_collections.json":
		writeJSON(w, http.StatusOK, map[string]interface{}{"custom_collections": filterCollections(f.custom, title)})

	case r.Method == http.MethodGet && path == "/smart_collections.json":
		writeJSON(w, http.StatusOK, map[string]interface{}{"smart_collections": filterCollections(f.smart, title)})

	case r.Method == http.MethodPost && path == "/custom_collections.json":
		var body struct {
			Collection shopify.Collection `json:"custom_collection"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.collectionCreates++
		c := shopify.Collection{ID: f.id(), Title: body.Collection.Title, Handle: strings.ToLower(body.Collection.Title)}
		f.custom = append(f.custom, c)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"custom_collection": c})

	case r.Method == http.MethodPost && path == "/collects.json":
		var body struct {
			Collect shopify.Collect `json:"collect"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for _, c := range f.custom {
			if c.ID == body.Collect.CollectionID && f.failCollectOn != "" && strings.EqualFold(c.Title, f.failCollectOn) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": map[string][]string{"collection_id": {"is invalid"}}})
				return
			}
		}
		body.Collect.ID = f.id()
		f.collects = append(f.collects, body.Collect)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"collect": body.Collect})

	case r.Method == http.MethodGet && path == "/publications.json":
		f.publicationCalls++
		if f.publicationCalls <= f.failPublicationLists {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"errors": "Service Unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"publications": f.publications})

	case r.Method == http.MethodPost && strings.HasPrefix(path, "/publications/"):
		if f.failPublish {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"errors": "channel unavailable"})
			return
		}
		var body struct {
			ResourcePublication shopify.ResourcePublication `json:"resource_publication"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		pubID, _ := strconv.ParseInt(strings.Split(strings.TrimPrefix(path, "/publications/"), "/")[0], 10, 64)
		f.publishedOn[body.ResourcePublication.ResourceID] = append(f.publishedOn[body.ResourcePublication.ResourceID], pubID)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"resource_publication": body.ResourcePublication})

	case r.Method == http.MethodPost && strings.HasPrefix(path, "/products/") && strings.HasSuffix(path, "/metafields.json"):
		var body struct {
			Metafield shopify.Metafield `json:"metafield"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		productID, _ := strconv.ParseInt(strings.Split(strings.TrimPrefix(path, "/products/"), "/")[0], 10, 64)
		body.Metafield.ID = f.id()
		f.metafields[productID] = append(f.metafields[productID], body.Metafield)
		writeJSON(w, http.StatusCreated, map[string]interface{}{"metafield": body.Metafield})

	default:
		http.NotFound(w, r)
	}
}

func filterCollections(all []shopify.Collection, title string) []shopify.Collection {
	out := []shopify.Collection{}
	for _, c := range all {
		if title == "" || strings.EqualFold(c.Title, title) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeShopify) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeShopify) collectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.collects)
}

// memProducts is an in-memory ProductRepository
type memProducts struct {
	mu       sync.Mutex
	products map[string]*domain.LocalProduct
	updates  map[string]domain.ProductUpdate
	failGet  map[string]bool
}

func newMemProducts(products ...*domain.LocalProduct) *memProducts {
	m := &memProducts{
		products: make(map[string]*domain.LocalProduct),
		updates:  make(map[string]domain.ProductUpdate),
		failGet:  make(map[string]bool),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*domain.LocalProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet[id] {
		return nil, fmt.Errorf("connection reset")
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LocalProduct
	for _, p := range m.products {
		out = append(out, p)
	}
	return repository.NewProductPage(out, int64(len(out)), filter.Normalize()), nil
}

func (m *memProducts) Update(ctx context.Context, id string, update domain.ProductUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}
	m.updates[id] = update
	if update.ShopifyProductID != nil {
		p.ShopifyProductID = *update.ShopifyProductID
	}
	if update.ShopifyPublished != nil {
		p.ShopifyPublished = *update.ShopifyPublished
	}
	return nil
}

// memEvents is an in-memory PublishEventRepository
type memEvents struct {
	mu     sync.Mutex
	events []*domain.PublishEvent
}

func (m *memEvents) Create(ctx context.Context, event *domain.PublishEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *memEvents) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.PublishEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PublishEvent
	for _, e := range m.events {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}
