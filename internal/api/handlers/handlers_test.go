package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/report"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/internal/seo"
	"github.com/tyt2025/shopifytyt/internal/shopify"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

type memProducts struct {
	mu       sync.Mutex
	products map[string]*domain.LocalProduct
	lastList domain.ProductFilter
	updates  []domain.ProductUpdate
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*domain.LocalProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.lastList = filter
	var out []*domain.LocalProduct
	for _, p := range m.products {
		out = append(out, p)
	}
	return repository.NewProductPage(out, int64(len(out)), filter), nil
}

func (m *memProducts) Update(ctx context.Context, id string, update domain.ProductUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}
	m.updates = append(m.updates, update)
	if update.ShopifyCategory != nil {
		p.ShopifyCategory = *update.ShopifyCategory
	}
	if update.Tags != nil {
		p.Tags = update.Tags
	}
	return nil
}

type memEvents struct {
	events []*domain.PublishEvent
}

func (m *memEvents) Create(ctx context.Context, event *domain.PublishEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *memEvents) ListByRunID(ctx context.Context, runID uuid.UUID) ([]*domain.PublishEvent, error) {
	var out []*domain.PublishEvent
	for _, e := range m.events {
		if e.RunID == runID {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubPublisher struct {
	ids     []string
	input   domain.OperatorInput
	outcome *domain.PublishOutcome
	err     error
}

func (s *stubPublisher) PublishByIDs(ctx context.Context, ids []string, in domain.OperatorInput) (*domain.BatchReport, error) {
	s.ids, s.input = ids, in
	r := &domain.BatchReport{RunID: uuid.New(), Outcomes: []*domain.PublishOutcome{}}
	if s.err != nil {
		return r, s.err
	}
	for _, id := range ids {
		r.Add(&domain.PublishOutcome{ProductID: id, Success: id != "bad", CollectionsAdded: []string{}})
	}
	return r, nil
}

func (s *stubPublisher) PublishOne(ctx context.Context, id string, in domain.OperatorInput) (*domain.PublishOutcome, *domain.BatchReport, error) {
	s.ids, s.input = []string{id}, in
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.outcome, nil, nil
}

type stubCollections struct {
	collections []shopify.Collection
	err         error
}

func (s *stubCollections) ListCollections(ctx context.Context, title string) ([]shopify.Collection, error) {
	return s.collections, s.err
}

type stubGenerator struct {
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, req seo.Request) (*domain.SEOCopy, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.SEOCopy{Title: req.ProductName + " | Tienda", Description: "Compra " + req.ProductName}, nil
}

func newTestRepos() (*repository.Repositories, *memProducts, *memEvents) {
	products := &memProducts{products: map[string]*domain.LocalProduct{
		"1": {ID: "1", Name: "Mouse X", SKU: "SKU1", IsActive: true},
		"2": {ID: "2", Name: "Teclado", SKU: "SKU2", IsActive: true},
	}}
	events := &memEvents{}
	return &repository.Repositories{Product: products, PublishEvent: events}, products, events
}

func doRequest(t *testing.T, handler gin.HandlerFunc, method, route, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, route, handler)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHandleListProducts(t *testing.T) {
	repos, products, _ := newTestRepos()
	w := doRequest(t, HandleListProducts(repos, zaptest.NewLogger(t)), http.MethodGet, "/v1/products",
		"/v1/products?page=2&limit=500&search=%20mouse%20&category=Perifericos", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := products.lastList
	if got.Page != 2 || got.Limit != domain.MaxPageLimit || got.Search != "mouse" || got.Category != "Perifericos" {
		t.Errorf("filter = %+v", got)
	}
	var page domain.ProductPage
	decode(t, w, &page)
	if page.Total != 2 || page.Limit != domain.MaxPageLimit {
		t.Errorf("page = %+v", page)
	}
}

func TestHandleGetProduct(t *testing.T) {
	repos, _, _ := newTestRepos()
	handler := HandleGetProduct(repos, zaptest.NewLogger(t))

	w := doRequest(t, handler, http.MethodGet, "/v1/products/:id", "/v1/products/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p domain.LocalProduct
	decode(t, w, &p)
	if p.SKU != "SKU1" {
		t.Errorf("product = %+v", p)
	}

	w = doRequest(t, handler, http.MethodGet, "/v1/products/:id", "/v1/products/99", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d, want 404", w.Code)
	}
}

func TestHandleUpdateProduct(t *testing.T) {
	repos, products, _ := newTestRepos()
	handler := HandleUpdateProduct(repos, zaptest.NewLogger(t))

	w := doRequest(t, handler, http.MethodPatch, "/v1/products/:id", "/v1/products/1",
		`{"shopify_category":" Perifericos ","tags":"gamer, rgb"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if len(products.updates) != 1 {
		t.Fatalf("updates = %d", len(products.updates))
	}
	update := products.updates[0]
	if *update.ShopifyCategory != "Perifericos" || len(update.Tags) != 2 || update.Collections != nil {
		t.Errorf("update = %+v", update)
	}
	var p domain.LocalProduct
	decode(t, w, &p)
	if p.ShopifyCategory != "Perifericos" {
		t.Errorf("response = %+v", p)
	}

	w = doRequest(t, handler, http.MethodPatch, "/v1/products/:id", "/v1/products/1", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty update status = %d, want 400", w.Code)
	}
	w = doRequest(t, handler, http.MethodPatch, "/v1/products/:id", "/v1/products/99", `{"tags":[]}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d, want 404", w.Code)
	}
}

func TestHandlePublishBatch(t *testing.T) {
	publisher := &stubPublisher{}
	handler := HandlePublishBatch(publisher, zaptest.NewLogger(t))

	w := doRequest(t, handler, http.MethodPost, "/v1/publish", "/v1/publish",
		`{"product_ids":["1"," 2 ","1","bad"],"product_type":"Mouse","tags":"gamer","collections":["Accesorios"],"force":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if fmt.Sprint(publisher.ids) != "[1 2 bad]" {
		t.Errorf("ids = %v", publisher.ids)
	}
	in := publisher.input
	if in.ProductType != "Mouse" || !in.Force || len(in.Tags) != 1 || len(in.Collections) != 1 {
		t.Errorf("input = %+v", in)
	}

	var r domain.BatchReport
	decode(t, w, &r)
	if r.Published != 2 || r.Failed != 1 || len(r.Outcomes) != 3 {
		t.Errorf("report = %+v", r)
	}
}

func TestHandlePublishBatch_BadRequests(t *testing.T) {
	handler := HandlePublishBatch(&stubPublisher{}, zaptest.NewLogger(t))
	for _, body := range []string{`{`, `{"product_ids":[]}`, `{"product_ids":["  "]}`, `{"product_ids":["1"],"tags":12}`} {
		w := doRequest(t, handler, http.MethodPost, "/v1/publish", "/v1/publish", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestHandlePublishBatch_ConfigurationFailure(t *testing.T) {
	publisher := &stubPublisher{err: &errors.ErrConfiguration{Message: "Shopify credentials not configured"}}
	w := doRequest(t, HandlePublishBatch(publisher, zaptest.NewLogger(t)), http.MethodPost, "/v1/publish", "/v1/publish",
		`{"product_ids":["1"]}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHandlePublishProduct_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		kind domain.FailureKind
		want int
	}{
		{"success", "", http.StatusOK},
		{"duplicate", domain.FailureDuplicate, http.StatusConflict},
		{"already published", domain.FailureAlreadyPublished, http.StatusConflict},
		{"invalid payload", domain.FailureInvalidPayload, http.StatusUnprocessableEntity},
		{"remote rejected", domain.FailureRemoteRejected, http.StatusBadGateway},
		{"not found", domain.FailureNotFound, http.StatusNotFound},
		{"load failed", domain.FailureLoadFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := &domain.PublishOutcome{ProductID: "1", Success: tt.kind == ""}
			if tt.kind != "" {
				outcome.Error = &domain.OutcomeError{Kind: tt.kind, Message: "x", Hint: "set force"}
			}
			publisher := &stubPublisher{outcome: outcome}
			w := doRequest(t, HandlePublishProduct(publisher, zaptest.NewLogger(t)), http.MethodPost,
				"/v1/products/:id/publish", "/v1/products/1/publish", nil)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandlePublishProduct_Input(t *testing.T) {
	publisher := &stubPublisher{outcome: &domain.PublishOutcome{ProductID: "7", Success: true}}
	w := doRequest(t, HandlePublishProduct(publisher, zaptest.NewLogger(t)), http.MethodPost,
		"/v1/products/:id/publish", "/v1/products/7/publish",
		`{"product_type":"Teclado","seo_title":"Teclado RGB","seo_description":"El mejor teclado","force":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	in := publisher.input
	if in.ProductType != "Teclado" || !in.Force {
		t.Errorf("input = %+v", in)
	}
	if s := in.SEO["7"]; s == nil || s.Title != "Teclado RGB" {
		t.Errorf("seo = %+v", in.SEO)
	}

	publisher.err = &errors.ErrConfiguration{Message: "Shopify credentials rejected"}
	w = doRequest(t, HandlePublishProduct(publisher, zaptest.NewLogger(t)), http.MethodPost,
		"/v1/products/:id/publish", "/v1/products/7/publish", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHandleListCollections(t *testing.T) {
	cfg := config.ShopifyConfig{StoreDomain: "shop.myshopify.com", AccessToken: "shpat_test"}
	lister := &stubCollections{collections: []shopify.Collection{
		{ID: 1, Title: "Accesorios", Kind: shopify.CollectionKindCustom},
		{ID: 2, Title: "Linea Gamer", Kind: shopify.CollectionKindSmart},
	}}

	w := doRequest(t, HandleListCollections(cfg, lister, zaptest.NewLogger(t)), http.MethodGet, "/v1/collections", "/v1/collections", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Count int `json:"count"`
	}
	decode(t, w, &body)
	if body.Count != 2 {
		t.Errorf("count = %d", body.Count)
	}

	w = doRequest(t, HandleListCollections(config.ShopifyConfig{}, lister, zaptest.NewLogger(t)), http.MethodGet, "/v1/collections", "/v1/collections", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("missing credentials status = %d, want 500", w.Code)
	}

	lister.err = &shopify.APIError{StatusCode: http.StatusServiceUnavailable, Status: "503 Service Unavailable"}
	w = doRequest(t, HandleListCollections(cfg, lister, zaptest.NewLogger(t)), http.MethodGet, "/v1/collections", "/v1/collections", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("remote failure status = %d, want 502", w.Code)
	}
}

func TestHandleGenerateSEO(t *testing.T) {
	handler := HandleGenerateSEO(&stubGenerator{}, zaptest.NewLogger(t))

	w := doRequest(t, handler, http.MethodPost, "/v1/seo/generate", "/v1/seo/generate", `{"product_name":"Mouse X","brand":"Acme"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got domain.SEOCopy
	decode(t, w, &got)
	if got.Title != "Mouse X | Tienda" {
		t.Errorf("copy = %+v", got)
	}

	w = doRequest(t, handler, http.MethodPost, "/v1/seo/generate", "/v1/seo/generate", `{"product_name":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", w.Code)
	}

	w = doRequest(t, HandleGenerateSEO(nil, zaptest.NewLogger(t)), http.MethodPost, "/v1/seo/generate", "/v1/seo/generate", `{"product_name":"Mouse X"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured status = %d, want 503", w.Code)
	}

	w = doRequest(t, HandleGenerateSEO(&stubGenerator{err: fmt.Errorf("quota")}, zaptest.NewLogger(t)), http.MethodPost,
		"/v1/seo/generate", "/v1/seo/generate", `{"product_name":"Mouse X"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("generator failure status = %d, want 502", w.Code)
	}
}

func TestHandleGetRun(t *testing.T) {
	repos, _, events := newTestRepos()
	runID := uuid.New()
	events.Create(context.Background(), domain.NewPublishEvent(runID, &domain.PublishOutcome{ProductID: "1", Success: true, ShopifyID: 1001}))
	events.Create(context.Background(), domain.NewPublishEvent(runID, &domain.PublishOutcome{
		ProductID: "2",
		Error:     &domain.OutcomeError{Kind: domain.FailureDuplicate, Message: "exists"},
	}))
	events.Create(context.Background(), domain.NewPublishEvent(uuid.New(), &domain.PublishOutcome{ProductID: "3", Success: true}))

	w := doRequest(t, HandleGetRun(repos, zaptest.NewLogger(t)), http.MethodGet, "/v1/publish/runs/:id", "/v1/publish/runs/"+runID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Published int                    `json:"published"`
		Failed    int                    `json:"failed"`
		Events    []*domain.PublishEvent `json:"events"`
	}
	decode(t, w, &body)
	if body.Published != 1 || body.Failed != 1 || len(body.Events) != 2 {
		t.Errorf("body = %+v", body)
	}

	w = doRequest(t, HandleGetRun(repos, zaptest.NewLogger(t)), http.MethodGet, "/v1/publish/runs/:id", "/v1/publish/runs/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
	w = doRequest(t, HandleGetRun(repos, zaptest.NewLogger(t)), http.MethodGet, "/v1/publish/runs/:id", "/v1/publish/runs/"+uuid.NewString(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown run status = %d, want 404", w.Code)
	}
}

func TestHandleGetRunWorkbook(t *testing.T) {
	repos, _, events := newTestRepos()
	runID := uuid.New()
	events.Create(context.Background(), domain.NewPublishEvent(runID, &domain.PublishOutcome{ProductID: "1", Success: true, ShopifyID: 1001}))

	w := doRequest(t, HandleGetRunWorkbook(repos, zaptest.NewLogger(t)), http.MethodGet,
		"/v1/publish/runs/:id/report.xlsx", "/v1/publish/runs/"+runID.String()+"/report.xlsx", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != report.ContentType {
		t.Errorf("content type = %q", ct)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("body is not a zip archive")
	}
}
