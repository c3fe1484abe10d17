package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/internal/seo"
	"github.com/tyt2025/shopifytyt/internal/shopify"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

const (
	alreadyPublishedHint = "set force to publish it again"
	duplicateHint        = "a product with the same SKU or title already exists in Shopify; set force to publish anyway"
)

// SEOGenerator produces search-engine copy for a product
type SEOGenerator interface {
	Generate(ctx context.Context, req seo.Request) (*domain.SEOCopy, error)
}

// Publisher drives the publish pipeline for batches of local products
type Publisher struct {
	client     CatalogClient
	shopifyCfg config.ShopifyConfig
	cfg        config.PublishConfig
	repos      *repository.Repositories
	generator  SEOGenerator
	logger     *zap.Logger
}

// NewPublisher creates a publisher. generator may be nil when SEO generation
// is not configured.
func NewPublisher(
	client CatalogClient,
	shopifyCfg config.ShopifyConfig,
	cfg config.PublishConfig,
	repos *repository.Repositories,
	generator SEOGenerator,
	logger *zap.Logger,
) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client:     client,
		shopifyCfg: shopifyCfg,
		cfg:        cfg,
		repos:      repos,
		generator:  generator,
		logger:     logger,
	}
}

// batchItem is a product to publish, or the outcome of failing to load it
type batchItem struct {
	product *domain.LocalProduct
	failed  *domain.PublishOutcome
}

// PublishBatch publishes products in order. Per-product failures are reported
// in the returned report; the error is only set for configuration failures,
// in which case the report holds the outcomes settled so far.
func (p *Publisher) PublishBatch(ctx context.Context, products []*domain.LocalProduct, in domain.OperatorInput) (*domain.BatchReport, error) {
	items := make([]batchItem, 0, len(products))
	for _, product := range products {
		items = append(items, batchItem{product: product})
	}
	return p.run(ctx, items, in)
}

// PublishByIDs loads the products from the local store and publishes them in
// the given order. Ids that cannot be loaded are reported as failures.
func (p *Publisher) PublishByIDs(ctx context.Context, ids []string, in domain.OperatorInput) (*domain.BatchReport, error) {
	if err := p.shopifyCfg.Validate(); err != nil {
		return p.abort(newReport(), err)
	}

	items := make([]batchItem, 0, len(ids))
	for _, id := range ids {
		product, err := p.repos.Product.GetByID(ctx, id)
		switch {
		case err == nil:
			items = append(items, batchItem{product: product})
		case errors.IsNotFound(err):
			items = append(items, batchItem{failed: failedOutcome(id, domain.FailureNotFound, err.Error())})
		default:
			p.logger.Warn("Failed to load product", zap.String("product_id", id), zap.Error(err))
			items = append(items, batchItem{failed: failedOutcome(id, domain.FailureLoadFailed, err.Error())})
		}
	}
	return p.run(ctx, items, in)
}

// PublishOne publishes a single product by id
func (p *Publisher) PublishOne(ctx context.Context, id string, in domain.OperatorInput) (*domain.PublishOutcome, *domain.BatchReport, error) {
	report, err := p.PublishByIDs(ctx, []string{id}, in)
	if err != nil {
		return nil, report, err
	}
	return report.Outcomes[0], report, nil
}

func newReport() *domain.BatchReport {
	return &domain.BatchReport{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Outcomes:  []*domain.PublishOutcome{},
	}
}

func (p *Publisher) abort(report *domain.BatchReport, err error) (*domain.BatchReport, error) {
	report.FinishedAt = time.Now().UTC()
	p.logger.Error("Publish run aborted",
		zap.String("run_id", report.RunID.String()),
		zap.Int("settled", len(report.Outcomes)),
		zap.Error(err),
	)
	return report, err
}

func (p *Publisher) run(ctx context.Context, items []batchItem, in domain.OperatorInput) (*domain.BatchReport, error) {
	report := newReport()
	if err := p.shopifyCfg.Validate(); err != nil {
		return p.abort(report, err)
	}

	r := &publishRun{
		Publisher: p,
		runID:     report.RunID,
		checker:   NewExistenceChecker(p.client, p.cfg.DuplicateScanLimit, p.logger),
		resolver:  NewCollectionResolver(p.client, p.logger),
		channels:  NewChannelPublisher(p.client, p.cfg.Channels, p.cfg.DefaultChannel, p.logger),
	}

	p.logger.Info("Publish run started",
		zap.String("run_id", report.RunID.String()),
		zap.Int("products", len(items)),
		zap.Bool("force", in.Force),
	)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return p.abort(report, err)
		}

		outcome := item.failed
		if outcome == nil {
			var err error
			outcome, err = r.publishProduct(ctx, item.product, in)
			if err != nil {
				return p.abort(report, err)
			}
		}

		report.Add(outcome)
		p.recordEvent(ctx, report.RunID, outcome)
	}

	report.FinishedAt = time.Now().UTC()
	p.logger.Info("Publish run finished",
		zap.String("run_id", report.RunID.String()),
		zap.Int("published", report.Published),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)

	if p.cfg.WebhookURL != "" {
		go NotifyRunReport(p.cfg.WebhookURL, report, p.logger)
	}
	return report, nil
}

func (p *Publisher) recordEvent(ctx context.Context, runID uuid.UUID, outcome *domain.PublishOutcome) {
	if p.repos == nil || p.repos.PublishEvent == nil {
		return
	}
	if err := p.repos.PublishEvent.Create(ctx, domain.NewPublishEvent(runID, outcome)); err != nil {
		p.logger.Warn("Failed to record publish event",
			zap.String("run_id", runID.String()),
			zap.String("product_id", outcome.ProductID),
			zap.Error(err),
		)
	}
}

// ResolveInput merges the shared operator input with what is stored on the product
func ResolveInput(p *domain.LocalProduct, in domain.OperatorInput) domain.ProductInput {
	resolved := domain.ProductInput{
		ProductType: firstNonEmpty(in.ProductType, p.ShopifyCategory),
		Tags:        domain.MergeTags(in.Tags, p.Tags, []string{p.ShopifySubcategory}),
		Collections: domain.MergeTags(in.Collections, p.Collections),
	}
	if s := in.SEO[p.ID]; !s.IsEmpty() {
		resolved.SEO = s
	}
	return resolved
}

// publishRun holds the state shared by the products of one run
type publishRun struct {
	*Publisher
	runID    uuid.UUID
	checker  *ExistenceChecker
	resolver *CollectionResolver
	channels *ChannelPublisher
}

// publishProduct runs the pipeline for one product. The error is only set when
// the whole run must stop.
func (r *publishRun) publishProduct(ctx context.Context, p *domain.LocalProduct, in domain.OperatorInput) (*domain.PublishOutcome, error) {
	outcome := &domain.PublishOutcome{
		ProductID:        p.ID,
		ProductName:      p.Name,
		SKU:              p.SKU,
		CollectionsAdded: []string{},
	}
	logger := r.logger.With(
		zap.String("run_id", r.runID.String()),
		zap.String("product_id", p.ID),
		zap.String("sku", p.SKU),
	)

	if p.IsPublished() && !in.Force {
		outcome.Error = &domain.OutcomeError{
			Kind:    domain.FailureAlreadyPublished,
			Message: fmt.Sprintf("product is already published (shopify id %q)", p.ShopifyProductID),
			Hint:    alreadyPublishedHint,
		}
		logger.Info("Product skipped: already published")
		return outcome, nil
	}

	if !in.Force {
		found, err := r.checker.Check(ctx, p.SKU, p.Name)
		if err != nil {
			logger.Warn("Existence check failed, publishing anyway", zap.Error(err))
			outcome.Warnings = append(outcome.Warnings, "existence check failed: "+err.Error())
		}
		if found {
			dup := &errors.ErrDuplicate{SKU: p.SKU, Title: p.Name, Hint: duplicateHint}
			outcome.Error = &domain.OutcomeError{
				Kind:    domain.FailureDuplicate,
				Message: dup.Error(),
				Hint:    dup.Hint,
			}
			logger.Info("Product skipped: duplicate in Shopify")
			return outcome, nil
		}
	}

	input := ResolveInput(p, in)
	outcome.ProductType = input.ProductType
	if r.cfg.RequireProductType && input.ProductType == "" {
		outcome.Error = &domain.OutcomeError{
			Kind:    domain.FailureInvalidPayload,
			Message: "product type is required",
		}
		logger.Info("Product rejected: no product type")
		return outcome, nil
	}

	if input.SEO == nil && in.GenerateSEO && r.generator != nil {
		generated, err := r.generator.Generate(ctx, seo.Request{
			ProductName: p.Name,
			Description: firstNonEmpty(p.Description, p.ShortDescription),
			Brand:       p.Brand,
			Type:        input.ProductType,
		})
		if err != nil {
			logger.Warn("SEO generation failed", zap.Error(err))
			outcome.Warnings = append(outcome.Warnings, "seo generation failed: "+err.Error())
		} else {
			input.SEO = generated
		}
	}

	payload, err := BuildProduct(p, input, PayloadOptions{CollectionsAsTags: r.cfg.CollectionsAsTags})
	if err != nil {
		outcome.Error = &domain.OutcomeError{
			Kind:    domain.FailureInvalidPayload,
			Message: err.Error(),
		}
		logger.Info("Product rejected: invalid payload", zap.Error(err))
		return outcome, nil
	}

	var deferredSEO []shopify.Metafield
	if !r.cfg.SEOMetafieldsInline {
		deferredSEO = splitSEOMetafields(payload)
	}

	created, err := r.client.CreateProduct(ctx, payload)
	if err != nil {
		var apiErr *shopify.APIError
		if stderrors.As(err, &apiErr) && apiErr.IsAuthError() {
			return outcome, &errors.ErrConfiguration{Message: "Shopify rejected the access token", Err: err}
		}
		outcome.Error = createFailure(err)
		logger.Warn("Product create failed", zap.Error(err))
		return outcome, nil
	}

	outcome.Success = true
	outcome.ShopifyID = created.ID
	outcome.ShopifyHandle = created.Handle
	outcome.ShopifyAdminURL = r.client.AdminProductURL(created.ID)

	r.attach(ctx, created.ID, input.Collections, deferredSEO, outcome, logger)

	r.markPublished(ctx, p, created.ID, input, outcome, logger)

	logger.Info("Product published",
		zap.Int64("shopify_id", created.ID),
		zap.Strings("collections", outcome.CollectionsAdded),
	)
	return outcome, nil
}

// attach runs the best-effort follow-up calls of a created product. None of
// them can fail the product.
func (r *publishRun) attach(
	ctx context.Context,
	productID int64,
	collections []string,
	deferredSEO []shopify.Metafield,
	outcome *domain.PublishOutcome,
	logger *zap.Logger,
) {
	var (
		channels       []string
		channelErr     error
		added          []string
		failed         []domain.CollectionFailure
		metafieldFails []string
	)

	var g errgroup.Group
	g.Go(func() error {
		channels, channelErr = r.channels.Publish(ctx, productID)
		return nil
	})
	g.Go(func() error {
		added, failed = r.bindCollections(ctx, productID, collections)
		return nil
	})
	if len(deferredSEO) > 0 {
		g.Go(func() error {
			for _, mf := range deferredSEO {
				if _, err := r.client.CreateProductMetafield(ctx, productID, mf); err != nil {
					metafieldFails = append(metafieldFails, (&errors.ErrBestEffort{Operation: "seo metafield " + mf.Key, Err: err}).Error())
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	outcome.Channels = channels
	if channelErr != nil {
		logger.Warn("Channel publish failed", zap.Error(channelErr))
		outcome.Warnings = append(outcome.Warnings, (&errors.ErrBestEffort{Operation: "channel publish", Err: channelErr}).Error())
	}

	if added != nil {
		outcome.CollectionsAdded = added
	}
	outcome.CollectionsFailed = failed
	for _, f := range failed {
		logger.Warn("Collection bind failed", zap.String("collection", f.Title), zap.String("error", f.Error))
	}

	for _, msg := range metafieldFails {
		logger.Warn("SEO metafield push failed", zap.String("error", msg))
	}
	outcome.Warnings = append(outcome.Warnings, metafieldFails...)
}

// bindCollections resolves and binds each collection in order
func (r *publishRun) bindCollections(ctx context.Context, productID int64, titles []string) ([]string, []domain.CollectionFailure) {
	added := []string{}
	var failed []domain.CollectionFailure
	for _, title := range titles {
		collection, err := r.resolver.Resolve(ctx, title)
		if err != nil {
			failed = append(failed, domain.CollectionFailure{Title: title, Error: err.Error()})
			continue
		}
		if collection.Kind == shopify.CollectionKindSmart {
			failed = append(failed, domain.CollectionFailure{
				Title: title,
				Error: "smart collection membership is rule based; products cannot be added manually",
			})
			continue
		}
		if _, err := r.client.CreateCollect(ctx, productID, collection.ID); err != nil {
			failed = append(failed, domain.CollectionFailure{Title: title, Error: err.Error()})
			continue
		}
		added = append(added, collection.Title)
	}
	return added, failed
}

// markPublished writes the Shopify id and the taxonomy actually used back to
// the local row so later runs skip the product.
func (r *publishRun) markPublished(
	ctx context.Context,
	p *domain.LocalProduct,
	shopifyID int64,
	input domain.ProductInput,
	outcome *domain.PublishOutcome,
	logger *zap.Logger,
) {
	if r.repos == nil || r.repos.Product == nil || p.ID == "" {
		return
	}

	id := strconv.FormatInt(shopifyID, 10)
	published := true
	update := domain.ProductUpdate{
		ShopifyProductID: &id,
		ShopifyPublished: &published,
		Tags:             nonNil(input.Tags),
		Collections:      nonNil(input.Collections),
	}
	if input.ProductType != "" {
		productType := input.ProductType
		update.ShopifyCategory = &productType
	}

	if err := r.repos.Product.Update(ctx, p.ID, update); err != nil {
		logger.Warn("Failed to mark product as published locally", zap.Error(err))
		outcome.Warnings = append(outcome.Warnings, (&errors.ErrBestEffort{Operation: "local update", Err: err}).Error())
	}
}

// createFailure classifies a failed create call
func createFailure(err error) *domain.OutcomeError {
	var apiErr *shopify.APIError
	if stderrors.As(err, &apiErr) {
		rejected := &errors.ErrRemoteRejected{Status: apiErr.StatusCode, Detail: apiErr.Errors}
		return &domain.OutcomeError{
			Kind:    domain.FailureRemoteRejected,
			Message: rejected.Error(),
			Detail:  apiErr.Errors,
		}
	}
	return &domain.OutcomeError{
		Kind:    domain.FailureRemoteError,
		Message: err.Error(),
	}
}

func failedOutcome(id string, kind domain.FailureKind, message string) *domain.PublishOutcome {
	return &domain.PublishOutcome{
		ProductID:        id,
		CollectionsAdded: []string{},
		Error:            &domain.OutcomeError{Kind: kind, Message: message},
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// OutcomeSummary renders an outcome as one log-friendly line
func OutcomeSummary(o *domain.PublishOutcome) string {
	if o.Success {
		return fmt.Sprintf("%s published as %d (%s)", o.ProductID, o.ShopifyID, strings.Join(o.CollectionsAdded, ", "))
	}
	if o.Error == nil {
		return o.ProductID + " failed"
	}
	return fmt.Sprintf("%s %s: %s", o.ProductID, o.Error.Kind, o.Error.Message)
}
