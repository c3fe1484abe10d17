package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

// maxBatchSize bounds one publish request; each product costs several remote calls
const maxBatchSize = 250

// Publisher runs the publish pipeline
type Publisher interface {
	PublishByIDs(ctx context.Context, ids []string, in domain.OperatorInput) (*domain.BatchReport, error)
	PublishOne(ctx context.Context, id string, in domain.OperatorInput) (*domain.PublishOutcome, *domain.BatchReport, error)
}

// PublishBatchRequest selects local products and the shared operator input
type PublishBatchRequest struct {
	ProductIDs []string `json:"product_ids"`
	domain.OperatorInput
}

// PublishProductRequest is the operator input for a single product
type PublishProductRequest struct {
	ProductType    string         `json:"product_type"`
	Tags           domain.TagList `json:"tags"`
	Collections    domain.TagList `json:"collections"`
	SEOTitle       string         `json:"seo_title"`
	SEODescription string         `json:"seo_description"`
	GenerateSEO    bool           `json:"generate_seo"`
	Force          bool           `json:"force"`
}

func (r PublishProductRequest) operatorInput(productID string) domain.OperatorInput {
	in := domain.OperatorInput{
		ProductType: strings.TrimSpace(r.ProductType),
		Tags:        r.Tags,
		Collections: r.Collections,
		GenerateSEO: r.GenerateSEO,
		Force:       r.Force,
	}
	seo := &domain.SEOCopy{Title: strings.TrimSpace(r.SEOTitle), Description: strings.TrimSpace(r.SEODescription)}
	if !seo.IsEmpty() {
		in.SEO = map[string]*domain.SEOCopy{productID: seo}
	}
	return in
}

// HandlePublishBatch handles POST /v1/publish. Per-product failures are
// reported inside a 200 response.
func HandlePublishBatch(publisher Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PublishBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}

		ids, err := cleanIDs(req.ProductIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.ProductType = strings.TrimSpace(req.ProductType)

		report, err := publisher.PublishByIDs(c.Request.Context(), ids, req.OperatorInput)
		if err != nil {
			logger.Error("Publish batch aborted", zap.Int("products", len(ids)), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  err.Error(),
				"report": report,
			})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// HandlePublishProduct handles POST /v1/products/:id/publish
func HandlePublishProduct(publisher Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id required"})
			return
		}

		var req PublishProductRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
				return
			}
		}

		outcome, _, err := publisher.PublishOne(c.Request.Context(), id, req.operatorInput(id))
		if err != nil {
			logger.Error("Publish aborted", zap.String("product_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(outcomeStatus(outcome), outcome)
	}
}

// outcomeStatus maps a single-product outcome to an HTTP status
func outcomeStatus(o *domain.PublishOutcome) int {
	if o.Success || o.Error == nil {
		return http.StatusOK
	}
	switch o.Error.Kind {
	case domain.FailureDuplicate, domain.FailureAlreadyPublished:
		return http.StatusConflict
	case domain.FailureInvalidPayload:
		return http.StatusUnprocessableEntity
	case domain.FailureRemoteRejected, domain.FailureRemoteError:
		return http.StatusBadGateway
	case domain.FailureNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// cleanIDs trims ids and drops repeats, keeping the first occurrence
func cleanIDs(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, &errors.ErrValidation{Message: "product_ids must contain at least one id"}
	}
	if len(ids) > maxBatchSize {
		return nil, &errors.ErrValidation{Message: "too many product_ids in one batch"}
	}
	return ids, nil
}
