package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/seo"
	"github.com/tyt2025/shopifytyt/internal/service"
)

// GenerateSEORequest describes the product to write search copy for
type GenerateSEORequest struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Type        string `json:"type"`
}

// HandleGenerateSEO handles POST /v1/seo/generate. generator is nil when no
// language-model key is configured.
func HandleGenerateSEO(generator service.SEOGenerator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if generator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "SEO generation is not configured"})
			return
		}

		var req GenerateSEORequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		if strings.TrimSpace(req.ProductName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_name is required"})
			return
		}

		result, err := generator.Generate(c.Request.Context(), seo.Request{
			ProductName: strings.TrimSpace(req.ProductName),
			Description: req.Description,
			Brand:       strings.TrimSpace(req.Brand),
			Type:        strings.TrimSpace(req.Type),
		})
		if err != nil {
			logger.Error("Failed to generate SEO copy", zap.String("product_name", req.ProductName), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate SEO copy"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
