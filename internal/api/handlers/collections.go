package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/shopify"
)

// CollectionLister lists the store's collections
type CollectionLister interface {
	ListCollections(ctx context.Context, title string) ([]shopify.Collection, error)
}

// HandleListCollections handles GET /v1/collections
func HandleListCollections(shopifyCfg config.ShopifyConfig, client CollectionLister, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := shopifyCfg.Validate(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		collections, err := client.ListCollections(c.Request.Context(), strings.TrimSpace(c.Query("title")))
		if err != nil {
			var apiErr *shopify.APIError
			if stderrors.As(err, &apiErr) && apiErr.IsAuthError() {
				logger.Error("Shopify rejected the access token", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Shopify credentials rejected"})
				return
			}
			logger.Error("Failed to list collections", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list collections"})
			return
		}
		if collections == nil {
			collections = []shopify.Collection{}
		}
		c.JSON(http.StatusOK, gin.H{
			"collections": collections,
			"count":       len(collections),
		})
	}
}
