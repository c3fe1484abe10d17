package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/domain"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/pkg/errors"
)

// UpdateProductRequest is the operator's taxonomy edit of one local product
type UpdateProductRequest struct {
	ShopifyCategory    *string         `json:"shopify_category"`
	ShopifySubcategory *string         `json:"shopify_subcategory"`
	Tags               *domain.TagList `json:"tags"`
	Collections        *domain.TagList `json:"collections"`
}

func (r UpdateProductRequest) toUpdate() domain.ProductUpdate {
	update := domain.ProductUpdate{
		ShopifyCategory:    trimPtr(r.ShopifyCategory),
		ShopifySubcategory: trimPtr(r.ShopifySubcategory),
	}
	if r.Tags != nil {
		update.Tags = nonNilTags(*r.Tags)
	}
	if r.Collections != nil {
		update.Collections = nonNilTags(*r.Collections)
	}
	return update
}

// HandleListProducts handles GET /v1/products
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := domain.ProductFilter{
			Search:     strings.TrimSpace(c.Query("search")),
			Category:   strings.TrimSpace(c.Query("category")),
			ActiveOnly: c.Query("active") == "true",
		}
		if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
			filter.Page = page
		}
		if limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageLimit))); err == nil {
			filter.Limit = limit
		}

		page, err := repos.Product.List(c.Request.Context(), filter.Normalize())
		if err != nil {
			logger.Error("Failed to list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleUpdateProduct handles PATCH /v1/products/:id
func HandleUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
		update := req.toUpdate()
		if update.IsEmpty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
			return
		}

		if err := repos.Product.Update(c.Request.Context(), id, update); err != nil {
			if errors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			logger.Warn("Updated product could not be read back", zap.String("product_id", id), zap.Error(err))
			c.JSON(http.StatusOK, gin.H{"id": id, "updated": true})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// nonNilTags keeps an explicit empty list distinguishable from "not sent"
func nonNilTags(t domain.TagList) []string {
	if t == nil {
		return []string{}
	}
	return []string(t)
}
