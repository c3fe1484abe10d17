package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/api/handlers"
	"github.com/tyt2025/shopifytyt/internal/api/middleware"
	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/internal/service"
)

// Dependencies are the collaborators the handlers need
type Dependencies struct {
	Repos       *repository.Repositories
	Publisher   handlers.Publisher
	Collections handlers.CollectionLister
	SEO         service.SEOGenerator // nil when SEO generation is not configured
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(corsMiddleware(cfg.API.CORSAllowedOrigins))
	router.Use(loggingMiddleware(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Shopify Publish API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/products",
				"GET /v1/products/:id",
				"PATCH /v1/products/:id",
				"POST /v1/products/:id/publish",
				"GET /v1/collections",
				"POST /v1/seo/generate",
				"POST /v1/publish",
				"GET /v1/publish/runs/:id",
				"GET /v1/publish/runs/:id/report.xlsx",
			},
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.OperatorAuth(cfg.API.OperatorKeyHash, logger))
	{
		v1.GET("/products", handlers.HandleListProducts(deps.Repos, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(deps.Repos, logger))
		v1.PATCH("/products/:id", handlers.HandleUpdateProduct(deps.Repos, logger))
		v1.POST("/products/:id/publish", handlers.HandlePublishProduct(deps.Publisher, logger))

		v1.GET("/collections", handlers.HandleListCollections(cfg.Shopify, deps.Collections, logger))
		v1.POST("/seo/generate", handlers.HandleGenerateSEO(deps.SEO, logger))

		v1.POST("/publish", handlers.HandlePublishBatch(deps.Publisher, logger))
		v1.GET("/publish/runs/:id", handlers.HandleGetRun(deps.Repos, logger))
		v1.GET("/publish/runs/:id/report.xlsx", handlers.HandleGetRunWorkbook(deps.Repos, logger))
	}

	return router
}

// corsMiddleware lets the dashboard frontend call the API from another origin
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
		// Must be false when origins is "*"
		AllowCredentials: false,
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
