package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/api/handlers"
	"github.com/articmaze/sizeapp/internal/api/middleware"
	"github.com/articmaze/sizeapp/internal/config"
	"github.com/articmaze/sizeapp/internal/repository"
)

// Services are the handlers' dependencies
type Services struct {
	Variants  handlers.VariantCreator
	Admin     handlers.AdminOperations
	Publisher handlers.Publisher
	Installer handlers.Installer
}

// NewRouter creates and configures the Gin router. A nil gatherer serves the default registry.
func NewRouter(cfg *config.Config, svc *Services, repos *repository.Repositories, gatherer prometheus.Gatherer, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Storefront: the theme extension posts the requested size here
	storefront := router.Group("/api")
	storefront.Use(middleware.StorefrontCORS(cfg.Shopify.StorefrontOrigins))
	{
		storefront.POST("/articmaze", handlers.HandleCreateVariant(svc.Variants, logger))
		storefront.OPTIONS("/articmaze", func(c *gin.Context) {})
	}

	// OAuth install
	router.GET("/auth", handlers.HandleAuthStart(svc.Installer, cfg.Shopify, logger))
	router.GET("/auth/callback", handlers.HandleAuthCallback(svc.Installer, cfg.Shopify, logger))

	// Shopify webhooks
	router.POST("/webhooks/app/uninstalled", handlers.HandleAppUninstalledWebhook(svc.Installer, cfg.Shopify.APISecret, logger))

	// Embedded admin (requires signed query + installed session)
	app := router.Group("/app")
	app.Use(middleware.ShopAuthMiddleware(cfg.Shopify.APISecret, repos.Session, logger))
	{
		app.GET("/settings", handlers.HandleGetSettings(svc.Admin, logger))
		app.POST("/products", handlers.HandleAddProduct(svc.Admin, logger))
		app.PUT("/products", handlers.HandleUpdateProducts(svc.Admin, logger))
		app.DELETE("/products", handlers.HandleRemoveProduct(svc.Admin, logger))
		app.PUT("/settings/activation", handlers.HandleSetActivation(svc.Admin, logger))
		app.POST("/settings/publish", handlers.HandlePublishSettings(svc.Publisher, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.String("error", fmt.Sprintf("%v", recovered)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
