package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/api/middleware"
	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/service"
	"github.com/articmaze/sizeapp/pkg/errors"
)

const settingsTitle = "Settings"

// AdminOperations is the merchant-facing product and settings API
type AdminOperations interface {
	Overview(ctx context.Context, shop string) (*service.Overview, error)
	AddProduct(ctx context.Context, shop string, sel service.SelectedProduct) error
	RemoveProduct(ctx context.Context, shop, productID string) error
	UpdateProducts(ctx context.Context, shop string, updates []service.ProductUpdate) error
	SetAppActivated(ctx context.Context, shop string, activated bool) error
}

// Publisher publishes settings synchronously
type Publisher interface {
	Publish(ctx context.Context, shop string) (*service.PublishResult, error)
}

// HandleGetSettings handles GET /app/settings
func HandleGetSettings(admin AdminOperations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := middleware.GetShopFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		overview, err := admin.Overview(c.Request.Context(), shop)
		if err != nil {
			logger.Error("Failed to load settings overview", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		products := make([]gin.H, 0, len(overview.Products))
		for _, p := range overview.Products {
			products = append(products, productToJSON(p))
		}

		var settings gin.H
		if overview.Settings != nil {
			settings = gin.H{
				"shop":         overview.Settings.Shop,
				"appActivated": overview.Settings.AppActivated,
				"updatedAt":    overview.Settings.UpdatedAt.Format(time.RFC3339),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"settings": settings,
			"adminUrl": overview.AdminURL,
		})
	}
}

// HandleAddProduct handles POST /app/products (product-add)
func HandleAddProduct(admin AdminOperations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := middleware.GetShopFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.SelectedProduct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		err := admin.AddProduct(c.Request.Context(), shop, req)
		respondAction(c, http.MethodPost, service.SubmitProductAdd, err)
	}
}

// HandleRemoveProduct handles DELETE /app/products (product-remove). The product GID
// comes from the JSON body {"productId": ...} or the productId query parameter.
func HandleRemoveProduct(admin AdminOperations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := middleware.GetShopFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		req := service.RemoveProductRequest{ProductID: c.Query("productId")}
		if req.ProductID == "" {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "productId required", "details": err.Error()})
				return
			}
		}

		err := admin.RemoveProduct(c.Request.Context(), shop, req.ProductID)
		respondAction(c, http.MethodDelete, service.SubmitProductRemove, err)
	}
}

// HandleUpdateProducts handles PUT /app/products (products-update)
func HandleUpdateProducts(admin AdminOperations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := middleware.GetShopFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.ProductsUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		err := admin.UpdateProducts(c.Request.Context(), shop, req.Products)
		respondAction(c, http.MethodPut, service.SubmitProductsUpdate, err)
	}
}

// HandleSetActivation handles PUT /app/settings/activation (app-activate)
func HandleSetActivation(admin AdminOperations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := middleware.GetShopFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.ActivationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}

		err := admin.SetAppActivated(c.Request.Context(), shop, *req.AppActivated)
		respondAction(c, http.MethodPut, service.SubmitAppActivate, err)
	}
}

// HandlePublishSettings handles POST /app/settings/publish. Unlike the background
// publish it reports remote userErrors to the caller.
func HandlePublishSettings(publisher Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop, ok := middleware.GetShopFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, err := publisher.Publish(c.Request.Context(), shop)
		if err != nil {
			logger.Error("Settings publish failed", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "settings publish failed", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"method":     http.MethodPost,
			"submitType": service.SubmitPublish,
			"title":      settingsTitle,
			"shopId":     result.ShopID,
			"userErrors": result.UserErrors,
		})
	}
}

// respondAction writes the success-shaped action response. Store failures are already
// logged by the service and do not change the response; validation and not-found do.
func respondAction(c *gin.Context, method, submitType string, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error(), "fields": e.Fields})
		return
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
		return
	}
	c.JSON(http.StatusOK, service.ActionResponse{
		Method:     method,
		SubmitType: submitType,
		Title:      settingsTitle,
	})
}

func productToJSON(p *domain.Product) gin.H {
	return gin.H{
		"productId":    p.ProductID,
		"title":        p.Title,
		"handle":       p.Handle,
		"price":        p.Price,
		"lengthMin":    p.LengthMin,
		"lengthMax":    p.LengthMax,
		"lengthOption": p.LengthOption,
		"widthMin":     p.WidthMin,
		"widthMax":     p.WidthMax,
		"widthOption":  p.WidthOption,
		"status":       p.Status,
		"updatedAt":    p.UpdatedAt.Format(time.RFC3339),
	}
}
