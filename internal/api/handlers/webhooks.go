package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/shopify"
)

type appUninstalledWebhookBody struct {
	Domain          string `json:"domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
}

// HandleAppUninstalledWebhook handles POST /webhooks/app/uninstalled.
// Configure the app/uninstalled topic to point here.
func HandleAppUninstalledWebhook(installer Installer, apiSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Read raw body (Shopify HMAC is computed over raw bytes)
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		if !shopify.VerifyWebhookHMAC(bodyBytes, c.GetHeader("X-Shopify-Hmac-Sha256"), apiSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
			return
		}

		shop := strings.TrimSpace(c.GetHeader("X-Shopify-Shop-Domain"))
		if shop == "" {
			var body appUninstalledWebhookBody
			if err := json.Unmarshal(bodyBytes, &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON", "details": err.Error()})
				return
			}
			shop = body.MyshopifyDomain
			if shop == "" {
				shop = body.Domain
			}
		}
		shop = shopify.NormalizeShopDomain(shop)
		if shop == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing shop"})
			return
		}

		if err := installer.Uninstall(c.Request.Context(), shop); err != nil {
			logger.Error("Failed to handle app/uninstalled", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		logger.Info("Shopify app/uninstalled webhook processed",
			zap.String("shop", shop),
			zap.String("topic", c.GetHeader("X-Shopify-Topic")),
		)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
