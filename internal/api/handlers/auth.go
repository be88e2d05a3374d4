package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/config"
	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/shopify"
)

const (
	oauthStateCookie = "articmaze_oauth_state"
	oauthStateMaxAge = 600 // seconds
)

// Installer runs the OAuth install flow
type Installer interface {
	AuthorizeURL(shop, state string) string
	CompleteInstall(ctx context.Context, shop, code string) (*domain.Session, error)
	Uninstall(ctx context.Context, shop string) error
}

// HandleAuthStart handles GET /auth?shop=... and redirects to the Shopify grant screen
func HandleAuthStart(installer Installer, cfg config.ShopifyConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shop := shopify.NormalizeShopDomain(c.Query("shop"))
		if !shopify.IsValidShopDomain(shop, cfg.ShopCustomDomain) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop domain"})
			return
		}

		state := uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/auth", "", true, true)

		logger.Info("Starting OAuth", zap.String("shop", shop))
		c.Redirect(http.StatusFound, installer.AuthorizeURL(shop, state))
	}
}

// HandleAuthCallback handles GET /auth/callback: checks shop, state and hmac,
// stores the offline session and sends the merchant to the embedded app.
func HandleAuthCallback(installer Installer, cfg config.ShopifyConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		shop := shopify.NormalizeShopDomain(q.Get("shop"))
		if !shopify.IsValidShopDomain(shop, cfg.ShopCustomDomain) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop domain"})
			return
		}

		state, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || state != q.Get("state") {
			logger.Warn("OAuth state mismatch", zap.String("shop", shop))
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid state"})
			return
		}

		if !shopify.VerifyQueryHMAC(q, cfg.APISecret) {
			logger.Warn("OAuth callback hmac invalid", zap.String("shop", shop))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid hmac"})
			return
		}

		code := q.Get("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
			return
		}

		if _, err := installer.CompleteInstall(c.Request.Context(), shop, code); err != nil {
			logger.Error("Install failed", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "install failed", "details": err.Error()})
			return
		}

		c.SetCookie(oauthStateCookie, "", -1, "/auth", "", true, true)
		c.Redirect(http.StatusFound, "https://"+shop+"/admin/apps/"+cfg.APIKey)
	}
}
