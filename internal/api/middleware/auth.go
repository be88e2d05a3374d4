package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/repository"
	"github.com/articmaze/sizeapp/internal/shopify"
)

const ShopContextKey = "shop"

// maxRequestAge bounds how old a signed admin URL may be
const maxRequestAge = 24 * time.Hour

// ShopAuthMiddleware authenticates embedded-admin requests: the query string must carry
// a valid Shopify hmac for the app secret and the shop must have an installed session.
func ShopAuthMiddleware(apiSecret string, sessions repository.SessionRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		shop := shopify.NormalizeShopDomain(q.Get("shop"))
		if shop == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing shop parameter"})
			c.Abort()
			return
		}

		if !shopify.VerifyQueryHMAC(q, apiSecret) {
			logger.Warn("Rejected admin request with invalid hmac", zap.String("shop", shop), zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			c.Abort()
			return
		}

		if !freshTimestamp(q.Get("timestamp"), time.Now()) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "request expired"})
			c.Abort()
			return
		}

		if _, err := sessions.GetByShop(c.Request.Context(), shop); err != nil {
			logger.Warn("No session for shop", zap.String("shop", shop), zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "app not installed for shop"})
			c.Abort()
			return
		}

		c.Set(ShopContextKey, shop)
		c.Next()
	}
}

// GetShopFromContext retrieves the authenticated shop domain
func GetShopFromContext(c *gin.Context) (string, bool) {
	shop, exists := c.Get(ShopContextKey)
	if !exists {
		return "", false
	}
	s, ok := shop.(string)
	return s, ok && s != ""
}

func freshTimestamp(raw string, now time.Time) bool {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	age := now.Sub(time.Unix(ts, 0))
	return age < maxRequestAge && age > -maxRequestAge
}
