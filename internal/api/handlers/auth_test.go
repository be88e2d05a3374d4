package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/config"
)

var testShopifyConfig = config.ShopifyConfig{
	APIKey:    "client-id",
	APISecret: testSecret,
}

func authRouter(installer Installer) *gin.Engine {
	r := gin.New()
	r.GET("/auth", HandleAuthStart(installer, testShopifyConfig, zap.NewNop()))
	r.GET("/auth/callback", HandleAuthCallback(installer, testShopifyConfig, zap.NewNop()))
	r.POST("/webhooks/app/uninstalled", HandleAppUninstalledWebhook(installer, testSecret, zap.NewNop()))
	return r
}

func callbackRequest(state string, tamper bool) *http.Request {
	q := url.Values{}
	q.Set("shop", testShop)
	q.Set("code", "abc")
	q.Set("state", state)
	q.Set("timestamp", "1700000000")
	q.Set("hmac", signQuery(q, testSecret))
	if tamper {
		q.Set("code", "other")
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+q.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
	return req
}

func TestHandleAuthStart_RedirectsWithStateCookie(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(&fakeInstaller{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth?shop=demo.myshopify.com", nil))

	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, oauthStateCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Contains(t, w.Header().Get("Location"), "state="+cookies[0].Value)
}

func TestHandleAuthStart_RejectsBadShop(t *testing.T) {
	w := httptest.NewRecorder()
	authRouter(&fakeInstaller{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth?shop=evil.com", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAuthCallback_Installs(t *testing.T) {
	installer := &fakeInstaller{}
	w := httptest.NewRecorder()
	authRouter(installer).ServeHTTP(w, callbackRequest("s1", false))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://demo.myshopify.com/admin/apps/client-id", w.Header().Get("Location"))
	assert.Equal(t, testShop, installer.installedShop)
	assert.Equal(t, "abc", installer.installedCode)
}

func TestHandleAuthCallback_RejectsTamperedQuery(t *testing.T) {
	installer := &fakeInstaller{}
	w := httptest.NewRecorder()
	authRouter(installer).ServeHTTP(w, callbackRequest("s1", true))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, installer.installedShop)
}

func TestHandleAuthCallback_RejectsStateMismatch(t *testing.T) {
	installer := &fakeInstaller{}
	req := callbackRequest("s1", false)
	req.Header.Del("Cookie")
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "other"})

	w := httptest.NewRecorder()
	authRouter(installer).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, installer.installedShop)
}

func TestHandleAuthCallback_InstallFailure(t *testing.T) {
	installer := &fakeInstaller{err: fmt.Errorf("token exchange failed")}
	w := httptest.NewRecorder()
	authRouter(installer).ServeHTTP(w, callbackRequest("s1", false))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func signBody(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHandleAppUninstalledWebhook(t *testing.T) {
	body := `{"id":42,"domain":"shop.example.com","myshopify_domain":"demo.myshopify.com"}`

	installer := &fakeInstaller{}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/app/uninstalled", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", signBody(body, testSecret))
	w := httptest.NewRecorder()
	authRouter(installer).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testShop, installer.uninstalled)
}

func TestHandleAppUninstalledWebhook_BadSignature(t *testing.T) {
	body := `{"myshopify_domain":"demo.myshopify.com"}`

	installer := &fakeInstaller{}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/app/uninstalled", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-Sha256", signBody(body, "wrong"))
	w := httptest.NewRecorder()
	authRouter(installer).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, installer.uninstalled)
}
