package shopify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// OAuth performs the authorization-code install flow for the app
type OAuth struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	RedirectURI  string

	httpClient *http.Client
	baseURL    func(shop string) string
}

// NewOAuth creates an OAuth helper for the app credentials
func NewOAuth(clientID, clientSecret string, scopes []string, redirectURI string) *OAuth {
	return &OAuth{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
		RedirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		baseURL: func(shop string) string {
			return "https://" + shop
		},
	}
}

// AuthorizeURL returns the URL the merchant is redirected to for granting scopes
func (o *OAuth) AuthorizeURL(shop, state string) string {
	return fmt.Sprintf(
		"%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		o.baseURL(shop),
		url.QueryEscape(o.ClientID),
		url.QueryEscape(strings.Join(o.Scopes, ",")),
		url.QueryEscape(o.RedirectURI),
		url.QueryEscape(state),
	)
}

// AccessTokenResponse is the token exchange result
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// ExchangeCodeForToken trades the callback code for an offline access token
func (o *OAuth) ExchangeCodeForToken(ctx context.Context, shop, code string) (*AccessTokenResponse, error) {
	body := map[string]string{
		"client_id":     o.ClientID,
		"client_secret": o.ClientSecret,
		"code":          code,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL(shop)+"/admin/oauth/access_token", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}

	var out AccessTokenResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}
	return &out, nil
}

// VerifyQueryHMAC checks the hmac parameter Shopify adds to OAuth and admin
// URLs. The message is the sorted query string without hmac and signature.
func VerifyQueryHMAC(q url.Values, secret string) bool {
	if secret == "" || q.Get("hmac") == "" {
		return false
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		for _, v := range q[k] {
			parts = append(parts, k+"="+v)
		}
	}
	msg := strings.Join(parts, "&")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(q.Get("hmac"))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// VerifyWebhookHMAC checks X-Shopify-Hmac-Sha256 (base64) over the raw body
func VerifyWebhookHMAC(body []byte, header, secret string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	got, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// IsValidShopDomain accepts *.myshopify.com hosts and the configured custom domain
func IsValidShopDomain(shop, customDomain string) bool {
	shop = strings.ToLower(strings.TrimSpace(shop))
	if shop == "" || strings.ContainsAny(shop, "/:?#@ ") {
		return false
	}
	if customDomain != "" && shop == strings.ToLower(customDomain) {
		return true
	}
	name := strings.TrimSuffix(shop, ".myshopify.com")
	if name == shop || name == "" {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
			return false
		}
	}
	return true
}
