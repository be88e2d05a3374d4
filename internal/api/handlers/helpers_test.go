package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/articmaze/sizeapp/internal/api/middleware"
	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/service"
)

const (
	testShop   = "demo.myshopify.com"
	testSecret = "shpss_test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withShop stands in for ShopAuthMiddleware
func withShop(shop string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ShopContextKey, shop)
		c.Next()
	}
}

func signQuery(q url.Values, secret string) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		if k != "hmac" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+q.Get(k))
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeVariantCreator struct {
	got    *domain.VariantCreateRequest
	result *service.VariantCreateResult
	err    error
}

func (f *fakeVariantCreator) CreateVariant(ctx context.Context, req *domain.VariantCreateRequest) (*service.VariantCreateResult, error) {
	f.got = req
	return f.result, f.err
}

type fakeAdmin struct {
	overview  *service.Overview
	err       error
	calls     []string
	added     service.SelectedProduct
	removed   string
	updates   []service.ProductUpdate
	activated *bool
}

func (f *fakeAdmin) Overview(ctx context.Context, shop string) (*service.Overview, error) {
	f.calls = append(f.calls, "overview")
	return f.overview, f.err
}

func (f *fakeAdmin) AddProduct(ctx context.Context, shop string, sel service.SelectedProduct) error {
	f.calls = append(f.calls, service.SubmitProductAdd)
	f.added = sel
	return f.err
}

func (f *fakeAdmin) RemoveProduct(ctx context.Context, shop, productID string) error {
	f.calls = append(f.calls, service.SubmitProductRemove)
	f.removed = productID
	return f.err
}

func (f *fakeAdmin) UpdateProducts(ctx context.Context, shop string, updates []service.ProductUpdate) error {
	f.calls = append(f.calls, service.SubmitProductsUpdate)
	f.updates = updates
	return f.err
}

func (f *fakeAdmin) SetAppActivated(ctx context.Context, shop string, activated bool) error {
	f.calls = append(f.calls, service.SubmitAppActivate)
	f.activated = &activated
	return f.err
}

type fakePublisher struct {
	result *service.PublishResult
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, shop string) (*service.PublishResult, error) {
	return f.result, f.err
}

type fakeInstaller struct {
	installedShop string
	installedCode string
	uninstalled   string
	err           error
}

func (f *fakeInstaller) AuthorizeURL(shop, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeInstaller) CompleteInstall(ctx context.Context, shop, code string) (*domain.Session, error) {
	f.installedShop, f.installedCode = shop, code
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Session{Shop: shop, AccessToken: "shpat"}, nil
}

func (f *fakeInstaller) Uninstall(ctx context.Context, shop string) error {
	f.uninstalled = shop
	return f.err
}
