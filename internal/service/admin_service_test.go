package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/pkg/errors"
)

const demoShop = "demo.myshopify.com"

func TestSetAppActivated_UpsertsAndSchedulesOnePublish(t *testing.T) {
	repos, _, settings, _ := newMockRepos()
	settings.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.Settings) bool {
		return s.Shop == demoShop && s.AppActivated
	})).Return(nil).Once()
	publisher := &publishCounter{}
	svc := NewAdminService(repos, publisher, zap.NewNop())

	require.NoError(t, svc.SetAppActivated(context.Background(), demoShop, true))

	settings.AssertExpectations(t)
	assert.Equal(t, []string{demoShop}, publisher.shops)
}

func TestAdminMutations_PublishEvenWhenStoreFails(t *testing.T) {
	storeErr := fmt.Errorf("connection refused")
	repos, products, settings, _ := newMockRepos()
	products.On("UpsertSelected", mock.Anything, mock.Anything).Return(storeErr)
	products.On("GetByProductID", mock.Anything, "gid://shopify/Product/1").Return(&domain.Product{ProductID: "gid://shopify/Product/1"}, nil)
	products.On("Delete", mock.Anything, "gid://shopify/Product/1").Return(storeErr)
	products.On("UpdateBatch", mock.Anything, mock.Anything).Return(storeErr)
	settings.On("Upsert", mock.Anything, mock.Anything).Return(storeErr)
	publisher := &publishCounter{}
	svc := NewAdminService(repos, publisher, zap.NewNop())
	ctx := context.Background()

	assert.Error(t, svc.AddProduct(ctx, demoShop, SelectedProduct{ID: "gid://shopify/Product/1", Title: "Rug"}))
	assert.Len(t, publisher.shops, 1)
	assert.Error(t, svc.RemoveProduct(ctx, demoShop, "gid://shopify/Product/1"))
	assert.Len(t, publisher.shops, 2)
	assert.Error(t, svc.UpdateProducts(ctx, demoShop, []ProductUpdate{{ProductID: "gid://shopify/Product/1"}}))
	assert.Len(t, publisher.shops, 3)
	assert.Error(t, svc.SetAppActivated(ctx, demoShop, false))
	assert.Len(t, publisher.shops, 4)
}

func TestRemoveProduct_ResolvesNumericIDToStoredRow(t *testing.T) {
	repos, products, _, _ := newMockRepos()
	products.On("GetByProductID", mock.Anything, "gid://shopify/Product/1001").
		Return(&domain.Product{ProductID: "gid://shopify/Product/1001", Title: "Rug"}, nil).Twice()
	products.On("Delete", mock.Anything, "gid://shopify/Product/1001").Return(nil).Twice()
	publisher := &publishCounter{}
	svc := NewAdminService(repos, publisher, zap.NewNop())

	require.NoError(t, svc.RemoveProduct(context.Background(), demoShop, "1001"))
	require.NoError(t, svc.RemoveProduct(context.Background(), demoShop, "gid://shopify/Product/1001"))

	products.AssertExpectations(t)
	assert.Equal(t, []string{demoShop, demoShop}, publisher.shops)
}

func TestRemoveProduct_UnknownProduct(t *testing.T) {
	repos, products, _, _ := newMockRepos()
	products.On("GetByProductID", mock.Anything, "gid://shopify/Product/7").
		Return(nil, &errors.ErrNotFound{Resource: "product", ID: "gid://shopify/Product/7"}).Once()
	publisher := &publishCounter{}
	svc := NewAdminService(repos, publisher, zap.NewNop())

	err := svc.RemoveProduct(context.Background(), demoShop, "7")
	_, ok := err.(*errors.ErrNotFound)
	assert.True(t, ok)
	products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Len(t, publisher.shops, 1)
}

func TestRemoveProduct_InvalidID(t *testing.T) {
	repos, products, _, _ := newMockRepos()
	publisher := &publishCounter{}
	svc := NewAdminService(repos, publisher, zap.NewNop())

	err := svc.RemoveProduct(context.Background(), demoShop, "gid://shopify/Product/x/5")
	verr, ok := err.(*errors.ErrValidation)
	require.True(t, ok)
	assert.Equal(t, "invalid", verr.Fields["productId"])
	products.AssertNotCalled(t, "GetByProductID", mock.Anything, mock.Anything)
	assert.Len(t, publisher.shops, 1)
}

func TestAddProduct_MapsSelection(t *testing.T) {
	handle := "rug"
	repos, products, _, _ := newMockRepos()
	products.On("UpsertSelected", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ProductID == "gid://shopify/Product/1" && p.Title == "Rug" && p.Handle != nil && *p.Handle == "rug"
	})).Return(nil).Once()
	svc := NewAdminService(repos, &publishCounter{}, zap.NewNop())

	require.NoError(t, svc.AddProduct(context.Background(), demoShop, SelectedProduct{ID: "gid://shopify/Product/1", Title: "Rug", Handle: &handle}))
	products.AssertExpectations(t)
}

func TestAddProduct_StoresNumericIDAsGID(t *testing.T) {
	repos, products, _, _ := newMockRepos()
	products.On("UpsertSelected", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ProductID == "gid://shopify/Product/1001"
	})).Return(nil).Once()
	svc := NewAdminService(repos, &publishCounter{}, zap.NewNop())

	require.NoError(t, svc.AddProduct(context.Background(), demoShop, SelectedProduct{ID: "1001", Title: "Rug"}))
	products.AssertExpectations(t)
}

func TestUpdateProducts_PassesWholeBatch(t *testing.T) {
	repos, products, _, _ := newMockRepos()
	products.On("UpdateBatch", mock.Anything, mock.MatchedBy(func(batch []*domain.Product) bool {
		return len(batch) == 2 &&
			batch[0].Price.Equal(decimal.RequireFromString("10")) && batch[0].Status &&
			batch[1].LengthMax == 300 && !batch[1].Status
	})).Return(nil).Once()
	publisher := &publishCounter{}
	svc := NewAdminService(repos, publisher, zap.NewNop())

	err := svc.UpdateProducts(context.Background(), demoShop, []ProductUpdate{
		{ProductID: "gid://shopify/Product/1", Price: decimal.RequireFromString("10"), Status: true},
		{ProductID: "gid://shopify/Product/2", LengthMin: 100, LengthMax: 300},
	})
	require.NoError(t, err)
	products.AssertExpectations(t)
	assert.Len(t, publisher.shops, 1)
}

func TestUpdateProducts_RejectsInvertedBounds(t *testing.T) {
	repos, products, _, _ := newMockRepos()
	svc := NewAdminService(repos, &publishCounter{}, zap.NewNop())

	err := svc.UpdateProducts(context.Background(), demoShop, []ProductUpdate{
		{ProductID: "gid://shopify/Product/1", LengthMin: 200, LengthMax: 100},
	})
	verr, ok := err.(*errors.ErrValidation)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "products[0].lengthMax")
	products.AssertNotCalled(t, "UpdateBatch", mock.Anything, mock.Anything)
}

func TestOverview(t *testing.T) {
	repos, products, settings, _ := newMockRepos()
	products.On("List", mock.Anything).Return(activeProducts(), nil)
	settings.On("GetByShop", mock.Anything, demoShop).Return(nil, &errors.ErrNotFound{Resource: "settings", ID: demoShop})
	svc := NewAdminService(repos, &publishCounter{}, zap.NewNop())

	overview, err := svc.Overview(context.Background(), demoShop)
	require.NoError(t, err)
	assert.Len(t, overview.Products, 2)
	assert.Nil(t, overview.Settings)
	assert.Equal(t, "https://admin.shopify.com/store/demo", overview.AdminURL)
}
