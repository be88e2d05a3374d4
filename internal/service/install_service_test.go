package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/shopify"
)

type fakeOAuth struct {
	token *shopify.AccessTokenResponse
	err   error
}

func (f *fakeOAuth) AuthorizeURL(shop, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?state=" + state
}

func (f *fakeOAuth) ExchangeCodeForToken(ctx context.Context, shop, code string) (*shopify.AccessTokenResponse, error) {
	return f.token, f.err
}

func TestCompleteInstall_StoresSessionAndRunsAfterAuth(t *testing.T) {
	repos, _, settings, sessions := newMockRepos()
	sessions.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.Shop == demoShop && s.AccessToken == "shpat_1" && s.Scope == "write_products"
	})).Return(nil).Once()
	sessions.On("UpdateShopID", mock.Anything, demoShop, shopGID).Return(nil).Once()
	settings.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.Settings) bool {
		return s.Shop == demoShop && !s.AppActivated
	})).Return(nil).Once()

	exec := newFakeExecutor().on("shopIdentity", shopIdentityResponse())
	clients := &fakeClients{exec: exec}
	svc := NewInstallService(&fakeOAuth{token: &shopify.AccessTokenResponse{AccessToken: "shpat_1", Scope: "write_products"}}, clients, repos, zap.NewNop())

	session, err := svc.CompleteInstall(context.Background(), demoShop, "code")
	require.NoError(t, err)
	require.NotNil(t, session.ShopID)
	assert.Equal(t, shopGID, *session.ShopID)
	assert.Equal(t, "shpat_1", clients.session.AccessToken)

	sessions.AssertExpectations(t)
	settings.AssertExpectations(t)
}

func TestCompleteInstall_AfterAuthFailureIsNotFatal(t *testing.T) {
	repos, _, settings, sessions := newMockRepos()
	sessions.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	exec := newFakeExecutor().fail("shopIdentity", fmt.Errorf("timeout"))
	svc := NewInstallService(&fakeOAuth{token: &shopify.AccessTokenResponse{AccessToken: "shpat_1"}}, &fakeClients{exec: exec}, repos, zap.NewNop())

	session, err := svc.CompleteInstall(context.Background(), demoShop, "code")
	require.NoError(t, err)
	assert.Nil(t, session.ShopID)
	settings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCompleteInstall_TokenExchangeFails(t *testing.T) {
	repos, _, _, sessions := newMockRepos()
	svc := NewInstallService(&fakeOAuth{err: fmt.Errorf("status 400")}, &fakeClients{}, repos, zap.NewNop())

	_, err := svc.CompleteInstall(context.Background(), demoShop, "bad")
	require.Error(t, err)
	sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUninstall(t *testing.T) {
	repos, _, _, sessions := newMockRepos()
	sessions.On("DeleteByShop", mock.Anything, demoShop).Return(nil).Once()
	svc := NewInstallService(&fakeOAuth{}, &fakeClients{}, repos, zap.NewNop())

	require.NoError(t, svc.Uninstall(context.Background(), demoShop))
	sessions.AssertExpectations(t)
}
