package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/repository"
	"github.com/articmaze/sizeapp/internal/shopify"
)

// ClientProvider hands out Admin API clients bound to a shop's offline session
type ClientProvider interface {
	ForShop(ctx context.Context, shop string) (shopify.Executor, error)
	ForSession(session *domain.Session) shopify.Executor
}

type sessionClientProvider struct {
	sessions   repository.SessionRepository
	apiVersion string
	opts       []shopify.Option
	logger     *zap.Logger
}

// NewClientProvider creates a provider that looks up the access token in the session store
func NewClientProvider(sessions repository.SessionRepository, apiVersion string, logger *zap.Logger, opts ...shopify.Option) *sessionClientProvider {
	return &sessionClientProvider{
		sessions:   sessions,
		apiVersion: apiVersion,
		opts:       opts,
		logger:     logger,
	}
}

// ForShop returns a client for shop. An unknown shop yields *errors.ErrNotFound.
func (p *sessionClientProvider) ForShop(ctx context.Context, shop string) (shopify.Executor, error) {
	session, err := p.sessions.GetByShop(ctx, shopify.NormalizeShopDomain(shop))
	if err != nil {
		return nil, err
	}
	return p.ForSession(session), nil
}

func (p *sessionClientProvider) ForSession(session *domain.Session) shopify.Executor {
	return shopify.NewClient(session.Shop, session.AccessToken, p.apiVersion, p.logger, p.opts...)
}
