package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/repository"
	"github.com/articmaze/sizeapp/internal/shopify"
	"github.com/articmaze/sizeapp/pkg/errors"
)

// TokenExchanger trades an OAuth callback code for an offline access token
type TokenExchanger interface {
	AuthorizeURL(shop, state string) string
	ExchangeCodeForToken(ctx context.Context, shop, code string) (*shopify.AccessTokenResponse, error)
}

// InstallService handles app install and uninstall
type InstallService struct {
	oauth   TokenExchanger
	clients ClientProvider
	repos   *repository.Repositories
	logger  *zap.Logger
}

// NewInstallService creates a new install service
func NewInstallService(oauth TokenExchanger, clients ClientProvider, repos *repository.Repositories, logger *zap.Logger) *InstallService {
	return &InstallService{
		oauth:   oauth,
		clients: clients,
		repos:   repos,
		logger:  logger,
	}
}

// AuthorizeURL returns the Shopify grant screen URL for shop
func (s *InstallService) AuthorizeURL(shop, state string) string {
	return s.oauth.AuthorizeURL(shop, state)
}

// CompleteInstall exchanges the code, stores the offline session and runs the after-auth hook.
// Only the token exchange and the session write are fatal.
func (s *InstallService) CompleteInstall(ctx context.Context, shop, code string) (*domain.Session, error) {
	token, err := s.oauth.ExchangeCodeForToken(ctx, shop, code)
	if err != nil {
		s.logger.Error("OAuth token exchange failed", zap.String("shop", shop), zap.Error(err))
		return nil, &errors.ErrRemote{Operation: "oauth token exchange", Err: err}
	}

	session := &domain.Session{
		Shop:        shop,
		AccessToken: token.AccessToken,
		Scope:       token.Scope,
	}
	if err := s.repos.Session.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info("Offline session stored", zap.String("shop", shop), zap.String("scope", token.Scope))

	s.afterAuth(ctx, session)
	return session, nil
}

// afterAuth records the shop GID and resets the shop settings to inactive
func (s *InstallService) afterAuth(ctx context.Context, session *domain.Session) {
	api := newShopifyService(s.clients.ForSession(session), s.logger)
	identity, err := api.ShopIdentity(ctx)
	if err != nil {
		s.logger.Error("After-auth shop query failed", zap.String("shop", session.Shop), zap.Error(err))
		return
	}

	if err := s.repos.Session.UpdateShopID(ctx, session.Shop, identity.ID); err != nil {
		s.logger.Warn("Failed to store shop id on session", zap.String("shop", session.Shop), zap.Error(err))
	} else {
		session.ShopID = &identity.ID
	}

	if err := s.repos.Settings.Upsert(ctx, &domain.Settings{Shop: session.Shop, AppActivated: false}); err != nil {
		s.logger.Warn("Failed to initialize settings", zap.String("shop", session.Shop), zap.Error(err))
	}

	s.logger.Info("Authenticated for shop",
		zap.String("shop", session.Shop),
		zap.String("shop_name", identity.Name),
		zap.String("shop_id", identity.ID),
	)
}

// Uninstall removes the shop's stored sessions
func (s *InstallService) Uninstall(ctx context.Context, shop string) error {
	if err := s.repos.Session.DeleteByShop(ctx, shop); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	s.logger.Info("App uninstalled", zap.String("shop", shop))
	return nil
}
