package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/metrics"
	"github.com/articmaze/sizeapp/internal/repository"
	"github.com/articmaze/sizeapp/internal/shopify"
	"github.com/articmaze/sizeapp/pkg/errors"
)

// Shop metafield the storefront extension reads
const (
	SettingsMetafieldNamespace = "articmaze"
	SettingsMetafieldKey       = "settings"
	SettingsMetafieldType      = "json"
)

const settingsPublishTask = "settings_publish"

// PublishResult is the outcome of one metafieldsSet call
type PublishResult struct {
	ShopID     string
	Value      string
	UserErrors []domain.UserError
}

// SettingsPublisher writes the app configuration to the shop metafield
type SettingsPublisher struct {
	clients      ClientProvider
	repos        *repository.Repositories
	scheduler    Scheduler
	appURL       string
	publishDelay time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewSettingsPublisher creates a new settings publisher
func NewSettingsPublisher(
	clients ClientProvider,
	repos *repository.Repositories,
	scheduler Scheduler,
	appURL string,
	publishDelay time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SettingsPublisher {
	return &SettingsPublisher{
		clients:      clients,
		repos:        repos,
		scheduler:    scheduler,
		appURL:       appURL,
		publishDelay: publishDelay,
		metrics:      m,
		logger:       logger,
	}
}

// SchedulePublish publishes the shop's settings in the background after the publish delay
func (p *SettingsPublisher) SchedulePublish(shop string) {
	p.scheduler.Schedule(settingsPublishTask, p.publishDelay, func(ctx context.Context) error {
		result, err := p.Publish(ctx, shop)
		if err != nil {
			return err
		}
		if len(result.UserErrors) > 0 {
			return fmt.Errorf("metafieldsSet userErrors: %s", formatUserErrors(result.UserErrors))
		}
		return nil
	})
}

// Publish builds the settings snapshot and writes it to the shop metafield.
// Remote userErrors are part of the result.
func (p *SettingsPublisher) Publish(ctx context.Context, shop string) (*PublishResult, error) {
	client, err := p.clients.ForShop(ctx, shop)
	if err != nil {
		p.metrics.SettingsPublish(metrics.OutcomeError)
		return nil, err
	}
	api := newShopifyService(client, p.logger)

	var (
		identity *ShopIdentity
		products []*domain.Product
		settings *domain.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identity, err = api.ShopIdentity(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = p.repos.Product.ListActive(gctx)
		if err != nil {
			return fmt.Errorf("list active products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s, err := p.repos.Settings.GetByShop(gctx, shop)
		if _, ok := err.(*errors.ErrNotFound); ok {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		settings = s
		return nil
	})
	if err := g.Wait(); err != nil {
		p.metrics.SettingsPublish(metrics.OutcomeError)
		return nil, err
	}

	value, err := MarshalSnapshot(BuildSnapshot(p.appURL, products, settings))
	if err != nil {
		p.metrics.SettingsPublish(metrics.OutcomeError)
		return nil, err
	}

	userErrors, err := api.SetMetafields(ctx, []shopify.MetafieldsSetInput{
		{
			OwnerID:   identity.ID,
			Namespace: SettingsMetafieldNamespace,
			Key:       SettingsMetafieldKey,
			Type:      SettingsMetafieldType,
			Value:     value,
		},
	})
	if err != nil {
		p.metrics.SettingsPublish(metrics.OutcomeError)
		return nil, &errors.ErrRemote{Operation: "metafieldsSet", Err: err}
	}

	if len(userErrors) > 0 {
		p.metrics.SettingsPublish(metrics.OutcomeUserErrors)
		p.logger.Warn("Settings metafield rejected",
			zap.String("shop", shop),
			zap.String("user_errors", formatUserErrors(userErrors)),
		)
	} else {
		p.metrics.SettingsPublish(metrics.OutcomeSuccess)
		p.logger.Info("Settings published",
			zap.String("shop", shop),
			zap.String("shop_id", identity.ID),
			zap.Int("products", len(products)),
		)
	}

	if userErrors == nil {
		userErrors = []domain.UserError{}
	}
	return &PublishResult{
		ShopID:     identity.ID,
		Value:      value,
		UserErrors: userErrors,
	}, nil
}

// BuildSnapshot composes the published document. Products are sorted by productId.
func BuildSnapshot(appURL string, products []*domain.Product, settings *domain.Settings) *domain.SettingsSnapshot {
	published := make([]domain.PublishedProduct, 0, len(products))
	for _, product := range products {
		if !product.Status {
			continue
		}
		published = append(published, domain.NewPublishedProduct(product))
	}
	sort.SliceStable(published, func(i, j int) bool {
		return published[i].ProductID < published[j].ProductID
	})

	snapshot := &domain.SettingsSnapshot{
		AppName:  domain.AppName,
		AppURL:   appURL,
		Products: published,
	}
	if settings != nil {
		snapshot.Settings = &domain.PublishedSettings{
			Shop:         settings.Shop,
			AppActivated: settings.AppActivated,
		}
	}
	return snapshot
}

// MarshalSnapshot serializes a snapshot to the metafield value
func MarshalSnapshot(snapshot *domain.SettingsSnapshot) (string, error) {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal settings snapshot: %w", err)
	}
	return string(b), nil
}
