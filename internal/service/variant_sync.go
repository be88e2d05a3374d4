package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/metrics"
	"github.com/articmaze/sizeapp/internal/shopify"
	"github.com/articmaze/sizeapp/pkg/errors"
)

const variantCleanupTask = "variant_cleanup"

// VariantCreateResult is what productVariantsBulkCreate returned for one request
type VariantCreateResult struct {
	Variants   []domain.CreatedVariant
	UserErrors []domain.UserError
}

// VariantSyncService creates custom-size variants and prunes the stale ones
type VariantSyncService struct {
	clients      ClientProvider
	scheduler    Scheduler
	cleanupDelay time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewVariantSyncService creates a new variant sync service
func NewVariantSyncService(clients ClientProvider, scheduler Scheduler, cleanupDelay time.Duration, m *metrics.Metrics, logger *zap.Logger) *VariantSyncService {
	return &VariantSyncService{
		clients:      clients,
		scheduler:    scheduler,
		cleanupDelay: cleanupDelay,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateVariant schedules a stale-variant cleanup for the product and then creates
// one variant with the two size options. The cleanup runs even if the create fails.
func (s *VariantSyncService) CreateVariant(ctx context.Context, req *domain.VariantCreateRequest) (*VariantCreateResult, error) {
	if err := validateVariantRequest(req); err != nil {
		return nil, err
	}
	gid, err := productGID(req.ProductID)
	if err != nil {
		return nil, &errors.ErrValidation{Message: err.Error(), Fields: map[string]string{"productId": "invalid"}}
	}

	client, err := s.clients.ForShop(ctx, req.Shop)
	if err != nil {
		return nil, err
	}
	api := newShopifyService(client, s.logger)

	s.scheduler.Schedule(variantCleanupTask, s.cleanupDelay, func(ctx context.Context) error {
		return s.cleanupStaleVariants(ctx, api, gid)
	})

	variants, userErrors, err := api.BulkCreateVariants(ctx, gid, []shopify.ProductVariantsBulkInput{
		newVariantInput(req),
	})
	if err != nil {
		s.metrics.VariantCreate(metrics.OutcomeError)
		s.logger.Error("Failed to create variant", zap.String("shop", req.Shop), zap.String("product_id", gid), zap.Error(err))
		return nil, &errors.ErrRemote{Operation: "productVariantsBulkCreate", Err: err}
	}
	if len(userErrors) > 0 {
		s.metrics.VariantCreate(metrics.OutcomeUserErrors)
		s.logger.Warn("Variant create returned user errors",
			zap.String("shop", req.Shop),
			zap.String("product_id", gid),
			zap.String("user_errors", formatUserErrors(userErrors)),
		)
	} else {
		s.metrics.VariantCreate(metrics.OutcomeSuccess)
		s.logger.Info("Variant created",
			zap.String("shop", req.Shop),
			zap.String("product_id", gid),
			zap.String("length", req.LengthValue),
			zap.String("width", req.WidthValue),
		)
	}

	if userErrors == nil {
		userErrors = []domain.UserError{}
	}
	return &VariantCreateResult{Variants: variants, UserErrors: userErrors}, nil
}

// CleanupStaleVariants deletes the product's variants last updated on or before today,
// keeping the first one returned.
func (s *VariantSyncService) CleanupStaleVariants(ctx context.Context, shop, productID string) (int, error) {
	gid, err := productGID(productID)
	if err != nil {
		return 0, &errors.ErrValidation{Message: err.Error()}
	}
	client, err := s.clients.ForShop(ctx, shop)
	if err != nil {
		return 0, err
	}
	api := newShopifyService(client, s.logger)
	ids, err := s.staleVariantIDs(ctx, api, gid)
	if err != nil {
		return 0, err
	}
	if err := s.deleteVariants(ctx, api, gid, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// PreviewStaleVariants returns what a cleanup would see for the product and the ids it would delete
func (s *VariantSyncService) PreviewStaleVariants(ctx context.Context, shop, productID string) ([]domain.RemoteVariant, []string, error) {
	gid, err := productGID(productID)
	if err != nil {
		return nil, nil, &errors.ErrValidation{Message: err.Error()}
	}
	client, err := s.clients.ForShop(ctx, shop)
	if err != nil {
		return nil, nil, err
	}
	variants, err := newShopifyService(client, s.logger).VariantsUpdatedBefore(ctx, gid, s.now())
	if err != nil {
		return nil, nil, err
	}
	return variants, StaleVariantIDs(variants), nil
}

func (s *VariantSyncService) cleanupStaleVariants(ctx context.Context, api *shopifyService, gid string) error {
	ids, err := s.staleVariantIDs(ctx, api, gid)
	if err != nil {
		return err
	}
	return s.deleteVariants(ctx, api, gid, ids)
}

func (s *VariantSyncService) staleVariantIDs(ctx context.Context, api *shopifyService, gid string) ([]string, error) {
	variants, err := api.VariantsUpdatedBefore(ctx, gid, s.now())
	if err != nil {
		return nil, err
	}
	return StaleVariantIDs(variants), nil
}

func (s *VariantSyncService) deleteVariants(ctx context.Context, api *shopifyService, gid string, ids []string) error {
	if len(ids) == 0 {
		s.logger.Debug("No stale variants to delete", zap.String("product_id", gid))
		return nil
	}
	userErrors, err := api.BulkDeleteVariants(ctx, gid, ids)
	if err != nil {
		return err
	}
	if len(userErrors) > 0 {
		return fmt.Errorf("productVariantsBulkDelete userErrors: %s", formatUserErrors(userErrors))
	}
	s.metrics.VariantsDeleted(len(ids))
	s.logger.Info("Deleted stale variants", zap.String("product_id", gid), zap.Int("count", len(ids)))
	return nil
}

// StaleVariantIDs returns the ids to delete from a stale-variant listing: all but the first.
func StaleVariantIDs(variants []domain.RemoteVariant) []string {
	if len(variants) <= 1 {
		return nil
	}
	ids := make([]string, 0, len(variants)-1)
	for _, v := range variants[1:] {
		ids = append(ids, v.ID)
	}
	return ids
}

func newVariantInput(req *domain.VariantCreateRequest) shopify.ProductVariantsBulkInput {
	return shopify.ProductVariantsBulkInput{
		OptionValues: []shopify.VariantOptionValueInput{
			{OptionName: req.LengthOption, Name: req.LengthValue},
			{OptionName: req.WidthOption, Name: req.WidthValue},
		},
		Price:           req.Price.String(),
		InventoryPolicy: domain.InventoryPolicyContinue,
	}
}

func validateVariantRequest(req *domain.VariantCreateRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.ProductID) == "" {
		fields["productId"] = "required"
	}
	if strings.TrimSpace(req.LengthOption) == "" {
		fields["lengthOption"] = "required"
	}
	if strings.TrimSpace(req.LengthValue) == "" {
		fields["lengthValue"] = "required"
	}
	if strings.TrimSpace(req.WidthOption) == "" {
		fields["widthOption"] = "required"
	}
	if strings.TrimSpace(req.WidthValue) == "" {
		fields["widthValue"] = "required"
	}
	if req.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &errors.ErrValidation{Message: "invalid variant request", Fields: fields}
	}
	return nil
}
