package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/internal/repository"
	"github.com/articmaze/sizeapp/pkg/errors"
)

// PublishScheduler queues a background settings publish for a shop
type PublishScheduler interface {
	SchedulePublish(shop string)
}

// Overview is what the admin settings page shows
type Overview struct {
	Products []*domain.Product
	Settings *domain.Settings
	AdminURL string
}

// AdminService applies merchant changes to products and settings.
// Each mutation queues exactly one settings publish, whether or not the store write succeeded.
type AdminService struct {
	repos     *repository.Repositories
	publisher PublishScheduler
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repos *repository.Repositories, publisher PublishScheduler, logger *zap.Logger) *AdminService {
	return &AdminService{
		repos:     repos,
		publisher: publisher,
		logger:    logger,
	}
}

// Overview returns all configured products, the shop settings (nil when missing) and the admin URL
func (s *AdminService) Overview(ctx context.Context, shop string) (*Overview, error) {
	products, err := s.repos.Product.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	settings, err := s.repos.Settings.GetByShop(ctx, shop)
	if _, ok := err.(*errors.ErrNotFound); ok {
		settings, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &Overview{
		Products: products,
		Settings: settings,
		AdminURL: AdminURL(shop),
	}, nil
}

// AddProduct stores a picked product under its GID. On conflict only title and handle change.
func (s *AdminService) AddProduct(ctx context.Context, shop string, sel SelectedProduct) error {
	defer s.publisher.SchedulePublish(shop)

	if strings.TrimSpace(sel.ID) == "" {
		return &errors.ErrValidation{Message: "product id is required", Fields: map[string]string{"id": "required"}}
	}
	gid, err := productGID(sel.ID)
	if err != nil {
		return &errors.ErrValidation{Message: err.Error(), Fields: map[string]string{"id": "invalid"}}
	}
	product := &domain.Product{
		ProductID: gid,
		Title:     sel.Title,
		Handle:    sel.Handle,
	}
	if err := s.repos.Product.UpsertSelected(ctx, product); err != nil {
		s.logger.Warn("Failed to add product", zap.String("shop", shop), zap.String("product_id", gid), zap.Error(err))
		return err
	}
	s.logger.Info("Product added", zap.String("shop", shop), zap.String("product_id", gid))
	return nil
}

// RemoveProduct deletes a configured product. productID is a product GID or its numeric id.
func (s *AdminService) RemoveProduct(ctx context.Context, shop, productID string) error {
	defer s.publisher.SchedulePublish(shop)

	gid, err := productGID(productID)
	if err != nil {
		return &errors.ErrValidation{Message: err.Error(), Fields: map[string]string{"productId": "invalid"}}
	}
	product, err := s.repos.Product.GetByProductID(ctx, gid)
	if err != nil {
		s.logger.Warn("Failed to look up product to remove", zap.String("shop", shop), zap.String("product_id", gid), zap.Error(err))
		return err
	}
	if err := s.repos.Product.Delete(ctx, product.ProductID); err != nil {
		s.logger.Warn("Failed to remove product", zap.String("shop", shop), zap.String("product_id", gid), zap.Error(err))
		return err
	}
	s.logger.Info("Product removed", zap.String("shop", shop), zap.String("product_id", gid))
	return nil
}

// UpdateProducts upserts price, bounds and status of all rows in one transaction
func (s *AdminService) UpdateProducts(ctx context.Context, shop string, updates []ProductUpdate) error {
	defer s.publisher.SchedulePublish(shop)

	if err := validateProductUpdates(updates); err != nil {
		return err
	}
	products := make([]*domain.Product, 0, len(updates))
	for _, u := range updates {
		products = append(products, &domain.Product{
			ProductID: u.ProductID,
			Title:     u.Title,
			Price:     u.Price,
			LengthMin: u.LengthMin,
			LengthMax: u.LengthMax,
			WidthMin:  u.WidthMin,
			WidthMax:  u.WidthMax,
			Status:    u.Status,
		})
	}
	if err := s.repos.Product.UpdateBatch(ctx, products); err != nil {
		s.logger.Warn("Failed to update products", zap.String("shop", shop), zap.Int("count", len(products)), zap.Error(err))
		return err
	}
	s.logger.Info("Products updated", zap.String("shop", shop), zap.Int("count", len(products)))
	return nil
}

// SetAppActivated turns the storefront feature on or off
func (s *AdminService) SetAppActivated(ctx context.Context, shop string, activated bool) error {
	defer s.publisher.SchedulePublish(shop)

	if err := s.repos.Settings.Upsert(ctx, &domain.Settings{Shop: shop, AppActivated: activated}); err != nil {
		s.logger.Warn("Failed to update activation", zap.String("shop", shop), zap.Bool("app_activated", activated), zap.Error(err))
		return err
	}
	s.logger.Info("App activation changed", zap.String("shop", shop), zap.Bool("app_activated", activated))
	return nil
}

// AdminURL returns the shop's admin home, e.g. https://admin.shopify.com/store/my-shop
func AdminURL(shop string) string {
	return "https://admin.shopify.com/store/" + strings.TrimSuffix(shop, ".myshopify.com")
}

func validateProductUpdates(updates []ProductUpdate) error {
	fields := map[string]string{}
	for i, u := range updates {
		if strings.TrimSpace(u.ProductID) == "" {
			fields[fmt.Sprintf("products[%d].productId", i)] = "required"
		}
		if u.Price.IsNegative() {
			fields[fmt.Sprintf("products[%d].price", i)] = "must not be negative"
		}
		if u.LengthMax < u.LengthMin {
			fields[fmt.Sprintf("products[%d].lengthMax", i)] = "must be >= lengthMin"
		}
		if u.WidthMax < u.WidthMin {
			fields[fmt.Sprintf("products[%d].widthMax", i)] = "must be >= widthMin"
		}
	}
	if len(fields) > 0 {
		return &errors.ErrValidation{Message: "invalid product update", Fields: fields}
	}
	return nil
}
