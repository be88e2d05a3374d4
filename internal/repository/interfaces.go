package repository

import (
	"context"

	"github.com/articmaze/sizeapp/internal/domain"
)

// ProductRepository defines product data access methods
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	GetByProductID(ctx context.Context, productID string) (*domain.Product, error)
	// UpsertSelected inserts a newly picked product or refreshes its title/handle.
	UpsertSelected(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, productID string) error
	// UpdateBatch upserts all products in one transaction (all-or-nothing).
	UpdateBatch(ctx context.Context, products []*domain.Product) error
}

// SettingsRepository defines per-shop settings data access methods
type SettingsRepository interface {
	GetByShop(ctx context.Context, shop string) (*domain.Settings, error)
	Upsert(ctx context.Context, settings *domain.Settings) error
}

// SessionRepository defines offline session data access methods
type SessionRepository interface {
	GetByShop(ctx context.Context, shop string) (*domain.Session, error)
	Upsert(ctx context.Context, session *domain.Session) error
	UpdateShopID(ctx context.Context, shop, shopID string) error
	DeleteByShop(ctx context.Context, shop string) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Product  ProductRepository
	Settings SettingsRepository
	Session  SessionRepository
}
