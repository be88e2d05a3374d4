package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a Shopify product the merchant enabled for custom sizes
type Product struct {
	ID           uuid.UUID
	ProductID    string // Shopify product GID, e.g. gid://shopify/Product/123
	Title        string
	Handle       *string
	Price        decimal.Decimal
	LengthMin    int
	LengthMax    int
	LengthOption string
	WidthMin     int
	WidthMax     int
	WidthOption  string
	Status       bool // only active products are published to the storefront
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Settings holds the per-shop app configuration
type Settings struct {
	ID           uuid.UUID
	Shop         string
	AppActivated bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the offline Admin API session stored after OAuth install
type Session struct {
	ID          uuid.UUID
	Shop        string
	AccessToken string
	Scope       string
	ShopID      *string // shop GID, set by the after-auth hook
	IsOnline    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Default option names used when a product is first added
const (
	DefaultLengthOption = "Length"
	DefaultWidthOption  = "Width"
)
