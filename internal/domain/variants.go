package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryPolicyContinue keeps selling a variant when it is out of stock
const InventoryPolicyContinue = "CONTINUE"

// VariantCreateRequest is the storefront payload for a custom-size variant
type VariantCreateRequest struct {
	Shop         string          `json:"shop"`
	ProductID    string          `json:"productId"`
	LengthOption string          `json:"lengthOption"`
	LengthValue  string          `json:"lengthValue"`
	WidthOption  string          `json:"widthOption"`
	WidthValue   string          `json:"widthValue"`
	Price        decimal.Decimal `json:"price"`
}

// RemoteVariant is a product variant as returned by Shopify. Never stored locally.
type RemoteVariant struct {
	ID                 string
	Title              string
	CreatedAt          time.Time
	ParentProductTitle string
}

// CreatedVariant is a variant returned by productVariantsBulkCreate
type CreatedVariant struct {
	ID string `json:"id"`
}

// UserError is a validation error reported by a Shopify mutation
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}
