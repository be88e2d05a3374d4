package service

import "github.com/shopspring/decimal"

// Admin action names, echoed back as submitType
const (
	SubmitProductAdd     = "product-add"
	SubmitProductRemove  = "product-remove"
	SubmitProductsUpdate = "products-update"
	SubmitAppActivate    = "app-activate"
	SubmitPublish        = "settings-publish"
)

// SelectedProduct is a product picked in the admin resource picker
type SelectedProduct struct {
	ID     string  `json:"id" binding:"required"`
	Title  string  `json:"title" binding:"required"`
	Handle *string `json:"handle"`
}

// RemoveProductRequest is the product-remove payload
type RemoveProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// ProductUpdate is one row of the admin products table
type ProductUpdate struct {
	ProductID string          `json:"productId" binding:"required"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	LengthMin int             `json:"lengthMin" binding:"min=0"`
	LengthMax int             `json:"lengthMax" binding:"min=0"`
	WidthMin  int             `json:"widthMin" binding:"min=0"`
	WidthMax  int             `json:"widthMax" binding:"min=0"`
	Status    bool            `json:"status"`
}

// ProductsUpdateRequest is the products-update payload
type ProductsUpdateRequest struct {
	Products []ProductUpdate `json:"products" binding:"required,dive"`
}

// ActivationRequest is the app-activate payload
type ActivationRequest struct {
	AppActivated *bool `json:"appActivated" binding:"required"`
}

// ActionResponse is returned by every admin mutation
type ActionResponse struct {
	Method     string `json:"method"`
	SubmitType string `json:"submitType"`
	Title      string `json:"title"`
}
