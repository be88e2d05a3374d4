package domain

import "encoding/json"

// AppName is published with every settings snapshot
const AppName = "Articmaze"

// SettingsSnapshot is the JSON document stored in the articmaze.settings shop metafield
type SettingsSnapshot struct {
	AppName  string             `json:"appName"`
	AppURL   string             `json:"appUrl"`
	Products []PublishedProduct `json:"products"`
	Settings *PublishedSettings `json:"settings,omitempty"`
}

// PublishedProduct is the catalog projection of a Product (no internal bookkeeping fields)
type PublishedProduct struct {
	ProductID    string      `json:"productId"`
	Title        string      `json:"title"`
	Handle       *string     `json:"handle"`
	Price        json.Number `json:"price"`
	LengthMin    int         `json:"lengthMin"`
	LengthMax    int         `json:"lengthMax"`
	LengthOption string      `json:"lengthOption"`
	WidthMin     int         `json:"widthMin"`
	WidthMax     int         `json:"widthMax"`
	WidthOption  string      `json:"widthOption"`
}

// PublishedSettings is the storefront-visible part of Settings
type PublishedSettings struct {
	Shop         string `json:"shop"`
	AppActivated bool   `json:"appActivated"`
}

// NewPublishedProduct projects a stored product to its published form
func NewPublishedProduct(p *Product) PublishedProduct {
	return PublishedProduct{
		ProductID:    p.ProductID,
		Title:        p.Title,
		Handle:       p.Handle,
		Price:        json.Number(p.Price.String()),
		LengthMin:    p.LengthMin,
		LengthMax:    p.LengthMax,
		LengthOption: p.LengthOption,
		WidthMin:     p.WidthMin,
		WidthMax:     p.WidthMax,
		WidthOption:  p.WidthOption,
	}
}
