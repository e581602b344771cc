package domain

import (
	"fmt"
	"time"
)

// Product type variants carried by the shop.
const (
	TypeBanner = "banner"
	TypeTent   = "tent"
)

// ValidType reports whether t is one of the known product variants.
func ValidType(t string) bool {
	return t == TypeBanner || t == TypeTent
}

// Product is a purchasable catalog variant. Quantity is the on-hand
// stock; it must never go negative and the catalog ledger's
// AdjustQuantity is its only writer.
type Product struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Size        string    `json:"size"`    // e.g. "3x4"
	Density     string    `json:"density"` // e.g. "450" or "450-510"
	Price       float64   `json:"price"`
	CostPrice   float64   `json:"cost_price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	ImageBase64 string    `json:"image_base64,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Label renders the product the way sale reports name their rows.
func (p *Product) Label() string {
	return fmt.Sprintf("%s %s %s", p.Type, p.Size, p.Density)
}
