package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

// Product is a sellable or purchasable catalog item.
type Product struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	BrandID      string          `json:"brand_id,omitempty"`
	BrandName    string          `json:"brand_name,omitempty"`
	UnitID       string          `json:"unit_id"`
	UnitCode     string          `json:"unit_code,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	Stock        decimal.Decimal `json:"stock"`
	Active       bool            `json:"active"`
	Description  string          `json:"description,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductInput is the create and update payload.
type ProductInput struct {
	SKU         string          `json:"sku" validate:"required,max=40"`
	Name        string          `json:"name" validate:"required,max=160"`
	Barcode     string          `json:"barcode,omitempty" validate:"max=64"`
	CategoryID  string          `json:"category_id,omitempty"`
	BrandID     string          `json:"brand_id,omitempty"`
	UnitID      string          `json:"unit_id" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Active      bool            `json:"active"`
	Description string          `json:"description,omitempty" validate:"max=1000"`
}

// NewResource binds the products collection.
func NewResource(client *api.Client) *api.Resource[Product, ProductInput] {
	return api.NewResource[Product, ProductInput](client, "/products")
}

var hundred = decimal.NewFromInt(100)

func decode(v grid.Values) (ProductInput, error) {
	problems := grid.Problems{}
	in := ProductInput{
		SKU:         v.Get("sku"),
		Name:        v.Get("name"),
		Barcode:     v.Get("barcode"),
		CategoryID:  v.Get("category_id"),
		BrandID:     v.Get("brand_id"),
		UnitID:      v.Get("unit_id"),
		Price:       v.Decimal("price", problems),
		Cost:        v.Decimal("cost", problems),
		TaxPercent:  v.Decimal("tax_percent", problems),
		Active:      v.Bool("active"),
		Description: v.Get("description"),
	}
	if in.Price.IsNegative() {
		problems.Add("price", "must not be negative")
	}
	if in.Cost.IsNegative() {
		problems.Add("cost", "must not be negative")
	}
	if in.TaxPercent.IsNegative() || in.TaxPercent.GreaterThan(hundred) {
		problems.Add("tax_percent", "must be between 0 and 100")
	}
	return in, problems.Err()
}

func encode(p Product) grid.Values {
	values := grid.Values{
		"sku":         p.SKU,
		"name":        p.Name,
		"barcode":     p.Barcode,
		"category_id": p.CategoryID,
		"brand_id":    p.BrandID,
		"unit_id":     p.UnitID,
		"price":       p.Price.StringFixed(2),
		"cost":        p.Cost.StringFixed(2),
		"tax_percent": p.TaxPercent.String(),
		"description": p.Description,
	}
	if p.Active {
		values["active"] = "true"
	}
	return values
}
