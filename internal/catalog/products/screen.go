package products

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

var activeOptions = []lookup.Option{
	{Value: "true", Label: "Active"},
	{Value: "false", Label: "Inactive"},
}

func status(p Product) string {
	if p.Active {
		return "Active"
	}
	return "Inactive"
}

// Screen describes the products grid.
func Screen(backend grid.Backend[Product, ProductInput], f view.Formatter) grid.Spec[Product, ProductInput] {
	return grid.Spec[Product, ProductInput]{
		Entity:   lookup.Products,
		Title:    "Products",
		Singular: "Product",
		Base:     "/catalog/products",
		View:     rbac.CatalogView,
		Edit:     rbac.CatalogEdit,
		Backend:  backend,
		ID:       func(p Product) string { return p.ID },
		Label:    func(p Product) string { return p.SKU + " " + p.Name },
		Columns: []grid.Column[Product]{
			{Label: "SKU", Value: func(p Product) string { return p.SKU }},
			{Label: "Name", Value: func(p Product) string { return p.Name }},
			{Label: "Category", Value: func(p Product) string { return p.CategoryName }},
			{Label: "Brand", Value: func(p Product) string { return p.BrandName }},
			{Label: "Price", Numeric: true, Value: func(p Product) string { return f.Money(p.Price) }},
			{Label: "Stock", Numeric: true, Value: func(p Product) string { return f.Number(p.Stock) + " " + p.UnitCode }},
			{Label: "Status", Badge: true, Value: status},
		},
		Details: []grid.Detail[Product]{
			{Label: "SKU", Value: func(p Product) string { return p.SKU }},
			{Label: "Name", Value: func(p Product) string { return p.Name }},
			{Label: "Barcode", Value: func(p Product) string { return p.Barcode }},
			{Label: "Category", Value: func(p Product) string { return p.CategoryName }},
			{Label: "Brand", Value: func(p Product) string { return p.BrandName }},
			{Label: "Unit", Value: func(p Product) string { return p.UnitCode }},
			{Label: "Price", Value: func(p Product) string { return f.Money(p.Price) }},
			{Label: "Cost", Value: func(p Product) string { return f.Money(p.Cost) }},
			{Label: "Tax %", Value: func(p Product) string { return f.Number(p.TaxPercent) }},
			{Label: "Stock", Value: func(p Product) string { return f.Number(p.Stock) }},
			{Label: "Status", Value: status},
			{Label: "Description", Value: func(p Product) string { return p.Description }},
			{Label: "Updated", Value: func(p Product) string { return f.Date(p.UpdatedAt) }},
		},
		Fields: []grid.Field{
			{Name: "sku", Label: "SKU", Type: grid.Text, Required: true},
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "barcode", Label: "Barcode", Type: grid.Text},
			{Name: "category_id", Label: "Category", Type: grid.Select, Lookup: lookup.Categories},
			{Name: "brand_id", Label: "Brand", Type: grid.Select, Lookup: lookup.Brands},
			{Name: "unit_id", Label: "Unit", Type: grid.Select, Lookup: lookup.Units, Required: true},
			{Name: "price", Label: "Sale price", Type: grid.Number},
			{Name: "cost", Label: "Cost", Type: grid.Number},
			{Name: "tax_percent", Label: "Tax %", Type: grid.Number},
			{Name: "active", Label: "Active", Type: grid.Checkbox},
			{Name: "description", Label: "Description", Type: grid.TextArea},
		},
		Filters: []grid.Filter{
			{Key: "category_id", Label: "Categories", Lookup: lookup.Categories},
			{Key: "brand_id", Label: "Brands", Lookup: lookup.Brands},
			{Key: "active", Label: "Statuses", Options: activeOptions},
		},
		Decode:      decode,
		Encode:      encode,
		Defaults:    grid.Values{"active": "true", "tax_percent": "0"},
		Invalidates: []string{lookup.Products},
	}
}

// Register adds the product select list. Only active products are offered.
func Register(svc *lookup.Service, lister lookup.Lister[Product]) {
	svc.Register(lookup.Products, lookup.FromList(lister, map[string]string{"active": "true"}, func(p Product) lookup.Option {
		return lookup.Option{Value: p.ID, Label: p.SKU + " · " + p.Name, Hint: p.Price.StringFixed(2)}
	}))
}
