package brands

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Screen describes the brands grid.
func Screen(backend grid.Backend[Brand, BrandInput]) grid.Spec[Brand, BrandInput] {
	return grid.Spec[Brand, BrandInput]{
		Entity:   lookup.Brands,
		Title:    "Brands",
		Singular: "Brand",
		Base:     "/catalog/brands",
		View:     rbac.CatalogView,
		Edit:     rbac.CatalogEdit,
		Backend:  backend,
		ID:       func(b Brand) string { return b.ID },
		Label:    func(b Brand) string { return b.Name },
		Columns: []grid.Column[Brand]{
			{Label: "Name", Value: func(b Brand) string { return b.Name }},
			{Label: "Website", Value: func(b Brand) string { return b.Website }},
		},
		Details: []grid.Detail[Brand]{
			{Label: "Name", Value: func(b Brand) string { return b.Name }},
			{Label: "Website", Value: func(b Brand) string { return b.Website }},
			{Label: "Description", Value: func(b Brand) string { return b.Description }},
		},
		Fields: []grid.Field{
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "website", Label: "Website", Type: grid.Text, Help: "Full URL, e.g. https://example.com"},
			{Name: "description", Label: "Description", Type: grid.TextArea},
		},
		Decode: func(v grid.Values) (BrandInput, error) {
			return BrandInput{Name: v.Get("name"), Description: v.Get("description"), Website: v.Get("website")}, nil
		},
		Encode: func(b Brand) grid.Values {
			return grid.Values{"name": b.Name, "description": b.Description, "website": b.Website}
		},
		Invalidates: []string{lookup.Brands},
	}
}

// Register adds the brand select list.
func Register(svc *lookup.Service, lister lookup.Lister[Brand]) {
	svc.Register(lookup.Brands, lookup.FromList(lister, nil, func(b Brand) lookup.Option {
		return lookup.Option{Value: b.ID, Label: b.Name}
	}))
}
