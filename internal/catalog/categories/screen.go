package categories

import (
	"strconv"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// Screen describes the categories grid.
func Screen(backend grid.Backend[Category, CategoryInput], f view.Formatter) grid.Spec[Category, CategoryInput] {
	return grid.Spec[Category, CategoryInput]{
		Entity:   lookup.Categories,
		Title:    "Categories",
		Singular: "Category",
		Base:     "/catalog/categories",
		View:     rbac.CatalogView,
		Edit:     rbac.CatalogEdit,
		Backend:  backend,
		ID:       func(c Category) string { return c.ID },
		Label:    func(c Category) string { return c.Name },
		Columns: []grid.Column[Category]{
			{Label: "Name", Value: func(c Category) string { return c.Name }},
			{Label: "Parent", Value: func(c Category) string { return c.ParentName }},
			{Label: "Products", Numeric: true, Value: func(c Category) string { return strconv.Itoa(c.ProductCount) }},
		},
		Details: []grid.Detail[Category]{
			{Label: "Name", Value: func(c Category) string { return c.Name }},
			{Label: "Parent", Value: func(c Category) string { return c.ParentName }},
			{Label: "Description", Value: func(c Category) string { return c.Description }},
			{Label: "Products", Value: func(c Category) string { return strconv.Itoa(c.ProductCount) }},
			{Label: "Updated", Value: func(c Category) string { return f.Date(c.UpdatedAt) }},
		},
		Fields: []grid.Field{
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "parent_id", Label: "Parent category", Type: grid.Select, Lookup: lookup.Categories},
			{Name: "description", Label: "Description", Type: grid.TextArea},
		},
		Filters: []grid.Filter{
			{Key: "parent_id", Label: "Parents", Lookup: lookup.Categories},
		},
		Decode: decode,
		Encode: encode,
		// Parents and product selects both list categories.
		Invalidates: []string{lookup.Categories, lookup.Products},
	}
}

// Register adds the category select list.
func Register(svc *lookup.Service, lister lookup.Lister[Category]) {
	svc.Register(lookup.Categories, lookup.FromList(lister, nil, func(c Category) lookup.Option {
		label := c.Name
		if c.ParentName != "" {
			label = c.ParentName + " / " + c.Name
		}
		return lookup.Option{Value: c.ID, Label: label}
	}))
}
