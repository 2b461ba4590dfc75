package units

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// Screen describes the measurement units grid.
func Screen(backend grid.Backend[Unit, UnitInput]) grid.Spec[Unit, UnitInput] {
	factor := func(u Unit) string {
		if u.BaseCode == "" {
			return u.Factor.String()
		}
		return u.Factor.String() + " " + u.BaseCode
	}
	return grid.Spec[Unit, UnitInput]{
		Entity:   lookup.Units,
		Title:    "Units",
		Singular: "Unit",
		Base:     "/catalog/units",
		View:     rbac.CatalogView,
		Edit:     rbac.CatalogEdit,
		Backend:  backend,
		ID:       func(u Unit) string { return u.ID },
		Label:    func(u Unit) string { return u.Code },
		Columns: []grid.Column[Unit]{
			{Label: "Code", Value: func(u Unit) string { return u.Code }},
			{Label: "Name", Value: func(u Unit) string { return u.Name }},
			{Label: "Factor", Numeric: true, Value: factor},
		},
		Details: []grid.Detail[Unit]{
			{Label: "Code", Value: func(u Unit) string { return u.Code }},
			{Label: "Name", Value: func(u Unit) string { return u.Name }},
			{Label: "Base unit", Value: func(u Unit) string { return u.BaseCode }},
			{Label: "Factor", Value: factor},
		},
		Fields: []grid.Field{
			{Name: "code", Label: "Code", Type: grid.Text, Required: true},
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "base_code", Label: "Base unit code", Type: grid.Text, Help: "Leave empty for a base unit"},
			{Name: "factor", Label: "Conversion factor", Type: grid.Number, Help: "How many base units one unit holds"},
		},
		Decode:      decode,
		Encode:      encode,
		Defaults:    grid.Values{"factor": "1"},
		Invalidates: []string{lookup.Units},
	}
}

// Register adds the unit select list.
func Register(svc *lookup.Service, lister lookup.Lister[Unit]) {
	svc.Register(lookup.Units, lookup.FromList(lister, nil, func(u Unit) lookup.Option {
		return lookup.Option{Value: u.ID, Label: u.Code + " · " + u.Name}
	}))
}
