package suppliers

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

func status(s Supplier) string {
	if s.Active {
		return "Active"
	}
	return "Inactive"
}

// Screen describes the suppliers grid.
func Screen(backend grid.Backend[Supplier, SupplierInput], f view.Formatter) grid.Spec[Supplier, SupplierInput] {
	return grid.Spec[Supplier, SupplierInput]{
		Entity:   lookup.Suppliers,
		Title:    "Suppliers",
		Singular: "Supplier",
		Base:     "/parties/suppliers",
		View:     rbac.PartiesView,
		Edit:     rbac.PartiesEdit,
		Backend:  backend,
		ID:       func(s Supplier) string { return s.ID },
		Label:    func(s Supplier) string { return s.Name },
		Columns: []grid.Column[Supplier]{
			{Label: "Code", Value: func(s Supplier) string { return s.Code }},
			{Label: "Name", Value: func(s Supplier) string { return s.Name }},
			{Label: "Contact", Value: func(s Supplier) string { return s.ContactName }},
			{Label: "Payment term", Value: func(s Supplier) string { return s.PaymentTermName }},
			{Label: "Balance", Numeric: true, Value: func(s Supplier) string { return f.Money(s.Balance) }},
			{Label: "Status", Badge: true, Value: status},
		},
		Details: []grid.Detail[Supplier]{
			{Label: "Code", Value: func(s Supplier) string { return s.Code }},
			{Label: "Name", Value: func(s Supplier) string { return s.Name }},
			{Label: "Contact", Value: func(s Supplier) string { return s.ContactName }},
			{Label: "Email", Value: func(s Supplier) string { return s.Email }},
			{Label: "Phone", Value: func(s Supplier) string { return s.Phone }},
			{Label: "Address", Value: func(s Supplier) string { return s.Address }},
			{Label: "Tax ID", Value: func(s Supplier) string { return s.TaxID }},
			{Label: "Payment term", Value: func(s Supplier) string { return s.PaymentTermName }},
			{Label: "Balance", Value: func(s Supplier) string { return f.Money(s.Balance) }},
			{Label: "Status", Value: status},
		},
		Fields: []grid.Field{
			{Name: "code", Label: "Code", Type: grid.Text, Required: true},
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "contact_name", Label: "Contact person", Type: grid.Text},
			{Name: "email", Label: "Email", Type: grid.Email},
			{Name: "phone", Label: "Phone", Type: grid.Text},
			{Name: "address", Label: "Address", Type: grid.TextArea},
			{Name: "tax_id", Label: "Tax ID", Type: grid.Text},
			{Name: "payment_term_id", Label: "Default payment term", Type: grid.Select, Lookup: lookup.PaymentTerms},
			{Name: "active", Label: "Active", Type: grid.Checkbox},
		},
		Filters: []grid.Filter{
			{Key: "payment_term_id", Label: "Payment terms", Lookup: lookup.PaymentTerms},
		},
		Decode: func(v grid.Values) (SupplierInput, error) {
			return SupplierInput{
				Code:          v.Get("code"),
				Name:          v.Get("name"),
				ContactName:   v.Get("contact_name"),
				Email:         v.Get("email"),
				Phone:         v.Get("phone"),
				Address:       v.Get("address"),
				TaxID:         v.Get("tax_id"),
				PaymentTermID: v.Get("payment_term_id"),
				Active:        v.Bool("active"),
			}, nil
		},
		Encode: func(s Supplier) grid.Values {
			values := grid.Values{
				"code":            s.Code,
				"name":            s.Name,
				"contact_name":    s.ContactName,
				"email":           s.Email,
				"phone":           s.Phone,
				"address":         s.Address,
				"tax_id":          s.TaxID,
				"payment_term_id": s.PaymentTermID,
			}
			if s.Active {
				values["active"] = "true"
			}
			return values
		},
		Defaults:    grid.Values{"active": "true"},
		Invalidates: []string{lookup.Suppliers},
	}
}

// Register adds the supplier select list.
func Register(svc *lookup.Service, lister lookup.Lister[Supplier]) {
	svc.Register(lookup.Suppliers, lookup.FromList(lister, map[string]string{"active": "true"}, func(s Supplier) lookup.Option {
		return lookup.Option{Value: s.ID, Label: s.Code + " · " + s.Name, Hint: s.PaymentTermID}
	}))
}
