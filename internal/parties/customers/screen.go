package customers

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

func status(c Customer) string {
	if c.Active {
		return "Active"
	}
	return "Inactive"
}

// Screen describes the customers grid.
func Screen(backend grid.Backend[Customer, CustomerInput], f view.Formatter) grid.Spec[Customer, CustomerInput] {
	return grid.Spec[Customer, CustomerInput]{
		Entity:   lookup.Customers,
		Title:    "Customers",
		Singular: "Customer",
		Base:     "/parties/customers",
		View:     rbac.PartiesView,
		Edit:     rbac.PartiesEdit,
		Backend:  backend,
		ID:       func(c Customer) string { return c.ID },
		Label:    func(c Customer) string { return c.Name },
		Columns: []grid.Column[Customer]{
			{Label: "Code", Value: func(c Customer) string { return c.Code }},
			{Label: "Name", Value: func(c Customer) string { return c.Name }},
			{Label: "City", Value: func(c Customer) string { return c.City }},
			{Label: "Payment term", Value: func(c Customer) string { return c.PaymentTermName }},
			{Label: "Balance", Numeric: true, Value: func(c Customer) string { return f.Money(c.Balance) }},
			{Label: "Status", Badge: true, Value: status},
		},
		Details: []grid.Detail[Customer]{
			{Label: "Code", Value: func(c Customer) string { return c.Code }},
			{Label: "Name", Value: func(c Customer) string { return c.Name }},
			{Label: "Email", Value: func(c Customer) string { return c.Email }},
			{Label: "Phone", Value: func(c Customer) string { return c.Phone }},
			{Label: "Address", Value: func(c Customer) string { return c.Address }},
			{Label: "City", Value: func(c Customer) string { return c.City }},
			{Label: "Tax ID", Value: func(c Customer) string { return c.TaxID }},
			{Label: "Payment term", Value: func(c Customer) string { return c.PaymentTermName }},
			{Label: "Credit limit", Value: func(c Customer) string { return f.Money(c.CreditLimit) }},
			{Label: "Balance", Value: func(c Customer) string { return f.Money(c.Balance) }},
			{Label: "Status", Value: status},
		},
		Fields: []grid.Field{
			{Name: "code", Label: "Code", Type: grid.Text, Required: true},
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "email", Label: "Email", Type: grid.Email},
			{Name: "phone", Label: "Phone", Type: grid.Text},
			{Name: "address", Label: "Address", Type: grid.TextArea},
			{Name: "city", Label: "City", Type: grid.Text},
			{Name: "tax_id", Label: "Tax ID", Type: grid.Text},
			{Name: "payment_term_id", Label: "Default payment term", Type: grid.Select, Lookup: lookup.PaymentTerms},
			{Name: "credit_limit", Label: "Credit limit", Type: grid.Number},
			{Name: "active", Label: "Active", Type: grid.Checkbox},
		},
		Filters: []grid.Filter{
			{Key: "payment_term_id", Label: "Payment terms", Lookup: lookup.PaymentTerms},
			{Key: "active", Label: "Statuses", Options: []lookup.Option{{Value: "true", Label: "Active"}, {Value: "false", Label: "Inactive"}}},
		},
		Decode:      decode,
		Encode:      encode,
		Defaults:    grid.Values{"active": "true"},
		Invalidates: []string{lookup.Customers},
	}
}

// Register adds the customer select list.
func Register(svc *lookup.Service, lister lookup.Lister[Customer]) {
	svc.Register(lookup.Customers, lookup.FromList(lister, map[string]string{"active": "true"}, func(c Customer) lookup.Option {
		return lookup.Option{Value: c.ID, Label: c.Code + " · " + c.Name, Hint: c.PaymentTermID}
	}))
}
