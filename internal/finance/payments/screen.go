package payments

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// OpenAccounts is the lookup key of receivables and payables with a balance.
const OpenAccounts = "open-accounts"

var directionOptions = []lookup.Option{
	{Value: Incoming, Label: "Received"},
	{Value: Outgoing, Label: "Paid"},
}

// Screen describes the payments grid. Payments are voided, never edited.
func Screen(backend grid.Backend[Payment, PaymentInput], f view.Formatter) grid.Spec[Payment, PaymentInput] {
	return grid.Spec[Payment, PaymentInput]{
		Entity:   "payments",
		Title:    "Payments",
		Singular: "Payment",
		Base:     "/finance/payments",
		View:     rbac.FinanceView,
		Edit:     rbac.FinanceEdit,
		Backend:  backend,
		ID:       func(p Payment) string { return p.ID },
		Label:    func(p Payment) string { return p.Number },
		Columns: []grid.Column[Payment]{
			{Label: "Number", Value: func(p Payment) string { return p.Number }},
			{Label: "Date", Value: func(p Payment) string { return f.Date(p.Date) }},
			{Label: "Party", Value: func(p Payment) string { return p.PartyName }},
			{Label: "Account", Value: func(p Payment) string { return p.AccountNumber }},
			{Label: "Direction", Value: func(p Payment) string { return lookup.LabelOf(directionOptions, p.Direction) }},
			{Label: "Method", Value: func(p Payment) string { return lookup.LabelOf(MethodOptions, p.Method) }},
			{Label: "Amount", Numeric: true, Value: func(p Payment) string { return f.Money(p.Amount) }},
			{Label: "Status", Badge: true, Value: func(p Payment) string { return p.Status }},
		},
		Details: []grid.Detail[Payment]{
			{Label: "Number", Value: func(p Payment) string { return p.Number }},
			{Label: "Date", Value: func(p Payment) string { return f.Date(p.Date) }},
			{Label: "Party", Value: func(p Payment) string { return p.PartyName }},
			{Label: "Account", Value: func(p Payment) string { return p.AccountNumber }},
			{Label: "Direction", Value: func(p Payment) string { return lookup.LabelOf(directionOptions, p.Direction) }},
			{Label: "Method", Value: func(p Payment) string { return lookup.LabelOf(MethodOptions, p.Method) }},
			{Label: "Amount", Value: func(p Payment) string { return f.Money(p.Amount) }},
			{Label: "Reference", Value: func(p Payment) string { return p.Reference }},
			{Label: "Status", Value: func(p Payment) string { return p.Status }},
			{Label: "Notes", Value: func(p Payment) string { return p.Notes }},
		},
		Fields: []grid.Field{
			{Name: "account_id", Label: "Receivable or payable", Type: grid.Select, Lookup: OpenAccounts, Required: true},
			{Name: "date", Label: "Date", Type: grid.Date, Required: true},
			{Name: "amount", Label: "Amount", Type: grid.Number, Required: true},
			{Name: "method", Label: "Method", Type: grid.Select, Options: MethodOptions, Required: true},
			{Name: "reference", Label: "Reference", Type: grid.Text},
			{Name: "notes", Label: "Notes", Type: grid.TextArea},
		},
		Filters: []grid.Filter{
			{Key: "direction", Label: "Directions", Options: directionOptions},
			{Key: "method", Label: "Methods", Options: MethodOptions},
		},
		Decode:      Decode,
		NoEdit:      true,
		Defaults:    grid.Values{"method": "transfer"},
		DeleteVerb:  "Void",
		Invalidates: []string{OpenAccounts, lookup.Customers, lookup.Suppliers},
	}
}
