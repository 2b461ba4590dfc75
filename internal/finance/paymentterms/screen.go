package paymentterms

import (
	"fmt"
	"strconv"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
)

// KindOptions lists the settlement kinds.
var KindOptions = []lookup.Option{
	{Value: string(trade.TermCash), Label: "Cash"},
	{Value: string(trade.TermCredit), Label: "Credit"},
	{Value: string(trade.TermInstallment), Label: "Installments"},
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// Describe summarises a term, e.g. "3 installments every 30 days".
func Describe(p PaymentTerm) string {
	switch p.Kind {
	case trade.TermCash:
		return "Paid on the transaction date"
	case trade.TermCredit:
		return fmt.Sprintf("Due after %d days", p.DueDays)
	case trade.TermInstallment:
		interval := p.IntervalDays
		if interval <= 0 {
			interval = trade.DefaultIntervalDays
		}
		s := fmt.Sprintf("%d installments every %d days", p.Installments, interval)
		if p.DueDays > 0 {
			s += fmt.Sprintf(", starting after %d days", p.DueDays)
		}
		return s
	}
	return string(p.Kind)
}

func active(p PaymentTerm) string {
	if p.Active {
		return "Active"
	}
	return "Inactive"
}

// Screen describes the payment terms grid.
func Screen(backend grid.Backend[PaymentTerm, PaymentTermInput]) grid.Spec[PaymentTerm, PaymentTermInput] {
	return grid.Spec[PaymentTerm, PaymentTermInput]{
		Entity:   lookup.PaymentTerms,
		Title:    "Payment terms",
		Singular: "Payment term",
		Base:     "/finance/payment-terms",
		View:     rbac.FinanceView,
		Edit:     rbac.FinanceEdit,
		Backend:  backend,
		ID:       func(p PaymentTerm) string { return p.ID },
		Label:    func(p PaymentTerm) string { return p.Name },
		Columns: []grid.Column[PaymentTerm]{
			{Label: "Code", Value: func(p PaymentTerm) string { return p.Code }},
			{Label: "Name", Value: func(p PaymentTerm) string { return p.Name }},
			{Label: "Kind", Value: func(p PaymentTerm) string { return lookup.LabelOf(KindOptions, string(p.Kind)) }},
			{Label: "Rule", Value: Describe},
			{Label: "Status", Badge: true, Value: active},
		},
		Details: []grid.Detail[PaymentTerm]{
			{Label: "Code", Value: func(p PaymentTerm) string { return p.Code }},
			{Label: "Name", Value: func(p PaymentTerm) string { return p.Name }},
			{Label: "Kind", Value: func(p PaymentTerm) string { return lookup.LabelOf(KindOptions, string(p.Kind)) }},
			{Label: "Rule", Value: Describe},
			{Label: "Status", Value: active},
			{Label: "Description", Value: func(p PaymentTerm) string { return p.Description }},
		},
		Fields: []grid.Field{
			{Name: "code", Label: "Code", Type: grid.Text, Required: true},
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "kind", Label: "Kind", Type: grid.Select, Options: KindOptions, Required: true},
			{Name: "due_days", Label: "Due days", Type: grid.Number, Help: "Credit: days until due. Installments: days before the first one"},
			{Name: "installments", Label: "Installments", Type: grid.Number},
			{Name: "interval_days", Label: "Days between installments", Type: grid.Number},
			{Name: "active", Label: "Active", Type: grid.Checkbox},
			{Name: "description", Label: "Description", Type: grid.TextArea},
		},
		Filters: []grid.Filter{
			{Key: "kind", Label: "Kinds", Options: KindOptions},
		},
		Decode:      decode,
		Encode:      encode,
		Defaults:    grid.Values{"kind": string(trade.TermCash), "active": "true"},
		Invalidates: []string{lookup.PaymentTerms},
	}
}

// Register adds the payment term select list.
func Register(svc *lookup.Service, lister lookup.Lister[PaymentTerm]) {
	svc.Register(lookup.PaymentTerms, lookup.FromList(lister, map[string]string{"active": "true"}, func(p PaymentTerm) lookup.Option {
		return lookup.Option{Value: p.ID, Label: p.Name, Hint: Describe(p)}
	}))
}
