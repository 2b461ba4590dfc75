package paymentterms

import (
	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
)

// PaymentTerm decides how a sale or purchase is settled.
type PaymentTerm struct {
	ID           string         `json:"id"`
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	Kind         trade.TermKind `json:"kind"`
	DueDays      int            `json:"due_days"`
	Installments int            `json:"installments"`
	IntervalDays int            `json:"interval_days"`
	Description  string         `json:"description,omitempty"`
	Active       bool           `json:"active"`
}

// Term converts the record for the transaction builder.
func (p PaymentTerm) Term() trade.Term {
	return trade.Term{
		ID:           p.ID,
		Name:         p.Name,
		Kind:         p.Kind,
		DueDays:      p.DueDays,
		Installments: p.Installments,
		IntervalDays: p.IntervalDays,
	}
}

// PaymentTermInput is the create and update payload.
type PaymentTermInput struct {
	Code         string         `json:"code" validate:"required,max=16"`
	Name         string         `json:"name" validate:"required,max=80"`
	Kind         trade.TermKind `json:"kind" validate:"required,oneof=cash credit installment"`
	DueDays      int            `json:"due_days" validate:"gte=0,lte=3650"`
	Installments int            `json:"installments" validate:"gte=0,lte=360"`
	IntervalDays int            `json:"interval_days" validate:"gte=0,lte=3650"`
	Description  string         `json:"description,omitempty" validate:"max=500"`
	Active       bool           `json:"active"`
}

// NewResource binds the payment terms collection.
func NewResource(client *api.Client) *api.Resource[PaymentTerm, PaymentTermInput] {
	return api.NewResource[PaymentTerm, PaymentTermInput](client, "/payment-terms")
}

func decode(v grid.Values) (PaymentTermInput, error) {
	problems := grid.Problems{}
	in := PaymentTermInput{
		Code:         v.Get("code"),
		Name:         v.Get("name"),
		Kind:         trade.TermKind(v.Get("kind")),
		DueDays:      v.Int("due_days", problems),
		Installments: v.Int("installments", problems),
		IntervalDays: v.Int("interval_days", problems),
		Description:  v.Get("description"),
		Active:       v.Bool("active"),
	}
	switch in.Kind {
	case trade.TermCash:
		in.DueDays, in.Installments, in.IntervalDays = 0, 0, 0
	case trade.TermCredit:
		in.Installments, in.IntervalDays = 0, 0
		if in.DueDays <= 0 {
			problems.Add("due_days", "credit terms need at least one day")
		}
	case trade.TermInstallment:
		if in.Installments < 1 {
			problems.Add("installments", "must be at least 1")
		}
		if in.IntervalDays == 0 {
			in.IntervalDays = trade.DefaultIntervalDays
		}
	}
	return in, problems.Err()
}

func encode(p PaymentTerm) grid.Values {
	values := grid.Values{
		"code":          p.Code,
		"name":          p.Name,
		"kind":          string(p.Kind),
		"due_days":      itoa(p.DueDays),
		"installments":  itoa(p.Installments),
		"interval_days": itoa(p.IntervalDays),
		"description":   p.Description,
	}
	if p.Active {
		values["active"] = "true"
	}
	return values
}
