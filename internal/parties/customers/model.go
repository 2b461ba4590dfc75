package customers

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

// Customer is a party the business sells to.
type Customer struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	City            string          `json:"city,omitempty"`
	TaxID           string          `json:"tax_id,omitempty"`
	PaymentTermID   string          `json:"payment_term_id,omitempty"`
	PaymentTermName string          `json:"payment_term_name,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	Balance         decimal.Decimal `json:"balance"`
	Active          bool            `json:"active"`
}

// CustomerInput is the create and update payload.
type CustomerInput struct {
	Code          string          `json:"code" validate:"required,max=20"`
	Name          string          `json:"name" validate:"required,max=160"`
	Email         string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string          `json:"phone,omitempty" validate:"max=40"`
	Address       string          `json:"address,omitempty" validate:"max=300"`
	City          string          `json:"city,omitempty" validate:"max=80"`
	TaxID         string          `json:"tax_id,omitempty" validate:"max=40"`
	PaymentTermID string          `json:"payment_term_id,omitempty"`
	CreditLimit   decimal.Decimal `json:"credit_limit"`
	Active        bool            `json:"active"`
}

// NewResource binds the customers collection.
func NewResource(client *api.Client) *api.Resource[Customer, CustomerInput] {
	return api.NewResource[Customer, CustomerInput](client, "/customers")
}

func decode(v grid.Values) (CustomerInput, error) {
	problems := grid.Problems{}
	in := CustomerInput{
		Code:          v.Get("code"),
		Name:          v.Get("name"),
		Email:         v.Get("email"),
		Phone:         v.Get("phone"),
		Address:       v.Get("address"),
		City:          v.Get("city"),
		TaxID:         v.Get("tax_id"),
		PaymentTermID: v.Get("payment_term_id"),
		CreditLimit:   v.Decimal("credit_limit", problems),
		Active:        v.Bool("active"),
	}
	if in.CreditLimit.IsNegative() {
		problems.Add("credit_limit", "must not be negative")
	}
	return in, problems.Err()
}

func encode(c Customer) grid.Values {
	values := grid.Values{
		"code":            c.Code,
		"name":            c.Name,
		"email":           c.Email,
		"phone":           c.Phone,
		"address":         c.Address,
		"city":            c.City,
		"tax_id":          c.TaxID,
		"payment_term_id": c.PaymentTermID,
		"credit_limit":    c.CreditLimit.StringFixed(2),
	}
	if c.Active {
		values["active"] = "true"
	}
	return values
}
