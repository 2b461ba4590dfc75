package suppliers

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
)

// Supplier is a party the business buys from.
type Supplier struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	ContactName     string          `json:"contact_name,omitempty"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	TaxID           string          `json:"tax_id,omitempty"`
	PaymentTermID   string          `json:"payment_term_id,omitempty"`
	PaymentTermName string          `json:"payment_term_name,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	Active          bool            `json:"active"`
}

// SupplierInput is the create and update payload.
type SupplierInput struct {
	Code          string `json:"code" validate:"required,max=20"`
	Name          string `json:"name" validate:"required,max=160"`
	ContactName   string `json:"contact_name,omitempty" validate:"max=120"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"max=40"`
	Address       string `json:"address,omitempty" validate:"max=300"`
	TaxID         string `json:"tax_id,omitempty" validate:"max=40"`
	PaymentTermID string `json:"payment_term_id,omitempty"`
	Active        bool   `json:"active"`
}

// NewResource binds the suppliers collection.
func NewResource(client *api.Client) *api.Resource[Supplier, SupplierInput] {
	return api.NewResource[Supplier, SupplierInput](client, "/suppliers")
}
