// Package accounts serves the receivables and payables screens. Both sides
// share one handler; only the API collection and the party wording differ.
package accounts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
)

// Side selects receivables or payables.
type Side string

const (
	Receivable Side = "receivable"
	Payable    Side = "payable"
)

// Statuses accepted by the status filter.
const (
	StatusOpen    = "open"
	StatusPartial = "partial"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Installment is one scheduled part of an account.
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Paid    decimal.Decimal `json:"paid"`
	Status  string          `json:"status"`
}

// Outstanding is what is left to pay on the installment.
func (i Installment) Outstanding() decimal.Decimal {
	return decimal.Max(i.Amount.Sub(i.Paid), decimal.Zero)
}

// Account is an amount a customer owes the business or the business owes a supplier.
type Account struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	DocumentID     string          `json:"document_id"`
	DocumentNumber string          `json:"document_number"`
	PartyID        string          `json:"party_id"`
	PartyName      string          `json:"party_name"`
	Date           time.Time       `json:"date"`
	DueDate        time.Time       `json:"due_date"`
	Total          decimal.Decimal `json:"total"`
	Paid           decimal.Decimal `json:"paid"`
	Balance        decimal.Decimal `json:"balance"`
	Status         string          `json:"status"`
	Installments   []Installment   `json:"installments,omitempty"`
}

// Settled reports whether nothing is left to pay.
func (a Account) Settled() bool {
	return !a.Balance.IsPositive()
}

// AccountInput is never sent: accounts are created by posting transactions.
type AccountInput struct{}

// Path returns the API collection of side.
func (s Side) Path() string {
	if s == Payable {
		return "/payables"
	}
	return "/receivables"
}

// NewResource binds the collection of side.
func NewResource(client *api.Client, side Side) *api.Resource[Account, AccountInput] {
	return api.NewResource[Account, AccountInput](client, side.Path())
}
