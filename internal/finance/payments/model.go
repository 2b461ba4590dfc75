package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
)

// Directions of money movement.
const (
	Incoming = "incoming"
	Outgoing = "outgoing"
)

// MethodOptions are the accepted payment methods.
var MethodOptions = []lookup.Option{
	{Value: "cash", Label: "Cash"},
	{Value: "transfer", Label: "Bank transfer"},
	{Value: "card", Label: "Card"},
	{Value: "cheque", Label: "Cheque"},
}

// Payment is money received from a customer or paid to a supplier.
type Payment struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Direction     string          `json:"direction"`
	AccountID     string          `json:"account_id"`
	AccountNumber string          `json:"account_number,omitempty"`
	PartyID       string          `json:"party_id,omitempty"`
	PartyName     string          `json:"party_name,omitempty"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
}

// PaymentInput registers a payment against a receivable or payable.
type PaymentInput struct {
	AccountID string          `json:"account_id" validate:"required"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,oneof=cash transfer card cheque"`
	Reference string          `json:"reference,omitempty" validate:"max=80"`
	Notes     string          `json:"notes,omitempty" validate:"max=500"`
}

// NewResource binds the payments collection.
func NewResource(client *api.Client) *api.Resource[Payment, PaymentInput] {
	return api.NewResource[Payment, PaymentInput](client, "/payments")
}

// Decode reads a payment form. The amount must be positive and the date set.
func Decode(v grid.Values) (PaymentInput, error) {
	problems := grid.Problems{}
	in := PaymentInput{
		AccountID: v.Get("account_id"),
		Date:      v.Date("date", problems),
		Amount:    v.Decimal("amount", problems),
		Method:    v.Get("method"),
		Reference: v.Get("reference"),
		Notes:     v.Get("notes"),
	}
	if !in.Amount.IsPositive() {
		problems.Add("amount", "must be greater than zero")
	}
	if in.Date.IsZero() {
		problems.Add("date", "is required")
	}
	return in, problems.Err()
}
