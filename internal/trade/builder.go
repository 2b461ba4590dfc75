// Package trade builds sale and purchase transactions: line totals,
// discounts and the payment or installment schedule.
package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places money is rounded to.
const Scale = 2

// DefaultIntervalDays separates installments when a term does not say.
const DefaultIntervalDays = 30

var hundred = decimal.NewFromInt(100)

// Kind tells sales and purchases apart.
type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
)

// DiscountKind selects how the header discount is expressed.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountAmount  DiscountKind = "amount"
)

// TermKind selects how a transaction is settled.
type TermKind string

const (
	TermCash        TermKind = "cash"
	TermCredit      TermKind = "credit"
	TermInstallment TermKind = "installment"
)

// Line is one product row of a draft.
type Line struct {
	ProductID       string          `json:"product_id"`
	Description     string          `json:"description,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
}

// Discount is the header discount of a draft.
type Discount struct {
	Kind  DiscountKind    `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// Term is a payment term as configured in the ERP.
type Term struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         TermKind `json:"kind"`
	DueDays      int      `json:"due_days"`
	Installments int      `json:"installments"`
	IntervalDays int      `json:"interval_days"`
}

// Draft is a transaction being composed in the builder.
type Draft struct {
	Kind          Kind            `json:"kind"`
	PartyID       string          `json:"party_id"`
	Date          time.Time       `json:"date"`
	Reference     string          `json:"reference,omitempty"`
	Lines         []Line          `json:"lines"`
	Discount      Discount        `json:"discount"`
	Term          Term            `json:"term"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// LineTotal is the computed breakdown of one line.
type LineTotal struct {
	Gross    decimal.Decimal `json:"gross"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Net      decimal.Decimal `json:"net"`
}

// Totals are the document totals.
type Totals struct {
	Gross        decimal.Decimal `json:"gross"`
	LineDiscount decimal.Decimal `json:"line_discount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

// Payment is a single settlement.
type Payment struct {
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
	Method  string          `json:"method,omitempty"`
}

// Installment is one scheduled partial payment.
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// Settlement is either one payment or a schedule of installments,
// optionally preceded by a down payment.
type Settlement struct {
	Payment      *Payment      `json:"payment,omitempty"`
	DownPayment  *Payment      `json:"down_payment,omitempty"`
	Installments []Installment `json:"installments,omitempty"`
}

// IsSchedule reports whether the settlement is an installment plan.
func (s Settlement) IsSchedule() bool {
	return len(s.Installments) > 0
}

// Quote is everything the builder derives from a draft.
type Quote struct {
	Lines      []LineTotal `json:"lines"`
	Totals     Totals      `json:"totals"`
	Settlement Settlement  `json:"settlement"`
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ComputeLine returns the breakdown of one line.
func ComputeLine(l Line) LineTotal {
	gross := round(l.Quantity.Mul(l.UnitPrice))
	discount := round(gross.Mul(l.DiscountPercent).Div(hundred))
	net := gross.Sub(discount)
	tax := round(net.Mul(l.TaxPercent).Div(hundred))
	return LineTotal{Gross: gross, Discount: discount, Tax: tax, Net: net}
}

// headerDiscount resolves the document discount against the subtotal.
func headerDiscount(d Discount, subtotal decimal.Decimal) decimal.Decimal {
	if d.Value.IsZero() || !subtotal.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch d.Kind {
	case DiscountAmount:
		amount = d.Value
	default:
		amount = subtotal.Mul(d.Value).Div(hundred)
	}
	amount = round(nonNegative(amount))
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

// ComputeTotals aggregates lines and applies the header discount.
// Tax shrinks proportionally with the header discount.
func ComputeTotals(lines []LineTotal, discount Discount) Totals {
	var t Totals
	var lineTax decimal.Decimal
	for _, l := range lines {
		t.Gross = t.Gross.Add(l.Gross)
		t.LineDiscount = t.LineDiscount.Add(l.Discount)
		t.Subtotal = t.Subtotal.Add(l.Net)
		lineTax = lineTax.Add(l.Tax)
	}
	t.Discount = headerDiscount(discount, t.Subtotal)
	t.Tax = lineTax
	if t.Discount.IsPositive() && t.Subtotal.IsPositive() {
		remaining := t.Subtotal.Sub(t.Discount).Div(t.Subtotal)
		t.Tax = round(lineTax.Mul(remaining))
	}
	t.Total = nonNegative(t.Subtotal.Sub(t.Discount).Add(t.Tax))
	return t
}

// Compute derives the full quote for a draft.
func Compute(d Draft) Quote {
	q := Quote{Lines: make([]LineTotal, 0, len(d.Lines))}
	for _, l := range d.Lines {
		q.Lines = append(q.Lines, ComputeLine(l))
	}
	q.Totals = ComputeTotals(q.Lines, d.Discount)
	q.Settlement = Settle(q.Totals.Total, d.Date, d.Term, d.DownPayment, d.PaymentMethod)
	return q
}
