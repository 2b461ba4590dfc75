package trade

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrLineIndex is returned when a line operation targets a missing row.
var ErrLineIndex = errors.New("trade: line index out of range")

// Problems maps form field names to messages.
type Problems map[string]string

func (p Problems) Error() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+p[k])
	}
	return "trade: invalid draft (" + strings.Join(parts, "; ") + ")"
}

// AddLine appends an empty line with quantity one.
func (d *Draft) AddLine() {
	d.Lines = append(d.Lines, Line{Quantity: decimal.NewFromInt(1)})
}

// UpdateLine replaces the line at index i.
func (d *Draft) UpdateLine(i int, l Line) error {
	if i < 0 || i >= len(d.Lines) {
		return ErrLineIndex
	}
	d.Lines[i] = l
	return nil
}

// RemoveLine deletes the line at index i.
func (d *Draft) RemoveLine(i int) error {
	if i < 0 || i >= len(d.Lines) {
		return ErrLineIndex
	}
	d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	return nil
}

// Compact drops lines without a product, left behind by "add line".
func (d *Draft) Compact() {
	kept := d.Lines[:0]
	for _, l := range d.Lines {
		if strings.TrimSpace(l.ProductID) != "" {
			kept = append(kept, l)
		}
	}
	d.Lines = kept
}

func percentOK(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(hundred)
}

// Validate checks that a draft can be submitted.
func Validate(d Draft) error {
	p := Problems{}
	if strings.TrimSpace(d.PartyID) == "" {
		if d.Kind == KindPurchase {
			p["party_id"] = "supplier is required"
		} else {
			p["party_id"] = "customer is required"
		}
	}
	if d.Date.IsZero() {
		p["date"] = "date is required"
	}
	if len(d.Lines) == 0 {
		p["lines"] = "at least one line is required"
	}
	for i, l := range d.Lines {
		prefix := fmt.Sprintf("lines[%d].", i)
		if strings.TrimSpace(l.ProductID) == "" {
			p[prefix+"product_id"] = "product is required"
		}
		if !l.Quantity.IsPositive() {
			p[prefix+"quantity"] = "quantity must be greater than zero"
		}
		if l.UnitPrice.IsNegative() {
			p[prefix+"unit_price"] = "price cannot be negative"
		}
		if !percentOK(l.DiscountPercent) {
			p[prefix+"discount_percent"] = "discount must be between 0 and 100"
		}
		if !percentOK(l.TaxPercent) {
			p[prefix+"tax_percent"] = "tax must be between 0 and 100"
		}
	}
	switch d.Discount.Kind {
	case DiscountPercent, "":
		if !percentOK(d.Discount.Value) {
			p["discount"] = "discount must be between 0 and 100"
		}
	case DiscountAmount:
		if d.Discount.Value.IsNegative() {
			p["discount"] = "discount cannot be negative"
		}
	default:
		p["discount"] = "unknown discount kind"
	}
	switch d.Term.Kind {
	case TermCash, TermCredit:
	case TermInstallment:
		if d.Term.Installments < 1 {
			p["term"] = "installment terms need at least one installment"
		}
	case "":
		p["term"] = "payment term is required"
	default:
		p["term"] = "unknown payment term"
	}
	if d.DownPayment.IsNegative() {
		p["down_payment"] = "down payment cannot be negative"
	}
	if len(p) > 0 {
		return p
	}
	return nil
}
