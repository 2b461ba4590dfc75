package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
)

// Builder actions submitted with the form.
const (
	ActionRecalc     = "recalc"
	ActionAddLine    = "add_line"
	ActionRemoveLine = "remove_line"
	ActionSave       = "save"
)

var headerFields = []string{
	"draft_id", "party_id", "date", "reference", "term_id",
	"discount_kind", "discount", "down_payment", "payment_method", "notes",
}

var lineFields = []string{"product_id", "description", "quantity", "unit_price", "discount_percent", "tax_percent"}

// builderForm is the builder as submitted: raw strings so bad input can be shown back.
type builderForm struct {
	Header grid.Values
	Lines  []grid.Values
}

// parseBuilder reads the header fields and the line_* arrays of a posted builder.
func parseBuilder(r *http.Request) builderForm {
	f := builderForm{Header: make(grid.Values, len(headerFields))}
	for _, name := range headerFields {
		f.Header[name] = r.PostFormValue(name)
	}
	count := 0
	for _, name := range lineFields {
		count = max(count, len(r.PostForm["line_"+name]))
	}
	f.Lines = make([]grid.Values, count)
	for i := range count {
		line := make(grid.Values, len(lineFields))
		for _, name := range lineFields {
			if values := r.PostForm["line_"+name]; i < len(values) {
				line[name] = values[i]
			}
		}
		f.Lines[i] = line
	}
	return f
}

// parseAction splits "remove_line:2" into the action and the line index.
func parseAction(raw string) (string, int) {
	action, arg, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if action == "" {
		return ActionRecalc, -1
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		n = -1
	}
	return action, n
}

func (f *builderForm) addLine() {
	f.Lines = append(f.Lines, grid.Values{"quantity": "1"})
}

func (f *builderForm) removeLine(i int) error {
	if i < 0 || i >= len(f.Lines) {
		return trade.ErrLineIndex
	}
	f.Lines = append(f.Lines[:i], f.Lines[i+1:]...)
	return nil
}

// compact drops rows without a product.
func (f *builderForm) compact() {
	kept := f.Lines[:0]
	for _, l := range f.Lines {
		if l.Get("product_id") != "" {
			kept = append(kept, l)
		}
	}
	f.Lines = kept
}

// draft parses the form. Term is left for the handler to resolve.
func (f builderForm) draft(kind trade.Kind) (trade.Draft, grid.Problems) {
	p := grid.Problems{}
	h := f.Header
	d := trade.Draft{
		Kind:          kind,
		PartyID:       h.Get("party_id"),
		Date:          h.Date("date", p),
		Reference:     h.Get("reference"),
		Discount:      trade.Discount{Kind: trade.DiscountKind(h.Get("discount_kind")), Value: h.Decimal("discount", p)},
		DownPayment:   h.Decimal("down_payment", p),
		PaymentMethod: h.Get("payment_method"),
		Notes:         h.Get("notes"),
		Lines:         make([]trade.Line, 0, len(f.Lines)),
	}
	if d.Discount.Kind == "" {
		d.Discount.Kind = trade.DiscountPercent
	}
	for i, lv := range f.Lines {
		d.Lines = append(d.Lines, trade.Line{
			ProductID:       lv.Get("product_id"),
			Description:     lv.Get("description"),
			Quantity:        lineDecimal(lv, i, "quantity", p),
			UnitPrice:       lineDecimal(lv, i, "unit_price", p),
			DiscountPercent: lineDecimal(lv, i, "discount_percent", p),
			TaxPercent:      lineDecimal(lv, i, "tax_percent", p),
		})
	}
	return d, p
}

func lineKey(i int, name string) string {
	return fmt.Sprintf("lines[%d].%s", i, name)
}

func lineDecimal(v grid.Values, i int, name string, p grid.Problems) decimal.Decimal {
	local := grid.Problems{}
	d := v.Decimal(name, local)
	if msg, bad := local[name]; bad {
		p.Add(lineKey(i, name), msg)
	}
	return d
}

// newForm is an empty builder dated today with one blank line.
func newForm(draftID string, today time.Time) builderForm {
	f := builderForm{Header: grid.Values{
		"draft_id":       draftID,
		"date":           today.Format(grid.DateLayout),
		"discount_kind":  string(trade.DiscountPercent),
		"payment_method": "transfer",
	}}
	f.addLine()
	return f
}

// documentForm prefills the builder from a stored document.
func documentForm(draftID string, doc trade.Document) builderForm {
	f := builderForm{Header: grid.Values{
		"draft_id":       draftID,
		"party_id":       doc.PartyID,
		"date":           doc.Date.Format(grid.DateLayout),
		"reference":      doc.Reference,
		"term_id":        doc.Term.ID,
		"discount_kind":  string(doc.Discount.Kind),
		"discount":       decimalField(doc.Discount.Value),
		"down_payment":   decimalField(doc.DownPayment),
		"payment_method": doc.PaymentMethod,
		"notes":          doc.Notes,
	}}
	for _, l := range doc.Lines {
		f.Lines = append(f.Lines, grid.Values{
			"product_id":       l.ProductID,
			"description":      l.Description,
			"quantity":         l.Quantity.String(),
			"unit_price":       l.UnitPrice.String(),
			"discount_percent": decimalField(l.DiscountPercent),
			"tax_percent":      decimalField(l.TaxPercent),
		})
	}
	return f
}

func decimalField(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
