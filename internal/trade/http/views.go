package http

import (
	"strconv"

	"github.com/odyssey-erp/odyssey-admin/internal/finance/payments"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// StatusOptions feed the status filter of both transaction lists.
var StatusOptions = []lookup.Option{
	{Value: "posted", Label: "Posted"},
	{Value: "partial", Label: "Partially paid"},
	{Value: "paid", Label: "Paid"},
	{Value: "cancelled", Label: "Cancelled"},
}

// DiscountKinds feed the header discount select.
var DiscountKinds = []lookup.Option{
	{Value: string(trade.DiscountPercent), Label: "%"},
	{Value: string(trade.DiscountAmount), Label: "Amount"},
}

// BuilderView feeds pages/trade/builder.html.
type BuilderView struct {
	Title      string
	Singular   string
	Base       string
	Action     string
	QuoteURL   string
	Cancel     string
	ID         string
	IsNew      bool
	PartyLabel string

	Header   grid.Values
	Lines    []LineView
	Totals   TotalsView
	Schedule ScheduleView
	Problems grid.Problems
	Message  string

	Parties       []lookup.Option
	Products      []lookup.Option
	Terms         []lookup.Option
	DiscountKinds []lookup.Option
	Methods       []lookup.Option
}

// LineView is one editable builder row.
type LineView struct {
	Index  int
	Values grid.Values
	Errors map[string]string
	Net    string
}

// TotalsView holds formatted document totals. The json names match builder.js.
type TotalsView struct {
	Gross        string `json:"gross"`
	LineDiscount string `json:"line_discount"`
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
}

// PaymentView is one formatted settlement row.
type PaymentView struct {
	Label   string
	DueDate string
	Amount  string
	Method  string
}

// ScheduleView feeds partials/schedule.
type ScheduleView struct {
	Payment      *PaymentView
	DownPayment  *PaymentView
	Installments []PaymentView
}

// DetailExtras is the Related data of the transaction detail page.
type DetailExtras struct {
	PartyLabel  string
	Schedule    ScheduleView
	DocumentURL string
}

// DocumentView feeds pages/trade/document.html, the printable transaction.
type DocumentView struct {
	Title      string
	PartyLabel string
	Document   trade.Document
	Schedule   ScheduleView
}

func totalsView(f view.Formatter, t trade.Totals) TotalsView {
	return TotalsView{
		Gross:        f.Money(t.Gross),
		LineDiscount: f.Money(t.LineDiscount),
		Subtotal:     f.Money(t.Subtotal),
		Discount:     f.Money(t.Discount),
		Tax:          f.Money(t.Tax),
		Total:        f.Money(t.Total),
	}
}

func scheduleView(f view.Formatter, s trade.Settlement) ScheduleView {
	method := func(m string) string { return lookup.LabelOf(payments.MethodOptions, m) }
	var out ScheduleView
	if s.Payment != nil {
		out.Payment = &PaymentView{Label: "Payment", DueDate: f.Date(s.Payment.DueDate), Amount: f.Money(s.Payment.Amount), Method: method(s.Payment.Method)}
	}
	if s.DownPayment != nil {
		out.DownPayment = &PaymentView{Label: "Down payment", DueDate: f.Date(s.DownPayment.DueDate), Amount: f.Money(s.DownPayment.Amount), Method: method(s.DownPayment.Method)}
	}
	for _, i := range s.Installments {
		out.Installments = append(out.Installments, PaymentView{
			Label:   "Installment " + strconv.Itoa(i.Number),
			DueDate: f.Date(i.DueDate),
			Amount:  f.Money(i.Amount),
		})
	}
	return out
}

func lineViews(f view.Formatter, form builderForm, q trade.Quote, problems grid.Problems) []LineView {
	out := make([]LineView, 0, len(form.Lines))
	for i, values := range form.Lines {
		lv := LineView{Index: i, Values: values, Errors: map[string]string{}}
		for _, name := range lineFields {
			if msg, bad := problems[lineKey(i, name)]; bad {
				lv.Errors[name] = msg
			}
		}
		if i < len(q.Lines) {
			lv.Net = f.Money(q.Lines[i].Net)
		}
		out = append(out, lv)
	}
	return out
}
