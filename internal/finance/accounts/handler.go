package accounts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/payments"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// StatusOptions feed the status filter.
var StatusOptions = []lookup.Option{
	{Value: StatusOpen, Label: "Open"},
	{Value: StatusPartial, Label: "Partially paid"},
	{Value: StatusPaid, Label: "Paid"},
	{Value: StatusOverdue, Label: "Overdue"},
}

// PaymentService is the part of the payments API the account screens use.
type PaymentService interface {
	All(ctx context.Context, params api.ListParams, max int) ([]payments.Payment, error)
	Create(ctx context.Context, in payments.PaymentInput) (payments.Payment, error)
}

// Related is the extra data of the account detail page.
type Related struct {
	Side         Side
	Payments     []payments.Payment
	CanPay       bool
	Form         grid.Values
	Problems     grid.Problems
	Message      string
	Methods      []lookup.Option
	PaymentsPath string
}

// Handler serves one side of the accounts screens.
type Handler struct {
	side     Side
	grid     *grid.Handler[Account, AccountInput]
	backend  grid.Backend[Account, AccountInput]
	payments PaymentService
	deps     grid.Deps
}

// NewHandler builds the receivables or payables screen.
func NewHandler(side Side, backend grid.Backend[Account, AccountInput], paymentSvc PaymentService, f view.Formatter, deps grid.Deps) *Handler {
	h := &Handler{side: side, backend: backend, payments: paymentSvc, deps: deps}
	h.grid = grid.New(h.spec(f), deps)
	return h
}

func (h *Handler) spec(f view.Formatter) grid.Spec[Account, AccountInput] {
	title, singular, party, partyLookup := "Receivables", "Receivable", "Customer", lookup.Customers
	if h.side == Payable {
		title, singular, party, partyLookup = "Payables", "Payable", "Supplier", lookup.Suppliers
	}
	status := func(a Account) string { return lookup.LabelOf(StatusOptions, a.Status) }
	return grid.Spec[Account, AccountInput]{
		Entity:   string(h.side) + "s",
		Title:    title,
		Singular: singular,
		Base:     "/finance/" + string(h.side) + "s",
		View:     rbac.FinanceView,
		Edit:     rbac.FinanceEdit,
		Backend:  h.backend,
		ID:       func(a Account) string { return a.ID },
		Label:    func(a Account) string { return a.Number },
		Columns: []grid.Column[Account]{
			{Label: "Number", Value: func(a Account) string { return a.Number }},
			{Label: "Document", Value: func(a Account) string { return a.DocumentNumber }},
			{Label: party, Value: func(a Account) string { return a.PartyName }},
			{Label: "Date", Value: func(a Account) string { return f.Date(a.Date) }},
			{Label: "Due", Value: func(a Account) string { return f.Date(a.DueDate) }},
			{Label: "Total", Numeric: true, Value: func(a Account) string { return f.Money(a.Total) }},
			{Label: "Balance", Numeric: true, Value: func(a Account) string { return f.Money(a.Balance) }},
			{Label: "Status", Badge: true, Value: status},
		},
		Details: []grid.Detail[Account]{
			{Label: "Number", Value: func(a Account) string { return a.Number }},
			{Label: "Document", Value: func(a Account) string { return a.DocumentNumber }},
			{Label: party, Value: func(a Account) string { return a.PartyName }},
			{Label: "Date", Value: func(a Account) string { return f.Date(a.Date) }},
			{Label: "Due", Value: func(a Account) string { return f.Date(a.DueDate) }},
			{Label: "Total", Value: func(a Account) string { return f.Money(a.Total) }},
			{Label: "Paid", Value: func(a Account) string { return f.Money(a.Paid) }},
			{Label: "Balance", Value: func(a Account) string { return f.Money(a.Balance) }},
			{Label: "Status", Value: status},
		},
		Filters: []grid.Filter{
			{Key: "status", Label: "Statuses", Options: StatusOptions},
			{Key: "party_id", Label: party + "s", Lookup: partyLookup},
		},
		ReadOnly:    true,
		DetailPage:  "pages/accounts/detail.html",
		Related:     func(ctx context.Context, a Account) (any, error) { return h.related(ctx, a, nil, nil, "") },
		Invalidates: []string{payments.OpenAccounts},
		Routes:      h.routes,
	}
}

// MountRoutes registers the grid routes plus payment registration.
func (h *Handler) MountRoutes(r chi.Router) {
	h.grid.MountRoutes(r)
}

func (h *Handler) routes(r chi.Router) {
	r.With(h.deps.RBAC.RequireAll(rbac.FinanceEdit)).Post("/{id}/payments", h.registerPayment)
}

func (h *Handler) related(ctx context.Context, a Account, form grid.Values, problems grid.Problems, message string) (Related, error) {
	list, err := h.payments.All(ctx, api.ListParams{Filters: map[string]string{"account_id": a.ID}}, api.MaxLimit)
	if err != nil {
		return Related{}, err
	}
	if form == nil {
		form = grid.Values{"amount": a.Balance.StringFixed(2), "method": "transfer", "date": todayString()}
	}
	return Related{
		Side:         h.side,
		Payments:     list,
		CanPay:       !a.Settled() && rbac.Allowed(shared.PrincipalFromContext(ctx), rbac.FinanceEdit),
		Form:         form,
		Problems:     problems,
		Message:      message,
		Methods:      payments.MethodOptions,
		PaymentsPath: h.grid.Spec().Base + "/" + url.PathEscape(a.ID) + "/payments",
	}, nil
}

func (h *Handler) registerPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	account, err := h.backend.Get(ctx, id)
	if err != nil {
		h.grid.Fail(w, r, err)
		return
	}

	values := grid.Values{
		"account_id": id,
		"date":       r.PostFormValue("date"),
		"amount":     r.PostFormValue("amount"),
		"method":     r.PostFormValue("method"),
		"reference":  r.PostFormValue("reference"),
		"notes":      r.PostFormValue("notes"),
	}
	in, err := payments.Decode(values)
	problems := grid.Problems{}
	if err != nil {
		var p grid.Problems
		if !errors.As(err, &p) {
			h.grid.Fail(w, r, err)
			return
		}
		problems = p
	}
	grid.Check(h.deps.Validator, in, problems)
	if _, bad := problems["amount"]; !bad && in.Amount.GreaterThan(account.Balance) {
		problems["amount"] = "must not exceed the balance of " + account.Balance.StringFixed(2)
	}
	if len(problems) > 0 {
		h.renderDetail(w, r, http.StatusUnprocessableEntity, account, values, problems, "The payment was not registered.")
		return
	}

	payment, err := h.payments.Create(ctx, in)
	if err != nil {
		if errors.Is(err, api.ErrValidation) || errors.Is(err, api.ErrConflict) {
			fields := grid.Problems{}
			for k, v := range api.FieldErrors(err) {
				fields[k] = v
			}
			h.renderDetail(w, r, http.StatusUnprocessableEntity, account, values, fields, api.UserMessage(err))
			return
		}
		h.grid.Fail(w, r, err)
		return
	}

	h.grid.AfterWrite(r, "payment", id, map[string]any{
		"payment_id": payment.ID,
		"amount":     in.Amount.StringFixed(2),
	})
	h.deps.Renderer.Redirect(w, r, h.grid.Spec().Base+"/"+url.PathEscape(id), shared.FlashSuccess, "Payment "+payment.Number+" registered")
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request, status int, a Account, form grid.Values, problems grid.Problems, message string) {
	related, err := h.related(r.Context(), a, form, problems, message)
	if err != nil {
		h.deps.Logger.Warn("load account payments", slog.String("account", a.ID), slog.Any("error", err))
		related = Related{Side: h.side, Form: form, Problems: problems, Message: message, Methods: payments.MethodOptions, CanPay: true,
			PaymentsPath: h.grid.Spec().Base + "/" + url.PathEscape(a.ID) + "/payments"}
	}
	data := h.grid.DetailView(r, a)
	data.Related = related
	h.deps.Renderer.Page(w, r, status, "pages/accounts/detail.html", data.Singular+" "+data.Label, data)
}

// RegisterOpenAccounts adds the select list of receivables and payables with a balance.
func RegisterOpenAccounts(svc *lookup.Service, receivables, payables lookup.Lister[Account]) {
	option := func(prefix string) func(Account) lookup.Option {
		return func(a Account) lookup.Option {
			return lookup.Option{
				Value: a.ID,
				Label: prefix + " " + a.Number + " · " + a.PartyName + " · " + a.Balance.StringFixed(2),
				Hint:  a.Balance.StringFixed(2),
			}
		}
	}
	outstanding := map[string]string{"outstanding": "true"}
	ar := lookup.FromList(receivables, outstanding, option("AR"))
	ap := lookup.FromList(payables, outstanding, option("AP"))
	svc.Register(payments.OpenAccounts, func(ctx context.Context) ([]lookup.Option, error) {
		in, err := ar(ctx)
		if err != nil {
			return nil, err
		}
		out, err := ap(ctx)
		if err != nil {
			return nil, err
		}
		return append(in, out...), nil
	})
}

func todayString() string {
	return time.Now().Format(grid.DateLayout)
}
