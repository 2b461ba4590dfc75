// Package http serves the sale and purchase screens: the transaction list,
// the builder dialog with live totals and the printable document.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/payments"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// Config names one transaction screen.
type Config struct {
	Kind     trade.Kind
	Entity   string
	Title    string
	Singular string
	Base     string
	View     string
	Edit     string

	PartyLabel  string
	PartyLookup string
	DeleteVerb  string
	// Invalidates lists lookup keys refreshed after a save.
	Invalidates []string
}

// ProductDefaults prefill a line when a product is picked.
type ProductDefaults struct {
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
}

// Resolvers fetch the records a draft refers to by id.
type Resolvers struct {
	Term      func(ctx context.Context, id string) (trade.Term, error)
	PartyTerm func(ctx context.Context, partyID string) (string, error)
	Product   func(ctx context.Context, id string) (ProductDefaults, error)
}

// PDFRenderer converts HTML to a PDF document.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Deps extends the grid dependencies with what the builder needs.
type Deps struct {
	grid.Deps
	Guard     shared.SubmissionGuard
	PDF       PDFRenderer
	Formatter view.Formatter
	Now       func() time.Time
}

// Handler serves one transaction screen.
type Handler struct {
	cfg     Config
	backend grid.Backend[trade.Document, trade.DocumentInput]
	res     Resolvers
	deps    Deps
	grid    *grid.Handler[trade.Document, trade.DocumentInput]
}

// New builds the screen for cfg.
func New(cfg Config, backend grid.Backend[trade.Document, trade.DocumentInput], res Resolvers, deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &Handler{cfg: cfg, backend: backend, res: res, deps: deps}
	h.grid = grid.New(h.spec(), deps.Deps)
	return h
}

func (h *Handler) spec() grid.Spec[trade.Document, trade.DocumentInput] {
	f := h.deps.Formatter
	status := func(d trade.Document) string { return lookup.LabelOf(StatusOptions, d.Status) }
	return grid.Spec[trade.Document, trade.DocumentInput]{
		Entity:   h.cfg.Entity,
		Title:    h.cfg.Title,
		Singular: h.cfg.Singular,
		Base:     h.cfg.Base,
		View:     h.cfg.View,
		Edit:     h.cfg.Edit,
		Backend:  h.backend,
		ID:       func(d trade.Document) string { return d.ID },
		Label:    func(d trade.Document) string { return d.Number },
		Columns: []grid.Column[trade.Document]{
			{Label: "Number", Value: func(d trade.Document) string { return d.Number }},
			{Label: "Date", Value: func(d trade.Document) string { return f.Date(d.Date) }},
			{Label: h.cfg.PartyLabel, Value: func(d trade.Document) string { return d.PartyName }},
			{Label: "Term", Value: func(d trade.Document) string { return d.Term.Name }},
			{Label: "Total", Numeric: true, Value: func(d trade.Document) string { return f.Money(d.Totals.Total) }},
			{Label: "Status", Badge: true, Value: status},
		},
		Details: []grid.Detail[trade.Document]{
			{Label: "Number", Value: func(d trade.Document) string { return d.Number }},
			{Label: "Date", Value: func(d trade.Document) string { return f.Date(d.Date) }},
			{Label: h.cfg.PartyLabel, Value: func(d trade.Document) string { return d.PartyName }},
			{Label: "Reference", Value: func(d trade.Document) string { return d.Reference }},
			{Label: "Payment term", Value: func(d trade.Document) string { return d.Term.Name }},
			{Label: "Payment method", Value: func(d trade.Document) string { return lookup.LabelOf(payments.MethodOptions, d.PaymentMethod) }},
			{Label: "Status", Value: status},
			{Label: "Notes", Value: func(d trade.Document) string { return d.Notes }},
		},
		Filters: []grid.Filter{
			{Key: "status", Label: "Statuses", Options: StatusOptions},
			{Key: "party_id", Label: h.cfg.PartyLabel + "s", Lookup: h.cfg.PartyLookup},
		},
		CustomForms: true,
		DeleteVerb:  h.cfg.DeleteVerb,
		DetailPage:  "pages/trade/detail.html",
		Related: func(ctx context.Context, d trade.Document) (any, error) {
			return DetailExtras{
				PartyLabel:  h.cfg.PartyLabel,
				Schedule:    scheduleView(f, d.Settlement),
				DocumentURL: h.cfg.Base + "/" + url.PathEscape(d.ID) + "/document.pdf",
			}, nil
		},
		Invalidates: h.cfg.Invalidates,
		Routes:      h.routes,
	}
}

// MountRoutes registers the list, detail, builder and document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	h.grid.MountRoutes(r)
}

func (h *Handler) routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.RBAC.RequireAll(h.cfg.Edit))
		r.Get("/new", h.New)
		r.Post("/new", h.Submit)
		r.Post("/quote", h.Quote)
		r.Get("/{id}/edit", h.Edit)
		r.Post("/{id}", h.Submit)
	})
	r.With(h.deps.RBAC.RequireAny(h.cfg.View, h.cfg.Edit)).Get("/{id}/document.pdf", h.Document)
}

// New renders an empty builder with a fresh draft id.
func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "", newForm(uuid.NewString(), h.deps.Now()), nil, "")
}

// Edit renders the builder prefilled from a stored transaction.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.backend.Get(r.Context(), id)
	if err != nil {
		h.grid.Fail(w, r, err)
		return
	}
	h.show(w, r, http.StatusOK, id, documentForm(uuid.NewString(), doc), nil, "")
}

// Submit applies the posted builder action.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	form := parseBuilder(r)
	action, index := parseAction(r.PostFormValue("action"))

	switch action {
	case ActionRecalc:
	case ActionAddLine:
		form.addLine()
	case ActionRemoveLine:
		if err := form.removeLine(index); err != nil {
			h.show(w, r, http.StatusUnprocessableEntity, id, form, nil, "That line no longer exists.")
			return
		}
	case ActionSave:
		h.save(w, r, id, form)
		return
	default:
		http.Error(w, "unknown builder action", http.StatusBadRequest)
		return
	}
	h.show(w, r, http.StatusOK, id, form, nil, "")
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id string, form builderForm) {
	ctx := r.Context()
	form.compact()
	d, problems, err := h.prepare(ctx, &form)
	if err != nil {
		h.grid.Fail(w, r, err)
		return
	}
	if err := trade.Validate(d); err != nil {
		var invalid trade.Problems
		if !errors.As(err, &invalid) {
			h.grid.Fail(w, r, err)
			return
		}
		for k, v := range invalid {
			problems.Add(k, v)
		}
	}
	if len(problems) > 0 {
		if len(form.Lines) == 0 {
			form.addLine()
		}
		h.render(w, r, http.StatusUnprocessableEntity, id, form, d, problems, "Please correct the highlighted fields.")
		return
	}

	draftID := form.Header.Get("draft_id")
	if _, err := uuid.Parse(draftID); err != nil {
		draftID = uuid.NewString()
		form.Header["draft_id"] = draftID
	}
	if err := h.deps.Guard.Claim(ctx, draftID, h.cfg.Entity); err != nil {
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			h.deps.Renderer.Redirect(w, r, h.cfg.Base, shared.FlashWarning, "This "+lower(h.cfg.Singular)+" was already submitted.")
			return
		}
		h.grid.Fail(w, r, err)
		return
	}

	in := trade.NewInput(draftID, d)
	var doc trade.Document
	if id == "" {
		doc, err = h.backend.Create(ctx, in)
	} else {
		doc, err = h.backend.Update(ctx, id, in)
	}
	if err != nil {
		if rerr := h.deps.Guard.Release(ctx, draftID); rerr != nil {
			h.deps.Logger.Warn("release draft key", slog.String("draft", draftID), slog.Any("error", rerr))
		}
		if errors.Is(err, api.ErrValidation) || errors.Is(err, api.ErrConflict) {
			fields := grid.Problems{}
			for k, v := range api.FieldErrors(err) {
				fields[k] = v
			}
			h.render(w, r, http.StatusUnprocessableEntity, id, form, d, fields, api.UserMessage(err))
			return
		}
		h.grid.Fail(w, r, err)
		return
	}

	action := "create"
	if id != "" {
		action = "update"
	}
	h.grid.AfterWrite(r, action, doc.ID, map[string]any{
		"number": doc.Number,
		"total":  doc.Totals.Total.StringFixed(trade.Scale),
		"draft":  draftID,
	})
	h.deps.Renderer.Redirect(w, r, h.cfg.Base+"/"+url.PathEscape(doc.ID), shared.FlashSuccess, h.cfg.Singular+" "+doc.Number+" saved")
}

// prepare fills defaults, parses the form and resolves the payment term.
// Lookup failures other than a missing record are returned as errors.
func (h *Handler) prepare(ctx context.Context, form *builderForm) (trade.Draft, grid.Problems, error) {
	if err := h.fillDefaults(ctx, form); err != nil {
		return trade.Draft{}, nil, err
	}
	d, problems := form.draft(h.cfg.Kind)
	if termID := form.Header.Get("term_id"); termID != "" && h.res.Term != nil {
		term, err := h.res.Term(ctx, termID)
		switch {
		case errors.Is(err, api.ErrNotFound):
			problems.Add("term", "unknown payment term")
		case err != nil:
			return trade.Draft{}, nil, err
		default:
			d.Term = term
		}
	}
	return d, problems, nil
}

// fillDefaults copies the party's payment term and each new product's
// price and tax into fields the user left empty.
func (h *Handler) fillDefaults(ctx context.Context, form *builderForm) error {
	partyID := form.Header.Get("party_id")
	if form.Header.Get("term_id") == "" && partyID != "" && h.res.PartyTerm != nil {
		termID, err := h.res.PartyTerm(ctx, partyID)
		if err != nil && !errors.Is(err, api.ErrNotFound) {
			return err
		}
		form.Header["term_id"] = termID
	}
	if h.res.Product == nil {
		return nil
	}
	seen := map[string]ProductDefaults{}
	for _, line := range form.Lines {
		productID := line.Get("product_id")
		if productID == "" || line.Get("unit_price") != "" {
			continue
		}
		defaults, ok := seen[productID]
		if !ok {
			var err error
			defaults, err = h.res.Product(ctx, productID)
			if errors.Is(err, api.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			seen[productID] = defaults
		}
		line["unit_price"] = defaults.UnitPrice.StringFixed(trade.Scale)
		if line.Get("tax_percent") == "" && !defaults.TaxPercent.IsZero() {
			line["tax_percent"] = defaults.TaxPercent.String()
		}
	}
	return nil
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request, status int, id string, form builderForm, problems grid.Problems, message string) {
	d, parsed, err := h.prepare(r.Context(), &form)
	if err != nil {
		h.grid.Fail(w, r, err)
		return
	}
	for k, v := range problems {
		parsed[k] = v
	}
	if len(parsed) > 0 && status == http.StatusOK {
		status = http.StatusUnprocessableEntity
	}
	h.render(w, r, status, id, form, d, parsed, message)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, id string, form builderForm, d trade.Draft, problems grid.Problems, message string) {
	var lists map[string][]lookup.Option
	if h.deps.Lookups != nil {
		var err error
		lists, err = h.deps.Lookups.Many(r.Context(), h.cfg.PartyLookup, lookup.Products, lookup.PaymentTerms)
		if err != nil {
			h.grid.Fail(w, r, err)
			return
		}
	}
	f := h.deps.Formatter
	q := trade.Compute(d)
	data := BuilderView{
		Title:         h.cfg.Title,
		Singular:      h.cfg.Singular,
		Base:          h.cfg.Base,
		Action:        h.cfg.Base + "/new",
		QuoteURL:      h.cfg.Base + "/quote",
		Cancel:        h.cfg.Base,
		ID:            id,
		IsNew:         id == "",
		PartyLabel:    h.cfg.PartyLabel,
		Header:        form.Header,
		Lines:         lineViews(f, form, q, problems),
		Totals:        totalsView(f, q.Totals),
		Schedule:      scheduleView(f, q.Settlement),
		Problems:      problems,
		Message:       message,
		Parties:       lists[h.cfg.PartyLookup],
		Products:      lists[lookup.Products],
		Terms:         lists[lookup.PaymentTerms],
		DiscountKinds: DiscountKinds,
		Methods:       payments.MethodOptions,
	}
	title := "New " + lower(h.cfg.Singular)
	if id != "" {
		data.Action = h.cfg.Base + "/" + url.PathEscape(id)
		data.Cancel = data.Action
		title = "Edit " + lower(h.cfg.Singular)
	}
	h.deps.Renderer.Page(w, r, status, "pages/trade/builder.html", title, data)
}

func lower(s string) string {
	return strings.ToLower(s)
}
