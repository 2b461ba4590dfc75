package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid/gridtest"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

type memoryGuard struct {
	mu       sync.Mutex
	claimed  map[string]string
	released []string
}

func (g *memoryGuard) Claim(ctx context.Context, key, module string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimed == nil {
		g.claimed = map[string]string{}
	}
	if _, ok := g.claimed[key]; ok {
		return shared.ErrIdempotencyConflict
	}
	g.claimed[key] = module
	return nil
}

func (g *memoryGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, key)
	g.released = append(g.released, key)
	return nil
}

type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.7"), f.err
}

type fixture struct {
	h       *gridtest.Harness
	router  http.Handler
	backend *gridtest.Memory[trade.Document, trade.DocumentInput]
	guard   *memoryGuard
	pdf     *fakePDF
}

var testConfig = Config{
	Kind:        trade.KindSale,
	Entity:      "sales",
	Title:       "Sales",
	Singular:    "Sale",
	Base:        "/sales",
	View:        "sales.view",
	Edit:        "sales.edit",
	PartyLabel:  "Customer",
	PartyLookup: lookup.Customers,
	DeleteVerb:  "Cancel",
}

func creditTerm() trade.Term {
	return trade.Term{ID: "t-30", Name: "Net 30", Kind: trade.TermCredit, DueDays: 30}
}

func newFixture(t *testing.T, seed ...trade.Document) *fixture {
	t.Helper()
	h := gridtest.New(t, "sales.view", "sales.edit")
	h.Lookups.Register(lookup.Customers, lookup.Static(lookup.Option{Value: "c1", Label: "Acme"}))
	h.Lookups.Register(lookup.Products, lookup.Static(lookup.Option{Value: "p1", Label: "SKU-1 · Bolt"}))
	h.Lookups.Register(lookup.PaymentTerms, lookup.Static(lookup.Option{Value: "t-30", Label: "Net 30"}))

	backend := gridtest.NewMemory(
		func(d trade.Document) string { return d.ID },
		func(id string, in trade.DocumentInput) trade.Document {
			return trade.Document{
				ID:         id,
				Number:     "SO-" + id,
				Kind:       in.Kind,
				PartyID:    in.PartyID,
				Date:       in.Date,
				Term:       in.Term,
				Totals:     in.Quote.Totals,
				Settlement: in.Quote.Settlement,
			}
		},
		seed...,
	)
	res := Resolvers{
		Term: func(ctx context.Context, id string) (trade.Term, error) {
			if id != "t-30" {
				return trade.Term{}, &api.Error{Status: http.StatusNotFound}
			}
			return creditTerm(), nil
		},
		PartyTerm: func(ctx context.Context, id string) (string, error) { return "t-30", nil },
		Product: func(ctx context.Context, id string) (ProductDefaults, error) {
			return ProductDefaults{UnitPrice: decimal.NewFromInt(50), TaxPercent: decimal.NewFromInt(10)}, nil
		},
	}
	guard := &memoryGuard{}
	pdf := &fakePDF{}
	handler := New(testConfig, backend, res, Deps{
		Deps:      h.Deps,
		Guard:     guard,
		PDF:       pdf,
		Formatter: view.NewFormatter("en"),
		Now:       func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	return &fixture{
		h:       h,
		router:  h.Router("/sales", func(r chi.Router) { handler.MountRoutes(r) }),
		backend: backend,
		guard:   guard,
		pdf:     pdf,
	}
}

func saleForm(draftID, action string) url.Values {
	return url.Values{
		"draft_id":         {draftID},
		"party_id":         {"c1"},
		"date":             {"2026-03-01"},
		"term_id":          {"t-30"},
		"discount_kind":    {"percent"},
		"payment_method":   {"transfer"},
		"line_product_id":  {"p1"},
		"line_quantity":    {"2"},
		"line_unit_price":  {"50"},
		"line_tax_percent": {"10"},
		"action":           {action},
	}
}

func TestNewRendersEmptyBuilder(t *testing.T) {
	fx := newFixture(t)
	rec := fx.h.Do(fx.router, http.MethodGet, "/sales/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-quote="/sales/quote"`)
	assert.Contains(t, body, `value="2026-03-01"`)
	assert.Equal(t, 1, strings.Count(body, `name="line_product_id"`))
}

func TestAddAndRemoveLines(t *testing.T) {
	fx := newFixture(t)
	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/new", saleForm(uuid.NewString(), ActionAddLine))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `name="line_product_id"`))

	rec = fx.h.Do(fx.router, http.MethodPost, "/sales/new", saleForm(uuid.NewString(), "remove_line:0"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, strings.Count(rec.Body.String(), `name="line_product_id"`))

	rec = fx.h.Do(fx.router, http.MethodPost, "/sales/new", saleForm(uuid.NewString(), "remove_line:4"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRecalcFillsPartyTermAndProductPrice(t *testing.T) {
	fx := newFixture(t)
	form := saleForm(uuid.NewString(), ActionRecalc)
	form.Del("term_id")
	form.Del("line_unit_price")
	form.Del("line_tax_percent")

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/new", form)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="t-30" selected>`)
	assert.Contains(t, body, `name="line_unit_price" value="50.00"`)
	assert.Contains(t, body, "110.00", "2 x 50 plus 10% tax")
	assert.Contains(t, body, "31 Mar 2026", "credit term due 30 days later")
}

func TestSaveCreatesOnceAndRedirects(t *testing.T) {
	fx := newFixture(t)
	draftID := uuid.NewString()

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/new", saleForm(draftID, ActionSave))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sales/1", rec.Header().Get("Location"))
	assert.Equal(t, "Sale SO-1 saved", fx.h.Flash())

	require.Len(t, fx.backend.Created, 1)
	in := fx.backend.Created[0]
	assert.Equal(t, draftID, in.DraftID)
	assert.True(t, in.Quote.Totals.Total.Equal(decimal.NewFromInt(110)))
	require.NotNil(t, in.Quote.Settlement.Payment)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), in.Quote.Settlement.Payment.DueDate)
	assert.Equal(t, "sales", fx.guard.claimed[draftID])

	entries := fx.h.Activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)

	rec = fx.h.Do(fx.router, http.MethodPost, "/sales/new", saleForm(draftID, ActionSave))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/sales", rec.Header().Get("Location"))
	assert.Equal(t, "This sale was already submitted.", fx.h.Flash())
	assert.Len(t, fx.backend.Created, 1)
}

func TestSaveValidatesDraft(t *testing.T) {
	fx := newFixture(t)
	form := saleForm(uuid.NewString(), ActionSave)
	form.Del("party_id")
	form.Set("line_quantity", "0")

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/new", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "customer is required")
	assert.Contains(t, body, "quantity must be greater than zero")
	assert.Empty(t, fx.guard.claimed)
	assert.Empty(t, fx.backend.Created)
}

func TestSaveReleasesKeyWhenAPIFails(t *testing.T) {
	fx := newFixture(t)
	fx.backend.WriteErr = &api.Error{Status: http.StatusUnprocessableEntity, Message: "Credit limit exceeded", Fields: map[string]string{"party_id": "over credit limit"}}
	draftID := uuid.NewString()

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/new", saleForm(draftID, ActionSave))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Credit limit exceeded")
	assert.Contains(t, rec.Body.String(), "over credit limit")
	assert.Equal(t, []string{draftID}, fx.guard.released)
	assert.Empty(t, fx.guard.claimed)
}

func TestSaveUnknownTermIsAFieldProblem(t *testing.T) {
	fx := newFixture(t)
	form := saleForm(uuid.NewString(), ActionSave)
	form.Set("term_id", "t-gone")

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/new", form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown payment term")
}

func TestQuoteReturnsFormattedTotals(t *testing.T) {
	fx := newFixture(t)
	form := saleForm("", ActionRecalc)
	form.Del("term_id")

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/quote", form)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "110.00", got.Totals.Total)
	assert.Equal(t, "10.00", got.Totals.Tax)
	assert.Equal(t, "t-30", got.TermID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "100.00", got.Lines[0].Net)
	assert.Contains(t, got.ScheduleHTML, "31 Mar 2026")
}

func TestQuoteCreditTermSinglePayment(t *testing.T) {
	fx := newFixture(t)
	form := saleForm("", ActionRecalc)
	form.Set("term_id", "t-30")
	form.Set("line_unit_price", "100")
	form.Set("line_quantity", "1")
	form.Set("line_tax_percent", "0")

	rec := fx.h.Do(fx.router, http.MethodPost, "/sales/quote", form)
	require.Equal(t, http.StatusOK, rec.Code)
	var got QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Settlement.Payment)
	assert.True(t, got.Settlement.Payment.Amount.Equal(decimal.NewFromInt(100)))
}

func TestDocumentPDF(t *testing.T) {
	doc := trade.Document{
		ID:        "s-1",
		Number:    "SO-0042",
		PartyName: "Acme",
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []trade.DocumentLine{{
			Line:        trade.Line{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
			ProductName: "Bolt",
			Totals:      trade.LineTotal{Net: decimal.NewFromInt(5)},
		}},
		Totals:     trade.Totals{Subtotal: decimal.NewFromInt(5), Total: decimal.NewFromInt(5)},
		Settlement: trade.Settlement{Payment: &trade.Payment{Amount: decimal.NewFromInt(5)}},
	}
	fx := newFixture(t, doc)

	rec := fx.h.Do(fx.router, http.MethodGet, "/sales/s-1/document.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "SO-0042.pdf")
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
	assert.Contains(t, fx.pdf.html, "Sale SO-0042")
	assert.Contains(t, fx.pdf.html, "Bolt")
}

func TestDetailLinksDocument(t *testing.T) {
	fx := newFixture(t, trade.Document{ID: "s-1", Number: "SO-0042", Status: "posted"})
	rec := fx.h.Do(fx.router, http.MethodGet, "/sales/s-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/sales/s-1/document.pdf"`)
	assert.Contains(t, rec.Body.String(), `href="/sales/s-1/edit"`)
}

func TestBuilderRequiresEditPermission(t *testing.T) {
	fx := newFixture(t)
	fx.h.Session.SetPrincipal(shared.Principal{ID: "u-2", Permissions: []string{"sales.view"}})

	assert.Equal(t, http.StatusForbidden, fx.h.Do(fx.router, http.MethodGet, "/sales/new", nil).Code)
	assert.Equal(t, http.StatusForbidden, fx.h.Do(fx.router, http.MethodPost, "/sales/quote", url.Values{}).Code)
	assert.Equal(t, http.StatusOK, fx.h.Do(fx.router, http.MethodGet, "/sales", nil).Code)
}
