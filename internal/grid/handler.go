package grid

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/state"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// LoginPath is where expired API tokens send the browser.
const LoginPath = "/auth/login"

// Deps groups the collaborators shared by every grid.
type Deps struct {
	Logger    *slog.Logger
	Renderer  view.Renderer
	State     *state.Store
	Lookups   *lookup.Service
	Activity  shared.ActivityRecorder
	RBAC      rbac.Middleware
	Validator *validator.Validate
}

// Handler serves one entity grid.
type Handler[T any, In any] struct {
	spec Spec[T, In]
	deps Deps
}

// New builds a grid handler.
func New[T any, In any](spec Spec[T, In], deps Deps) *Handler[T, In] {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	return &Handler[T, In]{spec: spec, deps: deps}
}

// Spec exposes the screen description.
func (h *Handler[T, In]) Spec() Spec[T, In] {
	return h.spec
}

// MountRoutes registers the grid routes relative to the entity base path.
func (h *Handler[T, In]) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.RBAC.RequireAny(h.spec.View, h.spec.Edit))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	if !h.spec.ReadOnly {
		r.Group(func(r chi.Router) {
			r.Use(h.deps.RBAC.RequireAll(h.spec.Edit))
			if !h.spec.CustomForms {
				r.Get("/new", h.New)
				r.Post("/", h.Create)
				if !h.spec.NoEdit {
					r.Get("/{id}/edit", h.Edit)
					r.Post("/{id}", h.Update)
				}
			}
			if !h.spec.NoDelete {
				r.Get("/{id}/delete", h.ConfirmDelete)
				r.Post("/{id}/delete", h.Delete)
			}
		})
	}
	if h.spec.Routes != nil {
		h.spec.Routes(r)
	}
}

// List renders the current page of the entity slice.
func (h *Handler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	slice, err := h.deps.State.Load(ctx, sid, h.spec.Entity)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	if h.navigate(&slice, r.URL.Query()) {
		if err := h.deps.State.Save(ctx, sid, slice); err != nil {
			h.Fail(w, r, err)
			return
		}
		http.Redirect(w, r, h.spec.Base, http.StatusSeeOther)
		return
	}

	page, err := h.fetch(ctx, &slice)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		ids = append(ids, h.spec.ID(item))
	}
	slice.Record(ids, page.NextCursor)
	if err := h.deps.State.Save(ctx, sid, slice); err != nil {
		h.deps.Logger.Warn("save grid state", slog.String("entity", h.spec.Entity), slog.Any("error", err))
	}

	filters, err := h.filterViews(ctx, slice)
	if err != nil {
		h.deps.Logger.Warn("load filter options", slog.String("entity", h.spec.Entity), slog.Any("error", err))
	}

	principal := shared.PrincipalFromContext(ctx)
	canEdit := !h.spec.ReadOnly && rbac.Allowed(principal, h.spec.Edit)
	data := ListView{
		Title:     h.spec.Title,
		Singular:  h.spec.Singular,
		Base:      h.spec.Base,
		Columns:   h.columnHeads(),
		Rows:      h.rows(page.Items, slice.Selected),
		Search:    slice.Search,
		Filters:   filters,
		Filtered:  slice.Filtered(),
		Page:      slice.PageNumber(),
		HasPrev:   slice.HasPrev(),
		HasNext:   slice.HasNext(),
		Limit:     slice.Limit,
		Limits:    PageSizes,
		CanCreate: canEdit,
		CanEdit:   canEdit && !h.spec.NoEdit,
		CanDelete: canEdit && !h.spec.NoDelete,
	}
	if len(data.Rows) == 0 {
		data.Message = "No " + strings.ToLower(h.spec.Title) + " found."
	}
	h.deps.Renderer.Page(w, r, http.StatusOK, "pages/grid/list.html", h.spec.Title, data)
}

// navigate applies filter, page size and paging parameters to slice and
// reports whether any were present. Paging only moves when "from" names the
// page the link was rendered on, so a repeated link leaves the slice alone.
func (h *Handler[T, In]) navigate(slice *state.Slice, q url.Values) bool {
	if !q.Has("apply") && !q.Has("limit") && !q.Has("nav") {
		return false
	}
	if q.Get("apply") == "1" {
		filters := make(map[string]string, len(h.spec.Filters))
		for _, f := range h.spec.Filters {
			filters[f.Key] = strings.TrimSpace(q.Get(f.Key))
		}
		slice.ApplyFilter(strings.TrimSpace(q.Get("search")), filters)
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		slice.SetLimit(min(n, api.MaxLimit))
	}
	from, _ := strconv.Atoi(q.Get("from"))
	switch q.Get("nav") {
	case "next":
		if from == slice.PageNumber() {
			slice.Next()
		}
	case "prev":
		if from == slice.PageNumber() {
			slice.Prev()
		}
	case "first":
		slice.First()
	}
	return true
}

func (h *Handler[T, In]) fetch(ctx context.Context, slice *state.Slice) (api.Page[T], error) {
	page, err := h.spec.Backend.List(ctx, listParams(*slice))
	if err != nil && slice.Cursor != "" && errors.Is(err, api.ErrValidation) {
		// The API rejects expired cursors; start over from the first page.
		slice.First()
		page, err = h.spec.Backend.List(ctx, listParams(*slice))
	}
	return page, err
}

func listParams(slice state.Slice) api.ListParams {
	return api.ListParams{
		Cursor:  slice.Cursor,
		Limit:   slice.Limit,
		Search:  slice.Search,
		Filters: slice.Filters,
	}
}

// Show renders the detail page and records the selection.
func (h *Handler[T, In]) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	record, err := h.spec.Backend.Get(ctx, id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	sid := sessionID(r)
	slice, err := h.deps.State.Update(ctx, sid, h.spec.Entity, func(s *state.Slice) { s.Select(id) })
	if err != nil {
		h.deps.Logger.Warn("record selection", slog.String("entity", h.spec.Entity), slog.Any("error", err))
	}

	data := h.DetailView(r, record)
	data.PrevID, data.NextID = neighbours(slice.Visible, id)
	data.HasPrev, data.HasNext = data.PrevID != "", data.NextID != ""
	if h.spec.Related != nil {
		related, err := h.spec.Related(ctx, record)
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		data.Related = related
	}
	h.deps.Renderer.Page(w, r, http.StatusOK, h.spec.detailPage(), h.spec.Singular+" "+data.Label, data)
}

// DetailView builds the detail page model for record.
func (h *Handler[T, In]) DetailView(r *http.Request, record T) DetailView {
	principal := shared.PrincipalFromContext(r.Context())
	canEdit := !h.spec.ReadOnly && rbac.Allowed(principal, h.spec.Edit)
	rows := make([]DetailRow, 0, len(h.spec.Details))
	for _, d := range h.spec.Details {
		rows = append(rows, DetailRow{Label: d.Label, Value: d.Value(record)})
	}
	return DetailView{
		Title:      h.spec.Title,
		Singular:   h.spec.Singular,
		Base:       h.spec.Base,
		ID:         h.spec.ID(record),
		Label:      h.spec.label(record),
		Rows:       rows,
		Record:     record,
		CanEdit:    canEdit && !h.spec.NoEdit,
		CanDelete:  canEdit && !h.spec.NoDelete,
		DeleteVerb: h.spec.deleteVerb(),
	}
}

func neighbours(visible []string, id string) (prev, next string) {
	i := slices.Index(visible, id)
	if i < 0 {
		return "", ""
	}
	if i > 0 {
		prev = visible[i-1]
	}
	if i < len(visible)-1 {
		next = visible[i+1]
	}
	return prev, next
}

// New renders the add dialog. Empty date fields default to today.
func (h *Handler[T, In]) New(w http.ResponseWriter, r *http.Request) {
	values := make(Values, len(h.spec.Defaults))
	for k, v := range h.spec.Defaults {
		values[k] = v
	}
	for _, f := range h.spec.Fields {
		if f.Type == Date && values[f.Name] == "" {
			values[f.Name] = time.Now().Format(DateLayout)
		}
	}
	h.renderForm(w, r, http.StatusOK, "", values, nil, "")
}

// Create submits the add dialog.
func (h *Handler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	values := FormValues(r, h.formFields(true))
	in, problems := h.decode(values)
	if len(problems) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", values, problems, "Please correct the highlighted fields.")
		return
	}

	created, err := h.spec.Backend.Create(r.Context(), in)
	if err != nil {
		if h.formFailure(w, r, "", values, err) {
			return
		}
		h.Fail(w, r, err)
		return
	}
	id := h.spec.ID(created)
	h.afterWrite(r, "create", id, map[string]any{"label": h.spec.label(created)})
	h.deps.Renderer.Redirect(w, r, h.spec.Base+"/"+url.PathEscape(id), shared.FlashSuccess, h.spec.Singular+" created")
}

// Edit renders the edit dialog prefilled from the API record.
func (h *Handler[T, In]) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := h.spec.Backend.Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, id, h.spec.Encode(record), nil, "")
}

// Update submits the edit dialog.
func (h *Handler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	values := FormValues(r, h.formFields(false))
	in, problems := h.decode(values)
	if len(problems) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, values, problems, "Please correct the highlighted fields.")
		return
	}

	updated, err := h.spec.Backend.Update(r.Context(), id, in)
	if err != nil {
		if h.formFailure(w, r, id, values, err) {
			return
		}
		h.Fail(w, r, err)
		return
	}
	h.afterWrite(r, "update", id, map[string]any{"label": h.spec.label(updated)})
	h.deps.Renderer.Redirect(w, r, h.spec.Base+"/"+url.PathEscape(id), shared.FlashSuccess, h.spec.Singular+" updated")
}

// ConfirmDelete renders the delete dialog.
func (h *Handler[T, In]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := h.spec.Backend.Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	h.deps.Renderer.Page(w, r, http.StatusOK, "pages/grid/delete.html", h.spec.deleteVerb()+" "+h.spec.Singular, DeleteView{
		Title:    h.spec.Title,
		Singular: h.spec.Singular,
		Base:     h.spec.Base,
		ID:       id,
		Label:    h.spec.label(record),
		Verb:     h.spec.deleteVerb(),
	})
}

// Delete removes the record and drops it from the visible rows.
func (h *Handler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if err := h.spec.Backend.Delete(ctx, id); err != nil {
		if errors.Is(err, api.ErrConflict) || errors.Is(err, api.ErrValidation) {
			h.deps.Renderer.Redirect(w, r, h.spec.Base+"/"+url.PathEscape(id), shared.FlashError, api.UserMessage(err))
			return
		}
		h.Fail(w, r, err)
		return
	}
	if _, err := h.deps.State.Update(ctx, sessionID(r), h.spec.Entity, func(s *state.Slice) { s.Forget(id) }); err != nil {
		h.deps.Logger.Warn("forget deleted row", slog.String("entity", h.spec.Entity), slog.Any("error", err))
	}
	h.afterWrite(r, strings.ToLower(h.spec.deleteVerb()), id, nil)
	h.deps.Renderer.Redirect(w, r, h.spec.Base, shared.FlashSuccess, h.spec.Singular+" "+pastTense(h.spec.deleteVerb()))
}

func pastTense(verb string) string {
	verb = strings.ToLower(verb)
	if strings.HasSuffix(verb, "e") {
		return verb + "d"
	}
	return verb + "ed"
}

func (h *Handler[T, In]) decode(values Values) (In, Problems) {
	problems := Problems{}
	in, err := h.spec.Decode(values)
	if err != nil {
		var p Problems
		if errors.As(err, &p) {
			for k, v := range p {
				problems[k] = v
			}
		} else {
			problems["general"] = err.Error()
		}
	}
	Check(h.deps.Validator, in, problems)
	return in, problems
}

// formFailure re-renders the form for API validation and conflict errors.
func (h *Handler[T, In]) formFailure(w http.ResponseWriter, r *http.Request, id string, values Values, err error) bool {
	switch {
	case errors.Is(err, api.ErrValidation):
		problems := Problems{}
		for k, v := range api.FieldErrors(err) {
			problems[k] = v
		}
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, values, problems, api.UserMessage(err))
		return true
	case errors.Is(err, api.ErrConflict):
		h.renderForm(w, r, http.StatusConflict, id, values, nil, api.UserMessage(err))
		return true
	}
	return false
}

func (h *Handler[T, In]) afterWrite(r *http.Request, action, id string, meta map[string]any) {
	ctx := r.Context()
	if err := shared.RecordFor(ctx, h.deps.Activity, action, h.spec.Entity, id, meta); err != nil {
		h.deps.Logger.Warn("record activity", slog.String("entity", h.spec.Entity), slog.Any("error", err))
	}
	if h.deps.Lookups != nil {
		if err := h.deps.Lookups.Invalidate(ctx, h.spec.invalidates()...); err != nil {
			h.deps.Logger.Warn("invalidate lookups", slog.String("entity", h.spec.Entity), slog.Any("error", err))
		}
	}
}

// AfterWrite records activity and refreshes lookups for writes made outside the grid.
func (h *Handler[T, In]) AfterWrite(r *http.Request, action, id string, meta map[string]any) {
	h.afterWrite(r, action, id, meta)
}

func (h *Handler[T, In]) formFields(isNew bool) []Field {
	fields := make([]Field, 0, len(h.spec.Fields))
	for _, f := range h.spec.Fields {
		if f.CreateOnly && !isNew {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func (h *Handler[T, In]) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, values Values, problems Problems, message string) {
	isNew := id == ""
	fields := h.formFields(isNew)
	lookups, err := h.options(r.Context(), fields)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	views := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		fv := FieldView{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Value:    values[f.Name],
			Required: f.Required,
			Help:     f.Help,
			Error:    problems[f.Name],
			Options:  f.Options,
		}
		if f.Lookup != "" {
			fv.Options = lookups[f.Lookup]
		}
		if f.Type == Checkbox {
			fv.Checked = values.Bool(f.Name)
		}
		if f.Type == Password {
			fv.Value = ""
		}
		views = append(views, fv)
	}
	if message == "" && problems["general"] != "" {
		message = problems["general"]
	}

	data := FormView{
		Title:    h.spec.Title,
		Singular: h.spec.Singular,
		Base:     h.spec.Base,
		ID:       id,
		IsNew:    isNew,
		Fields:   views,
		Message:  message,
	}
	title := "Edit " + h.spec.Singular
	data.Action = h.spec.Base + "/" + url.PathEscape(id)
	if isNew {
		title = "New " + h.spec.Singular
		data.Action = h.spec.Base
	}
	h.deps.Renderer.Page(w, r, status, "pages/grid/form.html", title, data)
}

func (h *Handler[T, In]) options(ctx context.Context, fields []Field) (map[string][]lookup.Option, error) {
	if h.deps.Lookups == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Lookup)
	}
	return h.deps.Lookups.Many(ctx, keys...)
}

func (h *Handler[T, In]) filterViews(ctx context.Context, slice state.Slice) ([]FilterView, error) {
	views := make([]FilterView, 0, len(h.spec.Filters))
	keys := make([]string, 0, len(h.spec.Filters))
	for _, f := range h.spec.Filters {
		keys = append(keys, f.Lookup)
	}
	var (
		lookups map[string][]lookup.Option
		err     error
	)
	if h.deps.Lookups != nil {
		lookups, err = h.deps.Lookups.Many(ctx, keys...)
	}
	for _, f := range h.spec.Filters {
		fv := FilterView{Key: f.Key, Label: f.Label, Value: slice.Filter(f.Key), Options: f.Options}
		if f.Lookup != "" {
			fv.Options = lookups[f.Lookup]
		}
		views = append(views, fv)
	}
	return views, err
}

func (h *Handler[T, In]) columnHeads() []ColumnHead {
	heads := make([]ColumnHead, 0, len(h.spec.Columns))
	for _, c := range h.spec.Columns {
		heads = append(heads, ColumnHead{Label: c.Label, Numeric: c.Numeric})
	}
	return heads
}

func (h *Handler[T, In]) rows(items []T, selected string) []RowView {
	rows := make([]RowView, 0, len(items))
	for _, item := range items {
		id := h.spec.ID(item)
		row := RowView{ID: id, Selected: id == selected, Cells: make([]CellView, 0, len(h.spec.Columns))}
		for _, c := range h.spec.Columns {
			row.Cells = append(row.Cells, CellView{Text: c.Value(item), Numeric: c.Numeric, Badge: c.Badge})
		}
		rows = append(rows, row)
	}
	return rows
}

// Fail maps an API or store error onto a page.
// An expired API token signs the user out and sends them to the login page.
func (h *Handler[T, In]) Fail(w http.ResponseWriter, r *http.Request, err error) {
	Fail(h.deps, w, r, h.spec.Base, err)
}

// Fail is the shared error page used by grids and custom entity screens.
func Fail(deps Deps, w http.ResponseWriter, r *http.Request, back string, err error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		if sess := shared.SessionFromContext(r.Context()); sess != nil {
			sess.ClearPrincipal()
		}
		deps.Renderer.Redirect(w, r, LoginPath, shared.FlashWarning, "Your session has expired, please sign in again.")
		return
	case errors.Is(err, api.ErrForbidden):
		deps.Renderer.Page(w, r, http.StatusForbidden, "pages/error.html", "Forbidden", ErrorView{
			Status: http.StatusForbidden, Message: "You are not allowed to do that.", Back: back,
		})
		return
	case errors.Is(err, api.ErrNotFound):
		deps.Renderer.Page(w, r, http.StatusNotFound, "pages/error.html", "Not found", ErrorView{
			Status: http.StatusNotFound, Message: "The record no longer exists.", Back: back,
		})
		return
	}

	logger.Error("console request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	var apiErr *api.Error
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again."
	if errors.As(err, &apiErr) {
		status = http.StatusBadGateway
		message = api.UserMessage(err)
	}
	deps.Renderer.Page(w, r, status, "pages/error.html", "Error", ErrorView{Status: status, Message: message, Back: back})
}

func sessionID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return ""
}
