package grid_test

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/grid/gridtest"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
)

type widget struct {
	ID   string
	Name string
	Qty  int
}

type widgetInput struct {
	Name string `json:"name" validate:"required,max=20"`
	Qty  int    `json:"qty" validate:"gte=0"`
}

func widgetSpec(backend grid.Backend[widget, widgetInput]) grid.Spec[widget, widgetInput] {
	return grid.Spec[widget, widgetInput]{
		Entity:   "widgets",
		Title:    "Widgets",
		Singular: "Widget",
		Base:     "/widgets",
		View:     "widgets.view",
		Edit:     "widgets.edit",
		Backend:  backend,
		ID:       func(w widget) string { return w.ID },
		Label:    func(w widget) string { return w.Name },
		Columns: []grid.Column[widget]{
			{Label: "Name", Value: func(w widget) string { return w.Name }},
		},
		Details: []grid.Detail[widget]{
			{Label: "Name", Value: func(w widget) string { return w.Name }},
		},
		Fields: []grid.Field{
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "qty", Label: "Quantity", Type: grid.Number},
		},
		Filters: []grid.Filter{
			{Key: "kind", Label: "Kinds", Options: []lookup.Option{{Value: "a", Label: "A"}}},
		},
		Decode: func(v grid.Values) (widgetInput, error) {
			problems := grid.Problems{}
			in := widgetInput{Name: v.Get("name"), Qty: v.Int("qty", problems)}
			return in, problems.Err()
		},
		Encode: func(w widget) grid.Values { return grid.Values{"name": w.Name} },
	}
}

func newWidgets(n int) *gridtest.Memory[widget, widgetInput] {
	items := make([]widget, 0, n)
	for i := 1; i <= n; i++ {
		n := strconv.Itoa(i)
		items = append(items, widget{ID: "w" + n, Name: "Widget " + n})
	}
	return gridtest.NewMemory(
		func(w widget) string { return w.ID },
		func(id string, in widgetInput) widget { return widget{ID: id, Name: in.Name, Qty: in.Qty} },
		items...,
	)
}

func setup(t *testing.T, backend *gridtest.Memory[widget, widgetInput], perms ...string) (*gridtest.Harness, http.Handler) {
	h := gridtest.New(t, perms...)
	handler := grid.New(widgetSpec(backend), h.Deps)
	return h, h.Router("/widgets", func(r chi.Router) { handler.MountRoutes(r) })
}

func TestListPagesThroughSlice(t *testing.T) {
	backend := newWidgets(5)
	h, router := setup(t, backend, "widgets.view")

	rec := h.Follow(router, "/widgets?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Widget 1")
	assert.NotContains(t, rec.Body.String(), "Widget 3")

	rec = h.Follow(router, "/widgets?nav=next&from=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Widget 3")
	assert.Equal(t, "2", backend.LastParams.Cursor)
	assert.Equal(t, 2, backend.LastParams.Limit, "limit is kept in the session slice")

	rec = h.Follow(router, "/widgets?nav=prev&from=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", backend.LastParams.Cursor)
}

func TestListNavigationRedirectsToPlainList(t *testing.T) {
	h, router := setup(t, newWidgets(5), "widgets.view")

	rec := h.Do(router, http.MethodGet, "/widgets?limit=2", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/widgets", rec.Header().Get("Location"))
}

func TestListRepeatedNavigationKeepsPage(t *testing.T) {
	backend := newWidgets(6)
	h, router := setup(t, backend, "widgets.view")

	require.Equal(t, http.StatusOK, h.Follow(router, "/widgets?limit=2").Code)
	require.Equal(t, http.StatusOK, h.Follow(router, "/widgets?nav=next&from=1").Code)
	require.Equal(t, "2", backend.LastParams.Cursor)

	rec := h.Follow(router, "/widgets?nav=next&from=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", backend.LastParams.Cursor, "a repeated link does not move the cursor")
	assert.Contains(t, rec.Body.String(), "Page 2")

	rec = h.Do(router, http.MethodGet, "/widgets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", backend.LastParams.Cursor, "a reload shows the same page")
	assert.Contains(t, rec.Body.String(), "Widget 3")
}

func TestListAppliesFiltersAndHidesWriteActions(t *testing.T) {
	backend := newWidgets(1)
	h, router := setup(t, backend, "widgets.view")

	rec := h.Follow(router, "/widgets?apply=1&search=wid&kind=a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "wid", backend.LastParams.Search)
	assert.Equal(t, "a", backend.LastParams.Filters["kind"])
	assert.NotContains(t, rec.Body.String(), `href="/widgets/new"`)
}

func TestListRestartsOnRejectedCursor(t *testing.T) {
	backend := newWidgets(3)
	h, router := setup(t, backend, "widgets.view")

	require.Equal(t, http.StatusOK, h.Follow(router, "/widgets?limit=1").Code)
	require.Equal(t, http.StatusOK, h.Follow(router, "/widgets?nav=next&from=1").Code)
	require.NoError(t, backend.Delete(t.Context(), "w3"))
	require.NoError(t, backend.Delete(t.Context(), "w2"))

	rec := h.Follow(router, "/widgets?nav=next&from=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Widget 1")
}

func TestWriteRoutesRequireEditPermission(t *testing.T) {
	h, router := setup(t, newWidgets(1), "widgets.view")
	rec := h.Do(router, http.MethodPost, "/widgets", url.Values{"name": {"x"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateValidatesBeforeCallingAPI(t *testing.T) {
	backend := newWidgets(0)
	h, router := setup(t, backend, "widgets.edit")

	rec := h.Do(router, http.MethodPost, "/widgets", url.Values{"name": {""}, "qty": {"many"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "is required")
	assert.Contains(t, rec.Body.String(), "must be a whole number")
	assert.Empty(t, backend.Created)
}

func TestCreateRedirectsAndRecordsActivity(t *testing.T) {
	backend := newWidgets(0)
	h, router := setup(t, backend, "widgets.edit")

	rec := h.Do(router, http.MethodPost, "/widgets", url.Values{"name": {"Sprocket"}, "qty": {"3"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/widgets/1", rec.Header().Get("Location"))
	assert.Equal(t, "Widget created", h.Flash())

	entries := h.Activity.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "widgets", entries[0].Entity)
	assert.Equal(t, "u-1", entries[0].ActorID)
}

func TestCreateShowsAPIFieldErrors(t *testing.T) {
	backend := newWidgets(0)
	backend.WriteErr = &api.Error{Status: http.StatusUnprocessableEntity, Message: "Invalid widget", Fields: map[string]string{"name": "already taken"}}
	h, router := setup(t, backend, "widgets.edit")

	rec := h.Do(router, http.MethodPost, "/widgets", url.Values{"name": {"Dup"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")
	assert.Contains(t, rec.Body.String(), `value="Dup"`)
}

func TestEditPrefillsAndUpdates(t *testing.T) {
	backend := newWidgets(1)
	h, router := setup(t, backend, "widgets.edit")

	rec := h.Do(router, http.MethodGet, "/widgets/w1/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Widget 1"`)

	rec = h.Do(router, http.MethodPost, "/widgets/w1", url.Values{"name": {"Renamed"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Renamed", backend.Items()[0].Name)
}

func TestDeleteForgetsRow(t *testing.T) {
	backend := newWidgets(2)
	h, router := setup(t, backend, "widgets.edit")

	require.Equal(t, http.StatusOK, h.Do(router, http.MethodGet, "/widgets", nil).Code)
	rec := h.Do(router, http.MethodPost, "/widgets/w1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/widgets", rec.Header().Get("Location"))
	assert.Equal(t, "Widget deleted", h.Flash())

	slice, err := h.State.Load(t.Context(), h.Session.ID, "widgets")
	require.NoError(t, err)
	assert.Equal(t, []string{"w2"}, slice.Visible)
}

func TestDeleteConflictFlashesBack(t *testing.T) {
	backend := newWidgets(1)
	backend.WriteErr = &api.Error{Status: http.StatusConflict, Message: "Widget is in use"}
	h, router := setup(t, backend, "widgets.edit")

	rec := h.Do(router, http.MethodPost, "/widgets/w1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/widgets/w1", rec.Header().Get("Location"))
	assert.Equal(t, "Widget is in use", h.Flash())
}

func TestShowLinksNeighbours(t *testing.T) {
	h, router := setup(t, newWidgets(3), "widgets.view")
	require.Equal(t, http.StatusOK, h.Do(router, http.MethodGet, "/widgets", nil).Code)

	rec := h.Do(router, http.MethodGet, "/widgets/w2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/widgets/w1"`)
	assert.Contains(t, rec.Body.String(), `href="/widgets/w3"`)
}

func TestFailMapsAPIErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &api.Error{Status: http.StatusNotFound}, http.StatusNotFound},
		{"forbidden", &api.Error{Status: http.StatusForbidden}, http.StatusForbidden},
		{"upstream", &api.Error{Status: http.StatusInternalServerError, Message: "db down"}, http.StatusBadGateway},
		{"local", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := newWidgets(1)
			backend.Err = tc.err
			h, router := setup(t, backend, "widgets.view")
			rec := h.Do(router, http.MethodGet, "/widgets/w1", nil)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestExpiredTokenSignsOut(t *testing.T) {
	backend := newWidgets(1)
	backend.Err = &api.Error{Status: http.StatusUnauthorized}
	h, router := setup(t, backend, "widgets.view")

	rec := h.Do(router, http.MethodGet, "/widgets", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, grid.LoginPath, rec.Header().Get("Location"))
	assert.Nil(t, h.Session.Principal())
}
