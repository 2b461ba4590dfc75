package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

func requestAs(p *shared.Principal) *http.Request {
	sess := &shared.Session{ID: "s"}
	if p != nil {
		sess.SetPrincipal(*p)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func serve(mw func(http.Handler) http.Handler, req *http.Request) int {
	rec := httptest.NewRecorder()
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireAny(t *testing.T) {
	m := Middleware{}
	clerk := &shared.Principal{ID: "1", Permissions: []string{"catalog.view"}}

	assert.Equal(t, http.StatusNoContent, serve(m.RequireAny(CatalogView, CatalogEdit), requestAs(clerk)))
	assert.Equal(t, http.StatusForbidden, serve(m.RequireAny(UsersManage), requestAs(clerk)))
	assert.Equal(t, http.StatusForbidden, serve(m.RequireAny(CatalogView), requestAs(nil)))
	assert.Equal(t, http.StatusNoContent, serve(m.RequireAny(), requestAs(nil)), "no requirement")
}

func TestRequireAll(t *testing.T) {
	m := Middleware{}
	editor := &shared.Principal{ID: "2", Permissions: []string{"Sales.View", "sales.edit"}}

	assert.Equal(t, http.StatusNoContent, serve(m.RequireAll(SalesView, SalesEdit), requestAs(editor)))
	assert.Equal(t, http.StatusForbidden, serve(m.RequireAll(SalesView, FinanceEdit), requestAs(editor)))
}

func TestWildcardGrant(t *testing.T) {
	admin := &shared.Principal{ID: "3", Permissions: []string{AllPermissions}}
	assert.Equal(t, http.StatusNoContent, serve(Middleware{}.RequireAll(UsersManage, FinanceEdit), requestAs(admin)))
	assert.True(t, Allowed(admin, UsersManage))
	assert.False(t, Allowed(nil, CatalogView))
	assert.True(t, Allowed(&shared.Principal{}, ""))
}
