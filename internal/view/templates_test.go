package view

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/web"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err, "embedded templates should parse")
	require.NotNil(t, engine)
	assert.NoError(t, engine.Close())
}

func TestRenderWritesStatusAndBody(t *testing.T) {
	engine := MustNewEngine()
	rec := httptest.NewRecorder()
	err := engine.Render(rec, http.StatusNotFound, "pages/error.html", TemplateData{
		Title: "Not found",
		Data:  map[string]any{"Status": 404, "Message": "gone", "Back": "/x"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "gone")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRenderUnknownTemplateWritesNothing(t *testing.T) {
	engine := MustNewEngine()
	rec := httptest.NewRecorder()
	assert.Error(t, engine.Render(rec, http.StatusOK, "pages/missing.html", TemplateData{}))
	assert.Empty(t, rec.Body.String())
}

func TestMenuIsFilteredByPermission(t *testing.T) {
	menu, err := ParseMenu([]byte(`
sections:
  - title: Catalog
    items:
      - {label: Products, path: /catalog/products, permission: catalog.view}
  - title: Parties
    items:
      - {label: Users, path: /parties/users, permission: users.manage}
      - {label: Help, path: /help}
`))
	require.NoError(t, err)

	assert.Nil(t, menu.For(nil))

	clerk := menu.For(&shared.Principal{Permissions: []string{"catalog.view"}})
	require.Len(t, clerk, 2)
	assert.Equal(t, "Products", clerk[0].Items[0].Label)
	assert.Equal(t, []MenuItem{{Label: "Help", Path: "/help"}}, clerk[1].Items)

	admin := menu.For(&shared.Principal{Permissions: []string{"*"}})
	assert.Len(t, admin[1].Items, 2)
}

func TestParseMenuRejectsRelativePaths(t *testing.T) {
	_, err := ParseMenu([]byte("sections:\n  - title: X\n    items:\n      - {label: Y, path: y}\n"))
	assert.Error(t, err)
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "1,234.50", f.Money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", f.Money(nil))
	assert.Equal(t, "12.00", f.Money("12"))
	assert.Equal(t, "05 Mar 2026", f.Date(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", f.Date(time.Time{}))

	de := NewFormatter("de")
	assert.Equal(t, "1.234,50", de.Money(1234.5))
}

func TestRendererFillsSessionData(t *testing.T) {
	engine := MustNewEngine()
	csrf := shared.NewCSRFManager("secret")
	sess := &shared.Session{ID: "s-1"}
	sess.SetPrincipal(shared.Principal{ID: "u1", Name: "Ana", Permissions: []string{"catalog.view"}})
	sess.AddFlash(shared.FlashMessage{Kind: shared.FlashSuccess, Message: "Saved"})

	req := httptest.NewRequest(http.MethodGet, "/catalog/products", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	Renderer{Engine: engine, CSRF: csrf}.Page(rec, req, http.StatusOK, "pages/home.html", "Home", homeStub{})

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Saved")
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, `href="/catalog/products" class="active"`)
	assert.NotContains(t, body, "/parties/users")
	assert.Nil(t, sess.PopFlash(), "flash is consumed")
}

// The content security policy forbids inline script, so behaviour lives in static/js.
func TestTemplatesCarryNoInlineScript(t *testing.T) {
	inline := regexp.MustCompile(`(?i)\son[a-z]+\s*=|<script>`)
	err := fs.WalkDir(web.Templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		body, err := fs.ReadFile(web.Templates, path)
		if err != nil {
			return err
		}
		assert.False(t, inline.Match(body), "%s has an inline handler", path)
		return nil
	})
	require.NoError(t, err)

	_, err = fs.Stat(web.Static, "static/js/app.js")
	assert.NoError(t, err)
}

func TestPagerCarriesPageGuard(t *testing.T) {
	engine := MustNewEngine()
	out, err := engine.RenderString("partials/pager", map[string]any{
		"Base": "/catalog/products", "Page": 3, "HasPrev": true, "HasNext": true, "Limit": 20, "Limits": []int{10, 20},
	})
	require.NoError(t, err)
	assert.Contains(t, out, `href="/catalog/products?nav=next&amp;from=3"`)
	assert.Contains(t, out, `href="/catalog/products?nav=prev&amp;from=3"`)
	assert.Contains(t, out, `data-autosubmit`)
}

// homeStub satisfies the fields pages/home.html reads.
type homeStub struct {
	ShowActivity bool
	Recent       []shared.Activity
}

func TestWatcherReloadsTemplates(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"layouts", "partials", "pages/grid"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates", sub), 0o755))
	}
	page := filepath.Join(dir, "templates", "pages", "ping.html")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "layouts", "base.html"), []byte(`{{define "layouts/x"}}{{end}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "partials", "p.html"), []byte(`{{define "partials/x"}}{{end}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "pages", "grid", "g.html"), []byte(`{{define "pages/grid/x"}}{{end}}`), 0o644))
	require.NoError(t, os.WriteFile(page, []byte(`{{define "pages/ping.html"}}v1{{end}}`), 0o644))

	engine, err := NewEngine(Options{Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	out, err := engine.RenderString("pages/ping.html", nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out)

	require.NoError(t, os.WriteFile(page, []byte(`{{define "pages/ping.html"}}v2{{end}}`), 0o644))
	assert.Eventually(t, func() bool {
		out, err := engine.RenderString("pages/ping.html", nil)
		return err == nil && out == "v2"
	}, 3*time.Second, 50*time.Millisecond)
}
