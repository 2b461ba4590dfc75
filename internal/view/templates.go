package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/web"
)

var templatePatterns = []string{
	"templates/layouts/*.html",
	"templates/partials/*.html",
	"templates/pages/*.html",
	"templates/pages/*/*.html",
}

// Engine renders HTML templates.
type Engine struct {
	templates atomic.Pointer[template.Template]
	fsys      fs.FS
	funcs     template.FuncMap
	menu      Menu
	logger    *slog.Logger
	watcher   *watcher
}

// Options configures an Engine.
type Options struct {
	// Dir points at the web directory on disk. When set, templates are read
	// from disk and reloaded on change instead of using the embedded copy.
	Dir    string
	Locale string
	Logger *slog.Logger
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Principal   *shared.Principal
	Menu        []MenuSection
	Data        any
}

// NewEngine parses the templates once.
func NewEngine(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var fsys fs.FS = web.Templates
	if opts.Dir != "" {
		fsys = os.DirFS(opts.Dir)
	}
	menu, err := ParseMenu(web.Menu)
	if err != nil {
		return nil, err
	}
	e := &Engine{fsys: fsys, funcs: Funcs(opts.Locale), menu: menu, logger: logger}
	if err := e.reload(); err != nil {
		return nil, err
	}
	if opts.Dir != "" {
		w, err := newWatcher(opts.Dir, e.reload, logger)
		if err != nil {
			return nil, fmt.Errorf("view: watch templates: %w", err)
		}
		e.watcher = w
	}
	return e, nil
}

// MustNewEngine parses the embedded templates or panics. Used by tests.
func MustNewEngine() *Engine {
	e, err := NewEngine(Options{})
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) reload() error {
	tpl, err := template.New("root").Funcs(e.funcs).ParseFS(e.fsys, templatePatterns...)
	if err != nil {
		return err
	}
	e.templates.Store(tpl)
	return nil
}

// Close stops the template watcher, if any.
func (e *Engine) Close() error {
	if e == nil || e.watcher == nil {
		return nil
	}
	return e.watcher.Close()
}

// Menu returns the sections visible to p.
func (e *Engine) Menu(p *shared.Principal) []MenuSection {
	if e == nil {
		return nil
	}
	return e.menu.For(p)
}

// Render executes a named template with TemplateData.
// Output is buffered so a failing template never sends a half page.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return errors.New("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.Load().ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderString executes a template into a string, used for PDF documents.
func (e *Engine) RenderString(name string, data any) (string, error) {
	if e == nil {
		return "", errors.New("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.Load().ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
