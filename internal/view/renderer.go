package view

import (
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// Renderer fills the per-request parts of TemplateData and writes pages.
type Renderer struct {
	Engine *Engine
	CSRF   *shared.CSRFManager
	Logger *slog.Logger
}

// Page renders a full page for the current request.
func (rd Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	var token string
	if rd.CSRF != nil && sess != nil {
		token, _ = rd.CSRF.EnsureToken(sess)
	}
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	principal := sess.Principal()
	td := TemplateData{
		Title:       title,
		CSRFToken:   token,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Principal:   principal,
		Menu:        rd.Engine.Menu(principal),
		Data:        data,
	}
	if err := rd.Engine.Render(w, status, name, td); err != nil {
		rd.logger().Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Redirect queues a flash message and answers 303.
func (rd Renderer) Redirect(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && message != "" {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (rd Renderer) logger() *slog.Logger {
	if rd.Logger != nil {
		return rd.Logger
	}
	return slog.Default()
}
