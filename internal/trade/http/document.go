package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

// Document renders the transaction as a PDF through Gotenberg.
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := h.cfg.Base + "/" + id
	if h.deps.PDF == nil {
		h.deps.Renderer.Page(w, r, http.StatusServiceUnavailable, "pages/error.html", "Unavailable", grid.ErrorView{
			Status: http.StatusServiceUnavailable, Message: "PDF documents are not configured.", Back: back,
		})
		return
	}
	doc, err := h.backend.Get(r.Context(), id)
	if err != nil {
		h.grid.Fail(w, r, err)
		return
	}

	html, err := h.deps.Renderer.Engine.RenderString("pages/trade/document.html", DocumentView{
		Title:      h.cfg.Singular + " " + doc.Number,
		PartyLabel: h.cfg.PartyLabel,
		Document:   doc,
		Schedule:   scheduleView(h.deps.Formatter, doc.Settlement),
	})
	if err != nil {
		h.grid.Fail(w, r, fmt.Errorf("render document: %w", err))
		return
	}
	pdf, err := h.deps.PDF.RenderHTML(r.Context(), html)
	if err != nil {
		h.deps.Logger.Error("render pdf", slog.String("document", doc.Number), slog.Any("error", err))
		h.deps.Renderer.Page(w, r, http.StatusBadGateway, "pages/error.html", "Error", grid.ErrorView{
			Status: http.StatusBadGateway, Message: "The PDF service did not answer. Please try again.", Back: back,
		})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.Number+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
