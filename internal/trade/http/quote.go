package http

import (
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
)

// QuoteLine is one line of the live quote.
type QuoteLine struct {
	Net       string `json:"net"`
	UnitPrice string `json:"unit_price,omitempty"`
}

// QuoteResponse is the JSON answer of POST /quote.
type QuoteResponse struct {
	Lines        []QuoteLine      `json:"lines"`
	Totals       TotalsView       `json:"totals"`
	Settlement   trade.Settlement `json:"settlement"`
	TermID       string           `json:"term_id,omitempty"`
	ScheduleHTML string           `json:"schedule_html"`
	Problems     grid.Problems    `json:"problems,omitempty"`
}

// Quote recomputes the posted builder for live preview. Nothing is saved.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed form")
		return
	}
	form := parseBuilder(r)
	d, problems, err := h.prepare(r.Context(), &form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	f := h.deps.Formatter
	q := trade.Compute(d)
	resp := QuoteResponse{
		Lines:      make([]QuoteLine, 0, len(q.Lines)),
		Totals:     totalsView(f, q.Totals),
		Settlement: q.Settlement,
		TermID:     form.Header.Get("term_id"),
		Problems:   problems,
	}
	for i, l := range q.Lines {
		resp.Lines = append(resp.Lines, QuoteLine{Net: f.Money(l.Net), UnitPrice: form.Lines[i].Get("unit_price")})
	}
	if engine := h.deps.Renderer.Engine; engine != nil {
		html, err := engine.RenderString("partials/schedule", scheduleView(f, q.Settlement))
		if err != nil {
			h.deps.Logger.Error("render schedule", slog.Any("error", err))
		}
		resp.ScheduleHTML = html
	}
	httpx.JSON(w, http.StatusOK, resp)
}
