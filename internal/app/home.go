package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// ActivityReader lists recent console activity.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]shared.Activity, error)
}

// HomeView feeds pages/home.html.
type HomeView struct {
	ShowActivity bool
	Recent       []shared.Activity
}

const recentActivity = 15

func homeHandler(renderer view.Renderer, activity ActivityReader, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data HomeView
		if activity != nil && rbac.Allowed(shared.PrincipalFromContext(r.Context()), rbac.ActivityView) {
			data.ShowActivity = true
			recent, err := activity.Recent(r.Context(), recentActivity)
			if err != nil {
				logger.Warn("load recent activity", slog.Any("error", err))
			}
			data.Recent = recent
		}
		renderer.Page(w, r, http.StatusOK, "pages/home.html", "Odyssey Admin", data)
	}
}

func notFoundHandler(renderer view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderer.Page(w, r, http.StatusNotFound, "pages/error.html", "Not found", grid.ErrorView{
			Status:  http.StatusNotFound,
			Message: "The page you asked for does not exist.",
		})
	}
}
