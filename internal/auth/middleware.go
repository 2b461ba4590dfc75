package auth

import (
	"net/http"
	"net/url"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// LoginPath is the sign-in page.
const LoginPath = "/auth/login"

// RequireUser sends anonymous requests to the login page and carries the
// signed-in user's API token on the request context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := shared.PrincipalFromContext(r.Context())
		if principal == nil {
			target := LoginPath
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		ctx := api.WithToken(r.Context(), principal.Token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
