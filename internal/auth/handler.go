package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// Authenticator is the sign-in backend.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (shared.Principal, error)
	Logout(ctx context.Context, token string) error
}

// StateClearer drops the per-session screen state on logout.
type StateClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        Authenticator
	renderer       view.Renderer
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	state          StateClearer
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service Authenticator, renderer view.Renderer, sessions *shared.SessionManager, csrf *shared.CSRFManager, state StateClearer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		renderer:       renderer,
		sessionManager: sessions,
		csrfManager:    csrf,
		state:          state,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginPage feeds pages/login.html.
type LoginPage struct {
	Email  string
	Next   string
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if shared.PrincipalFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/login.html", "Sign in", LoginPage{
		Next:   safeNext(r.URL.Query().Get("next")),
		Errors: map[string]string{},
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page := LoginPage{Email: form.Email, Next: safeNext(r.PostFormValue("next")), Errors: map[string]string{}}

	if err := h.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				page.Errors[strings.ToLower(fe.Field())] = loginProblem(fe)
			}
		}
		h.renderer.Page(w, r, http.StatusBadRequest, "pages/login.html", "Sign in", page)
		return
	}

	principal, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		page.Errors["general"] = "Invalid email or password."
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("login", slog.Any("error", err))
			status = http.StatusBadGateway
			page.Errors["general"] = "The ERP service is unavailable. Please try again."
		}
		h.renderer.Page(w, r, status, "pages/login.html", "Sign in", page)
		return
	}
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.sessionManager.Renew(sess)
	sess.SetPrincipal(principal)
	h.csrfManager.Rotate(sess)
	h.logger.Info("user signed in", slog.String("user", principal.ID), slog.String("role", principal.Role))
	h.renderer.Redirect(w, r, page.Next, shared.FlashSuccess, "Welcome back, "+principal.Name+".")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	if sess != nil {
		if p := sess.Principal(); p != nil {
			if err := h.service.Logout(ctx, p.Token); err != nil {
				h.logger.Warn("revoke api token", slog.Any("error", err))
			}
		}
		if h.state != nil {
			if err := h.state.Clear(ctx, sess.ID); err != nil {
				h.logger.Warn("clear screen state", slog.Any("error", err))
			}
		}
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func loginProblem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}
