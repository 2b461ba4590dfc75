// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
)

// RespondError maps ERP API errors to RFC7807 responses for the console's JSON endpoints.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", api.UserMessage(err))
	case errors.Is(err, api.ErrValidation):
		ValidationProblem(w, api.UserMessage(err), api.FieldErrors(err))
	case errors.Is(err, api.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", api.UserMessage(err))
	case errors.Is(err, api.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", api.UserMessage(err))
	case errors.Is(err, api.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "session expired")
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			Problem(w, http.StatusBadGateway, "Bad Gateway", api.UserMessage(err))
			return
		}
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
