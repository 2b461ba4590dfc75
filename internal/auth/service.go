package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// Service signs users in and out against the ERP API.
type Service struct {
	client *api.Client
}

// NewService constructs a new Service.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate exchanges email and password for an API token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (shared.Principal, error) {
	var resp loginResponse
	err := s.client.Do(ctx, http.MethodPost, "/auth/login", nil, credentials{Email: email, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrValidation) || errors.Is(err, api.ErrForbidden) {
			return shared.Principal{}, shared.ErrInvalidCredentials
		}
		return shared.Principal{}, err
	}
	if resp.Token == "" {
		return shared.Principal{}, errors.New("auth: login response without token")
	}
	return resp.User.Principal(resp.Token), nil
}

// Logout revokes token upstream.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Do(api.WithToken(ctx, token), http.MethodPost, "/auth/logout", nil, nil, nil)
}
