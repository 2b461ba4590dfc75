package auth

import "github.com/odyssey-erp/odyssey-admin/internal/shared"

// User is the account the ERP API reports after sign-in.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// loginResponse is the body of POST /auth/login.
type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Principal converts the account and its token into the session principal.
func (u User) Principal(token string) shared.Principal {
	return shared.Principal{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Token:       token,
		Permissions: u.Permissions,
	}
}
