package users

import (
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

// User is a console account. Passwords never come back from the API.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserInput is the create and update payload. Password is only sent on create.
type UserInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=admin manager sales purchasing finance viewer"`
	Active   bool   `json:"active"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// NewResource binds the users collection.
func NewResource(client *api.Client) *api.Resource[User, UserInput] {
	return api.NewResource[User, UserInput](client, "/users")
}

func decode(v grid.Values) (UserInput, error) {
	problems := grid.Problems{}
	in := UserInput{
		Name:   v.Get("name"),
		Email:  v.Get("email"),
		Role:   v.Get("role"),
		Active: v.Bool("active"),
	}
	// The password input only exists on the add dialog.
	if raw, onCreate := v["password"]; onCreate {
		in.Password = raw
		if raw == "" {
			problems["password"] = "is required"
		} else if raw != v["password_confirm"] {
			problems["password_confirm"] = "does not match the password"
		}
	}
	return in, problems.Err()
}

func encode(u User) grid.Values {
	values := grid.Values{"name": u.Name, "email": u.Email, "role": u.Role}
	if u.Active {
		values["active"] = "true"
	}
	return values
}
