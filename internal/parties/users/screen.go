package users

import (
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// RoleOptions are the roles the API accepts.
var RoleOptions = []lookup.Option{
	{Value: "admin", Label: "Administrator"},
	{Value: "manager", Label: "Manager"},
	{Value: "sales", Label: "Sales"},
	{Value: "purchasing", Label: "Purchasing"},
	{Value: "finance", Label: "Finance"},
	{Value: "viewer", Label: "Viewer"},
}

func status(u User) string {
	if u.Active {
		return "Active"
	}
	return "Inactive"
}

// Screen describes the users grid. Every route needs users.manage.
func Screen(backend grid.Backend[User, UserInput], f view.Formatter) grid.Spec[User, UserInput] {
	role := func(u User) string { return lookup.LabelOf(RoleOptions, u.Role) }
	lastLogin := func(u User) string {
		if u.LastLoginAt == nil {
			return "Never"
		}
		return f.Date(*u.LastLoginAt)
	}
	return grid.Spec[User, UserInput]{
		Entity:   "users",
		Title:    "Users",
		Singular: "User",
		Base:     "/parties/users",
		View:     rbac.UsersManage,
		Edit:     rbac.UsersManage,
		Backend:  backend,
		ID:       func(u User) string { return u.ID },
		Label:    func(u User) string { return u.Name },
		Columns: []grid.Column[User]{
			{Label: "Name", Value: func(u User) string { return u.Name }},
			{Label: "Email", Value: func(u User) string { return u.Email }},
			{Label: "Role", Value: role},
			{Label: "Last sign-in", Value: lastLogin},
			{Label: "Status", Badge: true, Value: status},
		},
		Details: []grid.Detail[User]{
			{Label: "Name", Value: func(u User) string { return u.Name }},
			{Label: "Email", Value: func(u User) string { return u.Email }},
			{Label: "Role", Value: role},
			{Label: "Status", Value: status},
			{Label: "Last sign-in", Value: lastLogin},
			{Label: "Created", Value: func(u User) string { return f.Date(u.CreatedAt) }},
		},
		Fields: []grid.Field{
			{Name: "name", Label: "Name", Type: grid.Text, Required: true},
			{Name: "email", Label: "Email", Type: grid.Email, Required: true},
			{Name: "role", Label: "Role", Type: grid.Select, Options: RoleOptions, Required: true},
			{Name: "active", Label: "Active", Type: grid.Checkbox},
			{Name: "password", Label: "Password", Type: grid.Password, Required: true, CreateOnly: true, Help: "At least 8 characters"},
			{Name: "password_confirm", Label: "Confirm password", Type: grid.Password, Required: true, CreateOnly: true},
		},
		Filters: []grid.Filter{
			{Key: "role", Label: "Roles", Options: RoleOptions},
		},
		Decode:     decode,
		Encode:     encode,
		Defaults:   grid.Values{"active": "true", "role": "viewer"},
		DeleteVerb: "Deactivate",
	}
}
