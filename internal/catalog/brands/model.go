package brands

import (
	"github.com/odyssey-erp/odyssey-admin/internal/api"
)

// Brand is a product manufacturer or label.
type Brand struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// BrandInput is the create and update payload.
type BrandInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
}

// NewResource binds the brands collection.
func NewResource(client *api.Client) *api.Resource[Brand, BrandInput] {
	return api.NewResource[Brand, BrandInput](client, "/brands")
}
