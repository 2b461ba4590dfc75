package categories

import (
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

// Category groups products, optionally under a parent.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ParentID     string    `json:"parent_id,omitempty"`
	ParentName   string    `json:"parent_name,omitempty"`
	Description  string    `json:"description,omitempty"`
	ProductCount int       `json:"product_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryInput is the create and update payload.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// NewResource binds the categories collection.
func NewResource(client *api.Client) *api.Resource[Category, CategoryInput] {
	return api.NewResource[Category, CategoryInput](client, "/categories")
}

func decode(v grid.Values) (CategoryInput, error) {
	return CategoryInput{
		Name:        v.Get("name"),
		ParentID:    v.Get("parent_id"),
		Description: v.Get("description"),
	}, nil
}

func encode(c Category) grid.Values {
	return grid.Values{
		"name":        c.Name,
		"parent_id":   c.ParentID,
		"description": c.Description,
	}
}
