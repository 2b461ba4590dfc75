// Package grid serves the list and dialog screens shared by every console entity.
//
// An entity describes itself with a Spec: the API resource it reads and writes,
// the columns of its list, the rows of its detail page and the fields of its
// form. Handler turns a Spec into the list, detail, add, edit and delete routes,
// keeping the per-session list position in the state store.
package grid

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
)

// Field input types understood by the form template.
const (
	Text     = "text"
	TextArea = "textarea"
	Number   = "number"
	Date     = "date"
	Email    = "email"
	Password = "password"
	Select   = "select"
	Checkbox = "checkbox"
)

// Backend is the API surface a grid needs. *api.Resource satisfies it.
type Backend[T any, In any] interface {
	List(ctx context.Context, params api.ListParams) (api.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, in In) (T, error)
	Delete(ctx context.Context, id string) error
}

// Column is one list column.
type Column[T any] struct {
	Label   string
	Value   func(T) string
	Numeric bool
	Badge   bool
}

// Detail is one labelled row of the detail page.
type Detail[T any] struct {
	Label string
	Value func(T) string
}

// Field is one form input.
type Field struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Help     string
	// Lookup names a lookup list used for select options.
	Lookup  string
	Options []lookup.Option
	// CreateOnly fields are hidden on the edit form.
	CreateOnly bool
}

// Filter is one list filter next to the search box.
type Filter struct {
	Key     string
	Label   string
	Lookup  string
	Options []lookup.Option
}

// Spec describes one entity screen.
type Spec[T any, In any] struct {
	Entity   string
	Title    string
	Singular string
	Base     string

	// View grants read access, Edit grants writes.
	View string
	Edit string

	Backend Backend[T, In]

	ID    func(T) string
	Label func(T) string

	Columns []Column[T]
	Details []Detail[T]
	Fields  []Field
	Filters []Filter

	// Decode turns submitted values into the API payload.
	// Parse failures are reported as Problems.
	Decode func(Values) (In, error)
	// Encode prefills the edit form from a record.
	Encode   func(T) Values
	Defaults Values

	// ReadOnly screens have no add, edit or delete dialogs.
	ReadOnly bool
	NoEdit   bool
	NoDelete bool
	// CustomForms screens mount their own add and edit routes.
	CustomForms bool
	DeleteVerb  string

	// DetailPage overrides the detail template; Related feeds it extra data.
	DetailPage string
	Related    func(ctx context.Context, record T) (any, error)

	// Invalidates lists lookup keys refreshed after a write. Defaults to Entity.
	Invalidates []string

	// Routes mounts extra entity routes next to the grid ones.
	Routes func(r chi.Router)
}

func (s Spec[T, In]) invalidates() []string {
	if len(s.Invalidates) > 0 {
		return s.Invalidates
	}
	return []string{s.Entity}
}

func (s Spec[T, In]) deleteVerb() string {
	if s.DeleteVerb != "" {
		return s.DeleteVerb
	}
	return "Delete"
}

func (s Spec[T, In]) detailPage() string {
	if s.DetailPage != "" {
		return s.DetailPage
	}
	return "pages/grid/detail.html"
}

func (s Spec[T, In]) label(record T) string {
	if s.Label != nil {
		return s.Label(record)
	}
	return s.ID(record)
}
