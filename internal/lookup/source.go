package lookup

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
)

// Keys of the option lists shared across screens.
const (
	Categories   = "categories"
	Brands       = "brands"
	Units        = "units"
	Products     = "products"
	Customers    = "customers"
	Suppliers    = "suppliers"
	PaymentTerms = "payment-terms"
)

// MaxOptions caps how many records a select list pulls from the API.
const MaxOptions = 1000

// Lister is the part of an API resource a Source needs.
type Lister[T any] interface {
	All(ctx context.Context, params api.ListParams, max int) ([]T, error)
}

// FromList builds a Source that follows every page of an API collection.
func FromList[T any](res Lister[T], filters map[string]string, option func(T) Option) Source {
	return func(ctx context.Context) ([]Option, error) {
		items, err := res.All(ctx, api.ListParams{Limit: api.MaxLimit, Filters: filters}, MaxOptions)
		if err != nil {
			return nil, err
		}
		opts := make([]Option, 0, len(items))
		for _, item := range items {
			opts = append(opts, option(item))
		}
		return opts, nil
	}
}

// Static returns a Source with a fixed list.
func Static(opts ...Option) Source {
	return func(context.Context) ([]Option, error) {
		return opts, nil
	}
}
