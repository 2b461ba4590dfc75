package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

type envelope[T any] struct {
	Data T `json:"data"`
}

// Resource wraps the CRUD endpoints of one collection.
// T is the record returned by the API, In the payload accepted on writes.
type Resource[T any, In any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path such as "/products".
func NewResource[T any, In any](client *Client, path string) *Resource[T, In] {
	return &Resource[T, In]{client: client, path: path}
}

// Path returns the collection path.
func (r *Resource[T, In]) Path() string {
	return r.path
}

// List fetches one cursor page.
func (r *Resource[T, In]) List(ctx context.Context, params ListParams) (Page[T], error) {
	var page Page[T]
	err := r.client.Do(ctx, http.MethodGet, r.path, params.Query(), nil, &page)
	return page, err
}

// All follows cursors until the collection is exhausted or max items were read.
func (r *Resource[T, In]) All(ctx context.Context, params ListParams, max int) ([]T, error) {
	if params.Limit <= 0 {
		params.Limit = MaxLimit
	}
	var out []T
	for {
		page, err := r.List(ctx, params)
		if err != nil {
			return out, err
		}
		out = append(out, page.Items...)
		if max > 0 && len(out) >= max {
			return out[:max], nil
		}
		if !page.HasMore() || page.NextCursor == params.Cursor {
			return out, nil
		}
		params.Cursor = page.NextCursor
	}
}

// Get fetches one record.
func (r *Resource[T, In]) Get(ctx context.Context, id string) (T, error) {
	var env envelope[T]
	if id == "" {
		return env.Data, ErrNotFound
	}
	err := r.client.Do(ctx, http.MethodGet, r.item(id), nil, nil, &env)
	return env.Data, err
}

// Create posts a new record.
func (r *Resource[T, In]) Create(ctx context.Context, in In) (T, error) {
	var env envelope[T]
	err := r.client.Do(ctx, http.MethodPost, r.path, nil, in, &env)
	return env.Data, err
}

// Update replaces a record.
func (r *Resource[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	var env envelope[T]
	if id == "" {
		return env.Data, ErrNotFound
	}
	err := r.client.Do(ctx, http.MethodPut, r.item(id), nil, in, &env)
	return env.Data, err
}

// Delete removes a record. Deleting a missing record is not an error.
func (r *Resource[T, In]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	err := r.client.Do(ctx, http.MethodDelete, r.item(id), nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Action posts to a sub-path of a record, e.g. /receivables/{id}/payments.
func (r *Resource[T, In]) Action(ctx context.Context, id, action string, body, out any) error {
	if id == "" {
		return ErrNotFound
	}
	path := r.item(id) + "/" + url.PathEscape(action)
	if out == nil {
		return r.client.Do(ctx, http.MethodPost, path, nil, body, nil)
	}
	env := envelope[any]{Data: out}
	return r.client.Do(ctx, http.MethodPost, path, nil, body, &env)
}

func (r *Resource[T, In]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
