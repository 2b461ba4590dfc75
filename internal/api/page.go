package api

import (
	"net/url"
	"strconv"
)

// DefaultLimit is used when a list call does not ask for a page size.
const DefaultLimit = 20

// MaxLimit caps page sizes sent upstream.
const MaxLimit = 200

// Page is one cursor page of a collection.
type Page[T any] struct {
	Items      []T    `json:"data"`
	NextCursor string `json:"next_cursor"`
}

// HasMore reports whether another page follows.
func (p Page[T]) HasMore() bool {
	return p.NextCursor != ""
}

// ListParams selects a page of a collection.
type ListParams struct {
	Cursor  string
	Limit   int
	Search  string
	Filters map[string]string
}

// Query encodes the params as URL query values.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Cursor != "" {
		q.Set("cursor", p.Cursor)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
