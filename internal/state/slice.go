// Package state keeps the per-session view state of every entity screen.
package state

import (
	"maps"
	"slices"
	"time"
)

// DefaultLimit is the page size of a fresh slice.
const DefaultLimit = 20

// Slice is the portion of the store owned by one entity screen.
type Slice struct {
	Entity     string            `json:"entity"`
	Search     string            `json:"search,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Limit      int               `json:"limit"`
	Cursor     string            `json:"cursor,omitempty"`
	Trail      []string          `json:"trail,omitempty"`
	NextCursor string            `json:"next_cursor,omitempty"`
	Selected   string            `json:"selected,omitempty"`
	Visible    []string          `json:"visible,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewSlice returns the state of a screen that was never opened.
func NewSlice(entity string, limit int) Slice {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Slice{Entity: entity, Limit: limit}
}

// ApplyFilter replaces search and filters and goes back to the first page.
// It reports whether anything changed.
func (s *Slice) ApplyFilter(search string, filters map[string]string) bool {
	cleaned := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			cleaned[k] = v
		}
	}
	if len(cleaned) == 0 {
		cleaned = nil
	}
	changed := s.Search != search || !maps.Equal(s.Filters, cleaned)
	s.Search = search
	s.Filters = cleaned
	if changed {
		s.First()
	}
	return changed
}

// SetLimit changes the page size; a new size restarts from the first page.
func (s *Slice) SetLimit(limit int) {
	if limit <= 0 || limit == s.Limit {
		return
	}
	s.Limit = limit
	s.First()
}

// Next moves to the page after the current one. No-op on the last page.
func (s *Slice) Next() bool {
	if s.NextCursor == "" {
		return false
	}
	s.Trail = append(s.Trail, s.Cursor)
	s.Cursor = s.NextCursor
	s.NextCursor = ""
	return true
}

// Prev moves back one page. No-op on the first page.
func (s *Slice) Prev() bool {
	if len(s.Trail) == 0 {
		return false
	}
	last := len(s.Trail) - 1
	s.Cursor = s.Trail[last]
	s.Trail = s.Trail[:last]
	s.NextCursor = ""
	return true
}

// First resets pagination.
func (s *Slice) First() {
	s.Cursor = ""
	s.Trail = nil
	s.NextCursor = ""
}

// PageNumber is the 1-based index of the current page.
func (s Slice) PageNumber() int {
	return len(s.Trail) + 1
}

// HasPrev reports whether a previous page exists.
func (s Slice) HasPrev() bool {
	return len(s.Trail) > 0
}

// HasNext reports whether the last response announced another page.
func (s Slice) HasNext() bool {
	return s.NextCursor != ""
}

// Record stores the last server response for the current page.
func (s *Slice) Record(ids []string, nextCursor string) {
	s.Visible = slices.Clone(ids)
	s.NextCursor = nextCursor
}

// Select marks a row as the current selection.
func (s *Slice) Select(id string) {
	s.Selected = id
}

// Forget drops a deleted row from the visible rows and the selection.
func (s *Slice) Forget(id string) {
	s.Visible = slices.DeleteFunc(s.Visible, func(v string) bool { return v == id })
	if s.Selected == id {
		s.Selected = ""
	}
}

// Filtered reports whether search or filters narrow the list.
func (s Slice) Filtered() bool {
	return s.Search != "" || len(s.Filters) > 0
}

// Filter returns the value of a filter, or "".
func (s Slice) Filter(key string) string {
	return s.Filters[key]
}
