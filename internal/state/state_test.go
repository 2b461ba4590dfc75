package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlicePagination(t *testing.T) {
	s := NewSlice("products", 0)
	assert.Equal(t, DefaultLimit, s.Limit)
	assert.Equal(t, 1, s.PageNumber())
	assert.False(t, s.Next(), "no next cursor yet")

	s.Record([]string{"1", "2"}, "c2")
	require.True(t, s.Next())
	assert.Equal(t, "c2", s.Cursor)
	assert.Equal(t, 2, s.PageNumber())
	assert.True(t, s.HasPrev())

	s.Record([]string{"3"}, "c3")
	require.True(t, s.Next())
	assert.Equal(t, 3, s.PageNumber())

	require.True(t, s.Prev())
	assert.Equal(t, "c2", s.Cursor)
	require.True(t, s.Prev())
	assert.Equal(t, "", s.Cursor)
	assert.False(t, s.Prev(), "already on the first page")
}

func TestSliceApplyFilterResetsCursor(t *testing.T) {
	s := NewSlice("customers", 10)
	s.Record(nil, "c2")
	s.Next()

	changed := s.ApplyFilter("acme", map[string]string{"active": "true", "city": ""})
	assert.True(t, changed)
	assert.Equal(t, "", s.Cursor)
	assert.Empty(t, s.Trail)
	assert.Equal(t, map[string]string{"active": "true"}, s.Filters)
	assert.True(t, s.Filtered())

	s.Record(nil, "c9")
	s.Next()
	assert.False(t, s.ApplyFilter("acme", map[string]string{"active": "true"}), "same filter keeps position")
	assert.Equal(t, "c9", s.Cursor)

	assert.True(t, s.ApplyFilter("", nil))
	assert.False(t, s.Filtered())
}

func TestSliceSetLimitRestarts(t *testing.T) {
	s := NewSlice("units", 10)
	s.Record(nil, "c2")
	s.Next()
	s.SetLimit(10)
	assert.Equal(t, "c2", s.Cursor, "same limit is a no-op")
	s.SetLimit(50)
	assert.Equal(t, 50, s.Limit)
	assert.Equal(t, "", s.Cursor)
}

func TestSliceForget(t *testing.T) {
	s := NewSlice("brands", 10)
	s.Record([]string{"a", "b", "c"}, "")
	s.Select("b")
	s.Forget("b")
	assert.Equal(t, []string{"a", "c"}, s.Visible)
	assert.Equal(t, "", s.Selected)

	s.Select("a")
	s.Forget("zzz")
	assert.Equal(t, "a", s.Selected)
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour, 25), mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	fresh, err := store.Load(ctx, "sess-1", "products")
	require.NoError(t, err)
	assert.Equal(t, 25, fresh.Limit)

	_, err = store.Update(ctx, "sess-1", "products", func(s *Slice) {
		s.ApplyFilter("bolt", nil)
		s.Record([]string{"p1"}, "next-1")
		s.Select("p1")
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("state:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("state:sess-1"))

	loaded, err := store.Load(ctx, "sess-1", "products")
	require.NoError(t, err)
	assert.Equal(t, "bolt", loaded.Search)
	assert.Equal(t, "next-1", loaded.NextCursor)
	assert.Equal(t, "p1", loaded.Selected)
	assert.False(t, loaded.UpdatedAt.IsZero())

	other, err := store.Load(ctx, "sess-1", "brands")
	require.NoError(t, err)
	assert.Equal(t, "", other.Search, "slices are independent")

	require.NoError(t, store.Clear(ctx, "sess-1"))
	assert.False(t, mr.Exists("state:sess-1"))
}

func TestStoreResetsCorruptSlice(t *testing.T) {
	store, mr := newTestStore(t)
	mr.HSet("state:sess-2", "units", "{not json")

	slice, err := store.Load(context.Background(), "sess-2", "units")
	require.NoError(t, err)
	assert.Equal(t, "units", slice.Entity)
	assert.Equal(t, 25, slice.Limit)
}

func TestStoreRequiresSession(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Save(context.Background(), "", NewSlice("x", 1)))

	slice, err := store.Load(context.Background(), "", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", slice.Entity)
}
