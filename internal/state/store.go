package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists slices in one Redis hash per session.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	limit  int
	now    func() time.Time
}

// NewStore constructs a Store. ttl should match the session lifetime.
func NewStore(client *redis.Client, ttl time.Duration, defaultLimit int) *Store {
	return &Store{client: client, ttl: ttl, limit: defaultLimit, now: time.Now}
}

func (s *Store) key(sessionID string) string {
	return "state:" + sessionID
}

// Load returns the slice of entity, or a fresh one.
func (s *Store) Load(ctx context.Context, sessionID, entity string) (Slice, error) {
	fresh := NewSlice(entity, s.limit)
	if sessionID == "" {
		return fresh, nil
	}
	raw, err := s.client.HGet(ctx, s.key(sessionID), entity).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fresh, nil
		}
		return fresh, fmt.Errorf("state: load %s: %w", entity, err)
	}
	var slice Slice
	if err := json.Unmarshal(raw, &slice); err != nil {
		// A slice written by an older release is simply reset.
		return fresh, nil
	}
	slice.Entity = entity
	if slice.Limit <= 0 {
		slice.Limit = fresh.Limit
	}
	return slice, nil
}

// Save writes the slice and refreshes the hash expiry.
func (s *Store) Save(ctx context.Context, sessionID string, slice Slice) error {
	if sessionID == "" || slice.Entity == "" {
		return errors.New("state: session and entity required")
	}
	slice.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(slice)
	if err != nil {
		return err
	}
	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, slice.Entity, raw)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("state: save %s: %w", slice.Entity, err)
	}
	return nil
}

// Update loads, mutates and saves a slice in one call.
func (s *Store) Update(ctx context.Context, sessionID, entity string, fn func(*Slice)) (Slice, error) {
	slice, err := s.Load(ctx, sessionID, entity)
	if err != nil {
		return slice, err
	}
	fn(&slice)
	return slice, s.Save(ctx, sessionID, slice)
}

// Clear drops every slice of a session.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
