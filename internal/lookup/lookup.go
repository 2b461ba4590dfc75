// Package lookup serves the option lists behind form selects, cached in Redis.
//
// Cached lists are shared by every signed-in user. A fill runs with the
// credentials of the request that missed the cache, detached from its
// cancellation so concurrent waiters are not failed by one closed tab.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownList is returned for keys that were never registered.
var ErrUnknownList = errors.New("lookup: unknown list")

// Option is one entry of a select.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	// Hint carries extra data for the browser, e.g. a default price.
	Hint string `json:"hint,omitempty"`
}

// fillTimeout bounds a cache fill once it is detached from the request.
const fillTimeout = 15 * time.Second

// Source loads a fresh option list from the API.
type Source func(ctx context.Context) ([]Option, error)

// Service resolves option lists through a versioned Redis cache.
type Service struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.RWMutex
	sources map[string]Source
	group   singleflight.Group
}

// NewService constructs a Service. A nil client disables caching.
func NewService(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, ttl: ttl, logger: logger, sources: make(map[string]Source)}
}

// Register binds a list key to its loader.
func (s *Service) Register(key string, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[key] = src
}

// Keys lists the registered keys in order.
func (s *Service) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.sources))
	for k := range s.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Service) source(key string) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[key]
	return src, ok
}

func versionKey(key string) string {
	return "lookup:" + key + ":version"
}

func (s *Service) cacheKey(ctx context.Context, key string) (string, error) {
	ver, err := s.client.Get(ctx, versionKey(key)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return "lookup:" + key + ":v" + strconv.FormatInt(ver, 10), nil
}

// Options returns the list registered under key.
func (s *Service) Options(ctx context.Context, key string) ([]Option, error) {
	src, ok := s.source(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownList, key)
	}
	if s.client == nil {
		return src(ctx)
	}

	cacheKey, err := s.cacheKey(ctx, key)
	if err != nil {
		s.logger.Warn("lookup version", slog.String("list", key), slog.Any("error", err))
		return src(ctx)
	}
	if raw, err := s.client.Get(ctx, cacheKey).Bytes(); err == nil {
		var cached []Option
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	ch := s.group.DoChan(cacheKey, func() (any, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fillTimeout)
		defer cancel()
		opts, err := src(fillCtx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(opts); err == nil {
			if err := s.client.Set(fillCtx, cacheKey, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("lookup cache store", slog.String("list", key), slog.Any("error", err))
			}
		}
		return opts, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Option), nil
	}
}

// Many resolves several lists concurrently.
func (s *Service) Many(ctx context.Context, keys ...string) (map[string][]Option, error) {
	out := make(map[string][]Option, len(keys))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		if key == "" {
			continue
		}
		g.Go(func() error {
			opts, err := s.Options(gctx, key)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", key, err)
			}
			mu.Lock()
			out[key] = opts
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Invalidate bumps the version of each list so the next read reloads it.
func (s *Service) Invalidate(ctx context.Context, keys ...string) error {
	if s.client == nil || len(keys) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.Incr(ctx, versionKey(key))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Warm loads every registered list into the cache.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Many(ctx, s.Keys()...)
	return err
}

// LabelOf finds the label of value in opts, falling back to the value.
func LabelOf(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
