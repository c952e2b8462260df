// Package cache is the expiring local cache. Entries are namespaced JSON
// envelopes written to a storage.Store and expire lazily on read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cards-marketplace/internal/observability"
	"cards-marketplace/internal/storage"
)

const (
	DefaultNamespace = "cards-marketplace"
	DefaultTTL       = 5 * time.Minute
)

// entry is the persisted envelope. Timestamp is Unix milliseconds.
type entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// CacheReadError reports an entry that could not be decoded. It never reaches
// callers of Get; the entry is dropped and the read becomes a miss.
type CacheReadError struct {
	Key string
	Err error
}

func (e *CacheReadError) Error() string {
	return fmt.Sprintf("cache entry %q is unreadable: %v", e.Key, e.Err)
}

func (e *CacheReadError) Unwrap() error { return e.Err }

// Cache stores JSON values with a fixed time-to-live
type Cache struct {
	store     storage.Store
	namespace string
	ttl       time.Duration
	now       func() time.Time
}

type Option func(*Cache)

// WithNamespace changes the key prefix (default "cards-marketplace")
func WithNamespace(ns string) Option {
	return func(c *Cache) { c.namespace = ns }
}

// WithTTL overrides the five minute default
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a new Cache on top of store
func New(store storage.Store, opts ...Option) *Cache {
	c := &Cache{
		store:     store,
		namespace: DefaultNamespace,
		ttl:       DefaultTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) key(k string) string {
	return c.namespace + ":" + k
}

// Set stores data under key, stamped with the current time
func (c *Cache) Set(ctx context.Context, key string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode cache value %q: %w", key, err)
	}
	payload, err := json.Marshal(entry{Data: raw, Timestamp: c.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %q: %w", key, err)
	}
	if err := c.store.Write(ctx, c.key(key), payload); err != nil {
		return fmt.Errorf("failed to write cache entry %q: %w", key, err)
	}
	return nil
}

// Get decodes the cached value for key into dest and reports whether it was a
// hit. Expired and unreadable entries are deleted and reported as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.store.Read(ctx, c.key(key))
	if errors.Is(err, storage.ErrNotFound) {
		observability.CacheLookups.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry %q: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Data == nil {
		if err == nil {
			err = errors.New("missing data field")
		}
		c.dropCorrupt(ctx, key, err)
		return false, nil
	}

	age := c.now().Sub(time.UnixMilli(e.Timestamp))
	if age >= c.ttl {
		observability.CacheLookups.WithLabelValues("expired").Inc()
		if err := c.store.Delete(ctx, c.key(key)); err != nil {
			observability.FromContext(ctx).Warn("Failed to delete expired cache entry",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false, nil
	}

	if err := json.Unmarshal(e.Data, dest); err != nil {
		c.dropCorrupt(ctx, key, err)
		return false, nil
	}

	observability.CacheLookups.WithLabelValues("hit").Inc()
	return true, nil
}

func (c *Cache) dropCorrupt(ctx context.Context, key string, cause error) {
	observability.CacheLookups.WithLabelValues("corrupt").Inc()

	readErr := &CacheReadError{Key: key, Err: cause}
	observability.FromContext(ctx).Debug("Discarding cache entry", slog.String("error", readErr.Error()))

	if err := c.store.Delete(ctx, c.key(key)); err != nil {
		observability.FromContext(ctx).Warn("Failed to delete corrupt cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Remove deletes a single entry
func (c *Cache) Remove(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, c.key(key)); err != nil {
		return fmt.Errorf("failed to remove cache entry %q: %w", key, err)
	}
	return nil
}

// Clear deletes every entry in the namespace. Keys outside it are untouched.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.store.Keys(ctx, c.namespace+":")
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	var errs []error
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to clear cache: %w", errors.Join(errs...))
	}
	return nil
}
