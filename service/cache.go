package service

import (
	"context"
	"sync"
	"time"

	"github.com/nethesis/media-image-popup/models"
)

// cacheEntry is a wrapper around a cached value with an expiration time.
type cacheEntry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

func (e *cacheEntry[T]) isExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTLCache is a concurrency-safe map whose entries expire after ttl.
type TTLCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache creates a new TTLCache with the specified TTL.
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		entries: make(map[string]cacheEntry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key and whether it was present and fresh.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.isExpired(c.now()) {
		// expired entries are left for Set/Clear to avoid a write lock here
		var zero T
		return zero, false
	}
	return entry.Value, true
}

// Set stores value under key with TTL expiration.
func (c *TTLCache[T]) Set(key string, value T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry[T]{
		Value:     value,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
}

const allStylesKey = "\x00all"

// CachedImageStyles caches image style lookups of an underlying storage.
// Misses are not cached so a style created later shows up at once.
type CachedImageStyles struct {
	storage ImageStyleStorage
	styles  *TTLCache[*models.ImageStyle]
	lists   *TTLCache[[]*models.ImageStyle]
}

// NewCachedImageStyles wraps storage with a TTL cache. A zero ttl disables caching.
func NewCachedImageStyles(storage ImageStyleStorage, ttl time.Duration) *CachedImageStyles {
	return &CachedImageStyles{
		storage: storage,
		styles:  NewTTLCache[*models.ImageStyle](ttl),
		lists:   NewTTLCache[[]*models.ImageStyle](ttl),
	}
}

// LoadImageStyle implements ImageStyleStorage.
func (c *CachedImageStyles) LoadImageStyle(ctx context.Context, name string) (*models.ImageStyle, error) {
	if style, ok := c.styles.Get(name); ok {
		return style, nil
	}
	style, err := c.storage.LoadImageStyle(ctx, name)
	if err != nil || style == nil {
		return style, err
	}
	c.styles.Set(name, style)
	return style, nil
}

// ListImageStyles implements ImageStyleStorage.
func (c *CachedImageStyles) ListImageStyles(ctx context.Context) ([]*models.ImageStyle, error) {
	if styles, ok := c.lists.Get(allStylesKey); ok {
		return styles, nil
	}
	styles, err := c.storage.ListImageStyles(ctx)
	if err != nil {
		return nil, err
	}
	c.lists.Set(allStylesKey, styles)
	return styles, nil
}

// Invalidate drops every cached style, used after a style is saved.
func (c *CachedImageStyles) Invalidate() {
	c.styles.Clear()
	c.lists.Clear()
}
