package folio

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/content"
)

// ContentCache is an in-memory TTL cache in front of a content source.
// Concurrent misses for the same key share one fetch. It is itself a
// cms.Source.
type ContentCache struct {
	src   cms.Source
	ttl   time.Duration
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
	gen     uint64
	now     func() time.Time
}

type cacheEntry struct {
	val     any
	fetched time.Time
}

var _ cms.Source = (*ContentCache)(nil)

// NewContentCache creates a ContentCache backed by src.
func NewContentCache(src cms.Source, ttl time.Duration) *ContentCache {
	return &ContentCache{
		src:     src,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Invalidate clears the cache so the next read triggers a fresh load.
// Fetches already in flight do not repopulate it.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.gen++
	c.mu.Unlock()
}

func (c *ContentCache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetched) >= c.ttl {
		return nil, false
	}
	return e.val, true
}

func cached[T any](ctx context.Context, c *ContentCache, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		return v.(T), nil
	}
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that goes away must not fail the others sharing this fetch.
		val, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = cacheEntry{val: val, fetched: c.now()}
		}
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Collection returns the posts referenced by docType's field, newest first.
func (c *ContentCache) Collection(ctx context.Context, docType, field string) ([]content.Post, error) {
	return cached(ctx, c, "collection:"+docType+"."+field, func(ctx context.Context) ([]content.Post, error) {
		return c.src.Collection(ctx, docType, field)
	})
}

// Post returns the post with slug, or nil when it does not exist.
func (c *ContentCache) Post(ctx context.Context, slug string) (*content.Post, error) {
	return cached(ctx, c, "post:"+slug, func(ctx context.Context) (*content.Post, error) {
		return c.src.Post(ctx, slug)
	})
}

// About returns the about post, or nil when none is configured.
func (c *ContentCache) About(ctx context.Context) (*content.Post, error) {
	return cached(ctx, c, "about", c.src.About)
}

// Warm loads the given collections and the about page concurrently.
func (c *ContentCache) Warm(ctx context.Context, cols ...Collection) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, col := range cols {
		g.Go(func() error {
			_, err := c.Collection(ctx, col.DocType, col.Field)
			return err
		})
	}
	g.Go(func() error {
		_, err := c.About(ctx)
		return err
	})
	return g.Wait()
}
