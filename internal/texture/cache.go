package texture

import (
	"context"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultSharedTimeout bounds a shared fetch once every caller has gone.
const DefaultSharedTimeout = time.Minute

// Cache is a concurrency-safe image cache in front of a Source.
// Concurrent loads of the same reference share one fetch. The shared fetch
// is not tied to any single caller: a caller that gives up only stops
// waiting, and the fetch keeps going for the others until Timeout.
// Failures are not cached, so a later scene switch retries.
type Cache struct {
	// Timeout limits one shared fetch.
	Timeout time.Duration

	mu    sync.RWMutex
	items map[string]*image.NRGBA
	src   Source
	group singleflight.Group
}

// NewCache creates a cache backed by src.
func NewCache(src Source) *Cache {
	return &Cache{
		Timeout: DefaultSharedTimeout,
		items:   make(map[string]*image.NRGBA),
		src:     src,
	}
}

// Load returns the cached image for ref, loading it on first use.
// Cached images are shared and must not be modified.
func (c *Cache) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if img, ok := c.items[ref]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := c.group.DoChan(ref, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout())
		defer cancel()
		img, err := c.src.Load(loadCtx, ref)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[ref] = img
		c.mu.Unlock()
		return img, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*image.NRGBA), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultSharedTimeout
	}
	return c.Timeout
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Forget drops every cached image, e.g. after the tour content changed.
func (c *Cache) Forget() {
	c.mu.Lock()
	c.items = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}
