package genapi

import (
	"context"
	"fmt"

	"modeltron/internal/logging"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedImager memoizes image URLs by request.
type CachedImager struct {
	inner Imager
	cache *lru.Cache[string, string]
}

// NewCachedImager wraps inner with an LRU of the given size.
func NewCachedImager(inner Imager, size int) (*CachedImager, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return &CachedImager{inner: inner, cache: cache}, nil
}

// Name returns the wrapped provider name.
func (c *CachedImager) Name() string { return c.inner.Name() }

// Image returns a cached URL or asks the wrapped imager.
func (c *CachedImager) Image(ctx context.Context, req ImageRequest) (string, error) {
	key := cacheKey(req)
	if u, ok := c.cache.Get(key); ok {
		logging.APIDebug("image cache hit (%s)", c.inner.Name())
		return u, nil
	}
	u, err := c.inner.Image(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, u)
	return u, nil
}

// Len returns the number of cached URLs.
func (c *CachedImager) Len() int { return c.cache.Len() }

func cacheKey(req ImageRequest) string {
	return fmt.Sprintf("%q|%s|%+v|%dx%d|%d|%s|%t|%t",
		req.Prompt, req.Kind, req.Metrics, req.Width, req.Height, req.Seed, req.Model, req.NoLogo, req.Enhance)
}
