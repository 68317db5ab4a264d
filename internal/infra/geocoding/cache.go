// Package geocoding provides decorators around the Geocoder service.
package geocoding

import (
	"context"
	"strings"
	"sync"
	"time"

	"itinero/internal/domain/entity"
	"itinero/internal/domain/service"
)

// cachingGeocoder caches successful lookups for a fixed TTL to bound
// provider call volume. Failures are never cached, so a transient provider
// outage does not pin fallback results.
type cachingGeocoder struct {
	inner service.Geocoder
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	reverse map[string]cacheEntry[string]
	forward map[string]cacheEntry[entity.Coordinate]
}

type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

// WithCache wraps a Geocoder with an in-memory TTL cache. A non-positive
// TTL returns the inner geocoder unchanged.
func WithCache(inner service.Geocoder, ttl time.Duration) service.Geocoder {
	if ttl <= 0 {
		return inner
	}

	return &cachingGeocoder{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		reverse: make(map[string]cacheEntry[string]),
		forward: make(map[string]cacheEntry[entity.Coordinate]),
	}
}

func (c *cachingGeocoder) ReverseGeocode(ctx context.Context, position entity.Coordinate) string {
	key := position.FallbackAddress()

	c.mu.Lock()
	if entry, ok := c.reverse[key]; ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()

		return entry.value
	}
	c.mu.Unlock()

	address := c.inner.ReverseGeocode(ctx, position)

	// The fallback string marks a failed lookup; caching it would make the
	// failure sticky for the whole TTL.
	if address != position.FallbackAddress() {
		c.mu.Lock()
		c.reverse[key] = cacheEntry[string]{value: address, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
	}

	return address
}

func (c *cachingGeocoder) ForwardGeocode(ctx context.Context, address string) *entity.Coordinate {
	key := strings.ToLower(strings.TrimSpace(address))
	if key == "" {
		return nil
	}

	c.mu.Lock()
	if entry, ok := c.forward[key]; ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		value := entry.value

		return &value
	}
	c.mu.Unlock()

	position := c.inner.ForwardGeocode(ctx, address)
	if position == nil {
		return nil
	}

	c.mu.Lock()
	c.forward[key] = cacheEntry[entity.Coordinate]{value: *position, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return position
}
