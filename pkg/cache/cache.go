package cache

import (
	"sync"
	"time"
)

// Timed is a cache that invalidates elements on a timer basis. It is safe for
// concurrent use.
type Timed[K comparable, V any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	cache map[K]element[V]
}

// element holds a timestamped value to save.
type element[V any] struct {
	value    V
	creation time.Time
}

// NewTimed creates a new Timed cache where elements will be invalidated after
// a time in cache corresponding to TTL.
func NewTimed[K comparable, V any](ttl time.Duration) *Timed[K, V] {
	return &Timed[K, V]{
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[K]element[V]),
	}
}

// Set assigns a value to a key. Expired elements are swept on the way.
func (c *Timed[K, V]) Set(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	for k, el := range c.cache {
		if t.Sub(el.creation) > c.ttl {
			delete(c.cache, k)
		}
	}
	c.cache[key] = element[V]{
		value:    val,
		creation: t,
	}
}

// Get retrieves a value for a key. The value may not exist or have expired, in
// which case ok will be false.
func (c *Timed[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.cache[key]
	if !ok {
		return value, false
	}

	// in memory elements might still be invalid
	if elapsed := c.now().Sub(el.creation); elapsed > c.ttl {
		delete(c.cache, key)
		return value, false
	}

	return el.value, true
}

// Len returns the number of elements held, expired or not.
func (c *Timed[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
