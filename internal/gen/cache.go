package gen

// Cache is a bounded memoization store for expensive deterministic results.
// Eviction is insertion-order FIFO: when capacity is exceeded the
// least-recently-INSERTED entry goes, regardless of how often it was read.
// Access-order LRU would be a behavior change for callers tuned to the
// cheaper policy, so it stays FIFO on purpose.
//
// Values are never mutated in place; for a fixed key the same value comes
// back on every hit until the key is evicted.
type Cache[K comparable, V any] struct {
	capacity int
	entries  map[K]V
	order    []K // insertion order, oldest first
}

// NewCache creates a cache holding at most capacity entries. Capacities
// below 1 are clamped to 1; config validation rejects them upstream.
func NewCache[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		entries:  make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
	}
}

// GetOrInsert returns the cached value for key, or calls produce exactly once,
// stores the result, and returns it. Inserting beyond capacity evicts the
// single oldest entry first.
func (c *Cache[K, V]) GetOrInsert(key K, produce func() V) V {
	if v, ok := c.entries[key]; ok {
		return v
	}
	v := produce()
	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = v
	c.order = append(c.order, key)
	return v
}

// Peek returns the cached value without inserting.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Len returns the current entry count.
func (c *Cache[K, V]) Len() int { return len(c.entries) }

// Cap returns the configured capacity.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Clear empties the cache unconditionally.
func (c *Cache[K, V]) Clear() {
	c.entries = make(map[K]V, c.capacity)
	c.order = c.order[:0]
}
