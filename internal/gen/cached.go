package gen

// CachedGenerator memoizes Generate results by seed, so a cell revisited
// after unload reuses its descriptor set instead of re-rolling it. Wrapping
// changes nothing observable: generation is deterministic, the cache only
// saves the work. Failures are returned, never cached.
type CachedGenerator struct {
	inner Generator
	cache *Cache[int64, []Descriptor]
}

func NewCachedGenerator(inner Generator, capacity int) *CachedGenerator {
	return &CachedGenerator{
		inner: inner,
		cache: NewCache[int64, []Descriptor](capacity),
	}
}

func (c *CachedGenerator) Generate(seed int64) ([]Descriptor, error) {
	if d, ok := c.cache.Peek(seed); ok {
		return d, nil
	}
	d, err := c.inner.Generate(seed)
	if err != nil {
		return nil, err
	}
	c.cache.GetOrInsert(seed, func() []Descriptor { return d })
	return d, nil
}

// Len reports how many descriptor sets are currently cached.
func (c *CachedGenerator) Len() int { return c.cache.Len() }
