package storage

import (
	"github.com/maypok86/otter/v2"
	"sort"
	"time"
)

// Cache is an otter-backed keyed store. Entries expire ttl after their last
// write; a zero ttl keeps them until cleared.
type Cache[T any] struct {
	outer *otter.Cache[string, T]
}

func NewCache[T any](capacity int, ttl time.Duration) *Cache[T] {
	opts := &otter.Options[string, T]{
		InitialCapacity: capacity,
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[string, T](ttl)
	}

	return &Cache[T]{
		outer: otter.Must(opts),
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

// Update atomically applies fn to the current value (zero if absent) and
// stores the result.
func (c *Cache[T]) Update(key string, fn func(old T, ok bool) T) T {
	val, _ := c.outer.Compute(key, func(old T, found bool) (T, otter.ComputeOp) {
		return fn(old, found), otter.WriteOp
	})
	return val
}

// Keys returns the present keys in sorted order.
func (c *Cache[T]) Keys() []string {
	keys := make([]string, 0)
	for k := range c.outer.All() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Cache[T]) ClearKey(key string) {
	c.outer.Invalidate(key)
}
