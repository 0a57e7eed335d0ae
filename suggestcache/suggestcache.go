// Package suggestcache memoizes autocomplete suggestion lists in a bounded
// LRU keyed by (field, query text). It replaces the implicit memoization the
// upstream service got from a language feature with an explicit cache that
// has a capacity and an eviction policy.
package suggestcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity bounds the cache when the configuration does not.
const DefaultCapacity = 1000

// Cache is safe for concurrent use by in-flight requests.
type Cache struct {
	entries *lru.Cache[string, []string]
}

// New creates a cache holding at most capacity entries. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, []string](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the memoized list for the exact (field, query) pair.
func (c *Cache) Get(field, query string) ([]string, bool) {
	return c.entries.Get(key(field, query))
}

// Add memoizes a suggestion list, evicting the least recently used entry
// when the cache is full.
func (c *Cache) Add(field, query string, values []string) {
	c.entries.Add(key(field, query), values)
}

// Purge drops every entry. The scheduler calls this daily so rows added to
// the table eventually show up in suggestions.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len reports the current entry count.
func (c *Cache) Len() int {
	return c.entries.Len()
}

func key(field, query string) string {
	// NUL cannot appear in either part, so the key is unambiguous.
	return field + "\x00" + query
}
