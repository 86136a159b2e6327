// Package enginecache wraps an LRU over (field, term) -> posting list
// lookups so repeated queries against a reader's segments skip re-running
// an FST walk (spec.md "reader owns read-only views" §4.9, generalized
// here with a bounded cache per SPEC_FULL.md §4.17).
package enginecache

import (
	lru "github.com/hashicorp/golang-lru"
)

// Key identifies one cached lookup: a field name plus the exact term bytes.
type Key struct {
	Field string
	Term  string
}

// TermCache is a bounded LRU cache from (field, term) to a posting list
// of global doc-ids. It is safe for concurrent readers (golang-lru's
// Cache is internally locked).
type TermCache struct {
	lru *lru.Cache
}

// New returns a TermCache holding at most size entries. size <= 0
// disables caching (every Get misses).
func New(size int) (*TermCache, error) {
	if size <= 0 {
		return &TermCache{}, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &TermCache{lru: c}, nil
}

// Get returns the cached posting list for key, if present.
func (c *TermCache) Get(key Key) ([]uint64, bool) {
	if c.lru == nil {
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]uint64), true
}

// Put stores ids under key, evicting the least-recently-used entry if full.
func (c *TermCache) Put(key Key, ids []uint64) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, ids)
}
