// Package cache implements BoundedCache (spec.md §4.C): a generic
// capacity- and byte-bounded mapping with LRU eviction, built on
// hashicorp/golang-lru's ordered map primitive.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// Costed is implemented by every value stored in a Bounded cache; CostBytes
// is the value's contribution to the cache's byte budget.
type Costed interface {
	CostBytes() int
}

// Bounded is a mapping from K to V bounded by both entry count and total
// byte cost. It is not safe for concurrent use; callers serialize access
// behind their own lock (spec.md §4.C: "the cache itself is not
// thread-safe; it lives behind a single coarse lock in the engine").
type Bounded[K comparable, V Costed] struct {
	maxEntries int
	maxBytes   int
	bytes      int
	lru        *lru.LRU[K, V]
}

// New constructs a Bounded cache. Both bounds must be positive.
func New[K comparable, V Costed](maxEntries, maxBytes int) (*Bounded[K, V], error) {
	if maxEntries <= 0 || maxBytes <= 0 {
		return nil, fmt.Errorf("cache: maxEntries and maxBytes must be positive, got %d/%d", maxEntries, maxBytes)
	}

	b := &Bounded[K, V]{maxEntries: maxEntries, maxBytes: maxBytes}

	inner, err := lru.NewLRU[K, V](maxEntries, func(_ K, evicted V) {
		b.bytes -= evicted.CostBytes()
	})
	if err != nil {
		return nil, err
	}
	b.lru = inner
	return b, nil
}

// Get returns the value for k, touching LRU order on hit.
func (b *Bounded[K, V]) Get(k K) (V, bool) {
	return b.lru.Get(k)
}

// Contains reports whether k is present without touching LRU order.
func (b *Bounded[K, V]) Contains(k K) bool {
	return b.lru.Contains(k)
}

// Insert adds or replaces k's value, evicting LRU entries until both bounds
// are satisfied. If v alone exceeds maxBytes, the insert is rejected with
// assetfs.ErrOversized and nothing is evicted.
func (b *Bounded[K, V]) Insert(k K, v V) error {
	cost := v.CostBytes()
	if cost > b.maxBytes {
		return fmt.Errorf("cache: value costs %d bytes, budget is %d: %w", cost, b.maxBytes, assetfs.ErrOversized)
	}

	if old, ok := b.lru.Peek(k); ok {
		b.bytes -= old.CostBytes()
	}

	// Add() enforces the entry-count bound itself (the LRU was constructed
	// with size == maxEntries) and evicts through our onEvict callback,
	// which already keeps b.bytes in sync for that eviction.
	b.lru.Add(k, v)
	b.bytes += cost

	for b.bytes > b.maxBytes && b.lru.Len() > 0 {
		oldestKey, _, ok := b.lru.GetOldest()
		if !ok {
			break
		}
		// Never evict the entry we just inserted if it is the sole entry;
		// a single within-budget value must always be retained.
		if oldestKey == k && b.lru.Len() == 1 {
			break
		}
		b.lru.RemoveOldest()
	}

	return nil
}

// Remove deletes k if present. The onEvict callback subtracts its cost.
func (b *Bounded[K, V]) Remove(k K) {
	b.lru.Remove(k)
}

// Clear empties the cache.
func (b *Bounded[K, V]) Clear() {
	b.lru.Purge()
	b.bytes = 0
}

// Len returns the current entry count.
func (b *Bounded[K, V]) Len() int {
	return b.lru.Len()
}

// Bytes returns the current total cost.
func (b *Bounded[K, V]) Bytes() int {
	return b.bytes
}

// Keys returns all keys in LRU order, oldest first.
func (b *Bounded[K, V]) Keys() []K {
	return b.lru.Keys()
}
