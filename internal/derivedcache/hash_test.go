package derivedcache

import (
	"testing"

	"github.com/vE5li/korangar-sub004/internal/config"
)

func TestStaleWhenHashFileAbsent(t *testing.T) {
	source := newFakeSource()
	source.put(`data\texture\wall01.png`, []byte("abc"))
	derived := newFakeStore()
	c := New(config.DerivedCacheConfig{Workers: 1}, source, derived, testLogger(t))

	stale, err := c.Stale()
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if !stale {
		t.Error("expected stale with no hash.txt written yet")
	}
}

func TestStaleAfterWriteStoredHash(t *testing.T) {
	source := newFakeSource()
	source.put(`data\texture\wall01.png`, []byte("abc"))
	derived := newFakeStore()
	c := New(config.DerivedCacheConfig{Workers: 1}, source, derived, testLogger(t))

	current, err := c.ComputeSourceHash()
	if err != nil {
		t.Fatalf("ComputeSourceHash: %v", err)
	}
	if err := c.WriteStoredHash(current); err != nil {
		t.Fatalf("WriteStoredHash: %v", err)
	}

	stale, err := c.Stale()
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if stale {
		t.Error("expected fresh cache right after WriteStoredHash")
	}

	source.put(`data\texture\wall01.png`, []byte("changed"))
	stale, err = c.Stale()
	if err != nil {
		t.Fatalf("Stale: %v", err)
	}
	if !stale {
		t.Error("expected stale after source content changed")
	}
}
