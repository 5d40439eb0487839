package derivedcache

import (
	"encoding/hex"
	"strings"

	"lukechampine.com/blake3"
)

const hashFileName = "hash.txt"

// ComputeSourceHash hashes the entire source ArchiveSet, per spec.md §4.D's
// "current source hash" that hash.txt is checked against.
func (c *Cache) ComputeSourceHash() (string, error) {
	hasher := blake3.New(32, nil)
	if err := c.source.HashInto(hasher); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ReadStoredHash reads hash.txt, reporting false if it is absent.
func (c *Cache) ReadStoredHash() (string, bool) {
	data, ok, err := c.derived.Read(hashFileName)
	if err != nil || !ok {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// WriteStoredHash writes the current source hash to hash.txt atomically,
// called once a sync pass completes successfully.
func (c *Cache) WriteStoredHash(sourceHash string) error {
	return c.derived.WriteAtomic(hashFileName, []byte(sourceHash))
}

// Stale reports whether hash.txt is absent or does not match the source
// ArchiveSet's current hash. Per spec.md §4.D: "if absent or mismatched...
// the cache is considered stale but usable until a sync pass completes" —
// callers may keep serving derived artifacts from a stale cache while a
// sync runs concurrently.
func (c *Cache) Stale() (bool, error) {
	current, err := c.ComputeSourceHash()
	if err != nil {
		return true, err
	}
	stored, ok := c.ReadStoredHash()
	if !ok {
		return true, nil
	}
	return stored != current, nil
}
