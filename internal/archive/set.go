package archive

import (
	"fmt"
	"hash"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
	"github.com/vE5li/korangar-sub004/internal/assetpath"
)

// Set is an ordered overlay of archives with a single designated writable
// archive, normally the last one (spec.md §4.B). Reads search in order,
// first-hit wins; writes always target the designated archive.
type Set struct {
	archives []Archive
	writable Writable
}

// NewSet constructs a Set from ordered read archives plus a designated
// writable archive. Passing the writable archive again inside readArchives
// is fine and matches the common case of "read from everything, including
// the writable overlay."
func NewSet(readArchives []Archive, writable Writable) *Set {
	return &Set{archives: readArchives, writable: writable}
}

func normalize(path string) string {
	return assetpath.Normalize(path)
}

// Exists reports whether any archive in the set has path.
func (s *Set) Exists(path string) bool {
	p := normalize(path)
	for _, a := range s.archives {
		if a.Exists(p) {
			return true
		}
	}
	return false
}

// Read resolves path against archives in order, first hit wins.
func (s *Set) Read(path string) ([]byte, bool, error) {
	p := normalize(path)
	for _, a := range s.archives {
		data, ok, err := a.Read(p)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return data, true, nil
		}
	}
	return nil, false, fmt.Errorf("archive: %s: %w", path, assetfs.ErrNotFound)
}

// List merges and deduplicates every archive's listing by normalized path.
func (s *Set) List(extensions []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range s.archives {
		entries, err := a.List(extensions)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			n := normalize(e)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, e)
		}
	}
	return out, nil
}

// HashInto hashes all archives in order.
func (s *Set) HashInto(hasher hash.Hash) error {
	for _, a := range s.archives {
		if err := a.HashInto(hasher); err != nil {
			return err
		}
	}
	return nil
}

// Write routes to the designated writable archive unconditionally. The read
// path may therefore return a blob newer than any source archive contains —
// intentional, so the derived-cache layer can shadow stale assets.
func (s *Set) Write(path string, data []byte, compression Compression) error {
	if s.writable == nil {
		return fmt.Errorf("archive: set has no writable archive")
	}
	return s.writable.Write(normalize(path), data, compression)
}

// Remove routes to the designated writable archive.
func (s *Set) Remove(path string) error {
	if s.writable == nil {
		return fmt.Errorf("archive: set has no writable archive")
	}
	return s.writable.Remove(normalize(path))
}

// Writable returns the designated writable archive.
func (s *Set) Writable() Writable {
	return s.writable
}

// List implements assetpath.DirLister, used by case-insensitive BGM search.
var _ assetpath.DirLister = (*Set)(nil)
