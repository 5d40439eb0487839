// Package derivedcache implements the DerivedCache component of spec.md
// §4.D: a content-hashed on-disk store sitting on top of an Archive, keeping
// block-compressed texture mip chains and map texture atlases in sync with a
// source ArchiveSet.
package derivedcache

import (
	"hash"
	"runtime"

	"github.com/vE5li/korangar-sub004/internal/config"
	"github.com/vE5li/korangar-sub004/internal/logging"
)

// SourceSet is the subset of archive.Set the sync pass reads from.
type SourceSet interface {
	Read(path string) ([]byte, bool, error)
	List(extensions []string) ([]string, error)
	HashInto(hasher hash.Hash) error
}

// Store is the subset of archive.FolderArchive the sync pass writes to.
// Writes go through WriteAtomic exclusively, per spec.md §4.D step 5's
// scratch-path-then-rename requirement.
type Store interface {
	Read(path string) ([]byte, bool, error)
	WriteAtomic(path string, data []byte) error
	Remove(path string) error
	List(extensions []string) ([]string, error)
}

// Cache is the DerivedCache of spec.md §4.D.
type Cache struct {
	source  SourceSet
	derived Store
	workers int
	logger  *logging.Logger
}

// New constructs a Cache. A non-positive cfg.Workers resolves to
// runtime.GOMAXPROCS(0), matching spec.md §4.D's "bounded thread pool sized
// to the machine's parallelism".
func New(cfg config.DerivedCacheConfig, source SourceSet, derived Store, logger *logging.Logger) *Cache {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Cache{source: source, derived: derived, workers: workers, logger: logger}
}
