// Package archive implements the Archive and ArchiveSet components of
// spec.md §4.A/§4.B: a polyglot filesystem over a compressed packed
// archive format, loose folders, and an ordered read overlay with a
// single designated writable target.
package archive

import "hash"

// Compression selects how a writable archive stores a newly written file.
type Compression int

const (
	// CompressionDefault lets the archive pick its usual codec (zlib/lzma2).
	CompressionDefault Compression = iota
	// CompressionOff stores the bytes verbatim, for payloads that are
	// already compressed (e.g. block-compressed DDS textures).
	CompressionOff
)

// Archive is the read-only surface every backing store exposes.
type Archive interface {
	// Exists reports whether a normalized path is present.
	Exists(path string) bool
	// Read returns the bytes stored at path, or ok==false if absent.
	Read(path string) (data []byte, ok bool, err error)
	// List returns every stored path whose extension is in extensions
	// (each a lower-cased, dot-prefixed suffix like ".bmp").
	List(extensions []string) ([]string, error)
	// HashInto feeds the archive's content into hasher, in a stable order.
	HashInto(hasher hash.Hash) error
}

// Writable is implemented by archives that additionally accept mutation.
type Writable interface {
	Archive
	// Write stores data at path. compression is a hint; Folder archives
	// ignore it (the host filesystem has no per-file compression).
	Write(path string, data []byte, compression Compression) error
	// Remove deletes path if present; removing a missing path is not an error.
	Remove(path string) error
	// Save flushes any in-memory state to the backing store. Folder
	// archives implement it as a no-op; PackedWritable serializes its
	// index and payload.
	Save() error
	// Close finalizes the archive, calling Save implicitly for archives
	// that buffer writes in memory. Errors are logged by callers per
	// spec.md §4.A ("if finalize fails, the error is logged but cannot
	// be propagated") since Close typically runs from a defer/drop path.
	Close() error
}
