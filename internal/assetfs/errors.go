// Package assetfs defines the error kinds shared by the archive, cache, and
// texture packages.
package assetfs

import "errors"

// Sentinel error kinds per spec.md §7. Wrap with fmt.Errorf("...: %w", Kind)
// and unwrap with errors.Is.
var (
	// ErrNotFound is returned when a path is missing from an Archive or ArchiveSet.
	ErrNotFound = errors.New("assetfs: not found")
	// ErrDecode is returned when an image or audio decoder rejects the bytes.
	ErrDecode = errors.New("assetfs: decode failed")
	// ErrCorruptArchive is returned when a header or file table violates its format.
	ErrCorruptArchive = errors.New("assetfs: corrupt archive")
	// ErrOversized is returned by BoundedCache.Insert when a value exceeds max bytes.
	ErrOversized = errors.New("assetfs: value exceeds cache byte budget")
	// ErrIO wraps a failure from the backing host filesystem.
	ErrIO = errors.New("assetfs: io error")
	// ErrShutdownRequested is returned when a sync pass observes the shutdown flag.
	ErrShutdownRequested = errors.New("assetfs: shutdown requested")
)
