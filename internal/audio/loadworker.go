package audio

import (
	"fmt"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// Package-level async load plumbing (spec.md §4.G AudioLoadWorker):
// a path is resolved and decoded on a background goroutine, and the
// result is delivered back to the engine's single-threaded Update loop
// over a channel rather than touching engine state directly.

type loadResult struct {
	key    SoundEffectKey
	path   string
	effect *cachedSoundEffect
	err    error
}

// archiveReader is the narrow interface the load worker needs from the
// asset archive set: look up a sound-effect's bytes by full path.
type archiveReader interface {
	Read(path string) ([]byte, bool, error)
}

// spawnLoad decodes path in a new goroutine and reports the outcome on
// results. It never blocks the caller.
func spawnLoad(archives archiveReader, fullPath string, key SoundEffectKey, results chan<- loadResult) {
	go func() {
		data, ok, err := archives.Read(fullPath)
		if err != nil {
			results <- loadResult{key: key, path: fullPath, err: err}
			return
		}
		if !ok {
			results <- loadResult{key: key, path: fullPath, err: fmt.Errorf("audio: %s: %w", fullPath, assetfs.ErrNotFound)}
			return
		}

		effect, err := decodeSoundEffect(fullPath, data)
		if err != nil {
			results <- loadResult{key: key, path: fullPath, err: err}
			return
		}

		results <- loadResult{key: key, path: fullPath, effect: effect}
	}()
}

