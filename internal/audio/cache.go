package audio

import "github.com/vE5li/korangar-sub004/internal/cache"

// cachedSoundEffect holds fully decoded PCM samples for a loaded sound
// effect. Its cost is the raw sample memory, in the style of the original's
// `frames.len() * size_of::<Frame>()`; here a frame is a [2]float64, so
// 16 bytes/frame.
type cachedSoundEffect struct {
	samples    [][2]float64
	sampleRate int
}

const bytesPerFrame = 16 // [2]float64

func (c *cachedSoundEffect) CostBytes() int {
	return len(c.samples) * bytesPerFrame
}

// effectCache is the bounded cache of fully decoded sound effects
// (spec.md §4.F).
type effectCache struct {
	*cache.Bounded[SoundEffectKey, *cachedSoundEffect]
}

func newEffectCache(maxEntries, maxBytes int) (*effectCache, error) {
	b, err := cache.New[SoundEffectKey, *cachedSoundEffect](maxEntries, maxBytes)
	if err != nil {
		return nil, err
	}
	return &effectCache{b}, nil
}
