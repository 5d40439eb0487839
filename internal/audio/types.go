// Package audio implements the background-music, sound-effect, and spatial
// ambient-sound engine (spec.md §4.F-J), grounded on the control-plane
// design of korangar's audio crate and decoded with gopxl/beep.
package audio

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// SoundEffectKey identifies a registered, cacheable sound effect path. It is
// a generational key (Index plus Generation), and lookups check both. The
// slab has no removal operation, so slots are never reused and every key
// issued so far has Generation 0.
type SoundEffectKey struct {
	Index      uint32
	Generation uint32
}

// AmbientKey identifies a placed ambient-sound source in the current world.
// Ambient keys are dense (no generation check): clearing the world resets
// the whole slab at once, so there is nothing to reuse stale.
type AmbientKey struct {
	Index uint32
}

type soundEffectSlot struct {
	path       string
	generation uint32
	occupied   bool
}

// soundEffectSlab is a generational slab mapping SoundEffectKey -> path,
// mirroring korangar_util::container::GenerationalSlab.
type soundEffectSlab struct {
	mu    sync.Mutex
	slots []soundEffectSlot
	free  []uint32
}

func newSoundEffectSlab() *soundEffectSlab {
	return &soundEffectSlab{}
}

func (s *soundEffectSlab) insert(path string) SoundEffectKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx].path = path
		s.slots[idx].occupied = true
		return SoundEffectKey{Index: idx, Generation: s.slots[idx].generation}
	}

	idx := uint32(len(s.slots))
	s.slots = append(s.slots, soundEffectSlot{path: path, occupied: true})
	return SoundEffectKey{Index: idx, Generation: 0}
}

func (s *soundEffectSlab) get(key SoundEffectKey) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(key.Index) >= len(s.slots) {
		return "", false
	}
	slot := s.slots[key.Index]
	if !slot.occupied || slot.generation != key.Generation {
		return "", false
	}
	return slot.path, true
}

// ambientConfig is a dense slab entry for a placed ambient sound.
type ambientConfig struct {
	soundEffectKey SoundEffectKey
	position       mgl32.Vec3
	radius         float32
	volumeDB       float64
	cycle          float64 // seconds; 0 means "does not repeat automatically"
}

type ambientSlab struct {
	entries map[AmbientKey]ambientConfig
	next    uint32
}

func newAmbientSlab() *ambientSlab {
	return &ambientSlab{entries: make(map[AmbientKey]ambientConfig)}
}

func (a *ambientSlab) insert(cfg ambientConfig) AmbientKey {
	key := AmbientKey{Index: a.next}
	a.next++
	a.entries[key] = cfg
	return key
}

func (a *ambientSlab) clear() {
	a.entries = make(map[AmbientKey]ambientConfig)
	a.next = 0
}
