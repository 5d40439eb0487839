package audio

import "time"

// queuedKind distinguishes what a pending, not-yet-decoded sound effect
// should do once its decode finishes (spec.md §4.H PlayQueue).
type queuedKind int

const (
	queuedPlain queuedKind = iota
	queuedSpatial
	queuedAmbient
)

type queuedSoundEffect struct {
	key        SoundEffectKey
	kind       queuedKind
	position   [3]float32
	radius     float32
	ambientKey AmbientKey
	queuedAt   time.Time
}

// playQueue holds sound effects that were requested before their data
// finished loading. Entries older than maxQueueTime are dropped silently:
// spec.md §4.H treats a stale request as "the moment has passed".
type playQueue struct {
	entries      []queuedSoundEffect
	maxQueueTime time.Duration
}

func newPlayQueue(maxQueueTime time.Duration) *playQueue {
	return &playQueue{maxQueueTime: maxQueueTime}
}

func (q *playQueue) push(e queuedSoundEffect) {
	q.entries = append(q.entries, e)
}

// drain removes every queued effect whose data is now available (per get)
// or that has expired, invoking onReady for the former. Entries whose data
// is still not ready are kept for the next call.
func (q *playQueue) drain(now time.Time, get func(SoundEffectKey) (*cachedSoundEffect, bool), onReady func(queuedSoundEffect, *cachedSoundEffect)) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if now.Sub(e.queuedAt) > q.maxQueueTime {
			continue
		}
		effect, ok := get(e.key)
		if !ok {
			kept = append(kept, e)
			continue
		}
		onReady(e, effect)
	}
	q.entries = kept
}
