package texture

import "sync"

// VideoFrameSource supplies the current frame's texture for a video entry;
// TextureSet polls it once per Advance call so the consumer's descriptor set
// stays current without re-registering the entry.
type VideoFrameSource interface {
	CurrentFrameTexture() uint32
}

// Set is the consumer-facing TextureSet of spec.md §4.E: an ordered,
// append-only list of texture handles with a path->index lookup, used to
// build a bindless or array-bound descriptor set for a caller-supplied
// renderer.
type Set struct {
	mu      sync.Mutex
	order   []string
	index   map[string]int
	handles []*Handle
	videos  map[int]VideoFrameSource
}

// NewSet constructs an empty TextureSet.
func NewSet() *Set {
	return &Set{index: make(map[string]int), videos: make(map[int]VideoFrameSource)}
}

// Append adds handle under path, returning its stable index. Re-appending an
// already-registered path returns the existing index unchanged (append-only:
// indices never get reassigned or compacted).
func (s *Set) Append(path string, handle *Handle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.index[path]; ok {
		return idx
	}
	idx := len(s.handles)
	s.order = append(s.order, path)
	s.handles = append(s.handles, handle)
	s.index[path] = idx
	return idx
}

// AppendVideo registers a video entry whose current-frame texture is
// rewritten per frame by Advance, per spec.md §4.E: "videos... are wrapped
// so their current frame's texture participates in the set and is
// rewritten per frame."
func (s *Set) AppendVideo(path string, initial *Handle, source VideoFrameSource) int {
	idx := s.Append(path, initial)
	s.mu.Lock()
	s.videos[idx] = source
	s.mu.Unlock()
	return idx
}

// Advance refreshes every registered video entry's texture handle from its
// frame source, to be called once per render frame.
func (s *Set) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, source := range s.videos {
		s.handles[idx].GLTexture = source.CurrentFrameTexture()
	}
}

// Index returns path's stable index, if registered.
func (s *Set) Index(path string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.index[path]
	return idx, ok
}

// Handles returns the current ordered handle list. Callers must not retain
// a reference across a concurrent Append.
func (s *Set) Handles() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Len reports the number of registered entries.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}
