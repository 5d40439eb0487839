package texture

import "testing"

type fakeFrameSource struct{ tex uint32 }

func (f *fakeFrameSource) CurrentFrameTexture() uint32 { return f.tex }

func TestSetAppendIsIdempotentPerPath(t *testing.T) {
	s := NewSet()
	h1 := &Handle{GLTexture: 1}
	h2 := &Handle{GLTexture: 2}

	idx1 := s.Append("data/texture/a.png", h1)
	idx2 := s.Append("data/texture/a.png", h2)
	if idx1 != idx2 {
		t.Fatalf("re-appending same path should return stable index, got %d and %d", idx1, idx2)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.Handles()[0].GLTexture != 1 {
		t.Error("re-append must not replace the original handle")
	}
}

func TestSetAdvanceRefreshesVideoFrames(t *testing.T) {
	s := NewSet()
	source := &fakeFrameSource{tex: 100}
	idx := s.AppendVideo("data/texture/video.avi", &Handle{GLTexture: 0}, source)

	source.tex = 200
	s.Advance()

	if got := s.Handles()[idx].GLTexture; got != 200 {
		t.Errorf("GLTexture after Advance = %d, want 200", got)
	}
}

func TestSetIndexLookup(t *testing.T) {
	s := NewSet()
	s.Append("data/texture/a.png", &Handle{})
	if _, ok := s.Index("data/texture/missing.png"); ok {
		t.Error("expected Index to report not-found for unregistered path")
	}
	if idx, ok := s.Index("data/texture/a.png"); !ok || idx != 0 {
		t.Errorf("Index = (%d, %v), want (0, true)", idx, ok)
	}
}
