package derivedcache

import (
	"hash"
	"sort"
	"strings"
	"sync"

	"github.com/vE5li/korangar-sub004/internal/assetpath"
)

// fakeSource is an in-memory SourceSet for tests.
type fakeSource struct {
	files map[string][]byte
}

func newFakeSource() *fakeSource { return &fakeSource{files: make(map[string][]byte)} }

func (f *fakeSource) put(path string, data []byte) { f.files[assetpath.Normalize(path)] = data }

func (f *fakeSource) Read(path string) ([]byte, bool, error) {
	data, ok := f.files[assetpath.Normalize(path)]
	return data, ok, nil
}

func (f *fakeSource) List(extensions []string) ([]string, error) {
	var out []string
	for path := range f.files {
		for _, ext := range extensions {
			if strings.HasSuffix(path, ext) {
				out = append(out, path)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeSource) HashInto(hasher hash.Hash) error {
	paths, _ := f.List([]string{""})
	for _, p := range paths {
		hasher.Write(f.files[p])
	}
	return nil
}

// fakeStore is an in-memory Store (derived-cache folder) for tests.
type fakeStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{files: make(map[string][]byte)} }

func (s *fakeStore) Read(path string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[assetpath.Normalize(path)]
	return data, ok, nil
}

func (s *fakeStore) WriteAtomic(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.files[assetpath.Normalize(path)] = cp
	return nil
}

func (s *fakeStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, assetpath.Normalize(path))
	return nil
}

func (s *fakeStore) List(extensions []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for path := range s.files {
		for _, ext := range extensions {
			if strings.HasSuffix(path, ext) {
				out = append(out, path)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
