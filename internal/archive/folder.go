package archive

import (
	"fmt"
	"hash"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// FolderArchive is the loose-files-under-a-directory variant of spec.md
// §4.A: it uses the host filesystem directly and is always writable.
type FolderArchive struct {
	base string
}

// OpenFolder roots a FolderArchive at base, creating the directory if needed.
func OpenFolder(base string) (*FolderArchive, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("archive: create folder %s: %w", base, assetfs.ErrIO)
	}
	return &FolderArchive{base: base}, nil
}

func (f *FolderArchive) hostPath(path string) string {
	return filepath.Join(f.base, filepath.FromSlash(strings.ReplaceAll(path, `\`, "/")))
}

// Exists reports whether the host file is present.
func (f *FolderArchive) Exists(path string) bool {
	_, err := os.Stat(f.hostPath(path))
	return err == nil
}

// Read opens the host file.
func (f *FolderArchive) Read(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.hostPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("archive: read %s: %w", path, assetfs.ErrIO)
	}
	return data, true, nil
}

// Write writes the host file, creating parent directories as needed.
// compression is ignored: the host filesystem has no per-file codec.
func (f *FolderArchive) Write(path string, data []byte, _ Compression) error {
	full := f.hostPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("archive: mkdir for %s: %w", path, assetfs.ErrIO)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("archive: write %s: %w", path, assetfs.ErrIO)
	}
	return nil
}

// WriteAtomic writes data to a scratch file beside the target and renames it
// into place, so a crash or cancellation never leaves a partially written
// file at path (spec.md §4.D: "writes go to a scratch path and are renamed
// only on pass completion").
func (f *FolderArchive) WriteAtomic(path string, data []byte) error {
	full := f.hostPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("archive: mkdir for %s: %w", path, assetfs.ErrIO)
	}
	scratch := full + ".tmp"
	if err := os.WriteFile(scratch, data, 0644); err != nil {
		return fmt.Errorf("archive: write scratch for %s: %w", path, assetfs.ErrIO)
	}
	if err := os.Rename(scratch, full); err != nil {
		return fmt.Errorf("archive: rename scratch for %s: %w", path, assetfs.ErrIO)
	}
	return nil
}

// BaseDir returns the host directory this archive is rooted at.
func (f *FolderArchive) BaseDir() string { return f.base }

// Remove deletes the host file; removing a missing file is not an error.
func (f *FolderArchive) Remove(path string) error {
	err := os.Remove(f.hostPath(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("archive: remove %s: %w", path, assetfs.ErrIO)
	}
	return nil
}

// List walks the directory, returning paths (backslash-separated, relative
// to base) whose extension matches.
func (f *FolderArchive) List(extensions []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(f.base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(p)
		for _, ext := range extensions {
			if strings.HasSuffix(lower, ext) {
				rel, relErr := filepath.Rel(f.base, p)
				if relErr != nil {
					return relErr
				}
				out = append(out, strings.ReplaceAll(rel, string(filepath.Separator), `\`))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("archive: list folder %s: %w", f.base, assetfs.ErrIO)
	}
	sort.Strings(out)
	return out, nil
}

// HashInto hashes every file in sorted order.
func (f *FolderArchive) HashInto(hasher hash.Hash) error {
	paths, err := f.List([]string{""})
	if err != nil {
		return err
	}
	for _, p := range paths {
		data, ok, err := f.Read(p)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := hasher.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Save is a no-op: the host filesystem has no buffered state to flush.
func (f *FolderArchive) Save() error { return nil }

// Close is a no-op.
func (f *FolderArchive) Close() error { return nil }
