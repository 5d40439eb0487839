package archive

import (
	"path/filepath"
	"testing"
)

func TestFolderArchiveWriteReadRemove(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFolder(dir)
	if err != nil {
		t.Fatalf("OpenFolder: %v", err)
	}

	if err := f.Write(`data\texture\a.bmp`, []byte("pixels"), CompressionDefault); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !f.Exists(`data\texture\a.bmp`) {
		t.Fatalf("expected file to exist after Write")
	}

	data, ok, err := f.Read(`data\texture\a.bmp`)
	if err != nil || !ok {
		t.Fatalf("Read: data=%v ok=%v err=%v", data, ok, err)
	}
	if string(data) != "pixels" {
		t.Fatalf("Read = %q, want pixels", data)
	}

	if err := f.Remove(`data\texture\a.bmp`); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if f.Exists(`data\texture\a.bmp`) {
		t.Fatalf("expected file to be gone after Remove")
	}

	// Removing an already-missing file is not an error.
	if err := f.Remove(`data\texture\a.bmp`); err != nil {
		t.Fatalf("Remove of missing file returned error: %v", err)
	}
}

func TestFolderArchiveList(t *testing.T) {
	dir := t.TempDir()
	f, _ := OpenFolder(dir)

	_ = f.Write(`data\texture\a.bmp`, []byte{1}, CompressionDefault)
	_ = f.Write(`data\texture\b.png`, []byte{2}, CompressionDefault)
	_ = f.Write(`data\wav\c.wav`, []byte{3}, CompressionDefault)

	entries, err := f.List([]string{".bmp", ".png"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List(.bmp,.png) = %v, want 2 entries", entries)
	}

	// hostPath must map backslash-separated logical paths to host separators.
	hp := f.hostPath(`data\texture\a.bmp`)
	want := filepath.Join(dir, "data", "texture", "a.bmp")
	if hp != want {
		t.Fatalf("hostPath = %q, want %q", hp, want)
	}
}
