package archive

import (
	"path/filepath"
	"testing"
)

func TestPackedArchiveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pak")

	w := CreatePackedWritable(path)
	if err := w.Write("foo.txt", []byte("hello\n"), CompressionDefault); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := OpenPacked(path)
	if err != nil {
		t.Fatalf("OpenPacked: %v", err)
	}
	defer r.Close()

	if !r.Exists("FOO.TXT") {
		t.Fatalf("expected case-insensitive Exists(FOO.TXT) to be true")
	}

	data, ok, err := r.Read("FOO.TXT")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatalf("Read(FOO.TXT) missing")
	}
	if string(data) != "hello\n" {
		t.Fatalf("Read(FOO.TXT) = %q, want %q", data, "hello\n")
	}
}

func TestPackedArchiveMultiFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.pak")

	w := CreatePackedWritable(path)
	want := map[string]string{
		"a.txt": "first file",
		"b.txt": "second file, a bit longer than the first",
		"c.txt": "third",
	}
	// Insertion order matters here: only the first file sits at offset 0,
	// so later files only read back correctly if their own offset into the
	// payload is preserved across Save/OpenPacked.
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if err := w.Write(name, []byte(want[name]), CompressionDefault); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := OpenPacked(path)
	if err != nil {
		t.Fatalf("OpenPacked: %v", err)
	}
	defer r.Close()

	for name, contents := range want {
		data, ok, err := r.Read(name)
		if err != nil {
			t.Fatalf("Read(%s): %v", name, err)
		}
		if !ok {
			t.Fatalf("Read(%s): missing", name)
		}
		if string(data) != contents {
			t.Fatalf("Read(%s) = %q, want %q", name, data, contents)
		}
	}
}

func TestPackedArchiveListByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pak")

	w := CreatePackedWritable(path)
	_ = w.Write(`data\texture\a.bmp`, []byte{1, 2, 3}, CompressionDefault)
	_ = w.Write(`data\texture\b.png`, []byte{4, 5, 6}, CompressionDefault)
	_ = w.Write(`data\wav\c.wav`, []byte{7, 8, 9}, CompressionDefault)
	if err := w.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := OpenPacked(path)
	if err != nil {
		t.Fatalf("OpenPacked: %v", err)
	}
	defer r.Close()

	entries, err := r.List([]string{".bmp", ".png"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List(.bmp,.png) = %v, want 2 entries", entries)
	}
}

func TestPackedArchiveMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pak")

	w := CreatePackedWritable(path)
	if err := w.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r, err := OpenPacked(path)
	if err != nil {
		t.Fatalf("OpenPacked: %v", err)
	}
	defer r.Close()

	_, ok, err := r.Read("nope.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatalf("expected Read(nope.txt) to miss")
	}
}
