package archive

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// PackedWritable holds an in-memory index while open; each Write appends
// compressed bytes and records a row, and Save serializes header + payload
// + compressed index (spec.md §4.A "Packed writable").
type PackedWritable struct {
	mu   sync.Mutex
	path string
	rows map[string]packedRow
	data []byte
}

// CreatePackedWritable starts a new, empty packed writable archive that will
// be serialized to path on Save/Close.
func CreatePackedWritable(path string) *PackedWritable {
	return &PackedWritable{
		path: path,
		rows: make(map[string]packedRow),
	}
}

// Exists reports whether path has been written in this session.
func (w *PackedWritable) Exists(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.rows[strings.ToLower(path)]
	return ok
}

// Read decompresses a previously written entry back out of the in-memory buffer.
func (w *PackedWritable) Read(path string) ([]byte, bool, error) {
	w.mu.Lock()
	row, ok := w.rows[strings.ToLower(path)]
	if !ok {
		w.mu.Unlock()
		return nil, false, nil
	}
	compressed := w.data[row.offset : row.offset+row.alignedSize]
	w.mu.Unlock()

	decompressed, err := zlibInflate(compressed, int(row.uncompressedSize))
	if err != nil {
		return nil, true, fmt.Errorf("archive: inflate %s: %w", path, assetfs.ErrDecode)
	}
	return decompressed, true, nil
}

// List returns every written path matching one of extensions.
func (w *PackedWritable) List(extensions []string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for name, row := range w.rows {
		if row.flags&rowRegularFileFlag == 0 {
			continue
		}
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// HashInto hashes every stored entry's compressed bytes in sorted-name order.
func (w *PackedWritable) HashInto(hasher hash.Hash) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, 0, len(w.rows))
	for name := range w.rows {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		row := w.rows[name]
		if _, err := hasher.Write(w.data[row.offset : row.offset+row.alignedSize]); err != nil {
			return err
		}
	}
	return nil
}

// Write zlib-compresses data (unless compression is CompressionOff, in which
// case it is stored verbatim) and appends it to the archive's payload.
func (w *PackedWritable) Write(path string, data []byte, compression Compression) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var body []byte
	if compression == CompressionOff {
		body = data
	} else {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		body = buf.Bytes()
	}

	row := packedRow{
		name:             path,
		compressedSize:   uint32(len(body)),
		alignedSize:      uint32(len(body)),
		uncompressedSize: uint32(len(data)),
		flags:            rowRegularFileFlag,
		offset:           uint32(len(w.data)),
	}

	w.data = append(w.data, body...)
	w.rows[strings.ToLower(path)] = row
	return nil
}

// Remove deletes a previously written entry from the index. The bytes it
// occupied stay in data: Save writes the payload as it is, so the space is
// not reclaimed.
func (w *PackedWritable) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.rows, strings.ToLower(path))
	return nil
}

// Save serializes header + payload + compressed file table to w.path.
func (w *PackedWritable) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out bytes.Buffer
	out.Write(packedMagic[:])

	var header [16]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(w.data)))
	binary.LittleEndian.PutUint32(header[4:8], 0)
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(w.rows))+packedReservedRowCount)
	binary.LittleEndian.PutUint32(header[12:16], packedVersion)
	out.Write(header[:])

	out.Write(w.data)

	var tableBuf bytes.Buffer
	names := make([]string, 0, len(w.rows))
	for name := range w.rows {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		row := w.rows[name]
		tableBuf.WriteString(row.name)
		tableBuf.WriteByte(0)
		var fixed [17]byte
		binary.LittleEndian.PutUint32(fixed[0:4], row.compressedSize)
		binary.LittleEndian.PutUint32(fixed[4:8], row.alignedSize)
		binary.LittleEndian.PutUint32(fixed[8:12], row.uncompressedSize)
		fixed[12] = row.flags
		binary.LittleEndian.PutUint32(fixed[13:17], row.offset)
		tableBuf.Write(fixed[:])
	}

	var compressedTable bytes.Buffer
	zw := zlib.NewWriter(&compressedTable)
	if _, err := zw.Write(tableBuf.Bytes()); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	var tableHeader [8]byte
	binary.LittleEndian.PutUint32(tableHeader[0:4], uint32(compressedTable.Len()))
	binary.LittleEndian.PutUint32(tableHeader[4:8], uint32(tableBuf.Len()))
	out.Write(tableHeader[:])
	out.Write(compressedTable.Bytes())

	return os.WriteFile(w.path, out.Bytes(), 0644)
}

// Close calls Save. Per spec.md §4.A, a finalize failure here is logged by
// the caller but cannot otherwise be propagated from a deferred Close.
func (w *PackedWritable) Close() error {
	return w.Save()
}
