package archive

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// packedMagic is the 16-byte signature every packed archive starts with.
var packedMagic = [16]byte{'K', 'O', 'R', 'A', 'N', 'G', 'A', 'R', 'P', 'A', 'C', 'K', 0, 0, 0, 0}

const (
	packedHeaderSize       = 16 + 4*4 // magic + file_table_offset + reserved + raw_file_count + version
	packedVersion          = 0x200
	packedReservedRowCount = 7
	rowRegularFileFlag     = 0x01
)

type packedRow struct {
	name             string
	compressedSize   uint32
	alignedSize      uint32
	uncompressedSize uint32
	flags            uint8
	offset           uint32
}

// PackedArchive is a read-only view over the bespoke compressed archive
// format of spec.md §6 "Packed archive": a 16-byte magic, a fixed header,
// a zlib-compressed file table, and per-file zlib-compressed (optionally
// encrypted) bodies.
//
// File IO is guarded by a single mutex: the bandwidth to the underlying
// handle is already shared, so parallel reads buy nothing (spec.md §4.A).
type PackedArchive struct {
	mu     sync.Mutex
	file   *os.File
	rows   map[string]packedRow
	path   string
}

// OpenPacked parses the header and file table of a packed archive at path.
func OpenPacked(path string) (*PackedArchive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", path, assetfs.ErrIO)
	}

	header := make([]byte, packedHeaderSize)
	if _, err := io.ReadFull(file, header); err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: read header of %s: %w", path, assetfs.ErrCorruptArchive)
	}

	if !bytes.Equal(header[:16], packedMagic[:]) {
		file.Close()
		return nil, fmt.Errorf("archive: %s has an invalid magic: %w", path, assetfs.ErrCorruptArchive)
	}

	fileTableOffset := binary.LittleEndian.Uint32(header[16:20])
	rawFileCount := binary.LittleEndian.Uint32(header[24:28])
	version := binary.LittleEndian.Uint32(header[28:32])

	if version != packedVersion {
		file.Close()
		return nil, fmt.Errorf("archive: %s has version 0x%x, want 0x%x: %w", path, version, packedVersion, assetfs.ErrCorruptArchive)
	}
	if rawFileCount < packedReservedRowCount {
		file.Close()
		return nil, fmt.Errorf("archive: %s has raw_file_count %d < %d: %w", path, rawFileCount, packedReservedRowCount, assetfs.ErrCorruptArchive)
	}
	fileCount := int(rawFileCount - packedReservedRowCount)

	if _, err := file.Seek(int64(fileTableOffset), io.SeekCurrent); err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: seek to file table in %s: %w", path, assetfs.ErrCorruptArchive)
	}

	tableHeader := make([]byte, 8)
	if _, err := io.ReadFull(file, tableHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: read file table header of %s: %w", path, assetfs.ErrCorruptArchive)
	}
	compressedSize := binary.LittleEndian.Uint32(tableHeader[0:4])
	uncompressedSize := binary.LittleEndian.Uint32(tableHeader[4:8])

	compressed := make([]byte, compressedSize)
	if _, err := io.ReadFull(file, compressed); err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: read compressed file table of %s: %w", path, assetfs.ErrCorruptArchive)
	}

	uncompressed, err := zlibInflate(compressed, int(uncompressedSize))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: inflate file table of %s: %w", path, assetfs.ErrCorruptArchive)
	}

	rows := make(map[string]packedRow, fileCount)
	reader := bytes.NewReader(uncompressed)
	for i := 0; i < fileCount; i++ {
		row, err := readPackedRow(reader)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("archive: parse row %d of %s: %w", i, path, assetfs.ErrCorruptArchive)
		}
		rows[strings.ToLower(row.name)] = row
	}

	return &PackedArchive{file: file, rows: rows, path: path}, nil
}

func readPackedRow(r *bytes.Reader) (packedRow, error) {
	name, err := readNullTerminated(r)
	if err != nil {
		return packedRow{}, err
	}

	var fixed [17]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return packedRow{}, err
	}

	return packedRow{
		name:             name,
		compressedSize:   binary.LittleEndian.Uint32(fixed[0:4]),
		alignedSize:      binary.LittleEndian.Uint32(fixed[4:8]),
		uncompressedSize: binary.LittleEndian.Uint32(fixed[8:12]),
		flags:            fixed[12],
		offset:           binary.LittleEndian.Uint32(fixed[13:17]),
	}, nil
}

func readNullTerminated(r *bytes.Reader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

func zlibInflate(data []byte, sizeHint int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := make([]byte, 0, sizeHint)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Exists reports whether the normalized path is present.
func (p *PackedArchive) Exists(path string) bool {
	_, ok := p.rows[strings.ToLower(path)]
	return ok
}

// Read returns the decoded bytes of the file at path.
func (p *PackedArchive) Read(path string) ([]byte, bool, error) {
	row, ok := p.rows[strings.ToLower(path)]
	if !ok {
		return nil, false, nil
	}

	compressed := make([]byte, row.alignedSize)

	p.mu.Lock()
	_, err := p.file.ReadAt(compressed, int64(row.offset)+packedHeaderSize)
	p.mu.Unlock()
	if err != nil {
		return nil, true, fmt.Errorf("archive: read body of %s: %w", path, assetfs.ErrIO)
	}

	decryptPackedBody(row, compressed)

	decompressed, err := zlibInflate(compressed, int(row.uncompressedSize))
	if err != nil {
		return nil, true, fmt.Errorf("archive: inflate body of %s: %w", path, assetfs.ErrDecode)
	}
	return decompressed, true, nil
}

// List returns every regular-file path whose extension matches.
func (p *PackedArchive) List(extensions []string) ([]string, error) {
	var out []string
	for name, row := range p.rows {
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

// HashInto hashes the raw archive file contents, matching the original's
// "hash the backing file handle" behavior.
func (p *PackedArchive) HashInto(hasher hash.Hash) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := io.Copy(hasher, p.file)
	return err
}

// Close releases the underlying file handle.
func (p *PackedArchive) Close() error {
	return p.file.Close()
}
