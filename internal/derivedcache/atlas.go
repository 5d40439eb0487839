package derivedcache

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// atlasSignature and atlasVersion identify the .kta container format of
// spec.md §3/CachedTextureAtlas, grounded on
// original_source/korangar/src/loaders/cache/mod.rs's FromBytes/ToBytes.
var atlasSignature = [4]byte{'K', 'T', 'A', '1'}

const atlasVersion uint32 = 1

// LookupEntry maps a logical texture name inside an atlas to its allocation.
type LookupEntry struct {
	Name         string
	AllocationID uint32
	Transparent  bool
}

// AllocationEntry is one packed rectangle inside the atlas, in normalized
// [0,1] UV space.
type AllocationEntry struct {
	ID  uint32
	Min [2]float32
	Max [2]float32
}

// CachedTextureAtlas is the per-map texture atlas of spec.md §3: a name,
// dimensions, a mip count, the source hash it was built from, lookup and
// allocation tables, and a BC7-compressed payload.
type CachedTextureAtlas struct {
	Name        string
	Width       uint32
	Height      uint32
	MipCount    uint32
	SourceHash  [32]byte
	Lookup      []LookupEntry
	Allocations []AllocationEntry
	Payload     []byte
}

// ToBytes serializes the atlas to its on-disk .kta form.
func (a *CachedTextureAtlas) ToBytes() []byte {
	var buf bytes.Buffer
	buf.Write(atlasSignature[:])
	writeU32(&buf, atlasVersion)
	writeString(&buf, a.Name)
	writeU32(&buf, a.Width)
	writeU32(&buf, a.Height)
	writeU32(&buf, a.MipCount)
	buf.Write(a.SourceHash[:])

	writeU32(&buf, uint32(len(a.Lookup)))
	for _, entry := range a.Lookup {
		writeString(&buf, entry.Name)
		writeU32(&buf, entry.AllocationID)
		if entry.Transparent {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}

	writeU32(&buf, uint32(len(a.Allocations)))
	for _, entry := range a.Allocations {
		writeU32(&buf, entry.ID)
		binary.Write(&buf, binary.LittleEndian, entry.Min)
		binary.Write(&buf, binary.LittleEndian, entry.Max)
	}

	writeU32(&buf, uint32(len(a.Payload)))
	buf.Write(a.Payload)
	return buf.Bytes()
}

// AtlasFromBytes parses a .kta file, the inverse of ToBytes.
func AtlasFromBytes(data []byte) (*CachedTextureAtlas, error) {
	r := bytes.NewReader(data)

	var sig [4]byte
	if _, err := r.Read(sig[:]); err != nil || sig != atlasSignature {
		return nil, fmt.Errorf("derivedcache: atlas: bad signature: %w", assetfs.ErrCorruptArchive)
	}
	version, err := readU32(r)
	if err != nil || version != atlasVersion {
		return nil, fmt.Errorf("derivedcache: atlas: unsupported version %d: %w", version, assetfs.ErrCorruptArchive)
	}

	atlas := &CachedTextureAtlas{}
	if atlas.Name, err = readString(r); err != nil {
		return nil, atlasCorrupt(err)
	}
	if atlas.Width, err = readU32(r); err != nil {
		return nil, atlasCorrupt(err)
	}
	if atlas.Height, err = readU32(r); err != nil {
		return nil, atlasCorrupt(err)
	}
	if atlas.MipCount, err = readU32(r); err != nil {
		return nil, atlasCorrupt(err)
	}
	if _, err = r.Read(atlas.SourceHash[:]); err != nil {
		return nil, atlasCorrupt(err)
	}

	lookupCount, err := readU32(r)
	if err != nil {
		return nil, atlasCorrupt(err)
	}
	atlas.Lookup = make([]LookupEntry, lookupCount)
	for i := range atlas.Lookup {
		name, err := readString(r)
		if err != nil {
			return nil, atlasCorrupt(err)
		}
		allocationID, err := readU32(r)
		if err != nil {
			return nil, atlasCorrupt(err)
		}
		var transparentByte byte
		if transparentByte, err = readByte(r); err != nil {
			return nil, atlasCorrupt(err)
		}
		atlas.Lookup[i] = LookupEntry{Name: name, AllocationID: allocationID, Transparent: transparentByte != 0}
	}

	allocationCount, err := readU32(r)
	if err != nil {
		return nil, atlasCorrupt(err)
	}
	atlas.Allocations = make([]AllocationEntry, allocationCount)
	for i := range atlas.Allocations {
		id, err := readU32(r)
		if err != nil {
			return nil, atlasCorrupt(err)
		}
		var min, max [2]float32
		if err := binary.Read(r, binary.LittleEndian, &min); err != nil {
			return nil, atlasCorrupt(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &max); err != nil {
			return nil, atlasCorrupt(err)
		}
		atlas.Allocations[i] = AllocationEntry{ID: id, Min: min, Max: max}
	}

	payloadLen, err := readU32(r)
	if err != nil {
		return nil, atlasCorrupt(err)
	}
	atlas.Payload = make([]byte, payloadLen)
	if _, err := r.Read(atlas.Payload); err != nil {
		return nil, atlasCorrupt(err)
	}

	return atlas, nil
}

func atlasCorrupt(cause error) error {
	return fmt.Errorf("derivedcache: atlas: truncated or malformed: %w: %v", assetfs.ErrCorruptArchive, cause)
}

func writeU32(buf *bytes.Buffer, v uint32) {
	binary.Write(buf, binary.LittleEndian, v)
}

func readU32(r *bytes.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readByte(r *bytes.Reader) (byte, error) {
	return r.ReadByte()
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	length, err := readU32(r)
	if err != nil {
		return "", err
	}
	data := make([]byte, length)
	if _, err := r.Read(data); err != nil {
		return "", err
	}
	return string(data), nil
}
