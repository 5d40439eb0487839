package texture

import (
	"encoding/binary"
	"fmt"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// DDS container layout: 4-byte magic, a 124-byte DDS_HEADER, a 20-byte
// DDS_HEADER_DXT10 extension (the pixel format's fourCC is always "DX10"),
// then the block-compressed payload. Grounded on the ddsfile crate's use in
// original_source/korangar/src/loaders/gamefile/cache.rs (Dds::new_dxgi
// with DxgiFormat::BC7_UNorm_sRGB and an AlphaMode storing the transparency
// flag).
const (
	ddsMagic        = "DDS "
	ddsHeaderSize   = 124
	ddsPixelFmtSize = 32
	ddsDX10Size     = 20

	dxgiFormatBC7UnormSRGB = 99

	ddsAlphaModeStraight      = 1
	ddsAlphaModePreMultiplied = 2
)

// encodeDDS serializes a BC7-sRGB-compressed mip chain into a DDS container,
// appending nothing of its own — the trailing 32-byte source hash (spec.md
// §4.D) is appended by the caller (derivedcache), matching the original's
// "write the DDS, then append the hash" sequence.
func encodeDDS(width, height, mipCount int, transparent bool, payload []byte) []byte {
	buf := make([]byte, 0, 4+ddsHeaderSize+ddsDX10Size+len(payload))
	buf = append(buf, []byte(ddsMagic)...)

	header := make([]byte, ddsHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], ddsHeaderSize)
	binary.LittleEndian.PutUint32(header[4:8], 0x1|0x2|0x4|0x1000) // CAPS|HEIGHT|WIDTH|PIXELFORMAT
	binary.LittleEndian.PutUint32(header[8:12], uint32(height))
	binary.LittleEndian.PutUint32(header[12:16], uint32(width))
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[24:28], uint32(mipCount))

	pf := header[72:104]
	binary.LittleEndian.PutUint32(pf[0:4], ddsPixelFmtSize)
	binary.LittleEndian.PutUint32(pf[4:8], 0x4) // DDPF_FOURCC
	copy(pf[8:12], []byte("DX10"))

	binary.LittleEndian.PutUint32(header[104:108], 0x1000) // DDSCAPS_TEXTURE
	buf = append(buf, header...)

	dx10 := make([]byte, ddsDX10Size)
	binary.LittleEndian.PutUint32(dx10[0:4], dxgiFormatBC7UnormSRGB)
	binary.LittleEndian.PutUint32(dx10[4:8], 3) // D3D10_RESOURCE_DIMENSION_TEXTURE2D
	binary.LittleEndian.PutUint32(dx10[12:16], 1)
	alphaMode := uint32(ddsAlphaModeStraight)
	if transparent {
		alphaMode = ddsAlphaModePreMultiplied
	}
	binary.LittleEndian.PutUint32(dx10[16:20], alphaMode)
	buf = append(buf, dx10...)

	buf = append(buf, payload...)
	return buf
}

// ddsInfo is the parsed header of a compressed texture file.
type ddsInfo struct {
	Width       int
	Height      int
	MipCount    int
	Transparent bool
	Payload     []byte
}

// parseDDS validates the magic and format and slices out the compressed
// payload, per spec.md §4.E step 2 ("parse the DDS header, validate
// magic/format, compute required payload size from mip count and block
// layout, slice the payload").
func parseDDS(data []byte) (*ddsInfo, error) {
	const headerTotal = 4 + ddsHeaderSize + ddsDX10Size
	if len(data) < headerTotal {
		return nil, fmt.Errorf("texture: dds: truncated header: %w", assetfs.ErrCorruptArchive)
	}
	if string(data[0:4]) != ddsMagic {
		return nil, fmt.Errorf("texture: dds: bad magic: %w", assetfs.ErrCorruptArchive)
	}

	header := data[4 : 4+ddsHeaderSize]
	height := int(binary.LittleEndian.Uint32(header[8:12]))
	width := int(binary.LittleEndian.Uint32(header[12:16]))
	mipCount := int(binary.LittleEndian.Uint32(header[24:28]))

	pf := header[72:104]
	if string(pf[8:12]) != "DX10" {
		return nil, fmt.Errorf("texture: dds: expected DX10 extension: %w", assetfs.ErrCorruptArchive)
	}

	dx10 := data[4+ddsHeaderSize : 4+ddsHeaderSize+ddsDX10Size]
	format := binary.LittleEndian.Uint32(dx10[0:4])
	if format != dxgiFormatBC7UnormSRGB {
		return nil, fmt.Errorf("texture: dds: unsupported dxgi format %d: %w", format, assetfs.ErrCorruptArchive)
	}
	alphaMode := binary.LittleEndian.Uint32(dx10[16:20])

	payloadSize := 0
	w, h := width, height
	for i := 0; i < mipCount; i++ {
		blocksX := (w + 3) / 4
		blocksY := (h + 3) / 4
		payloadSize += blocksX * blocksY * blockSize
		w = max(1, w/2)
		h = max(1, h/2)
	}

	payload := data[headerTotal:]
	if len(payload) < payloadSize {
		return nil, fmt.Errorf("texture: dds: truncated payload: %w", assetfs.ErrCorruptArchive)
	}

	return &ddsInfo{
		Width:       width,
		Height:      height,
		MipCount:    mipCount,
		Transparent: alphaMode == ddsAlphaModePreMultiplied,
		Payload:     payload[:payloadSize],
	}, nil
}
