package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/jsummers/gobmp"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// decodeSource decodes a texture's source bytes per spec.md §4.E step 3: the
// format is inferred from the lower-cased extension, and each format applies
// its own transparency/premultiply convention.
//
// Grounded on original_source/korangar/src/loaders/gamefile/cache.rs's
// compress_image / texture_file_dds_name handling of .bmp/.jpg/.png/.tga.
func decodeSource(path string, data []byte) (img *image.NRGBA, transparent bool, err error) {
	ext := strings.ToLower(extOf(path))
	switch ext {
	case ".bmp":
		return decodeBMP(data)
	case ".png":
		return decodePNG(data)
	case ".jpg", ".jpeg":
		decoded, decErr := jpeg.Decode(bytes.NewReader(data))
		if decErr != nil {
			return nil, false, fmt.Errorf("texture: decode %s: %w: %v", path, assetfs.ErrDecode, decErr)
		}
		return toNRGBA(decoded), false, nil
	case ".tga":
		return decodeTGA(data)
	default:
		return nil, false, fmt.Errorf("texture: decode %s: unsupported extension: %w", path, assetfs.ErrDecode)
	}
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, src.At(x, y))
		}
	}
	return out
}

// decodeBMP applies the source-engine magenta transparency convention:
// pixels with (R>0xF0, G<0x10, B>0x0F) become fully transparent black.
func decodeBMP(data []byte) (*image.NRGBA, bool, error) {
	decoded, err := gobmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("texture: decode bmp: %w: %v", assetfs.ErrDecode, err)
	}
	img := toNRGBA(decoded)
	transparent := false
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		if r > 0xF0 && g < 0x10 && b > 0x0F {
			img.Pix[i+0] = 0
			img.Pix[i+1] = 0
			img.Pix[i+2] = 0
			img.Pix[i+3] = 0
			transparent = true
		}
	}
	return img, transparent, nil
}

// decodePNG premultiplies alpha into RGB and reports transparency if any
// pixel has alpha < 255, per spec.md §4.E step 3's ".png|.tga" rule.
func decodePNG(data []byte) (*image.NRGBA, bool, error) {
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("texture: decode png: %w: %v", assetfs.ErrDecode, err)
	}
	img := toNRGBA(decoded)
	transparent := premultiply(img)
	return img, transparent, nil
}

func premultiply(img *image.NRGBA) (transparent bool) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a < 255 {
			transparent = true
		}
		img.Pix[i+0] = byte(uint16(img.Pix[i+0]) * uint16(a) / 255)
		img.Pix[i+1] = byte(uint16(img.Pix[i+1]) * uint16(a) / 255)
		img.Pix[i+2] = byte(uint16(img.Pix[i+2]) * uint16(a) / 255)
	}
	return transparent
}
