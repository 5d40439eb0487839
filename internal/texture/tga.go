package texture

import (
	"fmt"
	"image"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
)

// decodeTGA parses an uncompressed or RLE-compressed 24/32-bit TGA image.
// No library in the pack decodes TGA, so this is a hand-rolled parser of the
// 18-byte TGA header plus pixel data, following the format the original
// client's texture loader also hand-rolls for the same reason.
func decodeTGA(data []byte) (*image.NRGBA, bool, error) {
	if len(data) < 18 {
		return nil, false, fmt.Errorf("texture: tga: truncated header: %w", assetfs.ErrDecode)
	}

	idLength := int(data[0])
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bitsPerPixel := int(data[16])
	descriptor := data[17]

	if bitsPerPixel != 24 && bitsPerPixel != 32 {
		return nil, false, fmt.Errorf("texture: tga: unsupported bit depth %d: %w", bitsPerPixel, assetfs.ErrDecode)
	}

	offset := 18 + idLength
	bytesPerPixel := bitsPerPixel / 8

	pixels := make([]byte, width*height*bytesPerPixel)
	switch imageType {
	case 2: // uncompressed true-color
		need := offset + len(pixels)
		if need > len(data) {
			return nil, false, fmt.Errorf("texture: tga: truncated pixel data: %w", assetfs.ErrDecode)
		}
		copy(pixels, data[offset:need])
	case 10: // RLE true-color
		if err := decodeTGARLE(data[offset:], pixels, bytesPerPixel); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, fmt.Errorf("texture: tga: unsupported image type %d: %w", imageType, assetfs.ErrDecode)
	}

	// Bit 5 of the descriptor byte: 1 means the image is stored top-to-bottom.
	topDown := descriptor&0x20 != 0

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	transparent := false
	for row := 0; row < height; row++ {
		srcRow := row
		if !topDown {
			srcRow = height - 1 - row
		}
		for col := 0; col < width; col++ {
			srcIdx := (srcRow*width + col) * bytesPerPixel
			b, g, r := pixels[srcIdx], pixels[srcIdx+1], pixels[srcIdx+2]
			a := byte(255)
			if bytesPerPixel == 4 {
				a = pixels[srcIdx+3]
			}
			if a < 255 {
				transparent = true
			}
			dstIdx := img.PixOffset(col, row)
			img.Pix[dstIdx+0] = r
			img.Pix[dstIdx+1] = g
			img.Pix[dstIdx+2] = b
			img.Pix[dstIdx+3] = a
		}
	}

	premultiply(img)
	return img, transparent, nil
}

func decodeTGARLE(src, dst []byte, bytesPerPixel int) error {
	di := 0
	si := 0
	for di < len(dst) {
		if si >= len(src) {
			return fmt.Errorf("texture: tga: truncated rle stream: %w", assetfs.ErrDecode)
		}
		header := src[si]
		si++
		count := int(header&0x7F) + 1

		if header&0x80 != 0 {
			if si+bytesPerPixel > len(src) {
				return fmt.Errorf("texture: tga: truncated rle packet: %w", assetfs.ErrDecode)
			}
			pixel := src[si : si+bytesPerPixel]
			si += bytesPerPixel
			for i := 0; i < count && di < len(dst); i++ {
				copy(dst[di:di+bytesPerPixel], pixel)
				di += bytesPerPixel
			}
		} else {
			n := count * bytesPerPixel
			if si+n > len(src) {
				return fmt.Errorf("texture: tga: truncated raw packet: %w", assetfs.ErrDecode)
			}
			copy(dst[di:di+n], src[si:si+n])
			si += n
			di += n
		}
	}
	return nil
}
