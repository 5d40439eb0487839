package texture

import (
	"image"
	"testing"
)

func solidBlockImage(width, height int, r, g, b, a byte) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4+0] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	return img
}

func TestBC7RoundTripSolidBlock(t *testing.T) {
	img := solidBlockImage(4, 4, 200, 100, 50, 255)
	compressed := compressBC7(img)
	if len(compressed) != blockSize {
		t.Fatalf("compressed size = %d, want %d", len(compressed), blockSize)
	}

	decoded := decompressBC7(compressed, 4, 4)
	for i := 0; i < 16; i++ {
		got := decoded.Pix[i*4 : i*4+4]
		// Mode 6 stores endpoints as 7 bits + implied zero p-bit, so a
		// solid color can lose up to 1 bit of precision per channel.
		if absDiff(got[0], 200) > 2 || absDiff(got[1], 100) > 2 || absDiff(got[2], 50) > 2 {
			t.Errorf("pixel %d = %v, want ~[200 100 50 255]", i, got)
		}
	}
}

func TestBC7RoundTripGradientBlock(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			idx := img.PixOffset(col, row)
			v := byte((row*4 + col) * 16)
			img.Pix[idx+0] = v
			img.Pix[idx+1] = v
			img.Pix[idx+2] = v
			img.Pix[idx+3] = 255
		}
	}

	compressed := compressBC7(img)
	decoded := decompressBC7(compressed, 4, 4)

	for i := 0; i < 16; i++ {
		want := byte(i * 16)
		got := decoded.Pix[i*4]
		if absDiff(got, want) > 12 {
			t.Errorf("pixel %d gray = %d, want close to %d", i, got, want)
		}
	}
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
