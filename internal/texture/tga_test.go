package texture

import "testing"

// buildTGA assembles a minimal uncompressed 24-bit TGA: a 2x1 image, bottom-up.
func buildTGA(t *testing.T) []byte {
	t.Helper()
	header := make([]byte, 18)
	header[2] = 2 // uncompressed true-color
	header[12], header[13] = 2, 0
	header[14], header[15] = 1, 0
	header[16] = 24
	header[17] = 0 // bit 5 clear: bottom-up

	pixels := []byte{
		10, 20, 30, // pixel 0: B,G,R
		40, 50, 60, // pixel 1: B,G,R
	}
	return append(header, pixels...)
}

func TestDecodeTGAUncompressed(t *testing.T) {
	img, transparent, err := decodeTGA(buildTGA(t))
	if err != nil {
		t.Fatalf("decodeTGA: %v", err)
	}
	if transparent {
		t.Error("24-bit TGA has no alpha channel, expected transparent = false")
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("dims = %dx%d, want 2x1", img.Bounds().Dx(), img.Bounds().Dy())
	}
	idx := img.PixOffset(0, 0)
	if img.Pix[idx] != 30 || img.Pix[idx+1] != 20 || img.Pix[idx+2] != 10 {
		t.Errorf("pixel 0 = %v, want [30 20 10 255]", img.Pix[idx:idx+4])
	}
}

func TestDecodeTGARejectsTruncatedHeader(t *testing.T) {
	if _, _, err := decodeTGA(make([]byte, 10)); err == nil {
		t.Fatal("expected error for truncated header")
	}
}
