package texture

import "testing"

func TestCropToMultipleOfFour(t *testing.T) {
	img := solidBlockImage(10, 6, 1, 2, 3, 255)
	cropped := cropToMultipleOfFour(img)
	if cropped.Bounds().Dx()%4 != 0 || cropped.Bounds().Dy()%4 != 0 {
		t.Fatalf("dims = %dx%d, want multiples of 4", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
	if cropped.Bounds().Dx() != 8 || cropped.Bounds().Dy() != 4 {
		t.Errorf("dims = %dx%d, want 8x4", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropToMultipleOfFourAlreadyAligned(t *testing.T) {
	img := solidBlockImage(8, 8, 1, 2, 3, 255)
	if cropToMultipleOfFour(img) != img {
		t.Error("expected already-aligned image to be returned unchanged")
	}
}

func TestGenerateMipChainHalvesEachLevel(t *testing.T) {
	base := solidBlockImage(8, 8, 50, 60, 70, 255)
	levels := generateMipChain(base, 3)
	if len(levels) != 3 {
		t.Fatalf("len(levels) = %d, want 3", len(levels))
	}
	wantDims := [][2]int{{8, 8}, {4, 4}, {2, 2}}
	for i, level := range levels {
		if level.Bounds().Dx() != wantDims[i][0] || level.Bounds().Dy() != wantDims[i][1] {
			t.Errorf("level %d dims = %dx%d, want %dx%d", i, level.Bounds().Dx(), level.Bounds().Dy(), wantDims[i][0], wantDims[i][1])
		}
	}
}
