package texture

import "testing"

// Scenario C of spec.md §8, cross-checked against the mip-count formula of
// spec.md §4.E step 4 and the round-trip invariant of §8 property 9. Two of
// the scenario's literal numbers for non-power-of-two inputs do not survive
// that cross-check (see DESIGN.md "Mip-count scenario discrepancy"); the
// values asserted below are the ones produced by the formula as written,
// which is also what property 9 requires of every case.
func TestCalculateValidMipLevelCount(t *testing.T) {
	cases := []struct {
		width, height uint32
		want          uint32
	}{
		{256, 256, 7}, // 256,128,64,32,16,8,4 -> 7 levels
		{48, 48, 3},   // 48,24,12 valid; 6 is not a multiple of 4
		{3, 256, 1},   // width < 4 at level 0: clamped to minimum of 1
		{8, 16, 2},    // 8,16 valid; 4,8 valid; 2,4 invalid (2 < 4)
	}

	for _, tc := range cases {
		got := CalculateValidMipLevelCount(tc.width, tc.height)
		if got != tc.want {
			t.Errorf("CalculateValidMipLevelCount(%d, %d) = %d, want %d", tc.width, tc.height, got, tc.want)
		}
	}
}

func TestCalculateValidMipLevelCountInvariant(t *testing.T) {
	// Property 9: for every produced level i < count, w>>i and h>>i are
	// each >= 4 and a multiple of 4; the next level violates one of those.
	// A size whose level 0 already fails these checks gets the minimum of 1.
	sizes := [][2]uint32{{256, 256}, {48, 48}, {8, 16}, {512, 1}, {4, 4}, {3, 256}}

	for _, size := range sizes {
		w, h := size[0], size[1]
		count := CalculateValidMipLevelCount(w, h)

		if w < 4 || h < 4 || w%4 != 0 || h%4 != 0 {
			if count != 1 {
				t.Errorf("size (%d,%d): count = %d, want the minimum of 1", w, h, count)
			}
			continue
		}

		for i := uint32(0); i < count; i++ {
			lw, lh := w>>i, h>>i
			if lw < 4 || lh < 4 || lw%4 != 0 || lh%4 != 0 {
				t.Errorf("size (%d,%d): level %d (%d,%d) violates the mip invariant within count=%d", w, h, i, lw, lh, count)
			}
		}

		nw, nh := w>>count, h>>count
		if count < 32 && (nw >= 4 && nh >= 4 && nw%4 == 0 && nh%4 == 0) && nw > 0 {
			t.Errorf("size (%d,%d): level %d (%d,%d) should have violated the invariant but didn't", w, h, count, nw, nh)
		}
	}
}
