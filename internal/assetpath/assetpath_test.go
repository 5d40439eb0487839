package assetpath

import (
	"bufio"
	"strings"
	"testing"
)

func TestSortedDifferenceScenarios(t *testing.T) {
	cases := []struct {
		name string
		a, b []int
		want []int
	}{
		{"interleaved", []int{1, 3, 4, 6, 7}, []int{2, 3, 5, 7, 8}, []int{1, 4, 6}},
		{"disjoint", []int{1, 3, 5}, []int{2, 4, 6}, []int{1, 3, 5}},
		{"empty_b", []int{1, 2, 3}, []int{}, []int{1, 2, 3}},
		{"identical", []int{1, 2, 3}, []int{1, 2, 3}, []int{}},
	}

	var scratch []int
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SortedDifference(tc.a, tc.b, scratch)
			if len(got) != len(tc.want) {
				t.Fatalf("SortedDifference(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("SortedDifference(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
				}
			}
			scratch = got
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	cases := map[string]string{
		".BMP": ".bmp",
		"bmp":  ".bmp",
		".tga": ".tga",
		"PNG":  ".png",
	}
	for in, want := range cases {
		if got := NormalizeExtension(in); got != want {
			t.Errorf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseBGMMapping(t *testing.T) {
	input := `// comment line
prontera.rsw#bgm_prontera#
// another comment
geffen.rsw#bgm_geffen#extra_field_ignored
malformed_line_no_hash
`
	mapping, err := ParseBGMMapping(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ParseBGMMapping: %v", err)
	}

	if mapping["prontera.rsw"] != "bgm_prontera" {
		t.Errorf("prontera.rsw -> %q, want bgm_prontera", mapping["prontera.rsw"])
	}
	if mapping["geffen.rsw"] != "bgm_geffen" {
		t.Errorf("geffen.rsw -> %q, want bgm_geffen", mapping["geffen.rsw"])
	}
	if len(mapping) != 2 {
		t.Errorf("len(mapping) = %d, want 2", len(mapping))
	}
}

func TestTextureAndDerivedPaths(t *testing.T) {
	src := TextureSourcePath("foo.bmp")
	if !strings.HasPrefix(src, `data\texture\`) {
		t.Errorf("TextureSourcePath did not apply prefix: %q", src)
	}

	derived := DerivedTexturePath(src)
	if !strings.HasSuffix(derived, ".dds") || !strings.HasPrefix(derived, `textures\`) {
		t.Errorf("DerivedTexturePath malformed: %q", derived)
	}

	atlas := AtlasPath("prontera")
	if atlas != `atlas\prontera.kta` {
		t.Errorf("AtlasPath = %q, want atlas\\prontera.kta", atlas)
	}
}
