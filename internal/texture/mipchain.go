package texture

import (
	"image"

	"github.com/nfnt/resize"
)

// generateMipChain builds mipCount-1 additional levels below the full-size
// base image using Lanczos-3 resampling, each level reading the previous
// one (spec.md §4.E step 5: "each pass reads level i and writes level
// i+1"). The original does this on the GPU; CPU-side Lanczos-3 via
// nfnt/resize is the pack's only resampling library, so mip generation for
// the DerivedCache sync pass runs on the CPU instead (see DESIGN.md).
func generateMipChain(base *image.NRGBA, mipCount int) []*image.NRGBA {
	levels := make([]*image.NRGBA, mipCount)
	levels[0] = base
	for i := 1; i < mipCount; i++ {
		prev := levels[i-1]
		width := uint(prev.Bounds().Dx() / 2)
		height := uint(prev.Bounds().Dy() / 2)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		resized := resize.Resize(width, height, prev, resize.Lanczos3)
		levels[i] = toNRGBA(resized)
	}
	return levels
}
