package texture

import (
	"image"

	"golang.org/x/image/draw"
)

// cropToMultipleOfFour centers a crop down to the nearest multiple of four
// in each dimension, matching the original's crop_to_multiple_of_four (used
// before BC7 block compression, which requires 4x4-aligned dimensions).
func cropToMultipleOfFour(img *image.NRGBA) *image.NRGBA {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	newWidth := width - width%4
	newHeight := height - height%4
	if newWidth == width && newHeight == height {
		return img
	}
	if newWidth == 0 {
		newWidth = 4
	}
	if newHeight == 0 {
		newHeight = 4
	}
	xOffset := (width - newWidth) / 2
	yOffset := (height - newHeight) / 2

	out := image.NewNRGBA(image.Rect(0, 0, newWidth, newHeight))
	src := img.Bounds().Min.Add(image.Pt(xOffset, yOffset))
	draw.Draw(out, out.Bounds(), img, src, draw.Src)
	return out
}
