package texture

import "image"

// BuildResult is the output of one DerivedCache texture regeneration unit
// (spec.md §4.D step 4): a decoded, cropped, mipped, BC7-compressed payload
// plus the flags the DDS container records.
type BuildResult struct {
	Width       int
	Height      int
	MipCount    int
	Transparent bool
	Payload     []byte
}

// MinCroppableDimension is the threshold below which a source image is too
// small to crop, per spec.md §4.D: "Freshness check for textures that are
// too small to crop (width<48 or height<48 and not already a multiple of 4)
// is skipped and the uncompressed path is used at load time instead."
const MinCroppableDimension = 48

// TooSmallToCrop reports whether (width, height) falls under the
// DerivedCache's crop threshold, per MinCroppableDimension's doc comment.
func TooSmallToCrop(width, height int) bool {
	tooSmall := width < MinCroppableDimension || height < MinCroppableDimension
	alreadyAligned := width%4 == 0 && height%4 == 0
	return tooSmall && !alreadyAligned
}

// CropToMultipleOfFour exposes cropToMultipleOfFour for atlas packers that
// need 4x4-aligned tiles before compositing them into a shared canvas.
func CropToMultipleOfFour(img *image.NRGBA) *image.NRGBA {
	return cropToMultipleOfFour(img)
}

// DecodeSourceRGBA exposes decodeSource for the DerivedCache sync pass,
// which needs the same decode/transparency rules TextureLoader uses at
// load time to keep both paths in agreement.
func DecodeSourceRGBA(path string, data []byte) (*image.NRGBA, bool, error) {
	return decodeSource(path, data)
}

// BuildDerivedTexture runs spec.md §4.D step 4's regeneration pipeline on an
// already-decoded source image: crop to a multiple of four (centered),
// generate a Lanczos-3 mip chain, and BC7-compress every level.
func BuildDerivedTexture(img *image.NRGBA, transparent bool) BuildResult {
	cropped := cropToMultipleOfFour(img)
	width, height := cropped.Bounds().Dx(), cropped.Bounds().Dy()
	mipCount := int(CalculateValidMipLevelCount(uint32(width), uint32(height)))
	levels := generateMipChain(cropped, mipCount)

	var payload []byte
	for _, level := range levels {
		payload = append(payload, compressBC7(level)...)
	}
	return BuildResult{Width: width, Height: height, MipCount: mipCount, Transparent: transparent, Payload: payload}
}

// EncodeDerivedDDS wraps a BuildResult into the on-disk DDS container
// (spec.md §4.D: "textures/<path>.dds").
func EncodeDerivedDDS(result BuildResult) []byte {
	return encodeDDS(result.Width, result.Height, result.MipCount, result.Transparent, result.Payload)
}
