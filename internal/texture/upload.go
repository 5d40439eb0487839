package texture

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glCompressedSRGBAlphaBPTCUnorm is GL_COMPRESSED_SRGB_ALPHA_BPTC_UNORM
// (0x8E8D), the BC7-sRGB compressed internal format from the
// ARB_texture_compression_bptc extension. The v4.1-core binding the teacher
// depends on predates the extension's core promotion, so the enum is named
// locally rather than pulled from the gl package.
const glCompressedSRGBAlphaBPTCUnorm = 0x8E8D

// uploadCompressed uploads a BC7-sRGB mip chain, adapting the teacher's
// renderer.createTextureFromImage upload sequence (GenTextures/BindTexture/
// TexParameteri) to glCompressedTexImage2D per level instead of a single
// uncompressed glTexImage2D + GenerateMipmap call.
func uploadCompressed(width, height, mipCount int, payload []byte) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	offset := 0
	w, h := width, height
	for level := 0; level < mipCount; level++ {
		blocksX := (w + 3) / 4
		blocksY := (h + 3) / 4
		size := blocksX * blocksY * blockSize
		gl.CompressedTexImage2D(gl.TEXTURE_2D, int32(level), glCompressedSRGBAlphaBPTCUnorm,
			int32(w), int32(h), 0, int32(size), gl.Ptr(payload[offset:offset+size]))
		offset += size
		w, h = max(1, w/2), max(1, h/2)
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return tex
}

// uploadUncompressed uploads an NRGBA image as a regular RGBA8 2D texture,
// letting the driver generate mips — the fallback path when the
// DerivedCache has no ready BC7 chain for this source image.
func uploadUncompressed(img *image.NRGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return tex
}

// uploadUncompressedNoMip uploads an RGBA8 texture without generating mips,
// for the MSDF variant (spec.md §4.E: "SDF and MSDF paths skip compression
// and mipping").
func uploadUncompressedNoMip(img *image.NRGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}

// uploadSingleChannel uploads an SDF variant as linear R8.
func uploadSingleChannel(pix []byte, width, height int) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(width), int32(height),
		0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}
