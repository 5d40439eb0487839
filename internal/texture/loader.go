// Package texture implements the TextureLoader component of spec.md §4.E:
// decode, premultiply, mip-generate, block-compress, and upload textures,
// negotiating the compressed path against the DerivedCache.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
	"github.com/vE5li/korangar-sub004/internal/assetpath"
	"github.com/vE5li/korangar-sub004/internal/cache"
	"github.com/vE5li/korangar-sub004/internal/config"
	"github.com/vE5li/korangar-sub004/internal/logging"
)

// ArchiveReader is the subset of archive.Set the loader needs: read source
// bytes and read derived (DerivedCache) bytes.
type ArchiveReader interface {
	Read(path string) ([]byte, bool, error)
}

// Capabilities mirrors config.TextureConfig's capability flags.
type Capabilities struct {
	BindlessSupport    bool
	CompressedSupport  bool
	MaxBindingArraySze int
}

// Loader is the TextureLoader of spec.md §4.E.
type Loader struct {
	archives ArchiveReader
	derived  ArchiveReader
	caps     Capabilities
	logger   *logging.Logger
	cache    *cache.Bounded[Key, *Handle]
}

// New constructs a Loader bounded by cfg's entry/byte budget.
func New(cfg config.TextureConfig, archives, derived ArchiveReader, logger *logging.Logger) (*Loader, error) {
	c, err := cache.New[Key, *Handle](cfg.MaxEntries, cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	return &Loader{
		archives: archives,
		derived:  derived,
		caps: Capabilities{
			BindlessSupport:    cfg.BindlessSupport,
			CompressedSupport:  cfg.CompressedSupport,
			MaxBindingArraySze: cfg.MaxBindingArraySze,
		},
		logger: logger,
		cache:  c,
	}, nil
}

// Load resolves a (path, variant) texture, following spec.md §4.E's
// six-step algorithm: cache hit, compressed DerivedCache hit, raw decode
// fallback, mip-count computation, level-0 upload, cache and return. The
// uncompressed color path lets the driver build the mips (gl.GenerateMipmap);
// no Lanczos-3 pass runs at load time.
func (l *Loader) Load(path string, variant Variant) (*Handle, error) {
	key := Key{Path: path, Variant: variant}
	if handle, ok := l.cache.Get(key); ok {
		return handle, nil
	}

	if variant == VariantColor && l.caps.CompressedSupport {
		if handle, ok, err := l.loadCompressed(path); err != nil {
			return nil, err
		} else if ok {
			if insertErr := l.cache.Insert(key, handle); insertErr != nil {
				l.logger.Warn("texture", "cache insert rejected", map[string]interface{}{"path": path, "error": insertErr.Error()})
			}
			return handle, nil
		}
	}

	data, ok, err := l.archives.Read(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("texture: %s: %w", path, assetfs.ErrNotFound)
	}

	var handle *Handle
	switch variant {
	case VariantSdf:
		handle, err = l.loadSingleChannel(path, data)
	case VariantMsdf:
		handle, err = l.loadMultiChannel(path, data)
	default:
		handle, err = l.loadColorUncompressed(path, data)
	}
	if err != nil {
		return nil, err
	}

	if insertErr := l.cache.Insert(key, handle); insertErr != nil {
		l.logger.Warn("texture", "cache insert rejected", map[string]interface{}{"path": path, "error": insertErr.Error()})
	}
	return handle, nil
}

func (l *Loader) loadCompressed(path string) (*Handle, bool, error) {
	ddsPath := assetpath.DerivedTexturePath(path)
	data, ok, err := l.derived.Read(ddsPath)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	// Trailing 32-byte source hash (spec.md §4.D); strip it before parsing
	// the DDS container, the freshness check already happened in the sync
	// pass that produced this file.
	if len(data) < 32 {
		return nil, false, nil
	}
	info, err := parseDDS(data[:len(data)-32])
	if err != nil {
		l.logger.Warn("texture", "ignoring malformed compressed texture", map[string]interface{}{"path": ddsPath, "error": err.Error()})
		return nil, false, nil
	}
	tex := uploadCompressed(info.Width, info.Height, info.MipCount, info.Payload)
	return &Handle{
		GLTexture:   tex,
		Width:       info.Width,
		Height:      info.Height,
		MipCount:    info.MipCount,
		Variant:     VariantColor,
		Compressed:  true,
		Transparent: info.Transparent,
	}, true, nil
}

func (l *Loader) loadColorUncompressed(path string, data []byte) (*Handle, error) {
	img, transparent, err := decodeSource(path, data)
	if err != nil {
		img, transparent, err = l.fallbackColor(path, err)
		if err != nil {
			return nil, err
		}
	}
	tex := uploadUncompressed(img)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	return &Handle{
		GLTexture:   tex,
		Width:       width,
		Height:      height,
		MipCount:    int(CalculateValidMipLevelCount(uint32(width), uint32(height))),
		Variant:     VariantColor,
		Transparent: transparent,
	}, nil
}

func (l *Loader) loadSingleChannel(path string, data []byte) (*Handle, error) {
	img, err := decodePNGRaw(data)
	if err != nil {
		img, err = l.fallbackMono(path, ".sdf", err)
		if err != nil {
			return nil, err
		}
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	red := make([]byte, width*height)
	for i := 0; i < width*height; i++ {
		red[i] = img.Pix[i*4]
	}
	tex := uploadSingleChannel(red, width, height)
	return &Handle{GLTexture: tex, Width: width, Height: height, MipCount: 1, Variant: VariantSdf}, nil
}

func (l *Loader) loadMultiChannel(path string, data []byte) (*Handle, error) {
	img, err := decodePNGRaw(data)
	if err != nil {
		img, err = l.fallbackMono(path, ".msdf", err)
		if err != nil {
			return nil, err
		}
	}
	tex := uploadUncompressedNoMip(img)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	return &Handle{GLTexture: tex, Width: width, Height: height, MipCount: 1, Variant: VariantMsdf}, nil
}

func decodePNGRaw(data []byte) (*image.NRGBA, error) {
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w: %v", assetfs.ErrDecode, err)
	}
	return toNRGBA(decoded), nil
}

// fallbackColor implements spec.md §4.E step 3's "decode failures fall back
// to a fixed path per format" by retrying once against fallback_<ext>,
// keeping the original's extension so the same decoder runs; a second
// failure is reported to the caller.
func (l *Loader) fallbackColor(path string, cause error) (*image.NRGBA, bool, error) {
	ext := extOf(path)
	fallbackPath := "fallback_" + extWithoutDot(ext) + ext
	l.logger.Warn("texture", "decode failed, trying fallback", map[string]interface{}{"path": path, "fallback": fallbackPath, "error": cause.Error()})
	data, ok, err := l.archives.Read(fallbackPath)
	if err != nil || !ok {
		return nil, false, fmt.Errorf("texture: %s: %w", path, assetfs.ErrDecode)
	}
	img, transparent, decodeErr := decodeSource(fallbackPath, data)
	if decodeErr != nil {
		return nil, false, fmt.Errorf("texture: %s: fallback also failed: %w", path, assetfs.ErrDecode)
	}
	return img, transparent, nil
}

// fallbackMono retries an SDF/MSDF decode against fallback_<ext>.png, the
// fixed fallback path for single/multi-channel distance-field textures.
func (l *Loader) fallbackMono(path, ext string, cause error) (*image.NRGBA, error) {
	fallbackPath := "fallback_" + extWithoutDot(ext) + ".png"
	l.logger.Warn("texture", "decode failed, trying fallback", map[string]interface{}{"path": path, "fallback": fallbackPath, "error": cause.Error()})
	data, ok, err := l.archives.Read(fallbackPath)
	if err != nil || !ok {
		return nil, fmt.Errorf("texture: %s: %w", path, assetfs.ErrDecode)
	}
	img, decodeErr := decodePNGRaw(data)
	if decodeErr != nil {
		return nil, fmt.Errorf("texture: %s: fallback also failed: %w", path, assetfs.ErrDecode)
	}
	return img, nil
}

func extWithoutDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
