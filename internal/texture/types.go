package texture

// Variant selects how a texture's source bytes are interpreted and uploaded,
// per spec.md §4.E.
type Variant int

const (
	// VariantColor is the common sRGB, premultiplied-alpha case: BC7-
	// compressed when the DerivedCache has a ready mip chain, decoded and
	// mipped on the fly otherwise.
	VariantColor Variant = iota
	// VariantSdf is a single-channel signed-distance field, uploaded R8
	// linear with no compression or mipping.
	VariantSdf
	// VariantMsdf is an RGBA multi-channel distance field, uploaded RGBA8
	// linear with no compression or mipping.
	VariantMsdf
)

func (v Variant) String() string {
	switch v {
	case VariantSdf:
		return "sdf"
	case VariantMsdf:
		return "msdf"
	default:
		return "color"
	}
}

// Key identifies one cached upload: the same source path can be loaded under
// more than one variant (e.g. a glyph atlas as both Color and Msdf).
type Key struct {
	Path    string
	Variant Variant
}

// Handle is an uploaded GPU texture plus the bookkeeping TextureSet and the
// BoundedCache need. It satisfies cache.Costed.
type Handle struct {
	GLTexture   uint32
	Width       int
	Height      int
	MipCount    int
	Variant     Variant
	Compressed  bool
	Transparent bool
}

// CostBytes approximates the GPU-resident size: the base level plus the
// geometric mip-chain falloff (~1/3 more), at BC7's 8bpp when compressed
// versus RGBA8's 32bpp otherwise.
func (h *Handle) CostBytes() int {
	base := h.Width * h.Height // BC7: 4x4 blocks of 16 bytes => 1 byte/pixel
	if !h.Compressed {
		base *= 4
	}
	return base + base/3 // mip chain overhead
}
