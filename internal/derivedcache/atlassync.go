package derivedcache

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/draw"
	"lukechampine.com/blake3"

	"github.com/vE5li/korangar-sub004/internal/assetfs"
	"github.com/vE5li/korangar-sub004/internal/assetpath"
	"github.com/vE5li/korangar-sub004/internal/texture"
)

// AtlasSyncReport summarizes one SyncAtlases pass.
type AtlasSyncReport struct {
	Unchanged   []string
	Regenerated []string
	Removed     []string
	Failed      map[string]error
}

// SyncAtlases runs spec.md §4.D steps 1-5 for the atlas/<map>.kta layer.
// Map/RSW parsing is out of scope (spec.md's Non-goals exclude "network
// protocol decoding" and map-format interpretation), so the caller supplies
// the map-name -> constituent-texture-path mapping directly rather than
// this package discovering it by parsing .rsw/.gnd files (see DESIGN.md).
func (c *Cache) SyncAtlases(mapTextures map[string][]string, shouldStop func() bool) (AtlasSyncReport, error) {
	report := AtlasSyncReport{Failed: make(map[string]error)}
	if shouldStop == nil {
		shouldStop = func() bool { return false }
	}

	if err := c.removeObsoleteAtlases(mapTextures, &report); err != nil {
		return report, err
	}

	mapNames := make([]string, 0, len(mapTextures))
	for name := range mapTextures {
		mapNames = append(mapNames, name)
	}
	sort.Strings(mapNames)

	for _, mapName := range mapNames {
		if shouldStop() {
			return report, assetfs.ErrShutdownRequested
		}
		if err := c.syncOneAtlas(mapName, mapTextures[mapName], &report); err != nil {
			report.Failed[mapName] = err
			c.logger.Warn("derivedcache", "atlas sync unit failed", map[string]interface{}{"map": mapName, "error": err.Error()})
		}
	}

	c.logger.Info("derivedcache", "atlas sync pass complete", map[string]interface{}{
		"unchanged":   len(report.Unchanged),
		"regenerated": len(report.Regenerated),
		"removed":     len(report.Removed),
		"failed":      len(report.Failed),
	})
	return report, nil
}

func (c *Cache) removeObsoleteAtlases(mapTextures map[string][]string, report *AtlasSyncReport) error {
	existing, err := c.derived.List([]string{".kta"})
	if err != nil {
		return err
	}
	expected := make(map[string]struct{}, len(mapTextures))
	for mapName := range mapTextures {
		expected[assetpath.Normalize(assetpath.AtlasPath(mapName))] = struct{}{}
	}
	for _, entry := range existing {
		if _, ok := expected[assetpath.Normalize(entry)]; ok {
			continue
		}
		if err := c.derived.Remove(entry); err != nil {
			report.Failed[entry] = err
			continue
		}
		report.Removed = append(report.Removed, entry)
	}
	return nil
}

func (c *Cache) syncOneAtlas(mapName string, texturePaths []string, report *AtlasSyncReport) error {
	sorted := append([]string(nil), texturePaths...)
	sort.Strings(sorted)

	tiles, err := c.loadAtlasTiles(sorted)
	if err != nil {
		return err
	}
	contentHash := atlasContentHash(tiles)

	atlasPath := assetpath.AtlasPath(mapName)
	if existingBytes, ok, _ := c.derived.Read(atlasPath); ok {
		if existingAtlas, parseErr := AtlasFromBytes(existingBytes); parseErr == nil && existingAtlas.SourceHash == contentHash {
			report.Unchanged = append(report.Unchanged, mapName)
			return nil
		}
	}

	atlas := buildAtlas(mapName, tiles, contentHash)
	if err := c.derived.WriteAtomic(atlasPath, atlas.ToBytes()); err != nil {
		return err
	}
	report.Regenerated = append(report.Regenerated, mapName)
	return nil
}

type atlasTile struct {
	name        string
	image       *image.NRGBA
	transparent bool
}

func (c *Cache) loadAtlasTiles(texturePaths []string) ([]atlasTile, error) {
	tiles := make([]atlasTile, 0, len(texturePaths))
	for _, path := range texturePaths {
		data, ok, err := c.source.Read(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		img, transparent, err := texture.DecodeSourceRGBA(path, data)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, atlasTile{name: path, image: texture.CropToMultipleOfFour(img), transparent: transparent})
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("derivedcache: atlas: no textures resolved")
	}
	return tiles, nil
}

// atlasContentHash hashes the tiles' pixel content in their given (sorted)
// order, so identical inputs always produce the same "freshly computed
// atlas hash" spec.md §4.D checks an existing atlas's stored hash against.
func atlasContentHash(tiles []atlasTile) [32]byte {
	hasher := blake3.New(32, nil)
	for _, tile := range tiles {
		hasher.Write(tile.image.Pix)
	}
	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

// buildAtlas packs tiles left-to-right into a single canvas, mip-generates
// and BC7-compresses it, and records each tile's normalized UV allocation.
// Simple strip packing, not a bin-packing algorithm: the pack carries no
// rectangle-packing library, and one atlas per map keeps this a modest
// fixed-size set of tiles (see DESIGN.md).
func buildAtlas(mapName string, tiles []atlasTile, contentHash [32]byte) *CachedTextureAtlas {
	width, height := 0, 0
	for _, tile := range tiles {
		width += tile.image.Bounds().Dx()
		if h := tile.image.Bounds().Dy(); h > height {
			height = h
		}
	}
	if width%4 != 0 {
		width += 4 - width%4
	}
	if height%4 != 0 {
		height += 4 - height%4
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	lookup := make([]LookupEntry, 0, len(tiles))
	allocations := make([]AllocationEntry, 0, len(tiles))

	xOffset := 0
	overallTransparent := false
	for i, tile := range tiles {
		b := tile.image.Bounds()
		dst := image.Rect(xOffset, 0, xOffset+b.Dx(), b.Dy())
		draw.Draw(canvas, dst, tile.image, b.Min, draw.Src)

		allocationID := uint32(i)
		allocations = append(allocations, AllocationEntry{
			ID:  allocationID,
			Min: [2]float32{float32(xOffset) / float32(width), 0},
			Max: [2]float32{float32(xOffset+b.Dx()) / float32(width), float32(b.Dy()) / float32(height)},
		})
		lookup = append(lookup, LookupEntry{Name: tile.name, AllocationID: allocationID, Transparent: tile.transparent})
		if tile.transparent {
			overallTransparent = true
		}
		xOffset += b.Dx()
	}

	result := texture.BuildDerivedTexture(canvas, overallTransparent)
	return &CachedTextureAtlas{
		Name:        mapName,
		Width:       uint32(result.Width),
		Height:      uint32(result.Height),
		MipCount:    uint32(result.MipCount),
		SourceHash:  contentHash,
		Lookup:      lookup,
		Allocations: allocations,
		Payload:     result.Payload,
	}
}
