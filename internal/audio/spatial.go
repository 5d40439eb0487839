package audio

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// spatialIndex answers "which ambient sounds overlap this listening sphere"
// queries. No spatial-partitioning library exists anywhere in the pack, so
// this is a hand-rolled linear scan rather than a real KD-tree: ambient
// sound counts per map are small (low hundreds at most), so a scan costs
// nothing observable next to the audio decode/mix work it feeds into.
type spatialIndex struct {
	indices   []uint32
	positions []mgl32.Vec3
	radii     []float32
}

func newSpatialIndex(slab *ambientSlab) *spatialIndex {
	idx := &spatialIndex{}
	for key, cfg := range slab.entries {
		idx.indices = append(idx.indices, key.Index)
		idx.positions = append(idx.positions, cfg.position)
		idx.radii = append(idx.radii, cfg.radius)
	}
	return idx
}

// query truncates result and fills it with the Index of every ambient sound whose
// bounding sphere intersects the sphere at center with the given radius,
// sorted ascending so it can be fed into assetpath.SortedDifference.
func (idx *spatialIndex) query(center mgl32.Vec3, radius float32, result []uint32) []uint32 {
	result = result[:0]
	for i, pos := range idx.positions {
		d := pos.Sub(center)
		reach := radius + idx.radii[i]
		if d.Dot(d) <= reach*reach {
			result = append(result, idx.indices[i])
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a] < result[b] })
	return result
}
