package model

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// Vertex is one geometry vertex: position, normal, UV, and tangent, the
// same four attributes the original uploads per vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Tangent  mgl32.Vec3
}

// MorphTarget is a named set of per-vertex position/normal deltas.
type MorphTarget struct {
	Name           string
	PositionDeltas []mgl32.Vec3
	NormalDeltas   []mgl32.Vec3
}

// GLTFModel is the geometry-only glTF variant of SPEC_FULL.md's
// supplemented model/action features: the vertex buffer, optional index
// buffer, and morph targets of a .gltf/.glb file's first mesh primitive, and
// the raw bytes of its base color texture if embedded. No VAO/VBO/GPU
// upload: rendering is out of scope (spec.md's Non-goals), so a consumer
// uploads Vertices/Indices through its own renderer.
type GLTFModel struct {
	Vertices      []Vertex
	Indices       []uint32
	HasIndices    bool
	MorphTargets  []MorphTarget
	AlbedoSource  []byte // raw encoded image bytes (e.g. PNG/JPEG), nil if none
	vertexByteLen int
}

// CostBytes approximates the geometry's resident memory: the vertex buffer
// plus a uint32 per index.
func (m *GLTFModel) CostBytes() int {
	return m.vertexByteLen + len(m.Indices)*4
}

// LoadGLTF loads the first mesh primitive of a .gltf/.glb file, adapted
// from the teacher's renderer.LoadMeshFromGLTF: same accessor-reading
// approach (attribute lookup, unsafe.Pointer casts into the raw buffer,
// external-file vs embedded-GLB buffer resolution), with the GPU upload
// step dropped.
func LoadGLTF(path string) (*GLTFModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open gltf %s: %w", path, err)
	}
	if len(doc.Meshes) == 0 {
		return nil, fmt.Errorf("model: %s: no meshes", path)
	}

	mesh := doc.Meshes[0]
	if len(mesh.Primitives) == 0 {
		return nil, fmt.Errorf("model: %s: no primitives", path)
	}
	prim := mesh.Primitives[0]

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("model: %s: primitive has no POSITION attribute", path)
	}
	positions, err := readAccessorVec3(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("model: %s: read positions: %w", path, err)
	}

	normals := readAccessorVec3Fallback(doc, prim.Attributes, gltf.NORMAL, len(positions))
	texCoords := readAccessorVec2Fallback(doc, prim.Attributes, gltf.TEXCOORD_0, len(positions))
	tangents := readAccessorVec3Fallback(doc, prim.Attributes, gltf.TANGENT, len(positions))

	vertices := make([]Vertex, len(positions))
	for i := range positions {
		vertices[i] = Vertex{Position: positions[i], Normal: normals[i], TexCoord: texCoords[i], Tangent: tangents[i]}
	}

	model := &GLTFModel{Vertices: vertices, vertexByteLen: len(vertices) * int(unsafe.Sizeof(Vertex{}))}

	for i, target := range prim.Targets {
		mt := MorphTarget{Name: fmt.Sprintf("target_%d", i)}
		if idx, ok := target[gltf.POSITION]; ok {
			mt.PositionDeltas, _ = readAccessorVec3(doc, idx)
		}
		if idx, ok := target[gltf.NORMAL]; ok {
			mt.NormalDeltas, _ = readAccessorVec3(doc, idx)
		}
		model.MorphTargets = append(model.MorphTargets, mt)
	}
	if extras, ok := mesh.Extras.(map[string]interface{}); ok {
		if names, ok := extras["targetNames"].([]interface{}); ok {
			for i, name := range names {
				if i < len(model.MorphTargets) {
					if s, ok := name.(string); ok {
						model.MorphTargets[i].Name = s
					}
				}
			}
		}
	}

	if prim.Indices != nil {
		indices, err := readAccessorIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("model: %s: read indices: %w", path, err)
		}
		model.Indices = indices
		model.HasIndices = true
	}

	model.AlbedoSource = extractAlbedoSource(doc, prim)
	return model, nil
}

func extractAlbedoSource(doc *gltf.Document, prim *gltf.Primitive) []byte {
	if prim.Material == nil {
		return nil
	}
	material := doc.Materials[*prim.Material]
	if material.PBRMetallicRoughness == nil || material.PBRMetallicRoughness.BaseColorTexture == nil {
		return nil
	}
	texInfo := material.PBRMetallicRoughness.BaseColorTexture
	tex := doc.Textures[texInfo.Index]
	if tex.Source == nil {
		return nil
	}
	image := doc.Images[*tex.Source]
	if image.BufferView == nil {
		return nil
	}
	bufferView := doc.BufferViews[*image.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	data, err := getBufferData(buffer)
	if err != nil {
		return nil
	}
	offset := int(bufferView.ByteOffset)
	length := int(bufferView.ByteLength)
	if offset+length > len(data) {
		return nil
	}
	out := make([]byte, length)
	copy(out, data[offset:offset+length])
	return out
}

func readAccessorVec3Fallback(doc *gltf.Document, attrs map[string]uint32, name string, count int) []mgl32.Vec3 {
	if idx, ok := attrs[name]; ok {
		if values, err := readAccessorVec3(doc, idx); err == nil {
			return values
		}
	}
	return make([]mgl32.Vec3, count)
}

func readAccessorVec2Fallback(doc *gltf.Document, attrs map[string]uint32, name string, count int) []mgl32.Vec2 {
	if idx, ok := attrs[name]; ok {
		if values, err := readAccessorVec2(doc, idx); err == nil {
			return values
		}
	}
	return make([]mgl32.Vec2, count)
}

func readAccessorVec3(doc *gltf.Document, accessorIdx uint32) ([]mgl32.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("model: accessor %d has no buffer view", accessorIdx)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	data, err := getBufferData(buffer)
	if err != nil {
		return nil, err
	}

	offset := int(bufferView.ByteOffset) + int(accessor.ByteOffset)
	count := int(accessor.Count)
	stride := int(bufferView.ByteStride)
	if stride == 0 {
		stride = 12
	}

	result := make([]mgl32.Vec3, count)
	for i := 0; i < count; i++ {
		idx := offset + i*stride
		if idx+12 > len(data) {
			return nil, fmt.Errorf("model: accessor %d: buffer too short", accessorIdx)
		}
		floats := (*[3]float32)(unsafe.Pointer(&data[idx]))
		result[i] = mgl32.Vec3{floats[0], floats[1], floats[2]}
	}
	return result, nil
}

func readAccessorVec2(doc *gltf.Document, accessorIdx uint32) ([]mgl32.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("model: accessor %d has no buffer view", accessorIdx)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	data, err := getBufferData(buffer)
	if err != nil {
		return nil, err
	}

	offset := int(bufferView.ByteOffset) + int(accessor.ByteOffset)
	count := int(accessor.Count)
	stride := int(bufferView.ByteStride)
	if stride == 0 {
		stride = 8
	}

	result := make([]mgl32.Vec2, count)
	for i := 0; i < count; i++ {
		idx := offset + i*stride
		if idx+8 > len(data) {
			return nil, fmt.Errorf("model: accessor %d: buffer too short", accessorIdx)
		}
		floats := (*[2]float32)(unsafe.Pointer(&data[idx]))
		result[i] = mgl32.Vec2{floats[0], floats[1]}
	}
	return result, nil
}

func readAccessorIndices(doc *gltf.Document, accessorIdx uint32) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("model: accessor %d has no buffer view", accessorIdx)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	data, err := getBufferData(buffer)
	if err != nil {
		return nil, err
	}

	offset := int(bufferView.ByteOffset) + int(accessor.ByteOffset)
	count := int(accessor.Count)
	result := make([]uint32, count)

	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		for i := 0; i < count; i++ {
			result[i] = uint32(data[offset+i])
		}
	case gltf.ComponentUshort:
		for i := 0; i < count; i++ {
			idx := offset + i*2
			result[i] = uint32(*(*uint16)(unsafe.Pointer(&data[idx])))
		}
	case gltf.ComponentUint:
		for i := 0; i < count; i++ {
			idx := offset + i*4
			result[i] = *(*uint32)(unsafe.Pointer(&data[idx]))
		}
	default:
		return nil, fmt.Errorf("model: unsupported index component type %v", accessor.ComponentType)
	}
	return result, nil
}

// getBufferData resolves a glTF buffer's bytes. gltf.Open already fills
// buffer.Data both for a binary .glb chunk and for a sibling file named by
// buffer.URI; a buffer without Data is read from buffer.URI as a path
// relative to the working directory.
func getBufferData(buffer *gltf.Buffer) ([]byte, error) {
	if len(buffer.Data) > 0 {
		return buffer.Data, nil
	}
	if buffer.URI == "" {
		return nil, fmt.Errorf("model: buffer has no URI and no embedded data")
	}
	if len(buffer.URI) > 5 && buffer.URI[:5] == "data:" {
		return nil, fmt.Errorf("model: data URIs are not supported")
	}
	return os.ReadFile(filepath.Clean(buffer.URI))
}
