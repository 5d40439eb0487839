package model

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// writeMinimalGLTF builds a one-triangle glTF document (positions, normals,
// texcoords, uint16 indices) backed by an external .bin buffer, and returns
// the path to the .gltf file.
func writeMinimalGLTF(t *testing.T, dir string) string {
	t.Helper()

	var buf bytes.Buffer
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	normals := []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}
	texcoords := []float32{0, 0, 1, 0, 0, 1}
	indices := []uint16{0, 1, 2}

	for _, v := range positions {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	normalsOffset := buf.Len()
	for _, v := range normals {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	texcoordsOffset := buf.Len()
	for _, v := range texcoords {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	indicesOffset := buf.Len()
	for _, v := range indices {
		binary.Write(&buf, binary.LittleEndian, v)
	}

	binPath := filepath.Join(dir, "mesh.bin")
	if err := os.WriteFile(binPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write bin: %v", err)
	}

	doc := map[string]interface{}{
		"asset": map[string]interface{}{"version": "2.0"},
		"buffers": []map[string]interface{}{
			{"uri": "mesh.bin", "byteLength": buf.Len()},
		},
		"bufferViews": []map[string]interface{}{
			{"buffer": 0, "byteOffset": 0, "byteLength": len(positions) * 4},
			{"buffer": 0, "byteOffset": normalsOffset, "byteLength": len(normals) * 4},
			{"buffer": 0, "byteOffset": texcoordsOffset, "byteLength": len(texcoords) * 4},
			{"buffer": 0, "byteOffset": indicesOffset, "byteLength": len(indices) * 2},
		},
		"accessors": []map[string]interface{}{
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 2, "componentType": 5126, "count": 3, "type": "VEC2"},
			{"bufferView": 3, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"meshes": []map[string]interface{}{
			{
				"primitives": []map[string]interface{}{
					{
						"attributes": map[string]interface{}{
							"POSITION":   0,
							"NORMAL":     1,
							"TEXCOORD_0": 2,
						},
						"indices": 3,
					},
				},
			},
		},
		"nodes":  []map[string]interface{}{{"mesh": 0}},
		"scenes": []map[string]interface{}{{"nodes": []int{0}}},
		"scene":  0,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal gltf: %v", err)
	}
	gltfPath := filepath.Join(dir, "mesh.gltf")
	if err := os.WriteFile(gltfPath, data, 0o644); err != nil {
		t.Fatalf("write gltf: %v", err)
	}
	return gltfPath
}

func TestLoadGLTFReadsGeometry(t *testing.T) {
	dir := t.TempDir()
	path := writeMinimalGLTF(t, dir)

	model, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	if len(model.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(model.Vertices))
	}
	if !model.HasIndices || len(model.Indices) != 3 {
		t.Fatalf("expected 3 indices, got %v (hasIndices=%v)", model.Indices, model.HasIndices)
	}
	if model.Indices[0] != 0 || model.Indices[1] != 1 || model.Indices[2] != 2 {
		t.Errorf("unexpected index values: %v", model.Indices)
	}

	want := model.Vertices[1].Position
	if want.X() != 1 || want.Y() != 0 || want.Z() != 0 {
		t.Errorf("unexpected second vertex position: %v", want)
	}
	if model.Vertices[0].TexCoord.X() != 0 || model.Vertices[1].TexCoord.X() != 1 {
		t.Errorf("unexpected texcoords: %+v", model.Vertices)
	}
}

func TestLoadGLTFCostBytesReflectsGeometrySize(t *testing.T) {
	dir := t.TempDir()
	path := writeMinimalGLTF(t, dir)

	model, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if model.CostBytes() <= 0 {
		t.Errorf("expected positive CostBytes, got %d", model.CostBytes())
	}
}

func TestLoadGLTFRejectsMeshlessDocument(t *testing.T) {
	dir := t.TempDir()
	doc := map[string]interface{}{"asset": map[string]interface{}{"version": "2.0"}}
	data, _ := json.Marshal(doc)
	path := filepath.Join(dir, "empty.gltf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadGLTF(path); err == nil {
		t.Fatal("expected error loading a mesh-less document")
	}
}
