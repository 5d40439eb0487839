package model

import (
	"testing"

	"github.com/vE5li/korangar-sub004/internal/config"
)

func TestCacheActionsRoundTrip(t *testing.T) {
	c, err := New(config.ModelConfig{MaxEntries: 4, MaxBytes: 1024})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	actions := newTestActions()
	if err := c.InsertActions("data/sprite/test.act", actions); err != nil {
		t.Fatalf("InsertActions: %v", err)
	}

	got, ok := c.GetActions("data/sprite/test.act")
	if !ok {
		t.Fatal("expected cached actions to be found")
	}
	if got != actions {
		t.Error("expected cached pointer identity to be preserved")
	}

	if _, ok := c.GetActions("missing"); ok {
		t.Error("expected miss for uncached path")
	}
}

func TestCacheModelsRoundTrip(t *testing.T) {
	c, err := New(config.ModelConfig{MaxEntries: 4, MaxBytes: 1 << 20})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m := &GLTFModel{vertexByteLen: 128}
	if err := c.InsertModel("data/model/test.gltf", m); err != nil {
		t.Fatalf("InsertModel: %v", err)
	}

	got, ok := c.GetModel("data/model/test.gltf")
	if !ok {
		t.Fatal("expected cached model to be found")
	}
	if got != m {
		t.Error("expected cached pointer identity to be preserved")
	}
}

func TestCacheModelsEvictsOverByteBudget(t *testing.T) {
	c, err := New(config.ModelConfig{MaxEntries: 10, MaxBytes: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := &GLTFModel{vertexByteLen: 80}
	second := &GLTFModel{vertexByteLen: 80}
	if err := c.InsertModel("first", first); err != nil {
		t.Fatalf("InsertModel first: %v", err)
	}
	if err := c.InsertModel("second", second); err != nil {
		t.Fatalf("InsertModel second: %v", err)
	}

	if _, ok := c.GetModel("first"); ok {
		t.Error("expected first model to be evicted once budget exceeded")
	}
	if _, ok := c.GetModel("second"); !ok {
		t.Error("expected second model to remain cached")
	}
}
