package derivedcache

import (
	"testing"

	"github.com/vE5li/korangar-sub004/internal/config"
)

func TestSyncAtlasesBuildsAndReusesAtlas(t *testing.T) {
	source := newFakeSource()
	source.put(`data\texture\wall01.png`, encodeTestPNG(t, 32, 32, 10, 20, 30))
	source.put(`data\texture\wall02.png`, encodeTestPNG(t, 32, 32, 40, 50, 60))
	derived := newFakeStore()
	logger := testLogger(t)
	c := New(config.DerivedCacheConfig{Workers: 1}, source, derived, logger)

	mapTextures := map[string][]string{
		"prontera": {`data\texture\wall01.png`, `data\texture\wall02.png`},
	}

	report, err := c.SyncAtlases(mapTextures, nil)
	if err != nil {
		t.Fatalf("SyncAtlases: %v", err)
	}
	if len(report.Regenerated) != 1 {
		t.Fatalf("expected prontera atlas to be built, got %+v", report)
	}

	data, ok, _ := derived.Read(`atlas\prontera.kta`)
	if !ok {
		t.Fatal("expected atlas\\prontera.kta to exist")
	}
	atlas, err := AtlasFromBytes(data)
	if err != nil {
		t.Fatalf("AtlasFromBytes: %v", err)
	}
	if len(atlas.Lookup) != 2 {
		t.Errorf("expected 2 lookup entries, got %d", len(atlas.Lookup))
	}

	report2, err := c.SyncAtlases(mapTextures, nil)
	if err != nil {
		t.Fatalf("SyncAtlases (2nd pass): %v", err)
	}
	if len(report2.Unchanged) != 1 || len(report2.Regenerated) != 0 {
		t.Errorf("expected atlas unchanged on 2nd pass, got %+v", report2)
	}
}

func TestSyncAtlasesRemovesObsoleteMap(t *testing.T) {
	source := newFakeSource()
	source.put(`data\texture\wall01.png`, encodeTestPNG(t, 32, 32, 10, 20, 30))
	derived := newFakeStore()
	logger := testLogger(t)
	c := New(config.DerivedCacheConfig{Workers: 1}, source, derived, logger)

	mapTextures := map[string][]string{"prontera": {`data\texture\wall01.png`}}
	if _, err := c.SyncAtlases(mapTextures, nil); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	report, err := c.SyncAtlases(map[string][]string{}, nil)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if len(report.Removed) != 1 {
		t.Fatalf("expected prontera atlas to be removed, got %+v", report)
	}
}
