package model

import (
	"github.com/vE5li/korangar-sub004/internal/cache"
	"github.com/vE5li/korangar-sub004/internal/config"
)

// actionCache is the bounded cache of sprite Actions entries (spec.md §1's
// "model/action cache"), keyed by asset path. Every entry costs zero bytes
// (Actions.CostBytes), so max_bytes never drives eviction here — only
// max_entries does, matching the original's "cached only by count".
type actionCache struct {
	*cache.Bounded[string, *Actions]
}

func newActionCache(maxEntries, maxBytes int) (*actionCache, error) {
	b, err := cache.New[string, *Actions](maxEntries, maxBytes)
	if err != nil {
		return nil, err
	}
	return &actionCache{b}, nil
}

// modelCache is the bounded cache of glTF-backed geometry Models, keyed by
// asset path and costed by their vertex/index buffer size.
type modelCache struct {
	*cache.Bounded[string, *GLTFModel]
}

func newModelCache(maxEntries, maxBytes int) (*modelCache, error) {
	b, err := cache.New[string, *GLTFModel](maxEntries, maxBytes)
	if err != nil {
		return nil, err
	}
	return &modelCache{b}, nil
}

// Cache bundles the sprite-action cache and the glTF model cache behind the
// config.ModelConfig bounds, giving both supplemented features (see
// SPEC_FULL.md) a single entry point.
type Cache struct {
	actions *actionCache
	models  *modelCache
}

// New constructs a Cache bounded by cfg. Each sub-cache gets its own bound
// of cfg.MaxEntries entries and cfg.MaxBytes bytes; actions never
// contributes to the byte side of its bound.
func New(cfg config.ModelConfig) (*Cache, error) {
	actions, err := newActionCache(cfg.MaxEntries, cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	models, err := newModelCache(cfg.MaxEntries, cfg.MaxBytes)
	if err != nil {
		return nil, err
	}
	return &Cache{actions: actions, models: models}, nil
}

// GetActions returns a cached Actions entry for path, if present.
func (c *Cache) GetActions(path string) (*Actions, bool) {
	return c.actions.Get(path)
}

// InsertActions caches actions under path.
func (c *Cache) InsertActions(path string, actions *Actions) error {
	return c.actions.Insert(path, actions)
}

// GetModel returns a cached glTF Model for path, if present.
func (c *Cache) GetModel(path string) (*GLTFModel, bool) {
	return c.models.Get(path)
}

// InsertModel caches model under path.
func (c *Cache) InsertModel(path string, model *GLTFModel) error {
	return c.models.Insert(path, model)
}
