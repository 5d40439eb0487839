// Package config provides configuration management for the asset-and-resource subsystem.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all subsystem configuration.
type Config struct {
	Archive      ArchiveConfig      `mapstructure:"archive"`
	DerivedCache DerivedCacheConfig `mapstructure:"derived_cache"`
	Texture      TextureConfig      `mapstructure:"texture"`
	Audio        AudioConfig        `mapstructure:"audio"`
	Model        ModelConfig        `mapstructure:"model"`
}

// ArchiveConfig configures the ArchiveSet.
type ArchiveConfig struct {
	// Paths is the ordered list of backing archives/folders, first-hit-wins on read.
	Paths []string `mapstructure:"paths"`
	// WritableFolder is the designated writable archive, typically a loose folder.
	WritableFolder string `mapstructure:"writable_folder"`
	// Watch is a development-mode flag for callers that start archive.Watch on
	// WritableFolder. Off by default; nothing in this module reads it.
	Watch bool `mapstructure:"watch"`
}

// DerivedCacheConfig configures the on-disk derived-asset cache.
type DerivedCacheConfig struct {
	Folder        string `mapstructure:"folder"`
	SyncOnStartup bool   `mapstructure:"sync_on_startup"`
	Workers       int    `mapstructure:"workers"` // 0 means runtime.GOMAXPROCS(0)
}

// TextureConfig configures the TextureLoader's bounded cache and capabilities.
type TextureConfig struct {
	MaxEntries         int  `mapstructure:"max_entries"`
	MaxBytes           int  `mapstructure:"max_bytes"`
	BindlessSupport    bool `mapstructure:"bindless_support"`
	CompressedSupport  bool `mapstructure:"compressed_support"`
	MaxBindingArraySze int  `mapstructure:"max_binding_array_size"`
}

// AudioConfig configures the audio engine's caches, queues, and tween timings.
type AudioConfig struct {
	CacheMaxEntries       int           `mapstructure:"cache_max_entries"`
	CacheMaxBytes         int           `mapstructure:"cache_max_bytes"`
	MaxQueueTime          time.Duration `mapstructure:"max_queue_time"`
	BGMFadeOut            time.Duration `mapstructure:"bgm_fade_out"`
	VolumeTween           time.Duration `mapstructure:"volume_tween"`
	ListenerTween         time.Duration `mapstructure:"listener_tween"`
	ListenerThrottle      time.Duration `mapstructure:"listener_throttle"`
	AmbientListenerRadius float64       `mapstructure:"ambient_listener_radius"`
	SpatialMinDistance    float64       `mapstructure:"spatial_min_distance"`
	BGMLoopShave          time.Duration `mapstructure:"bgm_loop_shave"`
	PreferFlac            bool          `mapstructure:"prefer_flac"`
}

// ModelConfig configures the model/action cache.
type ModelConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
	MaxBytes   int `mapstructure:"max_bytes"`
}

// DefaultConfig returns sensible default configuration matching spec.md §6.
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Paths:          []string{"data.grf"},
			WritableFolder: "data",
			Watch:          false,
		},
		DerivedCache: DerivedCacheConfig{
			Folder:        "cache",
			SyncOnStartup: true,
			Workers:       0,
		},
		Texture: TextureConfig{
			MaxEntries:         4096,
			MaxBytes:           512 * 1024 * 1024,
			BindlessSupport:    false,
			CompressedSupport:  true,
			MaxBindingArraySze: 256,
		},
		Audio: AudioConfig{
			CacheMaxEntries:       1000,
			CacheMaxBytes:         64 * 1024 * 1024,
			MaxQueueTime:          1 * time.Second,
			BGMFadeOut:            1000 * time.Millisecond,
			VolumeTween:           500 * time.Millisecond,
			ListenerTween:         50 * time.Millisecond,
			ListenerThrottle:      50 * time.Millisecond,
			AmbientListenerRadius: 10.0,
			SpatialMinDistance:    5.0,
			BGMLoopShave:          50 * time.Millisecond,
			PreferFlac:            false,
		},
		Model: ModelConfig{
			MaxEntries: 2048,
			MaxBytes:   128 * 1024 * 1024,
		},
	}
}

// Load reads configuration from file and environment, falling back to defaults
// and writing them out if no config file exists yet.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	configDir := filepath.Join(homeDir, ".korangar-sub004")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("KORANGAR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file.
func Save(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".korangar-sub004")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("archive", cfg.Archive)
	viper.Set("derived_cache", cfg.DerivedCache)
	viper.Set("texture", cfg.Texture)
	viper.Set("audio", cfg.Audio)
	viper.Set("model", cfg.Model)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".korangar-sub004"), nil
}
