// Package config provides typed configuration for starfollow, decoded from
// viper's merged settings (defaults, config file, environment).
package config

import (
	"fmt"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// Load decodes viper's merged settings into a typed Config and validates it.
// Safe to call multiple times.
func Load() (*Config, error) {
	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Bucket.Capacity < 1 {
		return fmt.Errorf("bucket capacity must be positive, got %d", cfg.Bucket.Capacity)
	}
	if cfg.Bucket.RefillWindow <= 0 {
		return fmt.Errorf("bucket refill window must be positive, got %s", cfg.Bucket.RefillWindow)
	}
	if cfg.Pager.PageSize < 1 || cfg.Pager.PageSize > 100 {
		return fmt.Errorf("page size must be 1-100, got %d", cfg.Pager.PageSize)
	}
	if cfg.Pacing.SuccessPause < 0 || cfg.Pacing.FailurePause < 0 || cfg.Pacing.ResetMargin < 0 {
		return fmt.Errorf("pacing pauses must not be negative")
	}
	return nil
}

// GetConfig returns the current application configuration (thread-safe).
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}
