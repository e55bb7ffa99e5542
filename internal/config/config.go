package config

import "time"

// Config represents the complete application configuration. Values come
// from viper defaults, an optional config file, and STARFOLLOW_* environment
// variables; components receive it explicitly at construction.
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Bucket  BucketConfig  `mapstructure:"bucket"`
	Pacing  PacingConfig  `mapstructure:"pacing"`
	Pager   PagerConfig   `mapstructure:"pager"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig contains API client configuration.
type GitHubConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// BucketConfig sizes the local token bucket. The bucket fully refills once
// per refill window.
type BucketConfig struct {
	Capacity     int           `mapstructure:"capacity"`
	RefillWindow time.Duration `mapstructure:"refill_window"`
}

// PacingConfig controls the fixed pauses between follow attempts.
type PacingConfig struct {
	SuccessPause time.Duration `mapstructure:"success_pause"`
	FailurePause time.Duration `mapstructure:"failure_pause"`
	ResetMargin  time.Duration `mapstructure:"reset_margin"`
}

// PagerConfig controls stargazer pagination.
type PagerConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level controls the minimum log level.
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`
}
