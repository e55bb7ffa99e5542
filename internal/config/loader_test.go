package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func setTestDefaults() {
	viper.Reset()
	viper.Set("github.base_url", "https://api.github.com")
	viper.Set("github.timeout", "10s")
	viper.Set("github.user_agent", "starfollow")
	viper.Set("bucket.capacity", 5000)
	viper.Set("bucket.refill_window", "1h")
	viper.Set("pacing.success_pause", "1.5s")
	viper.Set("pacing.failure_pause", "5s")
	viper.Set("pacing.reset_margin", "1s")
	viper.Set("pager.page_size", 100)
	viper.Set("logging.level", "info")
}

func TestLoadDecodesDurations(t *testing.T) {
	setTestDefaults()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	require.Equal(t, 10*time.Second, cfg.GitHub.Timeout)
	require.Equal(t, 5000, cfg.Bucket.Capacity)
	require.Equal(t, time.Hour, cfg.Bucket.RefillWindow)
	require.Equal(t, 1500*time.Millisecond, cfg.Pacing.SuccessPause)
	require.Equal(t, 5*time.Second, cfg.Pacing.FailurePause)
	require.Equal(t, time.Second, cfg.Pacing.ResetMargin)
	require.Equal(t, 100, cfg.Pager.PageSize)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadStoresGlobalConfig(t *testing.T) {
	setTestDefaults()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)
	require.Same(t, cfg, GetConfig())
}

func TestLoadRejectsZeroCapacity(t *testing.T) {
	setTestDefaults()
	defer viper.Reset()
	viper.Set("bucket.capacity", 0)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "capacity")
}

func TestLoadRejectsNonPositiveWindow(t *testing.T) {
	setTestDefaults()
	defer viper.Reset()
	viper.Set("bucket.refill_window", "0s")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "refill window")
}

func TestLoadRejectsOversizedPage(t *testing.T) {
	setTestDefaults()
	defer viper.Reset()
	viper.Set("pager.page_size", 250)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "page size")
}

func TestLoadRejectsNegativePause(t *testing.T) {
	setTestDefaults()
	defer viper.Reset()
	viper.Set("pacing.failure_pause", "-1s")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "pacing")
}
