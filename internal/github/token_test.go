package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearTokenEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STARFOLLOW_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestFindTokenPrefersAppSpecificEnvVar(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("STARFOLLOW_GITHUB_TOKEN", "ghp_app")
	t.Setenv("GITHUB_TOKEN", "ghp_generic")

	result, err := FindToken()
	require.NoError(t, err)
	require.Equal(t, "ghp_app", result.Token)
	require.Contains(t, result.Source, "STARFOLLOW_GITHUB_TOKEN")
}

func TestFindTokenFallsThroughEnvVars(t *testing.T) {
	clearTokenEnv(t)
	t.Setenv("GH_TOKEN", "ghp_ghcli")

	result, err := FindToken()
	require.NoError(t, err)
	require.Equal(t, "ghp_ghcli", result.Token)
	require.Contains(t, result.Source, "GH_TOKEN")
}

func TestFindTokenReadsGHHosts(t *testing.T) {
	clearTokenEnv(t)

	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	hostsDir := filepath.Join(configDir, "gh")
	require.NoError(t, os.MkdirAll(hostsDir, 0o755))

	hosts := "github.com:\n    user: octocat\n    oauth_token: gho_fromhosts\n"
	require.NoError(t, os.WriteFile(filepath.Join(hostsDir, "hosts.yml"), []byte(hosts), 0o600))

	result, err := FindToken()
	require.NoError(t, err)
	require.Equal(t, "gho_fromhosts", result.Token)
	require.Contains(t, result.Source, "hosts.yml")
}

func TestFindTokenPrefersGitHubDotComHost(t *testing.T) {
	clearTokenEnv(t)

	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	hostsDir := filepath.Join(configDir, "gh")
	require.NoError(t, os.MkdirAll(hostsDir, 0o755))

	hosts := "ghe.example.com:\n    oauth_token: gho_enterprise\ngithub.com:\n    oauth_token: gho_public\n"
	require.NoError(t, os.WriteFile(filepath.Join(hostsDir, "hosts.yml"), []byte(hosts), 0o600))

	result, err := FindToken()
	require.NoError(t, err)
	require.Equal(t, "gho_public", result.Token)
}

func TestFindTokenMissingEverywhere(t *testing.T) {
	clearTokenEnv(t)

	_, err := FindToken()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GitHub token not found")
}

func TestParseGHHostsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.yml")
	require.NoError(t, os.WriteFile(path, []byte("::not yaml::"), 0o600))

	_, err := parseGHHosts(path)
	require.Error(t, err)
}
