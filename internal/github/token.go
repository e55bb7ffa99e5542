package github

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TokenResult holds a discovered credential and where it came from.
type TokenResult struct {
	Token  string
	Source string
}

// FindToken resolves the bearer credential, checked once at startup.
// Search order:
//  1. STARFOLLOW_GITHUB_TOKEN environment variable
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI hosts.yml ($XDG_CONFIG_HOME/gh/hosts.yml or ~/.config/gh/hosts.yml)
func FindToken() (*TokenResult, error) {
	for _, name := range []string{"STARFOLLOW_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"} {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			return &TokenResult{Token: token, Source: name + " env var"}, nil
		}
	}

	hostsPath := ghHostsPath()
	if token, err := parseGHHosts(hostsPath); err == nil && token != "" {
		return &TokenResult{Token: token, Source: hostsPath}, nil
	}

	return nil, errors.New("GitHub token not found; set STARFOLLOW_GITHUB_TOKEN, GITHUB_TOKEN, or GH_TOKEN, or authenticate the gh CLI")
}

// ghHostsPath returns the gh CLI hosts file path.
func ghHostsPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gh", "hosts.yml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "gh", "hosts.yml")
}

// parseGHHosts extracts an oauth_token from gh CLI's hosts.yml, preferring
// the github.com entry.
func parseGHHosts(path string) (string, error) {
	if path == "" {
		return "", errors.New("hosts path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts map[string]struct {
		OauthToken string `yaml:"oauth_token"`
	}
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return "", err
	}

	if entry, ok := hosts["github.com"]; ok {
		if token := strings.TrimSpace(entry.OauthToken); token != "" {
			return token, nil
		}
	}
	for _, entry := range hosts {
		if token := strings.TrimSpace(entry.OauthToken); token != "" {
			return token, nil
		}
	}
	return "", nil
}
