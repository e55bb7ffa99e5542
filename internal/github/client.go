package github

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starfollow/starfollow/internal/core"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API with one bearer credential, loaded
// once at startup and immutable for the process lifetime.
type Client struct {
	BaseURL     string
	Token       string
	HTTPClient  *http.Client
	UserAgent   string
	ToolVersion string
	Clock       func() time.Time
}

func (c *Client) baseURL() *url.URL {
	if c != nil && c.BaseURL != "" {
		if parsed, err := url.Parse(c.BaseURL); err == nil {
			return parsed
		}
	}
	parsed, _ := url.Parse(defaultBaseURL)
	return parsed
}

func (c *Client) httpClient() *http.Client {
	if c != nil && c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	reqURL := c.baseURL().ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if token := strings.TrimSpace(c.Token); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}
	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	return req, nil
}

func (c *Client) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}

// parseQuota reads the remote rate limit snapshot from response headers.
// Returns nil when the headers are absent.
func parseQuota(header http.Header) *core.QuotaSnapshot {
	if header == nil {
		return nil
	}

	limitRaw := header.Get("X-RateLimit-Limit")
	remainingRaw := header.Get("X-RateLimit-Remaining")
	if limitRaw == "" && remainingRaw == "" {
		return nil
	}

	snapshot := &core.QuotaSnapshot{}
	if v, err := strconv.Atoi(limitRaw); err == nil {
		snapshot.Limit = v
	}
	if v, err := strconv.Atoi(remainingRaw); err == nil {
		snapshot.Remaining = v
	}
	if v, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil && v > 0 {
		snapshot.ResetAt = time.Unix(v, 0).UTC()
	}
	return snapshot
}

// retryAfter computes how long to wait before the quota window reopens,
// preferring an explicit Retry-After header over the reset timestamp.
func retryAfter(resp *http.Response, quota *core.QuotaSnapshot, now time.Time) time.Duration {
	if resp != nil && resp.Header != nil {
		if raw := resp.Header.Get("Retry-After"); raw != "" {
			if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
			if parsed, err := http.ParseTime(raw); err == nil {
				return parsed.Sub(now)
			}
		}
	}
	if quota != nil && !quota.ResetAt.IsZero() {
		return quota.ResetAt.Sub(now)
	}
	return 0
}

func splitScopes(raw string) []string {
	parts := strings.Split(raw, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		scope := strings.TrimSpace(part)
		if scope == "" {
			continue
		}
		scopes = append(scopes, scope)
	}
	if len(scopes) == 0 {
		return nil
	}
	return scopes
}
