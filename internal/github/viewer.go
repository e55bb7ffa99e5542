package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/starfollow/starfollow/internal/core"
)

// FollowScope is the capability a credential needs to follow users.
// Classic tokens satisfy it via "user:follow" or the parent "user" scope.
const FollowScope = "user:follow"

// Viewer resolves the authenticated account, its granted scope set, and the
// current quota snapshot. Called once at startup; a rejected credential is a
// fatal error, never retried.
func (c *Client) Viewer(ctx context.Context) (*core.Viewer, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("credential preflight failed: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode below
	case http.StatusUnauthorized:
		return nil, &core.FatalCredentialError{Reason: "credential rejected by the API (401)"}
	case http.StatusForbidden:
		return nil, &core.FatalCredentialError{Reason: "credential forbidden by the API (403)"}
	default:
		return nil, fmt.Errorf("unexpected preflight response: %d", resp.StatusCode)
	}

	var payload struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode preflight response: %w", err)
	}

	viewer := &core.Viewer{Login: payload.Login}
	if quota := parseQuota(resp.Header); quota != nil {
		viewer.Quota = *quota
	}

	// Fine-grained tokens carry no scope header; their capability set is
	// unknown here and checked per-call instead.
	if raw := resp.Header.Get("X-OAuth-Scopes"); raw != "" {
		viewer.Scopes = splitScopes(raw)
		viewer.ScopesKnown = true
	}

	return viewer, nil
}
