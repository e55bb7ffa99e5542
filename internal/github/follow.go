package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starfollow/starfollow/internal/core"
)

// Follow issues PUT /user/following/{login} and classifies the response.
// The API returns 204 both for a new follow and for re-following an account
// already followed, so the call is idempotent. Non-2xx responses are
// inspected and returned as outcomes; the error channel carries only
// cancellation and request construction failures.
func (c *Client) Follow(ctx context.Context, login string) (*core.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	value := strings.TrimSpace(login)
	if value == "" {
		return nil, errors.New("login is required")
	}

	requestedAt := c.now()
	identity := core.Identity{Login: value}

	req, err := c.newRequest(ctx, http.MethodPut, "/user/following/"+url.PathEscape(value), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Length", "0")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return c.outcome(identity, core.OutcomeTransientFailure, 0, err.Error(), nil, requestedAt), nil
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	quota := parseQuota(resp.Header)

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return c.outcome(identity, core.OutcomeSucceeded, resp.StatusCode, "now following", quota, requestedAt), nil

	case resp.StatusCode == http.StatusForbidden && quota != nil && quota.Remaining == 0:
		outcome := c.outcome(identity, core.OutcomeRateLimited, resp.StatusCode, "rate limit exhausted", quota, requestedAt)
		outcome.RetryAfter = retryAfter(resp, quota, c.now())
		return outcome, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		outcome := c.outcome(identity, core.OutcomeRateLimited, resp.StatusCode, "secondary rate limit", quota, requestedAt)
		outcome.RetryAfter = retryAfter(resp, quota, c.now())
		return outcome, nil

	case resp.StatusCode == http.StatusForbidden:
		message, documentation := apiError(resp)
		if message == "" {
			message = "follow forbidden"
		}
		outcome := c.outcome(identity, core.OutcomePermissionDenied, resp.StatusCode, message, quota, requestedAt)
		outcome.DocumentationURL = documentation
		outcome.RequiredScopes = splitScopes(resp.Header.Get("X-Accepted-OAuth-Scopes"))
		return outcome, nil

	default:
		message, _ := apiError(resp)
		if message == "" {
			message = "unexpected follow response"
		}
		return c.outcome(identity, core.OutcomeTransientFailure, resp.StatusCode, message, quota, requestedAt), nil
	}
}

func (c *Client) outcome(identity core.Identity, kind core.OutcomeKind, statusCode int, message string, quota *core.QuotaSnapshot, requestedAt time.Time) *core.Outcome {
	return &core.Outcome{
		Identity:   identity,
		Kind:       kind,
		StatusCode: statusCode,
		Message:    message,
		Quota:      quota,
		Provenance: core.Provenance{
			AttemptID:   uuid.New().String(),
			RequestedAt: requestedAt,
			ResolvedAt:  c.now(),
			Server:      c.baseURL().String(),
			ToolVersion: c.ToolVersion,
		},
	}
}

// apiError decodes the standard GitHub error body.
func apiError(resp *http.Response) (message, documentation string) {
	if resp == nil || resp.Body == nil {
		return "", ""
	}

	var payload struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", ""
	}
	return payload.Message, payload.DocumentationURL
}
