package core

import (
	"fmt"
	"strings"
	"time"
)

// Identity is a remote account handle produced by pagination and consumed
// by the follow executor. It lives for one iteration of the run loop.
type Identity struct {
	Login string `json:"login"`
	ID    int64  `json:"id,omitempty"`
}

// OutcomeKind classifies the result of a single follow attempt.
type OutcomeKind int

const (
	OutcomeUnknown          OutcomeKind = 0
	OutcomeSucceeded        OutcomeKind = 1
	OutcomePermissionDenied OutcomeKind = 2
	OutcomeRateLimited      OutcomeKind = 3
	OutcomeTransientFailure OutcomeKind = 4
)

// String returns the log-facing label for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomePermissionDenied:
		return "permission_denied"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeTransientFailure:
		return "transient_failure"
	default:
		return "unknown"
	}
}

// QuotaSnapshot is the remote API's self-reported call allowance,
// parsed from response headers on every call. Never persisted.
type QuotaSnapshot struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Provenance captures metadata about how an attempt was resolved.
type Provenance struct {
	AttemptID   string    `json:"attempt_id"`
	RequestedAt time.Time `json:"requested_at"`
	ResolvedAt  time.Time `json:"resolved_at"`
	Server      string    `json:"server,omitempty"`
	ToolVersion string    `json:"tool_version,omitempty"`
}

// Outcome reports the classified result of one follow attempt.
// Expected API failures travel through Outcome values, never through the
// error channel; only truly exceptional conditions use errors.
type Outcome struct {
	Identity         Identity       `json:"identity"`
	Kind             OutcomeKind    `json:"kind"`
	StatusCode       int            `json:"status_code,omitempty"`
	Message          string         `json:"message,omitempty"`
	RetryAfter       time.Duration  `json:"retry_after,omitempty"`
	RequiredScopes   []string       `json:"required_scopes,omitempty"`
	DocumentationURL string         `json:"documentation_url,omitempty"`
	Quota            *QuotaSnapshot `json:"quota,omitempty"`
	Provenance       Provenance     `json:"provenance"`
}

// Viewer describes the authenticated account resolved by the preflight call.
type Viewer struct {
	Login       string        `json:"login"`
	Scopes      []string      `json:"scopes,omitempty"`
	ScopesKnown bool          `json:"scopes_known"`
	Quota       QuotaSnapshot `json:"quota"`
}

// HasScope reports whether the viewer's granted scope set satisfies the
// required scope.
func (v *Viewer) HasScope(scope string) bool {
	if v == nil {
		return false
	}
	return ScopeGranted(v.Scopes, scope)
}

// ScopeGranted reports whether a required scope is covered by a granted
// scope set. A classic parent scope covers its children, e.g. a token with
// "user" satisfies "user:follow".
func ScopeGranted(granted []string, required string) bool {
	required = strings.ToLower(strings.TrimSpace(required))
	if required == "" {
		return true
	}

	parent := required
	if idx := strings.Index(required, ":"); idx > 0 {
		parent = required[:idx]
	}

	for _, scope := range granted {
		scope = strings.ToLower(strings.TrimSpace(scope))
		if scope == "" {
			continue
		}
		if scope == required || scope == parent {
			return true
		}
	}
	return false
}

// FatalCredentialError marks a credential that is missing, rejected, or
// lacks a capability the run requires. It is never retried; the process
// terminates when one surfaces.
type FatalCredentialError struct {
	Reason        string
	MissingScopes []string
}

func (e *FatalCredentialError) Error() string {
	if e == nil {
		return "fatal credential error"
	}
	if len(e.MissingScopes) > 0 {
		return fmt.Sprintf("fatal credential error: %s (missing scopes: %s)", e.Reason, strings.Join(e.MissingScopes, ", "))
	}
	return "fatal credential error: " + e.Reason
}

// RunSummary aggregates the outcomes of one follow run.
type RunSummary struct {
	Owner        string     `json:"owner"`
	Repo         string     `json:"repo"`
	StartPage    int        `json:"start_page"`
	PagesFetched int        `json:"pages_fetched"`
	Followed     int        `json:"followed"`
	Denied       int        `json:"denied"`
	RateLimited  int        `json:"rate_limited"`
	Failed       int        `json:"failed"`
	Attempts     []*Outcome `json:"attempts"`
	CompletedAt  time.Time  `json:"completed_at"`
}
