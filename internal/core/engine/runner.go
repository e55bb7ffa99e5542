package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/starfollow/starfollow/internal/core"
)

// Pager fetches one page of identities. An empty page terminates the run.
// The page counter is owned by the Runner, so a run can start at any page.
type Pager interface {
	NextPage(ctx context.Context, page int) ([]core.Identity, error)
}

// Pacing controls the fixed pauses between follow attempts. A shorter pause
// follows success, a longer one follows any failure; ResetMargin is added on
// top of a remote-reported rate limit window before resuming.
type Pacing struct {
	SuccessPause time.Duration
	FailurePause time.Duration
	ResetMargin  time.Duration
}

// Runner drives pagination from a starting page and executes one follow per
// identity, sequentially. A throttled identity is skipped after the backoff
// window rather than resubmitted.
type Runner struct {
	Pager    Pager
	Executor *Executor
	Pacing   Pacing

	// Scope set granted to the credential, from the preflight call. Used to
	// decide whether a permission denial is fatal. ScopesKnown is false for
	// fine-grained tokens, which expose no scope header.
	GrantedScopes []string
	ScopesKnown   bool

	// MaxPages bounds the run when positive; zero means run to exhaustion.
	MaxPages int

	// OnAttempt observes every classified outcome, for logging.
	OnAttempt func(*core.Outcome)

	Sleep func(ctx context.Context, d time.Duration) error
	Clock func() time.Time
}

// Run processes stargazer pages until an empty page, the page bound, or a
// fatal credential error. The returned summary reflects everything attempted
// so far even when err is non-nil.
func (r *Runner) Run(ctx context.Context, owner, repo string, startPage int) (*core.RunSummary, error) {
	if r == nil || r.Pager == nil || r.Executor == nil {
		return nil, errors.New("runner is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if startPage < 1 {
		startPage = 1
	}

	summary := &core.RunSummary{
		Owner:     owner,
		Repo:      repo,
		StartPage: startPage,
	}

	for page := startPage; ; page++ {
		if r.MaxPages > 0 && summary.PagesFetched >= r.MaxPages {
			break
		}

		identities, err := r.Pager.NextPage(ctx, page)
		if err != nil {
			summary.CompletedAt = r.now()
			return summary, fmt.Errorf("fetch stargazers page %d: %w", page, err)
		}
		if len(identities) == 0 {
			break
		}
		summary.PagesFetched++

		for _, identity := range identities {
			outcome, err := r.Executor.Execute(ctx, identity)
			if err != nil {
				summary.CompletedAt = r.now()
				return summary, err
			}

			summary.Attempts = append(summary.Attempts, outcome)
			if r.OnAttempt != nil {
				r.OnAttempt(outcome)
			}

			if err := r.settle(ctx, summary, outcome); err != nil {
				summary.CompletedAt = r.now()
				return summary, err
			}
		}
	}

	summary.CompletedAt = r.now()
	return summary, nil
}

// settle applies the post-outcome bookkeeping and pause.
func (r *Runner) settle(ctx context.Context, summary *core.RunSummary, outcome *core.Outcome) error {
	switch outcome.Kind {
	case core.OutcomeSucceeded:
		summary.Followed++
		return r.sleep(ctx, r.Pacing.SuccessPause)

	case core.OutcomeRateLimited:
		summary.RateLimited++
		wait := outcome.RetryAfter
		if wait < 0 {
			wait = 0
		}
		return r.sleep(ctx, wait+r.Pacing.ResetMargin)

	case core.OutcomePermissionDenied:
		if fatal := r.fatalScopeGap(outcome); fatal != nil {
			return fatal
		}
		summary.Denied++
		return r.sleep(ctx, r.Pacing.FailurePause)

	default:
		summary.Failed++
		return r.sleep(ctx, r.Pacing.FailurePause)
	}
}

// fatalScopeGap reports a fatal credential error when a denial names
// required scopes and none of them is covered by the granted set. A missing
// capability cannot be fixed by retrying.
func (r *Runner) fatalScopeGap(outcome *core.Outcome) error {
	if !r.ScopesKnown || len(outcome.RequiredScopes) == 0 {
		return nil
	}
	for _, required := range outcome.RequiredScopes {
		if core.ScopeGranted(r.GrantedScopes, required) {
			return nil
		}
	}
	return &core.FatalCredentialError{
		Reason:        "credential lacks a scope required to follow users",
		MissingScopes: outcome.RequiredScopes,
	}
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if r != nil && r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

func (r *Runner) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}
