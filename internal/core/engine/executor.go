package engine

import (
	"context"
	"errors"

	"github.com/starfollow/starfollow/internal/core"
)

// Follower issues the side-effecting follow call for one identity and
// classifies the response into an outcome. Non-2xx responses are data, not
// transport failures.
type Follower interface {
	Follow(ctx context.Context, login string) (*core.Outcome, error)
}

// Executor gates each follow attempt behind the local token bucket and
// performs exactly one outbound call per Execute. A rate-limited identity
// is reported, not re-attempted; the caller decides how long to pause.
type Executor struct {
	Limiter  *Bucket
	Follower Follower
}

// Execute acquires a permit (may suspend), performs the follow call, and
// returns the classified outcome. The error channel is reserved for
// cancellation and misconfiguration; expected API failures come back as
// outcome values.
func (e *Executor) Execute(ctx context.Context, identity core.Identity) (*core.Outcome, error) {
	if e == nil || e.Follower == nil {
		return nil, errors.New("executor is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if e.Limiter != nil {
		if err := e.Limiter.Acquire(ctx); err != nil {
			return nil, err
		}
	}

	outcome, err := e.Follower.Follow(ctx, identity.Login)
	if err != nil {
		return nil, err
	}
	if outcome != nil && outcome.Identity.Login == "" {
		outcome.Identity = identity
	}
	return outcome, nil
}
