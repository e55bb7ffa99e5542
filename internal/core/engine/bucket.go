package engine

import (
	"context"
	"errors"
	"math"
	"time"
)

// Bucket is a token bucket refilled lazily at acquire time: no background
// timer runs, every permit check re-evaluates the elapsed time since the
// last check. The run loop is the only caller, so Bucket is not safe for
// concurrent use; a concurrent design would need explicit FIFO ordering.
type Bucket struct {
	Capacity      float64
	RatePerSecond float64
	Clock         func() time.Time
	Sleep         func(ctx context.Context, d time.Duration) error

	available   float64
	last        time.Time
	initialized bool
}

// NewBucket builds a bucket that fully refills once per refill window.
func NewBucket(capacity int, refillWindow time.Duration) *Bucket {
	if capacity < 1 {
		capacity = 1
	}
	if refillWindow <= 0 {
		refillWindow = time.Hour
	}
	return &Bucket{
		Capacity:      float64(capacity),
		RatePerSecond: float64(capacity) / refillWindow.Seconds(),
	}
}

// Acquire blocks until at least one unit is available, then takes it.
// The bucket starts full.
func (b *Bucket) Acquire(ctx context.Context) error {
	if b == nil {
		return errors.New("bucket is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		b.refill()
		if b.available >= 1 {
			b.available--
			return nil
		}

		// A drained bucket that never refills would wait forever.
		if b.RatePerSecond <= 0 {
			return errors.New("bucket refill rate must be positive")
		}

		// Wait exactly long enough for the deficit to refill.
		deficit := 1 - b.available
		wait := time.Duration(deficit / b.RatePerSecond * float64(time.Second))
		if err := b.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Available reports the currently available units after a lazy refill.
func (b *Bucket) Available() float64 {
	if b == nil {
		return 0
	}
	b.refill()
	return b.available
}

func (b *Bucket) refill() {
	now := b.now()
	if !b.initialized {
		b.available = b.Capacity
		b.last = now
		b.initialized = true
		return
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed <= 0 {
		return
	}
	b.available = math.Min(b.Capacity, b.available+elapsed*b.RatePerSecond)
	b.last = now
}

func (b *Bucket) now() time.Time {
	if b != nil && b.Clock != nil {
		return b.Clock()
	}
	return time.Now().UTC()
}

func (b *Bucket) sleep(ctx context.Context, d time.Duration) error {
	if b != nil && b.Sleep != nil {
		return b.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

// SleepContext pauses for d or until the context is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
