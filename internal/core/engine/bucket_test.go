package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeTimer drives a bucket with a manual clock; sleeping advances the
// clock by the requested duration.
type fakeTimer struct {
	now    time.Time
	sleeps []time.Duration
}

func (f *fakeTimer) clock() time.Time {
	return f.now
}

func (f *fakeTimer) sleep(ctx context.Context, d time.Duration) error {
	f.sleeps = append(f.sleeps, d)
	f.now = f.now.Add(d)
	return nil
}

func newTestBucket(capacity int, window time.Duration) (*Bucket, *fakeTimer) {
	timer := &fakeTimer{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	bucket := NewBucket(capacity, window)
	bucket.Clock = timer.clock
	bucket.Sleep = timer.sleep
	return bucket, timer
}

func TestBucketStartsFull(t *testing.T) {
	bucket, timer := newTestBucket(2, 2*time.Second)

	require.NoError(t, bucket.Acquire(context.Background()))
	require.NoError(t, bucket.Acquire(context.Background()))
	require.Empty(t, timer.sleeps)
	require.Equal(t, 0.0, bucket.Available())
}

func TestBucketBlocksExactlyForOneUnit(t *testing.T) {
	bucket, timer := newTestBucket(2, 2*time.Second) // refills 1 unit/sec

	require.NoError(t, bucket.Acquire(context.Background()))
	require.NoError(t, bucket.Acquire(context.Background()))

	// Empty bucket: the next acquire waits exactly one refill interval.
	require.NoError(t, bucket.Acquire(context.Background()))
	require.Equal(t, []time.Duration{time.Second}, timer.sleeps)
}

func TestBucketSpacedCallsNeverBlock(t *testing.T) {
	bucket, timer := newTestBucket(2, 2*time.Second)

	require.NoError(t, bucket.Acquire(context.Background()))
	require.NoError(t, bucket.Acquire(context.Background()))

	// Calls spaced at least 1/rate apart find a unit waiting.
	for i := 0; i < 5; i++ {
		timer.now = timer.now.Add(time.Second)
		require.NoError(t, bucket.Acquire(context.Background()))
	}
	require.Empty(t, timer.sleeps)
}

func TestBucketNeverExceedsCapacity(t *testing.T) {
	bucket, timer := newTestBucket(5, time.Hour)

	require.NoError(t, bucket.Acquire(context.Background()))
	timer.now = timer.now.Add(24 * time.Hour)
	require.Equal(t, 5.0, bucket.Available())
}

func TestBucketNeverGoesNegative(t *testing.T) {
	bucket, _ := newTestBucket(1, time.Hour)

	require.NoError(t, bucket.Acquire(context.Background()))
	require.GreaterOrEqual(t, bucket.Available(), 0.0)
}

func TestBucketDefaultConfiguration(t *testing.T) {
	bucket := NewBucket(5000, time.Hour)
	require.Equal(t, 5000.0, bucket.Capacity)
	require.InDelta(t, 5000.0/3600.0, bucket.RatePerSecond, 1e-9)
}

func TestBucketRejectsNonPositiveRate(t *testing.T) {
	// Literal construction can leave the rate zero; a drained bucket must
	// error instead of computing an infinite wait.
	bucket := &Bucket{Capacity: 1}

	require.NoError(t, bucket.Acquire(context.Background()))

	err := bucket.Acquire(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate")
}

func TestBucketAcquireHonorsCancellation(t *testing.T) {
	bucket, _ := newTestBucket(1, time.Hour)
	require.NoError(t, bucket.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bucket.Sleep = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}
	require.Error(t, bucket.Acquire(ctx))
}
