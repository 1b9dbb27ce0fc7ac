package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Monotonic(t *testing.T) {
	base := 100 * time.Millisecond
	max := 2 * time.Second
	var prev time.Duration
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt, base, max, false)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestBackoff_BoundedUnderJitter(t *testing.T) {
	base := 100 * time.Millisecond
	max := time.Second
	for i := 0; i < 50; i++ {
		d := Backoff(8, base, max, true)
		assert.LessOrEqual(t, d, time.Duration(float64(max)*1.5))
	}
}

func TestLimiter_TryAcquireRespectsBurst(t *testing.T) {
	l := New(1, 2)
	assert.True(t, l.TryAcquire())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
}

func TestLimiter_AcquireTimesOut(t *testing.T) {
	l := New(0.5, 1)
	assert.True(t, l.TryAcquire())
	ctx := context.Background()
	assert.False(t, l.Acquire(ctx, 10*time.Millisecond))
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, 1)
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
	l.Reset()
	assert.True(t, l.TryAcquire())
}
