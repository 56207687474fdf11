package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/bingo/internal/testutil"
)

func newTestLimiter(max int, window time.Duration) (*Limiter, *testutil.FakeClock) {
	clock := testutil.NewFakeClock(time.Time{})
	return New(max, window, WithClock(clock)), clock
}

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.CanAttempt())
		l.RecordAttempt()
	}
	assert.False(t, l.CanAttempt())
	assert.Equal(t, 3, l.Attempts())
}

func TestLimiter_CanAttemptDoesNotRecord(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	for i := 0; i < 5; i++ {
		assert.True(t, l.CanAttempt())
	}
	assert.Zero(t, l.Attempts())
}

func TestLimiter_WindowSlides(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	l.RecordAttempt()
	clock.Advance(20 * time.Second)
	l.RecordAttempt()
	assert.False(t, l.CanAttempt())

	// first attempt expires exactly one window after it was made
	clock.Advance(40 * time.Second)
	assert.True(t, l.CanAttempt())
	assert.Equal(t, 1, l.Attempts())

	clock.Advance(20 * time.Second)
	assert.Zero(t, l.Attempts())
}

func TestLimiter_RemainingTime(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	assert.Zero(t, l.RemainingTime())

	l.RecordAttempt()
	assert.Zero(t, l.RemainingTime(), "slot still free")

	clock.Advance(15 * time.Second)
	l.RecordAttempt()
	assert.Equal(t, 45*time.Second, l.RemainingTime())

	clock.Advance(44 * time.Second)
	assert.Equal(t, time.Second, l.RemainingTime())

	clock.Advance(time.Second)
	assert.Zero(t, l.RemainingTime())
}

func TestLimiter_Allow(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
	assert.Equal(t, 2, l.Attempts(), "rejected attempts are not recorded")

	clock.Advance(time.Minute)
	assert.True(t, l.Allow())
}

func TestLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	l.RecordAttempt()
	assert.False(t, l.CanAttempt())
	l.Reset()
	assert.True(t, l.CanAttempt())
	assert.Zero(t, l.RemainingTime())
}

func TestLimiter_Defaults(t *testing.T) {
	l, _ := newTestLimiter(0, 0)
	for i := 0; i < DefaultMaxAttempts; i++ {
		assert.True(t, l.Allow())
	}
	assert.False(t, l.Allow())
	assert.Equal(t, DefaultWindow, l.RemainingTime())
}

func TestLimiter_ConcurrentAllow(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}
