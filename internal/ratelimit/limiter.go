// Package ratelimit bounds how often uploads may be attempted.
//
// The limiter is a sliding window over attempt timestamps. It is a UX
// guard against accidental rapid re-uploads, not a security control, and
// keeps no state across process restarts.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults: 10 attempts per minute.
const (
	DefaultMaxAttempts = 10
	DefaultWindow      = 60 * time.Second
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Limiter is a sliding-window attempt counter. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	max      int
	window   time.Duration
	clock    Clock
	attempts []time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock, for tests.
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

// New creates a limiter allowing maxAttempts per window. Non-positive
// values fall back to the defaults.
func New(maxAttempts int, window time.Duration, opts ...Option) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{max: maxAttempts, window: window, clock: systemClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CanAttempt reports whether another attempt fits in the window. It only
// drops expired timestamps; it does not record anything.
func (l *Limiter) CanAttempt() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.clock.Now())
	return len(l.attempts) < l.max
}

// RecordAttempt appends the current time to the window.
func (l *Limiter) RecordAttempt() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	l.prune(now)
	l.attempts = append(l.attempts, now)
}

// Allow checks and records in one step.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	l.prune(now)
	if len(l.attempts) >= l.max {
		return false
	}
	l.attempts = append(l.attempts, now)
	return true
}

// RemainingTime is how long until the oldest in-window attempt expires
// and frees a slot. Zero when an attempt is allowed now.
func (l *Limiter) RemainingTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	l.prune(now)
	if len(l.attempts) < l.max {
		return 0
	}
	if d := l.attempts[0].Add(l.window).Sub(now); d > 0 {
		return d
	}
	return 0
}

// Attempts returns the number of attempts currently in the window.
func (l *Limiter) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.clock.Now())
	return len(l.attempts)
}

// Reset forgets all attempts.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = nil
}

// prune drops attempts at or before now-window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.attempts) && !l.attempts[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.attempts = append(l.attempts[:0], l.attempts[i:]...)
	}
}
