// Package ratelimit implements the per-client sliding-window admission check.
// Windows live in process memory only; this is a best-effort limiter, not a
// distributed quota system.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultWindow   = time.Minute
	DefaultMaxCalls = 30
)

// SlidingWindow tracks call timestamps per client identity inside a trailing
// window. Each Admit prunes the identity's window before deciding.
type SlidingWindow struct {
	mu       sync.Mutex
	window   time.Duration
	maxCalls int
	windows  map[string][]time.Time

	now func() time.Time
}

func NewSlidingWindow(window time.Duration, maxCalls int) *SlidingWindow {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	return &SlidingWindow{
		window:   window,
		maxCalls: maxCalls,
		windows:  make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Admit records the call and returns true, or returns false when identity has
// already made maxCalls calls within the trailing window. An identity with no
// prior activity starts with an empty window.
func (l *SlidingWindow) Admit(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.windows[identity][:0]
	for _, ts := range l.windows[identity] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxCalls {
		l.windows[identity] = kept
		return false
	}

	l.windows[identity] = append(kept, now)
	return true
}

// RetryAfter reports how long a rejected identity must wait before its oldest
// tracked call leaves the window. Zero when the identity is under the limit.
func (l *SlidingWindow) RetryAfter(identity string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.windows[identity]
	if len(window) < l.maxCalls {
		return 0
	}
	wait := window[0].Add(l.window).Sub(l.now())
	if wait < 0 {
		return 0
	}
	return wait
}

// WithClock overrides the time source. Test hook.
func (l *SlidingWindow) WithClock(now func() time.Time) *SlidingWindow {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}
