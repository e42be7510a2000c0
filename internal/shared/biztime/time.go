// Package biztime is the single source of wall-clock time. Everything is
// stored and transported in UTC.
package biztime

import (
	"sync"
	"time"
)

var (
	mu  sync.RWMutex
	now = time.Now
)

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return now().UTC()
}

// SetClock replaces the clock and returns a function restoring the previous one.
// Intended for tests.
func SetClock(fn func() time.Time) (restore func()) {
	mu.Lock()
	prev := now
	now = fn
	mu.Unlock()
	return func() {
		mu.Lock()
		now = prev
		mu.Unlock()
	}
}

// ToUnixMilli converts t to milliseconds since epoch; the zero time maps to 0.
func ToUnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMilli is the inverse of ToUnixMilli.
func FromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
