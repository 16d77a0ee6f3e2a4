// Package progress provides progress reporting for long-running simulation runs.
package progress

import (
	"sync"

	"github.com/rs/zerolog"
)

// Callback reports progress during long operations.
// Parameters:
//   - current: Number of items completed
//   - total: Total number of items
//   - message: Human-readable description of the current phase
//
// A nil Callback is valid and will be safely ignored by the Call() helper.
type Callback func(current, total int, message string)

// Call safely invokes the callback if non-nil.
func Call(cb Callback, current, total int, message string) {
	if cb != nil {
		cb(current, total, message)
	}
}

// Tracker counts completed items from several goroutines and forwards each
// new count to a Callback. Invocations are serialized and the reported count
// never decreases.
type Tracker struct {
	mu      sync.Mutex
	cb      Callback
	total   int
	current int
}

// NewTracker returns a tracker for total items. cb may be nil.
func NewTracker(total int, cb Callback) *Tracker {
	return &Tracker{cb: cb, total: total}
}

// Add records n completed items and reports the new count.
func (t *Tracker) Add(n int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current += n
	if t.current > t.total {
		t.current = t.total
	}
	Call(t.cb, t.current, t.total, message)
}

// Current returns the number of completed items recorded so far.
func (t *Tracker) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// LogCallback returns a Callback that logs at debug level each time another
// step percent of the work completes, plus once on completion.
func LogCallback(log zerolog.Logger, step int) Callback {
	if step <= 0 || step > 100 {
		step = 10
	}

	var mu sync.Mutex
	next := step

	return func(current, total int, message string) {
		if total <= 0 {
			return
		}
		pct := current * 100 / total

		mu.Lock()
		defer mu.Unlock()
		if pct < next && current < total {
			return
		}
		for next <= pct {
			next += step
		}

		log.Debug().
			Int("completed", current).
			Int("total", total).
			Int("percent", pct).
			Msg(message)
	}
}
