package quota

import (
	"context"
	"sync"
	"time"

	"github.com/voxgate/voxgate/internal/metrics"
)

const windowSeconds = 60

// MinuteWindow is the in-memory per-minute request tracker: a counter plus a
// fixed-origin 60-second countdown. The window restarts from whenever the
// previous one ended, not from wall-clock minute boundaries, so a burst right
// before a reset followed by a burst right after can briefly exceed the
// provider's true rolling rate. The admission guard's outcomes depend on this
// countdown shape, not on a sliding window.
//
// State is never persisted; a restart begins a fresh, empty window.
type MinuteWindow struct {
	mu          sync.Mutex
	limit       int
	count       int
	secondsLeft int
}

// NewMinuteWindow creates a tracker with a full, empty window.
func NewMinuteWindow(limit int) *MinuteWindow {
	return &MinuteWindow{limit: limit, secondsLeft: windowSeconds}
}

// Tick advances the countdown by one second. At the boundary it resets the
// count and the countdown in the same step, so no reader ever observes a
// countdown of 0 alongside a stale count.
func (w *MinuteWindow) Tick() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.secondsLeft <= 1 {
		w.count = 0
		w.secondsLeft = windowSeconds
	} else {
		w.secondsLeft--
	}
	metrics.MinuteWindowUsage.Set(float64(w.count))
}

// Increment adds one request to the current window, saturating at the limit.
// The admission guard denies requests before the count can pass it.
func (w *MinuteWindow) Increment() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.count < w.limit {
		w.count++
	}
	metrics.MinuteWindowUsage.Set(float64(w.count))
}

// Reset returns the tracker to a full, empty window. Used on credential
// rotation.
func (w *MinuteWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.count = 0
	w.secondsLeft = windowSeconds
	metrics.MinuteWindowUsage.Set(0)
}

// Snapshot returns the current window state.
func (w *MinuteWindow) Snapshot() Window {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Window{Count: w.count, SecondsUntilReset: w.secondsLeft}
}

// Run drives Tick from a 1-second ticker until ctx is cancelled. It touches
// only the tracker's own state and never blocks on an in-flight generation.
func (w *MinuteWindow) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}
