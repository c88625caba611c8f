package preview

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of triggers into a single callback invocation
// once the burst has been quiet for the configured duration.
type debouncer struct {
	mu    sync.Mutex
	d     time.Duration
	timer *time.Timer
	fn    func()
}

func newDebouncer(d time.Duration, fn func()) *debouncer {
	return &debouncer{d: d, fn: fn}
}

// Trigger schedules the callback, resetting the quiet period.
func (db *debouncer) Trigger() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, db.fn)
}

// Stop cancels any pending callback.
func (db *debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
