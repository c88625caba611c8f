package preview

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	db := newDebouncer(50*time.Millisecond, func() { calls.Add(1) })
	defer db.Stop()

	for range 5 {
		db.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("burst of triggers should fire once, fired %d times", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	db := newDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	db.Trigger()
	db.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("stopped debouncer fired %d times", got)
	}
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	var calls atomic.Int32
	db := newDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer db.Stop()

	db.Trigger()
	time.Sleep(80 * time.Millisecond)
	db.Trigger()
	time.Sleep(80 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Fatalf("separate bursts should each fire, fired %d times", got)
	}
}
