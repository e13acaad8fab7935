// Package progress turns the stream of finished probes into periodic
// progress snapshots.
//
// Cadence is wall-clock based: a snapshot is emitted when at least the
// configured interval has passed since the previous one, and always once
// more when the last expected result arrives. A quiet stretch (every worker
// blocked on a slow host) therefore produces no output rather than a
// timer-driven repeat of the same numbers.
package progress

import (
	"sync"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const DefaultInterval = 500 * time.Millisecond

// Snapshot is a point-in-time copy of the run counters.
type Snapshot struct {
	domain.RunStats
	Throughput float64
	ETA        time.Duration
	Final      bool
}

// Percent of the expected total that has completed.
func (s Snapshot) Percent() float64 {
	if s.Total == 0 {
		return 100
	}
	return float64(s.Completed) * 100 / float64(s.Total)
}

type Tracker struct {
	mu       sync.Mutex
	stats    domain.RunStats
	interval time.Duration
	emit     func(Snapshot)
	start    time.Time
	last     time.Time
	now      func() time.Time
}

func New(total int, interval time.Duration, emit func(Snapshot)) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if emit == nil {
		emit = func(Snapshot) {}
	}
	t := &Tracker{
		stats:    domain.RunStats{Total: total},
		interval: interval,
		emit:     emit,
		now:      time.Now,
	}
	t.start = t.now()
	t.last = t.start
	return t
}

// Observe counts one finished probe and emits a snapshot if one is due.
// Safe for concurrent use; emit is called with the tracker's lock released.
func (t *Tracker) Observe(r domain.Result) {
	t.mu.Lock()
	t.stats.Add(r.Outcome)
	now := t.now()
	t.stats.Elapsed = now.Sub(t.start)
	final := t.stats.Completed >= t.stats.Total
	due := final || now.Sub(t.last) >= t.interval
	var snap Snapshot
	if due {
		t.last = now
		snap = t.snapshotLocked(final)
	}
	t.mu.Unlock()

	if due {
		t.emit(snap)
	}
}

// Snapshot returns the current counters without emitting.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Elapsed = t.now().Sub(t.start)
	return t.snapshotLocked(t.stats.Completed >= t.stats.Total)
}

// Stats returns the raw run counters.
func (t *Tracker) Stats() domain.RunStats {
	return t.Snapshot().RunStats
}

func (t *Tracker) snapshotLocked(final bool) Snapshot {
	return Snapshot{
		RunStats:   t.stats,
		Throughput: t.stats.Throughput(),
		ETA:        t.stats.ETA(),
		Final:      final,
	}
}
