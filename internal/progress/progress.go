// Package progress defines the progress-reporting and cancellation types
// shared by the State Coordinator, the Background Task Manager, and the
// Clipboard Engine, kept dependency-free of all three so none of them need
// to import one another for a shared struct.
package progress

import (
	"context"
	"sync"
	"time"
)

// Snapshot is a point-in-time progress reading for a file operation
// (spec.md section 4.3.3): byte/file counters, throughput (EWMA
// bytes/second), and ETA (undefined until throughput > 0).
type Snapshot struct {
	CurrentFile  string
	DoneBytes    int64
	TotalBytes   int64
	DoneFiles    int
	TotalFiles   int
	ThroughputBs float64 // exponentially-weighted moving average, bytes/sec
	ETA          time.Duration
	ETAKnown     bool
}

// ewmaAlpha weights the most recent throughput sample against history.
// 0.3 follows the conventional choice for a responsive-but-stable EWMA over
// a stream of ~10 samples/second (100ms throttle).
const ewmaAlpha = 0.3

// Tracker accumulates byte/file counts for one operation and derives the
// EWMA throughput and ETA used to throttle and label progress messages.
type Tracker struct {
	mu           sync.Mutex
	totalBytes   int64
	totalFiles   int
	doneBytes    int64
	doneFiles    int
	currentFile  string
	throughputBs float64
	lastSample   time.Time
	lastBytes    int64
}

// NewTracker creates a Tracker for an operation whose pre-walk computed
// totalBytes across totalFiles files.
func NewTracker(totalBytes int64, totalFiles int) *Tracker {
	return &Tracker{totalBytes: totalBytes, totalFiles: totalFiles, lastSample: time.Now()}
}

// Advance records that n more bytes were copied for the named file,
// updating the EWMA throughput sample.
func (t *Tracker) Advance(currentFile string, n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentFile = currentFile
	t.doneBytes += n

	now := time.Now()
	elapsed := now.Sub(t.lastSample).Seconds()
	if elapsed > 0 {
		instant := float64(t.doneBytes-t.lastBytes) / elapsed
		if t.throughputBs == 0 {
			t.throughputBs = instant
		} else {
			t.throughputBs = ewmaAlpha*instant + (1-ewmaAlpha)*t.throughputBs
		}
		t.lastSample = now
		t.lastBytes = t.doneBytes
	}
}

// FileDone increments the completed-file counter.
func (t *Tracker) FileDone() {
	t.mu.Lock()
	t.doneFiles++
	t.mu.Unlock()
}

// Snapshot returns the current progress reading.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		CurrentFile:  t.currentFile,
		DoneBytes:    t.doneBytes,
		TotalBytes:   t.totalBytes,
		DoneFiles:    t.doneFiles,
		TotalFiles:   t.totalFiles,
		ThroughputBs: t.throughputBs,
	}
	if t.throughputBs > 0 {
		remaining := t.totalBytes - t.doneBytes
		if remaining < 0 {
			remaining = 0
		}
		s.ETA = time.Duration(float64(remaining) / t.throughputBs * float64(time.Second))
		s.ETAKnown = true
	}
	return s
}

// ThrottleGate decides whether enough has changed since the last emitted
// progress message to justify another one: spec.md section 4.3.3 throttles
// on >=100ms elapsed, >=1MiB processed, or a file-name change, whichever
// comes first.
type ThrottleGate struct {
	lastEmit time.Time
	lastByte int64
	lastFile string
}

const (
	throttleInterval = 100 * time.Millisecond
	throttleBytes    = 1 << 20 // 1 MiB
)

// ShouldEmit reports whether a progress message should be sent now, and
// updates internal bookkeeping if so.
func (g *ThrottleGate) ShouldEmit(s Snapshot, now time.Time) bool {
	fileChanged := s.CurrentFile != g.lastFile
	byteDelta := s.DoneBytes - g.lastByte
	timeDelta := now.Sub(g.lastEmit)

	if g.lastEmit.IsZero() || fileChanged || byteDelta >= throttleBytes || timeDelta >= throttleInterval {
		g.lastEmit = now
		g.lastByte = s.DoneBytes
		g.lastFile = s.CurrentFile
		return true
	}
	return false
}

// CancelToken is a cooperative cancellation handle shared by the spawner,
// the running task, and the UI (spec.md section 3). It wraps a
// context.Context so task code that already awaits ctx.Done() at every
// suspension point needs no special-casing for this handle.
type CancelToken struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCancelToken derives a cancellable token from parent.
func NewCancelToken(parent context.Context) *CancelToken {
	ctx, cancel := context.WithCancel(parent)
	return &CancelToken{ctx: ctx, cancel: cancel}
}

// Context returns the token's context for use in ctx.Done()/ctx.Err() checks
// and for passing to context-aware syscall wrappers (os.OpenFile has none,
// but exec.CommandContext and similar do).
func (t *CancelToken) Context() context.Context { return t.ctx }

// Cancel requests cancellation. Idempotent.
func (t *CancelToken) Cancel() { t.cancel() }

// Cancelled reports whether cancellation has been requested.
func (t *CancelToken) Cancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}
