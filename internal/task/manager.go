// Package task implements the Background Task Manager of spec.md section
// 4.3: a parallel worker pool that runs directory scans, metadata
// enrichment, file operations, external search, and size computation off
// the event loop, reporting results as actions on a single ordered channel.
// It generalizes the teacher's per-call tea.Cmd closures
// (internal/app/async.go) into a capped worker pool so multiple tasks can
// genuinely run at once rather than one goroutine per keypress.
package task

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/progress"
)

// Emit pushes one action onto the result stream immediately, letting a Func
// report progress while it is still running rather than only once it
// returns.
type Emit func(action.Action)

// Func is a unit of background work. It receives a cancellable context and
// an Emit for streaming intermediate results, and returns the actions to
// re-enter through the pipeline once it completes. Every suspension point
// inside a Func must select on ctx.Done() (spec.md section 4.3:
// "cancellation is checked at every await").
type Func func(ctx context.Context, emit Emit) []action.Action

// Manager runs Funcs on a worker pool capped at 2x CPU count and funnels
// their results onto a single channel, preserving arrival order the way a
// single consumer goroutine naturally would (spec.md section 4.3: "Task
// results are consumed by the event core in arrival order").
//
// Spawn, Cancel, and CancelAll are ordinarily called from the single
// event-loop goroutine that also owns Results(), mirroring Bubble Tea's
// single-threaded Update contract; tokensMu guards the token table only
// because each spawned Func's own goroutine also deletes its entry once
// the Func returns, which is the one access that does not come from the
// event loop.
type Manager struct {
	sem      *semaphore.Weighted
	results  chan action.Action
	tokensMu sync.Mutex
	tokens   map[ids.OperationID]*progress.CancelToken
	cancel   context.CancelFunc
	root     context.Context
}

// NewManager creates a Manager whose worker cap is 2x GOMAXPROCS, per
// spec.md section 4.5's paste-scheduling cap generalized to every task kind.
func NewManager(parent context.Context) *Manager {
	ctx, cancel := context.WithCancel(parent)
	cap := int64(runtime.GOMAXPROCS(0) * 2)
	if cap < 2 {
		cap = 2
	}
	return &Manager{
		sem:     semaphore.NewWeighted(cap),
		results: make(chan action.Action, 64),
		tokens:  make(map[ids.OperationID]*progress.CancelToken),
		cancel:  cancel,
		root:    ctx,
	}
}

// Results returns the channel the event loop drains task results from.
func (m *Manager) Results() <-chan action.Action { return m.results }

// Spawn runs fn on the worker pool under opID's own cancellation token. It
// returns at once; fn's goroutine waits for a free worker slot. Results are
// pushed onto Results() when fn returns. The token is removed
// from the table once fn has returned and every result it produced has been
// emitted, so a long session does not accumulate one stale *CancelToken per
// completed operation forever.
func (m *Manager) Spawn(opID ids.OperationID, fn Func) {
	tok := progress.NewCancelToken(m.root)
	m.tokensMu.Lock()
	m.tokens[opID] = tok
	m.tokensMu.Unlock()
	emit := func(a action.Action) {
		select {
		case m.results <- a:
		case <-m.root.Done():
		}
	}
	go func() {
		defer func() {
			m.tokensMu.Lock()
			delete(m.tokens, opID)
			m.tokensMu.Unlock()
		}()
		if err := m.sem.Acquire(m.root, 1); err != nil {
			return
		}
		defer m.sem.Release(1)
		for _, a := range fn(tok.Context(), emit) {
			emit(a)
		}
	}()
}

// Cancel cancels a single operation's token.
func (m *Manager) Cancel(opID ids.OperationID) {
	m.tokensMu.Lock()
	tok, ok := m.tokens[opID]
	m.tokensMu.Unlock()
	if ok {
		tok.Cancel()
	}
}

// CancelAll cancels every in-flight operation's token (the Esc shortcut of
// spec.md section 4.3.3) and clears the token table.
func (m *Manager) CancelAll() {
	m.tokensMu.Lock()
	tokens := m.tokens
	m.tokens = make(map[ids.OperationID]*progress.CancelToken)
	m.tokensMu.Unlock()
	for _, tok := range tokens {
		tok.Cancel()
	}
}

// Shutdown cancels every task and stops accepting new work.
func (m *Manager) Shutdown() { m.cancel() }
