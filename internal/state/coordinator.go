package state

import (
	"sync"

	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/registry"
)

// Coordinator owns the three independently-locked containers plus the
// Metadata Registry (with its own per-entry locks) and the redraw flag set (spec.md section
// 4.2). No caller may hold two of {App, FS, UI} at once for longer than
// constant work; every multi-container update in this codebase is written
// as two sequential Lock/release pairs instead.
type Coordinator struct {
	appMu sync.Mutex
	app   *AppState

	fsMu sync.Mutex
	fs   *FSState

	uiMu sync.Mutex
	ui   *UIState

	// Registry uses its own per-entry locks and is deliberately not guarded
	// by any of the three mutexes above (spec.md section 4.2).
	Registry *registry.Registry
	// Cache is the LRU/TTL front layer over Registry for heavy-traffic keys
	// (spec.md section 4.4). It is optional: nil disables eviction entirely
	// and every insert goes straight to Registry.
	Cache  *registry.Cache
	Redraw redraw.Flags
}

// NewCoordinator wires a Coordinator around already-constructed state. cache
// may be nil; Put falls back to writing reg directly in that case.
func NewCoordinator(app *AppState, fs *FSState, ui *UIState, reg *registry.Registry, cache *registry.Cache) *Coordinator {
	return &Coordinator{app: app, fs: fs, ui: ui, Registry: reg, Cache: cache}
}

// Put writes info for id through Cache when one is configured, else
// straight to Registry, so callers never need to nil-check Cache.
func (c *Coordinator) Put(id objectid.ID, info *registry.ObjectInfo) {
	if c.Cache != nil {
		c.Cache.Put(id, info)
		return
	}
	c.Registry.Insert(id, info)
}

// LockApp acquires the App container and returns a release function. Callers
// must call release before acquiring FS or UI, never nest the three.
func (c *Coordinator) LockApp() (*AppState, func()) {
	c.appMu.Lock()
	return c.app, c.appMu.Unlock
}

// LockFS acquires the FS container.
func (c *Coordinator) LockFS() (*FSState, func()) {
	c.fsMu.Lock()
	return c.fs, c.fsMu.Unlock
}

// LockUI acquires the UI container, blocking if contended. Background
// dispatchers use this; the render path must use TryLockUI instead.
func (c *Coordinator) LockUI() (*UIState, func()) {
	c.uiMu.Lock()
	return c.ui, c.uiMu.Unlock
}

// TryLockUI attempts to acquire the UI container without blocking. The
// render loop uses this exclusively: on contention it returns ok=false and
// the frame is skipped rather than stalling on a background mutation
// (spec.md section 4.2).
func (c *Coordinator) TryLockUI() (ui *UIState, release func(), ok bool) {
	if !c.uiMu.TryLock() {
		return nil, nil, false
	}
	return c.ui, c.uiMu.Unlock, true
}
