// Package keys implements the Key Handler Orchestrator of spec.md section
// 4.1: an ordered chain of handlers that turns one terminal event into zero
// or more actions, with the first matching handler consuming the event.
package keys

import (
	"github.com/connorleisz/pane/internal/action"
)

// Overlay mirrors state.UIState's overlay enum without importing the state
// package, keeping keys a leaf dependency of the pipeline.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayFilenameSearch
	OverlayContentSearch
	OverlayPrompt
	OverlayCommandPalette
	OverlayClipboard
	OverlaySystemMonitor
	OverlayFileOpsProgress
)

// Mode mirrors state.UIState's input mode enum.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeCommand
	ModePrompt
	ModeSearch
)

// Event is the normalized terminal input this package routes. Key carries
// bubbletea's key string form (e.g. "up", "ctrl+c", "a"), Runes the literal
// typed text when Key is a plain character.
type Event struct {
	Key   string
	Runes []rune
}

// Context is the read-only state a handler needs to decide can_handle,
// without granting it access to the full State Coordinator.
type Context struct {
	Overlay         Overlay
	Mode            Mode
	ClipboardVisible bool
}

// Handler is one link in the orchestrator chain.
type Handler interface {
	// Priority orders the chain; lowest value runs first.
	Priority() int
	CanHandle(ev Event, ctx Context) bool
	Handle(ev Event, ctx Context) []action.Action
}

const (
	PriorityClipboardOverlay = 1
	PriorityNavigation       = 10
	PriorityFileOps          = 20
	PrioritySearch           = 30
	PriorityClipboard        = 40
	PriorityFallback         = 255
)

// clipboardOverlayKeys is the exhaustive key set interpreted while the
// clipboard overlay is visible (spec.md section 4.1 invariant): character
// keys never fall through to browse-mode shortcuts in this state.
var clipboardOverlayKeys = map[string]bool{
	"up": true, "down": true, "enter": true, "tab": true,
	"esc": true, "delete": true, "backspace": true,
	"pgup": true, "pgdown": true, "home": true, "end": true,
}

// Orchestrator runs Event through its handler chain in priority order,
// returning the first matching handler's actions. The chain is built once
// and is not safe to mutate concurrently with Dispatch.
type Orchestrator struct {
	handlers []Handler
}

// NewOrchestrator builds a chain sorted by ascending Priority. Ties keep
// their relative insertion order.
func NewOrchestrator(handlers ...Handler) *Orchestrator {
	o := &Orchestrator{handlers: append([]Handler(nil), handlers...)}
	// Stable insertion sort: the chain is small and built once at startup.
	for i := 1; i < len(o.handlers); i++ {
		for j := i; j > 0 && o.handlers[j].Priority() < o.handlers[j-1].Priority(); j-- {
			o.handlers[j], o.handlers[j-1] = o.handlers[j-1], o.handlers[j]
		}
	}
	return o
}

// Dispatch finds the first handler whose CanHandle is true and returns its
// actions. If the clipboard overlay is visible and ev's key is not in the
// clipboard-overlay key set, Dispatch returns NoOp without consulting any
// handler (the key is swallowed, per the invariant in spec.md section 4.1).
// If no handler matches, NoOp is returned.
func (o *Orchestrator) Dispatch(ev Event, ctx Context) []action.Action {
	if ctx.ClipboardVisible && !clipboardOverlayKeys[ev.Key] {
		return []action.Action{action.NoOpAction()}
	}
	for _, h := range o.handlers {
		if h.CanHandle(ev, ctx) {
			return h.Handle(ev, ctx)
		}
	}
	return []action.Action{action.NoOpAction()}
}
