// Package handler implements the Key Handler Orchestrator chain of spec.md
// section 4.1: one handler per priority band, each translating normalized
// key events into pipeline actions.
package handler

import (
	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
)

// ClipboardOverlay handles navigation and selection within the clipboard
// overlay (spec.md section 4.5: navigate/select/remove/toggle). It runs
// first in the chain (priority 1) and, together with the orchestrator's
// key-swallowing rule, is the only handler reachable while the overlay is
// visible.
type ClipboardOverlay struct{}

func (ClipboardOverlay) Priority() int { return keys.PriorityClipboardOverlay }

func (ClipboardOverlay) CanHandle(ev keys.Event, ctx keys.Context) bool {
	return ctx.ClipboardVisible
}

func (ClipboardOverlay) Handle(ev keys.Event, ctx keys.Context) []action.Action {
	switch ev.Key {
	case "up":
		return []action.Action{action.ClipboardNavigateOverlayAction(-1)}
	case "down":
		return []action.Action{action.ClipboardNavigateOverlayAction(1)}
	case "pgup":
		return []action.Action{action.ClipboardNavigateOverlayAction(-10)}
	case "pgdown":
		return []action.Action{action.ClipboardNavigateOverlayAction(10)}
	case "home":
		return []action.Action{action.ClipboardNavigateOverlayAction(-1 << 30)}
	case "end":
		return []action.Action{action.ClipboardNavigateOverlayAction(1 << 30)}
	case "enter":
		return []action.Action{action.ClipboardSelectAction()}
	case "tab":
		return []action.Action{action.ClipboardPasteAction()}
	case "delete", "backspace":
		// ClipItemID 0 is a sentinel meaning "the overlay's highlighted
		// item"; the Clipboard dispatcher resolves it against UI state.
		return []action.Action{action.ClipboardRemoveAction(0)}
	case "esc":
		return []action.Action{action.ClipboardToggleOverlayAction()}
	}
	return []action.Action{action.NoOpAction()}
}
