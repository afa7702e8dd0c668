package handler

import (
	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
	"github.com/connorleisz/pane/internal/objectid"
)

// Clipboard handles adding the current selection to the clipboard and
// opening the paste destination overlay from browse mode. Interaction
// within the clipboard overlay itself is ClipboardOverlay's job, which
// runs at a higher priority and intercepts while the overlay is visible.
type Clipboard struct{}

func (Clipboard) Priority() int { return keys.PriorityClipboard }

func (Clipboard) CanHandle(ev keys.Event, ctx keys.Context) bool {
	if ctx.Mode != keys.ModeBrowse || ctx.Overlay != keys.OverlayNone {
		return false
	}
	switch ev.Key {
	case "y", "c", "ctrl+c", "v", "p":
		return true
	}
	return false
}

func (Clipboard) Handle(ev keys.Event, ctx keys.Context) []action.Action {
	switch ev.Key {
	case "y", "c", "ctrl+c":
		return []action.Action{action.ClipboardAddAction(objectid.Zero, "copy")}
	case "v":
		return []action.Action{action.ClipboardAddAction(objectid.Zero, "move")}
	case "p":
		return []action.Action{action.ClipboardToggleOverlayAction()}
	}
	return []action.Action{action.NoOpAction()}
}
