package handler

import (
	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/keys"
	"github.com/connorleisz/pane/internal/objectid"
)

// FileOps handles create/rename/delete/cancel/open keystrokes. Like Navigation, it only claims browse-mode events with no
// overlay visible, except for the Esc cancel-all shortcut, which is live
// whenever the file-ops progress overlay is showing.
type FileOps struct{}

func (FileOps) Priority() int { return keys.PriorityFileOps }

func (FileOps) CanHandle(ev keys.Event, ctx keys.Context) bool {
	if ctx.Overlay == keys.OverlayFileOpsProgress && ev.Key == "esc" {
		return true
	}
	if ctx.Mode != keys.ModeBrowse || ctx.Overlay != keys.OverlayNone {
		return false
	}
	switch ev.Key {
	case "n", "N", "r", "d", "x", "o":
		return true
	}
	return false
}

func (FileOps) Handle(ev keys.Event, ctx keys.Context) []action.Action {
	switch ev.Key {
	case "n":
		// Name is supplied once the prompt overlay collects it; this action
		// only opens the prompt. The dispatcher wires the submitted text to
		// CreateFile via SubmitPrompt.
		return []action.Action{action.ShowOverlayAction("prompt-create-file")}
	case "N":
		return []action.Action{action.ShowOverlayAction("prompt-create-directory")}
	case "r":
		return []action.Action{action.ShowOverlayAction("prompt-rename")}
	case "d", "x":
		// TargetID zero is resolved against the active pane's current
		// selection at dispatch time.
		return []action.Action{action.DeleteAction(objectid.Zero)}
	case "o":
		return []action.Action{action.OpenFileAction(objectid.Zero, 0)}
	case "esc":
		return []action.Action{action.CancelOperationAction(ids.OperationID{})}
	}
	return []action.Action{action.NoOpAction()}
}
