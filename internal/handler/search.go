package handler

import (
	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
)

// Search handles entering and interacting with the filename/content search
// overlays. Submission of the actual query text comes through SubmitPrompt
// once the overlay is in Mode Search collecting input; this handler's job
// is to open/close the overlay and route its navigation keys.
type Search struct{}

func (Search) Priority() int { return keys.PrioritySearch }

func (Search) CanHandle(ev keys.Event, ctx keys.Context) bool {
	if ctx.Mode == keys.ModeBrowse && ctx.Overlay == keys.OverlayNone {
		switch ev.Key {
		case "/", "ctrl+f":
			return true
		}
		return false
	}
	if ctx.Overlay == keys.OverlayFilenameSearch || ctx.Overlay == keys.OverlayContentSearch {
		switch ev.Key {
		case "esc", "up", "down", "enter":
			return true
		}
	}
	return false
}

func (Search) Handle(ev keys.Event, ctx keys.Context) []action.Action {
	if ctx.Mode == keys.ModeBrowse && ctx.Overlay == keys.OverlayNone {
		switch ev.Key {
		case "/":
			return []action.Action{action.ToggleFilenameSearchAction()}
		case "ctrl+f":
			return []action.Action{action.ToggleContentSearchAction()}
		}
	}
	switch ev.Key {
	case "esc":
		if ctx.Overlay == keys.OverlayFilenameSearch {
			return []action.Action{action.ToggleFilenameSearchAction()}
		}
		return []action.Action{action.ToggleContentSearchAction()}
	case "up":
		return []action.Action{action.MoveSelectionBy(-1)}
	case "down":
		return []action.Action{action.MoveSelectionBy(1)}
	case "enter":
		if ctx.Overlay == keys.OverlayContentSearch && ctx.Mode == keys.ModeSearch {
			// Content search has no live-as-typed results; Enter submits the
			// accumulated query text. On submission the dispatcher drops
			// Mode to Browse so a later Enter opens the selection
			// instead of resubmitting.
			return []action.Action{action.SubmitPromptAction("")}
		}
		return []action.Action{action.EnterSelectedAction()}
	}
	return []action.Action{action.NoOpAction()}
}
