package handler

import (
	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
)

// Navigation handles pane movement and directory traversal. It only claims
// events in browse mode with no overlay up; Command/Prompt/Search modes
// reserve character keys exclusively for input (spec.md section 4.1).
type Navigation struct{}

func (Navigation) Priority() int { return keys.PriorityNavigation }

func (Navigation) CanHandle(ev keys.Event, ctx keys.Context) bool {
	if ctx.Mode != keys.ModeBrowse || ctx.Overlay != keys.OverlayNone {
		return false
	}
	switch ev.Key {
	case "j", "down", "k", "up", "g", "G", "pgup", "pgdown", "home", "end",
		"l", "enter", "right", "left", "backspace", "F":
		return true
	}
	return false
}

func (Navigation) Handle(ev keys.Event, ctx keys.Context) []action.Action {
	switch ev.Key {
	case "j", "down":
		return []action.Action{action.MoveSelectionBy(1)}
	case "k", "up":
		return []action.Action{action.MoveSelectionBy(-1)}
	case "pgdown":
		return []action.Action{action.MoveSelectionBy(10)}
	case "pgup":
		return []action.Action{action.MoveSelectionBy(-10)}
	case "g", "home":
		return []action.Action{action.JumpToFirst()}
	case "G", "end":
		return []action.Action{action.JumpToLast()}
	case "l", "enter", "right":
		return []action.Action{action.EnterSelectedAction()}
	case "left", "backspace":
		return []action.Action{action.GoToParentAction()}
	case "F":
		return []action.Action{action.ToggleFavoriteAction()}
	}
	return []action.Action{action.NoOpAction()}
}
