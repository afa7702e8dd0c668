package handler

import (
	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
)

// Fallback is the keyboard handler of last resort (priority 255): global
// shortcuts (help, quit, hidden toggle, command mode) and — the bulk of its
// job — routing every character key as literal input whenever the active
// mode is Command, Prompt, or Search, per spec.md section 4.1's invariant
// that character keys are exclusively input in those modes.
type Fallback struct{}

func (Fallback) Priority() int { return keys.PriorityFallback }

func (Fallback) CanHandle(ev keys.Event, ctx keys.Context) bool { return true }

func (Fallback) Handle(ev keys.Event, ctx keys.Context) []action.Action {
	if ctx.Mode == keys.ModeCommand || ctx.Mode == keys.ModePrompt || ctx.Mode == keys.ModeSearch {
		switch ev.Key {
		case "enter":
			// The dispatcher reads the accumulated buffer from UI state;
			// the submitted text itself is not carried on this action.
			return []action.Action{action.SubmitPromptAction("")}
		case "esc":
			return []action.Action{action.ExitCommandModeAction()}
		case "backspace", "ctrl+h":
			return []action.Action{action.BackspaceInputAction()}
		default:
			if len(ev.Runes) > 0 {
				return []action.Action{action.AppendInputAction(string(ev.Runes))}
			}
		}
		return []action.Action{action.NoOpAction()}
	}

	switch ev.Key {
	case "?", "h":
		return []action.Action{action.ShowOverlayAction("help")}
	case "q", "ctrl+c":
		return []action.Action{action.QuitAction()}
	case ":":
		return []action.Action{action.EnterCommandModeAction()}
	case ".":
		return []action.Action{action.ToggleHiddenAction()}
	case "esc":
		return []action.Action{action.HideOverlayAction()}
	}
	return []action.Action{action.NoOpAction()}
}
