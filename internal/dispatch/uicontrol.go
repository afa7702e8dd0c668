package dispatch

import (
	"context"
	"strings"
	"time"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/notify"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/state"
)

// clipboardPruneInterval throttles the clipboard's max_age_days retention
// sweep (spec.md section 4.5) to something coarser than the forced-refresh
// tick that drives it.
const clipboardPruneInterval = 5 * time.Minute

// UIControl interprets overlay/mode transitions, the text input buffer, and
// prompt submission (spec.md section 4.1). ShowOverlay's opaque purpose
// string ("help", "prompt-create-file", "prompt-create-directory",
// "prompt-rename") is resolved here into Overlay/Mode/PromptPurpose, and a
// submitted prompt is translated into the real follow-up action
// (CreateFile/CreateDirectory/Rename/SubmitQuery) for the Router to re-route.
type UIControl struct {
	Coordinator *state.Coordinator
	Clip        *clipboard.Clipboard

	lastPrune time.Time
}

func (d *UIControl) Priority() int { return PriorityUIControl }

func (d *UIControl) CanHandle(a action.Action) bool {
	switch a.Kind {
	case action.ShowOverlay, action.HideOverlay, action.EnterCommandMode,
		action.ExitCommandMode, action.AppendInput, action.BackspaceInput,
		action.ShowNotification, action.Tick:
		return true
	case action.SubmitPrompt:
		// Command-mode submissions are claimed by the Command dispatcher
		// (UIControl's lower priority number would take them first
		// otherwise); everything else
		// (prompt text, content-search query) belongs here.
		ui, release := d.Coordinator.LockUI()
		defer release()
		return ui.Mode != state.ModeCommand
	}
	return false
}

func (d *UIControl) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	switch a.Kind {
	case action.ShowOverlay:
		d.showOverlay(a.Overlay)
	case action.HideOverlay:
		d.hideOverlay()
	case action.EnterCommandMode:
		d.enterCommandMode()
	case action.ExitCommandMode:
		d.hideOverlay()
	case action.AppendInput:
		return d.appendInput(a.Input), Continue
	case action.BackspaceInput:
		return d.backspaceInput(), Continue
	case action.SubmitPrompt:
		return d.submitPrompt(), Continue
	case action.ShowNotification:
		d.showNotification(a)
	case action.Tick:
		d.tick()
	}
	return nil, Continue
}

func (d *UIControl) showOverlay(purpose string) {
	ui, release := d.Coordinator.LockUI()
	defer release()
	switch purpose {
	case "help":
		ui.Overlay = state.OverlayHelp
		ui.Mode = state.ModeBrowse
	case "prompt-create-file", "prompt-create-directory", "prompt-rename":
		ui.Overlay = state.OverlayPrompt
		ui.Mode = state.ModePrompt
		ui.PromptPurpose = purpose
		ui.Input = ""
	default:
		return
	}
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *UIControl) hideOverlay() {
	ui, release := d.Coordinator.LockUI()
	ui.Overlay = state.OverlayNone
	ui.Mode = state.ModeBrowse
	ui.Input = ""
	ui.PromptPurpose = ""
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *UIControl) enterCommandMode() {
	ui, release := d.Coordinator.LockUI()
	ui.Overlay = state.OverlayCommandPalette
	ui.Mode = state.ModeCommand
	ui.Input = ""
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

// appendInput buffers text and, for the live filename search overlay,
// returns a SubmitQuery follow-up so the Search dispatcher re-runs the scan
// on every keystroke (content search instead waits for an explicit Enter).
func (d *UIControl) appendInput(text string) []action.Action {
	ui, release := d.Coordinator.LockUI()
	ui.Input += text
	mode := ui.Mode
	overlay := ui.Overlay
	query := ui.Input
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)

	if mode == state.ModeSearch && overlay == state.OverlayFilenameSearch {
		return []action.Action{action.SubmitQueryAction(query, true)}
	}
	return nil
}

func (d *UIControl) backspaceInput() []action.Action {
	ui, release := d.Coordinator.LockUI()
	if n := len(ui.Input); n > 0 {
		ui.Input = ui.Input[:n-1]
	}
	mode := ui.Mode
	overlay := ui.Overlay
	query := ui.Input
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)

	if mode == state.ModeSearch && overlay == state.OverlayFilenameSearch {
		return []action.Action{action.SubmitQueryAction(query, true)}
	}
	return nil
}

// submitPrompt reads the accumulated input against the live mode/overlay and
// purpose, translating it into the concrete action that actually performs
// the work. The event loop re-routes every returned action through the
// Router (spec.md section 4.1: dispatch results feed back as new actions).
func (d *UIControl) submitPrompt() []action.Action {
	ui, release := d.Coordinator.LockUI()
	mode := ui.Mode
	overlay := ui.Overlay
	purpose := ui.PromptPurpose
	input := strings.TrimSpace(ui.Input)
	ui.Input = ""
	release()

	switch {
	case mode == state.ModePrompt:
		d.hideOverlay()
		if input == "" {
			return nil
		}
		return d.buildPromptAction(purpose, input)
	case mode == state.ModeSearch && overlay == state.OverlayContentSearch:
		ui, release := d.Coordinator.LockUI()
		ui.Mode = state.ModeBrowse
		release()
		if input == "" {
			return nil
		}
		return []action.Action{action.SubmitQueryAction(input, false)}
	}
	return nil
}

func (d *UIControl) buildPromptAction(purpose, name string) []action.Action {
	fs, release := d.Coordinator.LockFS()
	dir := fs.Active().Path
	id := fs.Active().SelectedID()
	release()

	switch purpose {
	case "prompt-create-file":
		return []action.Action{action.CreateFileAction(dir, name)}
	case "prompt-create-directory":
		return []action.Action{action.CreateDirectoryAction(dir, name)}
	case "prompt-rename":
		return []action.Action{action.RenameAction(id, name)}
	}
	return nil
}

func (d *UIControl) showNotification(a action.Action) {
	ui, release := d.Coordinator.LockUI()
	ui.Notifications.Push(notify.Notification{
		Severity: notify.Severity(a.Severity),
		Message:  a.Message,
	})
	release()
	d.Coordinator.Redraw.Set(redraw.Notification)
}

func (d *UIControl) tick() {
	now := time.Now()
	ui, release := d.Coordinator.LockUI()
	removed := ui.Notifications.ExpireAt(now)
	release()
	if removed > 0 {
		d.Coordinator.Redraw.Set(redraw.Notification)
	}

	if d.Clip != nil && now.Sub(d.lastPrune) >= clipboardPruneInterval {
		d.Clip.PruneExpired(now)
		d.lastPrune = now
	}
}
