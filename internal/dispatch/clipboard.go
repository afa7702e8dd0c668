package dispatch

import (
	"context"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/notify"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/task"
)

// Clipboard resolves clipboard add/remove/clear/paste/overlay actions
// against the active pane's selection and the persistent Clipboard store
// (spec.md section 4.5), spawning the paste Background Task Manager func
// once a destination is chosen.
type Clipboard struct {
	Coordinator *state.Coordinator
	Clip        *clipboard.Clipboard
	Tasks       *task.Manager
}

func (d *Clipboard) Priority() int { return PriorityClipboard }

func (d *Clipboard) CanHandle(a action.Action) bool {
	switch a.Kind {
	case action.ClipboardAdd, action.ClipboardPaste, action.ClipboardRemove,
		action.ClipboardClear, action.ClipboardToggleOverlay,
		action.ClipboardNavigateOverlay, action.ClipboardSelect:
		return true
	}
	return false
}

func (d *Clipboard) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	switch a.Kind {
	case action.ClipboardAdd:
		d.add(a)
	case action.ClipboardPaste:
		d.paste()
	case action.ClipboardRemove:
		d.remove(a.ClipItemID)
	case action.ClipboardClear:
		d.clear()
	case action.ClipboardToggleOverlay:
		d.toggleOverlay()
	case action.ClipboardNavigateOverlay:
		d.navigate(a.ClipDelta)
	case action.ClipboardSelect:
		d.selectCurrent()
	}
	return nil, Continue
}

func (d *Clipboard) add(a action.Action) {
	info := d.resolveTarget(a)
	if info == nil {
		return
	}
	op := clipboard.OpCopy
	if a.Name == "move" {
		op = clipboard.OpMove
	}
	meta := clipboard.Meta{
		Size:    info.Size,
		ModTime: info.ModTime,
		Perm:    info.Mode,
		Kind:    byte(info.Kind),
	}
	if info.Hidden {
		meta.Flags |= 1
	}
	if info.Symlink {
		meta.Flags |= 2
	}
	if _, err := d.Clip.Add(info.Path, op, meta); err != nil {
		d.notifyErr(err)
		return
	}
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Clipboard) resolveTarget(a action.Action) *registry.ObjectInfo {
	id := a.TargetID
	fs, release := d.Coordinator.LockFS()
	if id == objectid.Zero {
		id = fs.Active().SelectedID()
	}
	release()
	if id == objectid.Zero {
		return nil
	}
	return d.Coordinator.Registry.Get(id)
}

// remove deletes id, or the overlay's currently highlighted item when id is
// the zero sentinel (handler.ClipboardOverlay's delete/backspace key).
func (d *Clipboard) remove(id ids.ClipboardItemID) {
	if id == 0 {
		items := d.Clip.GetAll()
		ui, release := d.Coordinator.LockUI()
		cursor := ui.ClipboardCursor
		release()
		if cursor < 0 || cursor >= len(items) {
			return
		}
		id = items[cursor].ID
	}
	d.Clip.Remove(id)
	d.clampCursor()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Clipboard) clear() {
	d.Clip.ClearAll()
	d.clampCursor()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Clipboard) toggleOverlay() {
	ui, release := d.Coordinator.LockUI()
	if ui.Overlay == state.OverlayClipboard {
		ui.Overlay = state.OverlayNone
		ui.Mode = state.ModeBrowse
	} else {
		ui.Overlay = state.OverlayClipboard
		ui.ClipboardCursor = 0
	}
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Clipboard) navigate(delta int) {
	ui, release := d.Coordinator.LockUI()
	ui.ClipboardCursor += delta
	release()
	d.clampCursor()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Clipboard) clampCursor() {
	n := d.Clip.Len()
	ui, release := d.Coordinator.LockUI()
	defer release()
	if n == 0 {
		ui.ClipboardCursor = 0
		return
	}
	if ui.ClipboardCursor < 0 {
		ui.ClipboardCursor = 0
	}
	if ui.ClipboardCursor >= n {
		ui.ClipboardCursor = n - 1
	}
}

// selectCurrent runs the same paste as ClipboardPaste: every clipboard item
// (not only the highlighted one) is pasted into the active pane's current
// directory.
func (d *Clipboard) selectCurrent() {
	d.paste()
}

func (d *Clipboard) paste() {
	items := d.Clip.GetAll()
	if len(items) == 0 {
		return
	}
	itemIDs := make([]ids.ClipboardItemID, len(items))
	for i, it := range items {
		itemIDs[i] = it.ID
	}

	fs, release := d.Coordinator.LockFS()
	dest := fs.Active().Path
	release()

	batches := d.Clip.Plan(itemIDs, dest)
	if len(batches) == 0 {
		return
	}

	opID := ids.NewOperationID()
	ui, releaseUI := d.Coordinator.LockUI()
	ui.BeginOperation(opID)
	ui.Overlay = state.OverlayFileOpsProgress
	releaseUI()

	onStatus := func(id ids.ClipboardItemID, status clipboard.Status) {
		d.Clip.SetStatus(id, status)
	}
	d.Tasks.Spawn(opID, task.PasteItems(opID, batches, onStatus))
	d.Coordinator.Redraw.Set(redraw.Overlay | redraw.FileTable)
}

func (d *Clipboard) notifyErr(err error) {
	ui, release := d.Coordinator.LockUI()
	ui.Notifications.Push(notify.Notification{Severity: notify.Error, Message: err.Error()})
	release()
	d.Coordinator.Redraw.Set(redraw.Notification)
}
