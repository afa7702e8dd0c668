package dispatch

import (
	"context"
	"path/filepath"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/notify"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/perr"
	"github.com/connorleisz/pane/internal/progress"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/task"
)

// FileOps resolves create/rename/delete/copy/move/cancel/open actions
// against the active pane's current selection and spawns the matching
// Background Task Manager func. TargetID/OpID sentinel zero values coming
// from internal/handler are resolved here, against live state, since
// handlers have no Coordinator access (spec.md section 4.1 design note
// recorded in DESIGN.md).
type FileOps struct {
	Coordinator *state.Coordinator
	Tasks       *task.Manager
	Clip        *clipboard.Clipboard
}

func (d *FileOps) Priority() int { return PriorityFileOps }

func (d *FileOps) CanHandle(a action.Action) bool {
	switch a.Kind {
	case action.CreateFile, action.CreateDirectory, action.Rename, action.Delete,
		action.Copy, action.Move, action.CancelOperation, action.OpenFile,
		action.FileOperationProgress, action.FileOperationComplete:
		return true
	}
	return false
}

func (d *FileOps) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	switch a.Kind {
	case action.CreateFile:
		opID := d.begin()
		d.Tasks.Spawn(opID, task.CreateFileEntry(opID, filepath.Join(a.Path, a.Name)))
	case action.CreateDirectory:
		opID := d.begin()
		d.Tasks.Spawn(opID, task.CreateDirectoryEntry(opID, filepath.Join(a.Path, a.Name)))
	case action.Rename:
		d.rename(a)
	case action.Delete:
		d.delete(a)
	case action.Copy:
		d.copyOrMove(a, task.CopyEntry)
	case action.Move:
		d.copyOrMove(a, task.MoveEntry)
	case action.CancelOperation:
		d.cancel(a.OpID)
	case action.OpenFile:
		return d.openFile(a)
	case action.FileOperationProgress:
		d.progress(a)
	case action.FileOperationComplete:
		d.complete(a)
	}
	return nil, Continue
}

// begin mints a fresh operation id and registers it with UIState for
// progress display.
func (d *FileOps) begin() ids.OperationID {
	opID := ids.NewOperationID()
	ui, release := d.Coordinator.LockUI()
	ui.BeginOperation(opID)
	release()
	return opID
}

func (d *FileOps) rename(a action.Action) {
	info := d.resolve(a.TargetID)
	if info == nil {
		return
	}
	newPath := filepath.Join(filepath.Dir(info.Path), a.Name)
	opID := d.begin()
	d.Tasks.Spawn(opID, task.RenameEntry(opID, info.Path, newPath))
}

func (d *FileOps) delete(a action.Action) {
	info := d.resolve(a.TargetID)
	if info == nil {
		return
	}
	opID := d.begin()
	d.Tasks.Spawn(opID, task.DeleteEntry(opID, info.Path))
}

type streamEntryFunc func(ids.OperationID, string, string) task.Func

func (d *FileOps) copyOrMove(a action.Action, build streamEntryFunc) {
	info := d.resolve(a.TargetID)
	if info == nil {
		return
	}
	opID := d.begin()
	d.Tasks.Spawn(opID, build(opID, info.Path, a.Path))
}

func (d *FileOps) cancel(opID ids.OperationID) {
	ui, release := d.Coordinator.LockUI()
	defer release()
	if opID == (ids.OperationID{}) {
		d.Tasks.CancelAll()
		ui.CancelAll()
		return
	}
	d.Tasks.Cancel(opID)
	ui.EndOperation(opID)
}

func (d *FileOps) openFile(a action.Action) ([]action.Action, Outcome) {
	info := d.resolve(a.TargetID)
	if info == nil {
		return nil, Continue
	}
	return []action.Action{action.OpenEditorRequestAction(info.Path, a.Line)}, Continue
}

func (d *FileOps) progress(a action.Action) {
	snap, ok := a.Progress.(progress.Snapshot)
	if !ok {
		return
	}
	ui, release := d.Coordinator.LockUI()
	ui.UpdateProgress(a.OpID, snap)
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *FileOps) complete(a action.Action) {
	ui, release := d.Coordinator.LockUI()
	ui.EndOperation(a.OpID)
	release()

	// A cancelled operation is success from the user's point of view: no
	// error notification, progress already cleared by EndOperation above
	// (spec.md section 5, Cancellation semantics).
	if !a.Succeeded && a.Err != nil && !perr.IsCancelled(a.Err) {
		ui, release := d.Coordinator.LockUI()
		ui.Notifications.Push(notification(a.Err))
		release()
	}
	if d.Clip != nil {
		d.Clip.ClearOnPaste()
	}
	d.Coordinator.Redraw.Set(redraw.FileTable | redraw.StatusBar | redraw.Notification)
}

// resolve looks up id in the registry, falling back to the active pane's
// current selection when id is the zero sentinel (spec.md section 4.1:
// handlers defer target resolution to the dispatcher).
func (d *FileOps) resolve(id objectid.ID) *registry.ObjectInfo {
	if id == objectid.Zero {
		fs, release := d.Coordinator.LockFS()
		id = fs.Active().SelectedID()
		release()
	}
	if id == objectid.Zero {
		return nil
	}
	return d.Coordinator.Registry.Get(id)
}

// notification builds the "operation kind, source path, short cause"
// display spec.md section 7 asks for, when err is a *perr.Error.
func notification(err error) notify.Notification {
	if e, ok := err.(*perr.Error); ok {
		return notify.Notification{
			Severity:      notify.Error,
			Message:       e.Error(),
			OperationKind: e.Op,
			SourcePath:    e.Path,
			Cause:         e.Kind.String(),
		}
	}
	return notify.Notification{Severity: notify.Error, Message: err.Error()}
}
