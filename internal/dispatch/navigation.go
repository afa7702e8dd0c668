package dispatch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/store"
	"github.com/connorleisz/pane/internal/task"
)

// Navigation resolves pane movement and directory traversal actions against
// the State Coordinator, spawning a streaming scan whenever the active
// pane's path changes.
type Navigation struct {
	Coordinator *state.Coordinator
	Tasks       *task.Manager
	Store       *store.Store // optional; nil disables favorites/recent persistence

	watchOp ids.OperationID
}

func (d *Navigation) Priority() int { return PriorityNavigation }

func (d *Navigation) CanHandle(a action.Action) bool {
	switch a.Kind {
	case action.MoveSelection, action.EnterSelected, action.GoToParent,
		action.GoToPath, action.ReloadDirectory, action.ToggleHidden,
		action.ToggleFavorite:
		return true
	}
	return false
}

func (d *Navigation) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	switch a.Kind {
	case action.MoveSelection:
		d.moveSelection(a)
	case action.EnterSelected:
		return d.enterSelected(), Continue
	case action.GoToParent:
		d.goToParent()
	case action.GoToPath:
		d.navigateTo(a.Path)
	case action.ReloadDirectory:
		d.navigateTo(a.Path)
	case action.ToggleHidden:
		d.toggleHidden()
	case action.ToggleFavorite:
		d.toggleFavorite()
	}
	return nil, Continue
}

// searchOverlayActive reports whether a search overlay currently owns the
// cursor, in which case MoveSelection/EnterSelected act on the search
// results list instead of the active pane.
func (d *Navigation) searchOverlayActive() bool {
	ui, release := d.Coordinator.LockUI()
	defer release()
	return ui.Overlay == state.OverlayFilenameSearch || ui.Overlay == state.OverlayContentSearch
}

func (d *Navigation) moveSelection(a action.Action) {
	if d.searchOverlayActive() {
		d.moveSearchCursor(a)
		return
	}
	fs, release := d.Coordinator.LockFS()
	defer release()
	p := fs.Active()
	switch {
	case a.JumpFirst:
		p.JumpFirst()
	case a.JumpLast:
		p.JumpLast()
	default:
		p.MoveSelection(a.Delta)
	}
	d.Coordinator.Redraw.Set(redraw.FileTable)
}

func (d *Navigation) moveSearchCursor(a action.Action) {
	ui, release := d.Coordinator.LockUI()
	defer release()
	n := len(ui.SearchResults)
	if n == 0 {
		return
	}
	switch {
	case a.JumpFirst:
		ui.SearchCursor = 0
	case a.JumpLast:
		ui.SearchCursor = n - 1
	default:
		ui.SearchCursor += a.Delta
	}
	if ui.SearchCursor < 0 {
		ui.SearchCursor = 0
	}
	if ui.SearchCursor >= n {
		ui.SearchCursor = n - 1
	}
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Navigation) enterSelected() []action.Action {
	if d.searchOverlayActive() {
		return d.enterSearchResult()
	}
	fs, release := d.Coordinator.LockFS()
	id := fs.Active().SelectedID()
	release()
	if id == objectid.Zero {
		return nil
	}
	info := d.Coordinator.Registry.Get(id)
	if info == nil || info.Kind != registry.KindDirectory {
		return nil
	}
	d.navigateTo(info.Path)
	return nil
}

// enterSearchResult resolves the search overlay's current selection and
// closes the overlay. A directory result is entered like a normal browse
// navigation. A file result lands the active pane on its containing
// directory and, for a content-search match, also opens it in the
// configured editor at the matched line (target.Line, parsed from
// ripgrep's "path:line:content" prefix in internal/task/search.go;
// zero/absent for a filename-search match), per spec.md section 4.1's
// "open-file (optional line)" action.
func (d *Navigation) enterSearchResult() []action.Action {
	ui, release := d.Coordinator.LockUI()
	var target *registry.ObjectInfo
	if ui.SearchCursor >= 0 && ui.SearchCursor < len(ui.SearchResults) {
		target = ui.SearchResults[ui.SearchCursor]
	}
	stale := ui.SearchResults
	ui.Overlay = state.OverlayNone
	ui.Mode = state.ModeBrowse
	ui.ResetSearch()
	release()
	for _, info := range stale {
		d.Coordinator.Registry.Unpin(info.ID)
	}
	if target == nil {
		return nil
	}
	if target.Kind == registry.KindDirectory {
		d.navigateTo(target.Path)
		return nil
	}
	d.navigateTo(filepath.Dir(target.Path))
	return []action.Action{action.OpenEditorRequestAction(target.Path, target.Line)}
}

func (d *Navigation) goToParent() {
	fs, release := d.Coordinator.LockFS()
	p := fs.Active()
	current := p.Path
	release()

	parent := filepath.Dir(current)
	if parent == current {
		return
	}
	childID := objectid.FromPath(current)

	fs, release = d.Coordinator.LockFS()
	p = fs.Active()
	p.SetPendingSelection(childID)
	release()

	d.navigateTo(parent)
}

// toggleFavorite bookmarks or unbookmarks the active pane's current
// directory in both FSState (for the session) and the sqlite store (for
// the next run), mirroring the same in-memory+disk pairing
// internal/clipboard uses.
func (d *Navigation) toggleFavorite() {
	fs, release := d.Coordinator.LockFS()
	path := fs.Active().Path
	added := fs.ToggleFavorite(path)
	release()

	d.Coordinator.Redraw.Set(redraw.StatusBar)
	if d.Store == nil {
		return
	}
	if added {
		d.Store.AddFavorite(path)
	} else {
		d.Store.RemoveFavorite(path)
	}
}

func (d *Navigation) toggleHidden() {
	fs, release := d.Coordinator.LockFS()
	fs.ShowHidden = !fs.ShowHidden
	path := fs.Active().Path
	release()
	d.navigateTo(path)
}

// navigateTo points the active pane at path and spawns a streaming scan
// under a freshly bumped generation, pinning no prior entries (the pane's
// accumulator is reset by BeginScan, not the registry).
func (d *Navigation) navigateTo(path string) {
	fs, release := d.Coordinator.LockFS()
	p := fs.Active()
	p.Path = path
	gen := p.NextGeneration()
	// A prior scan of this pane may have been superseded mid-stream, in
	// which case its pinned ids were never released by System.releasePins
	// (its terminal marker is dropped, not delivered). Release them here so
	// the Cache can evict them again.
	leftover := p.TakePinnedIDs()
	p.BeginScan()
	fs.PushRecent(path)
	showHidden := fs.ShowHidden
	release()

	for _, id := range leftover {
		d.Coordinator.Registry.Unpin(id)
	}

	if d.Store != nil {
		d.Store.TouchRecent(path, time.Now())
	}

	d.Coordinator.Redraw.Set(redraw.FileTable | redraw.StatusBar)
	d.Tasks.Spawn(ids.NewOperationID(), task.ScanDirectory(context.Background(), path, gen, task.ScanStreaming, showHidden))

	d.Tasks.Cancel(d.watchOp)
	d.watchOp = ids.NewOperationID()
	d.Tasks.Spawn(d.watchOp, task.WatchDirectory(path))
}
