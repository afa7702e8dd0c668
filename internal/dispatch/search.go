package dispatch

import (
	"context"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/task"
)

// Search opens/closes the filename and content search overlays and spawns
// the matching external-process Background Task Manager func on submission
// (spec.md section 4.3.4).
type Search struct {
	Coordinator *state.Coordinator
	Tasks       *task.Manager
}

func (d *Search) Priority() int { return PrioritySearch }

func (d *Search) CanHandle(a action.Action) bool {
	switch a.Kind {
	case action.ToggleFilenameSearch, action.ToggleContentSearch, action.SubmitQuery,
		action.ShowFilenameSearchResults, action.ShowContentSearchResults:
		return true
	}
	return false
}

func (d *Search) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	switch a.Kind {
	case action.ToggleFilenameSearch:
		d.toggle(state.OverlayFilenameSearch, true)
	case action.ToggleContentSearch:
		d.toggle(state.OverlayContentSearch, false)
	case action.SubmitQuery:
		d.submit(a.Query)
	case action.ShowFilenameSearchResults, action.ShowContentSearchResults:
		d.appendResults(a.Results)
	}
	return nil, Continue
}

func (d *Search) toggle(overlay state.Overlay, streaming bool) {
	ui, release := d.Coordinator.LockUI()
	if ui.Overlay == overlay {
		ui.Overlay = state.OverlayNone
		ui.Mode = state.ModeBrowse
	} else {
		ui.Overlay = overlay
		ui.Mode = state.ModeSearch
		ui.SearchStreaming = streaming
	}
	stale := ui.SearchResults
	ui.ResetSearch()
	release()
	d.unpinSearchResults(stale)
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

func (d *Search) submit(query string) {
	ui, release := d.Coordinator.LockUI()
	overlay := ui.Overlay
	stale := ui.SearchResults
	ui.ResetSearch()
	release()
	d.unpinSearchResults(stale)

	fs, releaseFS := d.Coordinator.LockFS()
	root := fs.Active().Path
	releaseFS()

	opID := ids.NewOperationID()
	switch overlay {
	case state.OverlayFilenameSearch:
		d.Tasks.Spawn(opID, task.FilenameSearch(root, query))
	case state.OverlayContentSearch:
		d.Tasks.Spawn(opID, task.ContentSearch(root, query))
	}
}

// appendResults registers batch with the Metadata Registry and pins each
// entry so the Cache cannot evict a result the search overlay still
// displays (spec.md section 4.4), then appends it to the overlay's list.
func (d *Search) appendResults(batch []*registry.ObjectInfo) {
	for _, info := range batch {
		d.Coordinator.Put(info.ID, info)
		d.Coordinator.Registry.Pin(info.ID)
	}
	ui, release := d.Coordinator.LockUI()
	ui.AppendSearchResults(batch)
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)
}

// unpinSearchResults releases the pins appendResults took out, once the
// overlay that displayed them closes or a new query replaces them.
func (d *Search) unpinSearchResults(stale []*registry.ObjectInfo) {
	for _, info := range stale {
		d.Coordinator.Registry.Unpin(info.ID)
	}
}
