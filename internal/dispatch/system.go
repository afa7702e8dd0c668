package dispatch

import (
	"context"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/task"
)

// System applies task-manager results directly to the Metadata Registry and
// pane state: UpdateEntryMetadata, DirectoryScanUpdate (both the atomic fast
// form and the streaming batch/complete forms), and the terminal Quit
// action. No background task ever touches the Coordinator itself; this is
// the one place its results are applied (spec.md section 4.3). Every scan
// that finalizes a pane's entries also spawns an enrichment pass promoting
// those entries from Light to Full metadata (spec.md section 4.3.2).
type System struct {
	Coordinator *state.Coordinator
	Tasks       *task.Manager
}

func (d *System) Priority() int { return PrioritySystem }

func (d *System) CanHandle(a action.Action) bool {
	switch a.Kind {
	case action.UpdateEntryMetadata, action.DirectoryScanUpdate, action.Quit, action.None, action.NoOp:
		return true
	}
	return false
}

func (d *System) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	switch a.Kind {
	case action.UpdateEntryMetadata:
		d.Coordinator.Put(a.EntryID, a.Entry)
		d.Coordinator.Redraw.Set(redraw.FileTable)
	case action.DirectoryScanUpdate:
		d.handleScanUpdate(a)
	case action.Quit:
		return nil, Terminate
	}
	return nil, Continue
}

func (d *System) handleScanUpdate(a action.Action) {
	fs, release := d.Coordinator.LockFS()
	defer release()

	p := findPane(fs, a.Path)
	if p == nil || p.Generation != a.Generation {
		return
	}

	if !a.Streaming {
		// Atomic (fast-scan) form: Results is the complete listing.
		for _, info := range a.Results {
			d.Coordinator.Put(info.ID, info)
		}
		sorted := sortedSortables(a.Results, p.Sort, d.Coordinator.Registry)
		d.syncLivePins(p, sorted)
		p.FinalizePending(sorted)
		d.Coordinator.Redraw.Set(redraw.FileTable)
		d.releasePins(p)
		d.spawnEnrichment(a.Results)
		return
	}

	if len(a.Results) == 0 {
		// Terminal marker closing a streaming scan.
		entries := p.PendingEntries()
		state.SortEntries(entries, p.Sort, d.Coordinator.Registry)
		infos := make([]*registry.ObjectInfo, 0, len(entries))
		for _, e := range entries {
			if info := d.Coordinator.Registry.Get(e.ID); info != nil {
				infos = append(infos, info)
			}
		}
		d.syncLivePins(p, entries)
		p.FinalizePending(entries)
		d.Coordinator.Redraw.Set(redraw.FileTable)
		d.releasePins(p)
		d.spawnEnrichment(infos)
		return
	}

	batch := make([]registry.SortableEntry, len(a.Results))
	for i, info := range a.Results {
		d.Coordinator.Put(info.ID, info)
		d.Coordinator.Registry.Pin(info.ID)
		p.PinScanResult(info.ID)
		batch[i] = registry.ToSortable(info)
	}
	p.AppendPending(batch)
	d.Coordinator.Redraw.Set(redraw.FileTable)
}

// releasePins unpins every id the pane's current scan generation pinned
// in-flight (spec.md section 9: "scans hold a soft pin until completion").
// This is independent of syncLivePins below: it only releases the
// transient protection a streaming scan held over entries before they were
// part of Entries, not the pane's steady-state reference pin.
func (d *System) releasePins(p *state.Pane) {
	for _, id := range p.TakePinnedIDs() {
		d.Coordinator.Registry.Unpin(id)
	}
}

// syncLivePins pins every id about to become part of p.Entries and unpins
// whatever dropped out since the pane's previous scan, so an id referenced
// by Entries stays pinned against Cache eviction for as long as it remains
// there (spec.md section 4.4, section 8 testable property "For all ids
// referenced by any pane or search result: the Metadata Registry contains
// that id"), not merely for the duration of the scan that produced it.
func (d *System) syncLivePins(p *state.Pane, entries []registry.SortableEntry) {
	live := make([]objectid.ID, len(entries))
	for i, e := range entries {
		live[i] = e.ID
	}
	toPin, toUnpin := p.SyncLivePins(live)
	for _, id := range toPin {
		d.Coordinator.Registry.Pin(id)
	}
	for _, id := range toUnpin {
		d.Coordinator.Registry.Unpin(id)
	}
}

func (d *System) spawnEnrichment(infos []*registry.ObjectInfo) {
	if d.Tasks == nil || len(infos) == 0 {
		return
	}
	d.Tasks.Spawn(ids.NewOperationID(), task.EnrichEntries(infos))
}

func sortedSortables(infos []*registry.ObjectInfo, mode state.SortMode, reg *registry.Registry) []registry.SortableEntry {
	out := make([]registry.SortableEntry, len(infos))
	for i, info := range infos {
		out[i] = registry.ToSortable(info)
	}
	state.SortEntries(out, mode, reg)
	return out
}

func findPane(fs *state.FSState, path string) *state.Pane {
	for _, p := range fs.Panes {
		if p.Path == path {
			return p
		}
	}
	return nil
}
