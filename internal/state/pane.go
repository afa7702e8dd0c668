// Package state implements the three independently-locked containers (App,
// FS, UI) of spec.md section 4.2, plus the Pane/FSState/UIState/AppState
// data they hold. No function in this package (or its callers) ever holds
// two of the three locks at once for longer than a constant amount of work;
// multi-container updates are decomposed into sequential, each-released
// critical sections, exactly as spec.md's Deadlock Avoidance rule requires.
package state

import (
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/registry"
)

// SortMode selects the key used to order a pane's entries.
type SortMode int

const (
	SortByName SortMode = iota
	SortBySize
	SortByModTime
	SortByKind
)

// FilterPredicate reports whether an entry should be visible in a pane.
// A nil FilterPredicate means "show everything".
type FilterPredicate func(*registry.ObjectInfo) bool

// Pane is one scrollable directory view. Invariants (spec.md section 3):
// Selected < len(Entries) or Entries is empty and Selected == 0;
// ViewportOffset <= Selected < ViewportOffset+ViewportHeight.
type Pane struct {
	Path           string
	Entries        []registry.SortableEntry
	Selected       int
	ViewportOffset int
	ViewportHeight int
	Sort           SortMode
	Filter         FilterPredicate
	Loading        bool
	Generation     uint64 // stale-scan rejection counter (spec.md section 4.3.1)

	// pendingSelection restores the selected child's id after a
	// go-to-parent navigation, per the Open Question resolution recorded in
	// DESIGN.md: Backspace points the cursor back at the directory just
	// exited, when it is still present after the re-scan.
	pendingSelection objectid.ID

	// pendingEntries accumulates a streaming scan's batches until its
	// terminal message arrives, at which point they are sorted and swapped
	// into Entries atomically via ReplaceEntries.
	pendingEntries []registry.SortableEntry

	// pinnedIDs holds every ObjectId the in-flight scan generation has
	// inserted into the Registry so far, pinned against Cache eviction
	// until the scan completes or is superseded (spec.md section 4.4).
	pinnedIDs []objectid.ID

	// livePins is the set of ObjectIds currently pinned because they are
	// referenced by Entries. It persists across scans (unlike pinnedIDs,
	// which only tracks one in-flight generation) so that SyncLivePins can
	// diff the previous Entries' ids against the next ones and pin/unpin
	// exactly the delta, keeping every id in Entries pinned for as long as
	// it remains there (spec.md section 4.4: "Eviction may not remove a
	// registry entry that is still referenced by any pane").
	livePins map[objectid.ID]struct{}
}

// NewPane creates an empty pane rooted at path.
func NewPane(path string, viewportHeight int) *Pane {
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	return &Pane{Path: path, ViewportHeight: viewportHeight}
}

// ReplaceEntries atomically swaps in a freshly-scanned entry list (the pane
// "entries vector is replaced atomically when a scan completes", spec.md
// section 3). Selection is clamped to the new bounds, and if a
// pendingSelection id is present and still in the new list, selection is
// restored to it instead of defaulting to 0.
func (p *Pane) ReplaceEntries(entries []registry.SortableEntry) {
	p.Entries = entries
	if p.pendingSelection != objectid.Zero {
		for i, e := range entries {
			if e.ID == p.pendingSelection {
				p.Selected = i
				p.pendingSelection = objectid.Zero
				p.clampViewport()
				return
			}
		}
		p.pendingSelection = objectid.Zero
	}
	p.clampSelection()
}

// RecordDescentFrom returns the currently selected entry's id, or
// objectid.Zero if the pane is empty. It does not change pendingSelection;
// a caller arms that with SetPendingSelection.
func (p *Pane) RecordDescentFrom() objectid.ID {
	if len(p.Entries) == 0 || p.Selected < 0 || p.Selected >= len(p.Entries) {
		return objectid.Zero
	}
	return p.Entries[p.Selected].ID
}

// SetPendingSelection arms the pane to restore id as its selection on the
// next ReplaceEntries call (used when navigating to the parent directory).
func (p *Pane) SetPendingSelection(id objectid.ID) {
	p.pendingSelection = id
}

// NextGeneration bumps and returns the pane's scan-generation counter,
// called once per newly started scan so stale results can be rejected.
func (p *Pane) NextGeneration() uint64 {
	p.Generation++
	return p.Generation
}

// BeginScan resets the pane's streaming accumulator and marks it loading,
// called when a scan is spawned for this pane's path.
func (p *Pane) BeginScan() {
	p.pendingEntries = nil
	p.Loading = true
}

// PinScanResult records id as pinned by the pane's current scan generation.
func (p *Pane) PinScanResult(id objectid.ID) {
	p.pinnedIDs = append(p.pinnedIDs, id)
}

// TakePinnedIDs returns every id pinned so far and clears the pane's
// bookkeeping, so the caller can release the Registry pins it still holds
// (scan completion, supersession by a new scan, or pane replacement).
func (p *Pane) TakePinnedIDs() []objectid.ID {
	ids := p.pinnedIDs
	p.pinnedIDs = nil
	return ids
}

// SyncLivePins computes the Registry Pin/Unpin delta needed so that exactly
// ids ends up pinned on behalf of this pane, given whatever set was pinned
// for its previous Entries, and updates the pane's bookkeeping to match.
// Called by internal/dispatch/system.go immediately before installing a
// freshly scanned entry list, so an id already referenced by the pane is
// never transiently unpinned and one that drops out of Entries is released
// back to ordinary Cache eviction. Pane has no Registry handle, so the
// caller applies the returned ids against it.
func (p *Pane) SyncLivePins(ids []objectid.ID) (toPin, toUnpin []objectid.ID) {
	next := make(map[objectid.ID]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
		if _, ok := p.livePins[id]; !ok {
			toPin = append(toPin, id)
		}
	}
	for id := range p.livePins {
		if _, ok := next[id]; !ok {
			toUnpin = append(toUnpin, id)
		}
	}
	p.livePins = next
	return toPin, toUnpin
}

// AppendPending accumulates one streaming scan batch.
func (p *Pane) AppendPending(batch []registry.SortableEntry) {
	p.pendingEntries = append(p.pendingEntries, batch...)
}

// PendingEntries returns the batches accumulated so far this generation.
func (p *Pane) PendingEntries() []registry.SortableEntry {
	return p.pendingEntries
}

// FinalizePending swaps sorted (expected to be PendingEntries in some sorted
// order) into Entries via ReplaceEntries and clears Loading/accumulator.
func (p *Pane) FinalizePending(sorted []registry.SortableEntry) {
	p.ReplaceEntries(sorted)
	p.pendingEntries = nil
	p.Loading = false
}

// MoveSelection shifts the selection by delta, clamping to valid bounds.
func (p *Pane) MoveSelection(delta int) {
	p.Selected += delta
	p.clampSelection()
}

// JumpFirst/JumpLast move to the boundary entries.
func (p *Pane) JumpFirst() { p.Selected = 0; p.clampViewport() }
func (p *Pane) JumpLast() {
	if len(p.Entries) > 0 {
		p.Selected = len(p.Entries) - 1
	} else {
		p.Selected = 0
	}
	p.clampViewport()
}

// PageMove shifts the selection by a full viewport page.
func (p *Pane) PageMove(sign int) {
	p.MoveSelection(sign * p.ViewportHeight)
}

// SelectedID returns the ObjectId currently selected, or objectid.Zero if the
// pane is empty.
func (p *Pane) SelectedID() objectid.ID {
	if len(p.Entries) == 0 || p.Selected < 0 || p.Selected >= len(p.Entries) {
		return objectid.Zero
	}
	return p.Entries[p.Selected].ID
}

func (p *Pane) clampSelection() {
	if len(p.Entries) == 0 {
		p.Selected = 0
	} else {
		if p.Selected < 0 {
			p.Selected = 0
		}
		if p.Selected >= len(p.Entries) {
			p.Selected = len(p.Entries) - 1
		}
	}
	p.clampViewport()
}

func (p *Pane) clampViewport() {
	if p.ViewportHeight < 1 {
		p.ViewportHeight = 1
	}
	if p.Selected < p.ViewportOffset {
		p.ViewportOffset = p.Selected
	}
	if p.Selected >= p.ViewportOffset+p.ViewportHeight {
		p.ViewportOffset = p.Selected - p.ViewportHeight + 1
	}
	if p.ViewportOffset < 0 {
		p.ViewportOffset = 0
	}
}
