package state

import (
	"testing"

	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/registry"
)

func entries(paths ...string) []registry.SortableEntry {
	out := make([]registry.SortableEntry, len(paths))
	for i, p := range paths {
		out[i] = registry.SortableEntry{ID: objectid.FromPath(p)}
	}
	return out
}

func TestEmptyPaneInvariants(t *testing.T) {
	p := NewPane("/tmp", 10)
	if p.Selected != 0 {
		t.Fatalf("expected selected 0 on empty pane")
	}
	p.MoveSelection(5)
	if p.Selected != 0 {
		t.Fatalf("navigation on empty pane must be a no-op, got selected=%d", p.Selected)
	}
}

func TestSingleEntryPaneStable(t *testing.T) {
	p := NewPane("/tmp", 10)
	p.ReplaceEntries(entries("/tmp/a"))
	p.PageMove(1)
	if p.Selected != 0 {
		t.Fatalf("PgDn on single entry should keep selection at 0, got %d", p.Selected)
	}
	p.JumpLast()
	if p.Selected != 0 {
		t.Fatalf("End on single entry should keep selection at 0, got %d", p.Selected)
	}
}

func TestViewportClamp(t *testing.T) {
	p := NewPane("/tmp", 3)
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = "/tmp/" + string(rune('a'+i))
	}
	p.ReplaceEntries(entries(paths...))
	p.MoveSelection(9)
	if p.ViewportOffset > p.Selected || p.Selected >= p.ViewportOffset+p.ViewportHeight {
		t.Fatalf("viewport invariant violated: offset=%d selected=%d height=%d", p.ViewportOffset, p.Selected, p.ViewportHeight)
	}
}

func TestDescentAndParentRestoreSelection(t *testing.T) {
	p := NewPane("/tmp", 10)
	p.ReplaceEntries(entries("/tmp/a.txt", "/tmp/b", "/tmp/c.md"))
	p.MoveSelection(1) // select b

	descended := p.RecordDescentFrom()
	if descended != objectid.FromPath("/tmp/b") {
		t.Fatalf("expected descent id to be /tmp/b")
	}

	// Simulate navigating into b, then back to parent: a new pane at /tmp is
	// rebuilt and armed to restore the just-exited child.
	parent := NewPane("/tmp", 10)
	parent.SetPendingSelection(descended)
	parent.ReplaceEntries(entries("/tmp/a.txt", "/tmp/b", "/tmp/c.md"))

	if got := parent.SelectedID(); got != objectid.FromPath("/tmp/b") {
		t.Fatalf("expected restored selection on b, got different id")
	}
}

func TestSyncLivePinsDiffsAgainstPreviousEntries(t *testing.T) {
	p := NewPane("/tmp", 10)
	a, b, c := objectid.FromPath("/tmp/a"), objectid.FromPath("/tmp/b"), objectid.FromPath("/tmp/c")

	toPin, toUnpin := p.SyncLivePins([]objectid.ID{a, b})
	if len(toUnpin) != 0 {
		t.Fatalf("expected nothing to unpin on first sync, got %v", toUnpin)
	}
	if !containsID(toPin, a) || !containsID(toPin, b) {
		t.Fatalf("expected a and b newly pinned, got %v", toPin)
	}

	// b drops out, c is added; a is unchanged and must not be re-pinned.
	toPin, toUnpin = p.SyncLivePins([]objectid.ID{a, c})
	if containsID(toPin, a) {
		t.Fatalf("a is already live and must not be re-pinned, got %v", toPin)
	}
	if !containsID(toPin, c) {
		t.Fatalf("expected c newly pinned, got %v", toPin)
	}
	if !containsID(toUnpin, b) || containsID(toUnpin, a) {
		t.Fatalf("expected only b unpinned, got %v", toUnpin)
	}
}

func containsID(ids []objectid.ID, id objectid.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func TestPendingSelectionMissingFallsBackToZero(t *testing.T) {
	p := NewPane("/tmp", 10)
	p.SetPendingSelection(objectid.FromPath("/tmp/gone"))
	p.ReplaceEntries(entries("/tmp/a.txt"))
	if p.Selected != 0 {
		t.Fatalf("expected fallback to 0 when pending selection absent, got %d", p.Selected)
	}
}
