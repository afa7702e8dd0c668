package dispatch

import (
	"context"
	"testing"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/registry"
)

// TestHandleScanUpdatePinsThenReleasesOnCompletion verifies the two
// distinct pin lifecycles of spec.md section 4.4/section 9: a streaming
// batch's in-flight "soft pin" (released once the scan finalizes) hands off
// to a steady-state "live" pin that keeps an id referenced by Entries
// pinned for as long as it stays there, released only once a later scan's
// result set drops it (spec.md section 8: "For all ids referenced by any
// pane or search result: the Metadata Registry contains that id").
func TestHandleScanUpdatePinsThenReleasesOnCompletion(t *testing.T) {
	dir := "/tmp/system-test-dir"
	coord := newTestCoordinator(t, dir)
	sys := &System{Coordinator: coord}

	fs, release := coord.LockFS()
	p := fs.Active()
	gen := p.NextGeneration()
	p.BeginScan()
	release()

	info := registry.LightInfo(dir+"/a.txt", "a.txt", registry.KindFile, false)
	id := info.ID

	sys.Handle(context.Background(), action.DirectoryScanBatchAction(dir, gen, []*registry.ObjectInfo{info}))
	if got := coord.Registry.RefCount(id); got != 1 {
		t.Fatalf("expected refcount 1 after a streaming batch, got %d", got)
	}

	sys.Handle(context.Background(), action.DirectoryScanCompleteAction(dir, gen))
	if got := coord.Registry.RefCount(id); got != 1 {
		t.Fatalf("expected refcount 1 after scan completion (still referenced by pane Entries), got %d", got)
	}

	// A later scan of the same path that no longer contains a.txt drops the
	// pin, since the id is no longer referenced by the pane.
	fs, release = coord.LockFS()
	gen2 := p.NextGeneration()
	p.BeginScan()
	release()
	other := registry.LightInfo(dir+"/b.txt", "b.txt", registry.KindFile, false)
	sys.Handle(context.Background(), action.DirectoryScanBatchAction(dir, gen2, []*registry.ObjectInfo{other}))
	sys.Handle(context.Background(), action.DirectoryScanCompleteAction(dir, gen2))
	if got := coord.Registry.RefCount(id); got != 0 {
		t.Fatalf("expected refcount 0 once a.txt drops out of a later scan's results, got %d", got)
	}
	if got := coord.Registry.RefCount(other.ID); got != 1 {
		t.Fatalf("expected refcount 1 for b.txt, now referenced by pane Entries, got %d", got)
	}
}

func TestHandleScanUpdateIgnoresStaleGeneration(t *testing.T) {
	dir := "/tmp/system-test-stale"
	coord := newTestCoordinator(t, dir)
	sys := &System{Coordinator: coord}

	fs, release := coord.LockFS()
	p := fs.Active()
	staleGen := p.NextGeneration()
	p.BeginScan()
	p.NextGeneration() // supersede staleGen without ever resolving it
	release()

	info := registry.LightInfo(dir+"/old.txt", "old.txt", registry.KindFile, false)
	id := info.ID

	sys.Handle(context.Background(), action.DirectoryScanBatchAction(dir, staleGen, []*registry.ObjectInfo{info}))
	if coord.Registry.Get(id) != nil {
		t.Fatalf("expected a stale-generation batch to be dropped entirely")
	}
}
