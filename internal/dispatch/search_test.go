package dispatch

import (
	"context"
	"testing"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/task"
)

func TestSearchResultsArePinnedThenReleasedOnClose(t *testing.T) {
	dir := "/tmp/search-test-dir"
	coord := newTestCoordinator(t, dir)
	s := &Search{Coordinator: coord, Tasks: task.NewManager(context.Background())}

	ui, release := coord.LockUI()
	ui.Overlay = state.OverlayFilenameSearch
	ui.Mode = state.ModeSearch
	release()

	info := registry.LightInfo(dir+"/hit.txt", "hit.txt", registry.KindFile, false)
	s.Handle(context.Background(), action.ShowFilenameSearchResultsAction([]*registry.ObjectInfo{info}))

	if got := coord.Registry.RefCount(info.ID); got != 1 {
		t.Fatalf("expected a displayed search result to be pinned, refcount %d", got)
	}

	s.Handle(context.Background(), action.ToggleFilenameSearchAction())

	if got := coord.Registry.RefCount(info.ID); got != 0 {
		t.Fatalf("expected closing the overlay to release the pin, refcount %d", got)
	}
}

func TestSearchSubmitReleasesPreviousResultsPin(t *testing.T) {
	dir := "/tmp/search-test-submit"
	coord := newTestCoordinator(t, dir)
	s := &Search{Coordinator: coord, Tasks: task.NewManager(context.Background())}

	ui, release := coord.LockUI()
	ui.Overlay = state.OverlayFilenameSearch
	ui.Mode = state.ModeSearch
	release()

	info := registry.LightInfo(dir+"/first.txt", "first.txt", registry.KindFile, false)
	s.Handle(context.Background(), action.ShowFilenameSearchResultsAction([]*registry.ObjectInfo{info}))
	if got := coord.Registry.RefCount(info.ID); got != 1 {
		t.Fatalf("expected pin after first batch, refcount %d", got)
	}

	s.Handle(context.Background(), action.SubmitQueryAction("second", true))
	if got := coord.Registry.RefCount(info.ID); got != 0 {
		t.Fatalf("expected submitting a new query to release the stale batch's pin, refcount %d", got)
	}
}
