package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/store"
	"github.com/connorleisz/pane/internal/task"
)

func newTestCoordinator(t *testing.T, root string) *state.Coordinator {
	t.Helper()
	fs := state.NewFSState(root, 24)
	ui := state.NewUIState()
	reg := registry.New()
	cache := registry.NewCache(reg, 4096, time.Minute)
	return state.NewCoordinator(state.NewAppState(nil, nil), fs, ui, reg, cache)
}

func TestNavigationGoToPathSpawnsScan(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	coord := newTestCoordinator(t, dir)
	tasks := task.NewManager(context.Background())
	defer tasks.Shutdown()

	nav := &Navigation{Coordinator: coord, Tasks: tasks}
	nav.Handle(context.Background(), action.GoToPathAction(dir))

	deadline := time.After(time.Second)
	for {
		select {
		case a := <-tasks.Results():
			if a.Kind == action.DirectoryScanUpdate {
				sys := &System{Coordinator: coord, Tasks: tasks}
				sys.Handle(context.Background(), a)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for a DirectoryScanUpdate result")
		}
	}
}

func TestNavigationToggleFavoriteUpdatesStateAndStore(t *testing.T) {
	dir := t.TempDir()
	coord := newTestCoordinator(t, dir)
	st, err := store.Open(filepath.Join(t.TempDir(), "pane.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	nav := &Navigation{Coordinator: coord, Tasks: task.NewManager(context.Background()), Store: st}

	nav.Handle(context.Background(), action.ToggleFavoriteAction())

	fs, release := coord.LockFS()
	isFav := fs.IsFavorite(dir)
	release()
	if !isFav {
		t.Fatalf("expected %s to be favorited after toggle", dir)
	}

	favs, err := st.Favorites()
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(favs) != 1 || favs[0] != dir {
		t.Fatalf("expected store to persist one favorite %s, got %v", dir, favs)
	}

	// Toggling again removes it from both.
	nav.Handle(context.Background(), action.ToggleFavoriteAction())
	fs, release = coord.LockFS()
	isFav = fs.IsFavorite(dir)
	release()
	if isFav {
		t.Fatal("expected favorite to be removed on second toggle")
	}
	favs, _ = st.Favorites()
	if len(favs) != 0 {
		t.Fatalf("expected store favorite removed, got %v", favs)
	}
}

func TestNavigationGoToParentSetsPendingSelection(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "child")
	if err := os.Mkdir(child, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	coord := newTestCoordinator(t, child)
	tasks := task.NewManager(context.Background())
	defer tasks.Shutdown()
	nav := &Navigation{Coordinator: coord, Tasks: tasks}

	nav.Handle(context.Background(), action.GoToParentAction())

	fs, release := coord.LockFS()
	path := fs.Active().Path
	release()
	if path != dir {
		t.Fatalf("expected pane path %s after go-to-parent, got %s", dir, path)
	}

	// The armed pending selection points the cursor back at the exited child
	// once the parent's entries are installed.
	fs, release = coord.LockFS()
	p := fs.Active()
	p.ReplaceEntries([]registry.SortableEntry{
		{ID: objectid.FromPath(filepath.Join(dir, "a-sibling"))},
		{ID: objectid.FromPath(child)},
	})
	selected := p.SelectedID()
	release()
	if selected != objectid.FromPath(child) {
		t.Fatalf("expected pending selection to restore %s after go-to-parent", child)
	}
}
