package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/registry"
)

func drain(t *testing.T, m *Manager, want int, timeout time.Duration) []action.Action {
	t.Helper()
	var got []action.Action
	deadline := time.After(timeout)
	for len(got) < want {
		select {
		case a := <-m.Results():
			got = append(got, a)
		case <-deadline:
			t.Fatalf("timed out waiting for %d results, got %d: %+v", want, len(got), got)
		}
	}
	return got
}

func TestManagerSpawnDeliversResult(t *testing.T) {
	m := NewManager(context.Background())
	defer m.Shutdown()

	m.Spawn(ids.NewOperationID(), func(ctx context.Context, emit Emit) []action.Action {
		return []action.Action{action.QuitAction()}
	})

	got := drain(t, m, 1, time.Second)
	if got[0].Kind != action.Quit {
		t.Fatalf("expected Quit action, got %+v", got[0])
	}
}

func TestManagerCancelStopsFunc(t *testing.T) {
	m := NewManager(context.Background())
	defer m.Shutdown()

	opID := ids.NewOperationID()
	started := make(chan struct{})
	m.Spawn(opID, func(ctx context.Context, emit Emit) []action.Action {
		close(started)
		<-ctx.Done()
		return []action.Action{action.ShowNotificationAction("cancelled", 0)}
	})
	<-started
	m.Cancel(opID)

	got := drain(t, m, 1, time.Second)
	if got[0].Kind != action.ShowNotification {
		t.Fatalf("expected the func to observe cancellation, got %+v", got[0])
	}
}

func TestManagerSpawnRemovesTokenOnCompletion(t *testing.T) {
	m := NewManager(context.Background())
	defer m.Shutdown()

	opID := ids.NewOperationID()
	m.Spawn(opID, func(ctx context.Context, emit Emit) []action.Action {
		return nil
	})

	deadline := time.After(time.Second)
	for {
		m.tokensMu.Lock()
		_, ok := m.tokens[opID]
		m.tokensMu.Unlock()
		if !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("token for completed operation %v was never removed", opID)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSplitFileLineParsesRipgrepPrefix(t *testing.T) {
	path, line := splitFileLine("main.go:42:func main() {")
	if path != "main.go" || line != 42 {
		t.Fatalf("expected (main.go, 42), got (%q, %d)", path, line)
	}
}

func TestSplitFileLineWithoutLineNumber(t *testing.T) {
	path, line := splitFileLine("just/a/path")
	if path != "just/a/path" || line != 0 {
		t.Fatalf("expected (just/a/path, 0), got (%q, %d)", path, line)
	}
}

func TestScanFastReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644)

	fn := ScanDirectory(context.Background(), dir, 1, ScanFast, false)
	actions := fn(context.Background(), func(action.Action) {})
	if len(actions) != 1 || actions[0].Kind != action.DirectoryScanUpdate {
		t.Fatalf("expected one DirectoryScanUpdate, got %+v", actions)
	}
	if len(actions[0].Results) != 1 {
		t.Fatalf("expected hidden file excluded, got %d entries", len(actions[0].Results))
	}
}

func TestScanStreamingEmitsViaCallback(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		os.WriteFile(filepath.Join(dir, string(rune('a'+i))+".txt"), []byte("x"), 0o644)
	}
	fn := ScanDirectory(context.Background(), dir, 1, ScanStreaming, true)

	var emitted []action.Action
	fn(context.Background(), func(a action.Action) { emitted = append(emitted, a) })
	total := 0
	for _, a := range emitted {
		total += len(a.Results)
	}
	if total != 5 {
		t.Fatalf("expected 5 streamed entries total, got %d", total)
	}
}

func TestEnrichEntriesPromotesToFull(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	os.WriteFile(path, []byte("hello"), 0o644)

	entry := registry.LightInfo(path, "f.txt", registry.KindFile, false)
	fn := EnrichEntries([]*registry.ObjectInfo{entry})

	var emitted []action.Action
	fn(context.Background(), func(a action.Action) { emitted = append(emitted, a) })
	if len(emitted) != 1 {
		t.Fatalf("expected one UpdateEntryMetadata, got %d", len(emitted))
	}
	if emitted[0].Entry.LoadState != registry.Full || emitted[0].Entry.Size != 5 {
		t.Fatalf("expected promoted Full entry with size 5, got %+v", emitted[0].Entry)
	}
}

func TestCopyEntryReportsCompleteAndReload(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	os.WriteFile(src, []byte("payload"), 0o644)
	destDir := filepath.Join(dir, "dest")
	os.Mkdir(destDir, 0o755)

	fn := CopyEntry(ids.NewOperationID(), src, destDir)
	actions := fn(context.Background(), func(action.Action) {})
	var sawComplete, sawReload bool
	for _, a := range actions {
		if a.Kind == action.FileOperationComplete && a.Succeeded {
			sawComplete = true
		}
		if a.Kind == action.ReloadDirectory {
			sawReload = true
		}
	}
	if !sawComplete || !sawReload {
		t.Fatalf("expected complete+reload actions, got %+v", actions)
	}
	if _, err := os.Stat(filepath.Join(destDir, "src.txt")); err != nil {
		t.Fatalf("expected file copied: %v", err)
	}
}

func TestWatchDirectoryEmitsReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fn := WatchDirectory(dir)
	results := make(chan action.Action, 1)
	go fn(ctx, func(a action.Action) {
		select {
		case results <- a:
		default:
		}
	})

	time.Sleep(50 * time.Millisecond)
	os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644)

	select {
	case a := <-results:
		if a.Kind != action.ReloadDirectory || a.Path != dir {
			t.Fatalf("expected ReloadDirectory for %s, got %+v", dir, a)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ReloadDirectory")
	}
}

func TestWatchDirectoryStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	fn := WatchDirectory(dir)
	done := make(chan struct{})
	go func() {
		fn(ctx, func(action.Action) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected WatchDirectory to return after cancellation")
	}
}

func TestDeleteEntryReportsCompletion(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim.txt")
	os.WriteFile(target, []byte("x"), 0o644)

	fn := DeleteEntry(ids.NewOperationID(), target)
	actions := fn(context.Background(), func(action.Action) {})
	if len(actions) == 0 || actions[0].Kind != action.FileOperationComplete || !actions[0].Succeeded {
		t.Fatalf("expected successful completion, got %+v", actions)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected file removed")
	}
}
