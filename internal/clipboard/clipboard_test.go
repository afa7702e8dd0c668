package clipboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// corruptMainFile flips bytes in the main persistence file so its checksum
// no longer matches, forcing Load to fall back to the .bak sibling.
func corruptMainFile(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := range data {
		data[i] ^= 0xff
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestAddRefusesDuplicate(t *testing.T) {
	c := New(Options{})
	if _, err := c.Add("/tmp/a", OpCopy, Meta{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Add("/tmp/a", OpCopy, Meta{}); err == nil {
		t.Fatalf("expected duplicate add to fail")
	}
	// Same path, different op is not a duplicate.
	if _, err := c.Add("/tmp/a", OpMove, Meta{}); err != nil {
		t.Fatalf("unexpected error adding same path with different op: %v", err)
	}
}

func TestIDMonotonicity(t *testing.T) {
	c := New(Options{})
	id1, _ := c.Add("/tmp/a", OpCopy, Meta{})
	id2, _ := c.Add("/tmp/b", OpCopy, Meta{})
	id3, _ := c.Add("/tmp/c", OpCopy, Meta{})
	if !(id1 < id2 && id2 < id3) {
		t.Fatalf("expected strictly increasing ids, got %d %d %d", id1, id2, id3)
	}
}

func TestGetAllPreservesInsertionOrder(t *testing.T) {
	c := New(Options{})
	c.Add("/tmp/z", OpCopy, Meta{})
	c.Add("/tmp/a", OpCopy, Meta{})
	c.Add("/tmp/m", OpCopy, Meta{})

	all := c.GetAll()
	if len(all) != 3 || all[0].SourcePath != "/tmp/z" || all[2].SourcePath != "/tmp/m" {
		t.Fatalf("expected insertion order preserved, got %+v", all)
	}
}

func TestClearOnPasteRemovesOnlyDoneMoves(t *testing.T) {
	c := New(Options{})
	moveID, _ := c.Add("/tmp/move", OpMove, Meta{})
	copyID, _ := c.Add("/tmp/copy", OpCopy, Meta{})
	pendingMoveID, _ := c.Add("/tmp/pending-move", OpMove, Meta{})

	c.SetStatus(moveID, StatusDone)
	c.SetStatus(copyID, StatusDone)
	c.SetStatus(pendingMoveID, StatusPending)

	removed := c.ClearOnPaste()
	if removed != 1 {
		t.Fatalf("expected exactly 1 removed, got %d", removed)
	}
	if c.Get(moveID) != nil {
		t.Fatalf("expected done move item removed")
	}
	if c.Get(copyID) == nil {
		t.Fatalf("expected done copy item to survive")
	}
	if c.Get(pendingMoveID) == nil {
		t.Fatalf("expected pending move item to survive")
	}
}

func TestFindByPattern(t *testing.T) {
	c := New(Options{})
	c.Add("/tmp/project/main.go", OpCopy, Meta{})
	c.Add("/tmp/project/util.go", OpCopy, Meta{})
	c.Add("/tmp/other/readme.md", OpCopy, Meta{})

	matches := c.FindByPattern("project")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.bin")
	c := New(Options{PersistPath: path, Backup: true})
	id1, _ := c.Add("/tmp/a", OpCopy, Meta{Size: 10, ModTime: time.Now()})
	id2, _ := c.Add("/tmp/b", OpMove, Meta{Size: 20})
	c.SetStatus(id2, StatusInProgress)

	if err := c.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	restored := New(Options{PersistPath: path, Backup: true})
	if err := restored.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	all := restored.GetAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 items restored, got %d", len(all))
	}
	if all[0].ID != id1 || all[1].ID != id2 {
		t.Fatalf("expected ids and order preserved, got %+v", all)
	}
	if all[1].Status != StatusInProgress {
		t.Fatalf("expected status preserved, got %v", all[1].Status)
	}

	// nextID must continue past the restored ids.
	id3, err := restored.Add("/tmp/c", OpCopy, Meta{})
	if err != nil || id3 <= id2 {
		t.Fatalf("expected monotonic id after restore, got %d err=%v", id3, err)
	}
}

func TestLoadFallsBackToBackupOnCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.bin")
	c := New(Options{PersistPath: path, Backup: true})
	c.Add("/tmp/a", OpCopy, Meta{})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	// Second save creates the .bak from the first save's good content, then
	// corrupt the main file in place.
	c.Add("/tmp/b", OpCopy, Meta{})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	corruptMainFile(t, path)

	restored := New(Options{PersistPath: path, Backup: true})
	if err := restored.Load(); err != nil {
		t.Fatalf("load should not return an error even on fallback: %v", err)
	}
	if restored.Len() == 0 {
		t.Fatalf("expected backup fallback to restore at least the first save's item")
	}
}
