package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pane.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFavoritesAddRemove(t *testing.T) {
	s := openTest(t)
	if err := s.AddFavorite("/tmp/a"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFavorite("/tmp/a"); err != nil {
		t.Fatalf("duplicate add should be ignored, not error: %v", err)
	}
	favs, err := s.Favorites()
	if err != nil || len(favs) != 1 {
		t.Fatalf("expected 1 favorite, got %v err=%v", favs, err)
	}
	if err := s.RemoveFavorite("/tmp/a"); err != nil {
		t.Fatal(err)
	}
	favs, _ = s.Favorites()
	if len(favs) != 0 {
		t.Fatalf("expected favorite removed, got %v", favs)
	}
}

func TestRecentDirsOrderingAndTrim(t *testing.T) {
	s := openTest(t)
	base := time.Now()
	for i := 0; i < 3; i++ {
		if err := s.TouchRecent(filepath.Join("/tmp", string(rune('a'+i))), base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}
	recents, err := s.RecentDirs()
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) != 3 || recents[0] != "/tmp/c" {
		t.Fatalf("expected most-recent-first order, got %v", recents)
	}
}

func TestTouchRecentUpdatesExisting(t *testing.T) {
	s := openTest(t)
	base := time.Now()
	s.TouchRecent("/tmp/a", base)
	s.TouchRecent("/tmp/b", base.Add(time.Second))
	s.TouchRecent("/tmp/a", base.Add(2*time.Second))

	recents, err := s.RecentDirs()
	if err != nil {
		t.Fatal(err)
	}
	if len(recents) != 2 || recents[0] != "/tmp/a" {
		t.Fatalf("expected re-touched path to sort first, got %v", recents)
	}
}
