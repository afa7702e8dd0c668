// Package store persists favorites and recent-directory history to a local
// sqlite database, a supplemented feature beyond spec.md's in-memory
// FSState: the teacher pack's justyntemme-razor has exactly this concern in
// internal/store/db.go, and its schema and pragmas are carried over here,
// adapted to a direct call API instead of a request/response channel since
// it is called only from app.New's startup load and from
// dispatch.Navigation's write-backs, rather than from many concurrent UI
// components.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/connorleisz/pane/internal/perr"
)

// MaxRecent bounds how many recent directories are retained on disk,
// matching state.MaxRecent so the persisted history never outgrows what
// FSState can hold in memory.
const MaxRecent = 50

// Store wraps a sqlite connection holding favorites and recent directories.
type Store struct {
	conn *sql.DB
}

// Open creates the database file (and parent directories) if missing,
// applies WAL journaling and NORMAL synchronous mode for a crash-safe but
// fast local store, and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, perr.New(perr.KindIOOther, "store.open", path, err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, perr.New(perr.KindIOOther, "store.open", path, err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, perr.New(perr.KindIOOther, "store.open", path, err)
	}
	if _, err := conn.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		return nil, perr.New(perr.KindIOOther, "store.open", path, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		path TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS recent_dirs (
		path TEXT PRIMARY KEY,
		visited_at DATETIME NOT NULL
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		return nil, perr.New(perr.KindIOOther, "store.open", path, err)
	}
	return &Store{conn: conn}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.conn.Close() }

// AddFavorite inserts path, ignoring the call if it is already favorited.
func (s *Store) AddFavorite(path string) error {
	_, err := s.conn.Exec("INSERT OR IGNORE INTO favorites (path) VALUES (?)", path)
	if err != nil {
		return perr.New(perr.KindIOOther, "store.add_favorite", path, err)
	}
	return nil
}

// RemoveFavorite deletes path from favorites.
func (s *Store) RemoveFavorite(path string) error {
	_, err := s.conn.Exec("DELETE FROM favorites WHERE path = ?", path)
	if err != nil {
		return perr.New(perr.KindIOOther, "store.remove_favorite", path, err)
	}
	return nil
}

// Favorites returns every favorited path, oldest first.
func (s *Store) Favorites() ([]string, error) {
	rows, err := s.conn.Query("SELECT path FROM favorites ORDER BY created_at ASC")
	if err != nil {
		return nil, perr.New(perr.KindIOOther, "store.favorites", "", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err == nil {
			out = append(out, path)
		}
	}
	return out, nil
}

// TouchRecent upserts path's last-visited timestamp, then trims the table
// down to MaxRecent entries, dropping the oldest.
func (s *Store) TouchRecent(path string, at time.Time) error {
	_, err := s.conn.Exec(
		"INSERT INTO recent_dirs (path, visited_at) VALUES (?, ?) ON CONFLICT(path) DO UPDATE SET visited_at = excluded.visited_at",
		path, at,
	)
	if err != nil {
		return perr.New(perr.KindIOOther, "store.touch_recent", path, err)
	}
	_, err = s.conn.Exec(`
		DELETE FROM recent_dirs WHERE path NOT IN (
			SELECT path FROM recent_dirs ORDER BY visited_at DESC LIMIT ?
		)`, MaxRecent)
	if err != nil {
		return perr.New(perr.KindIOOther, "store.touch_recent", path, err)
	}
	return nil
}

// RecentDirs returns recently visited directories, most recent first.
func (s *Store) RecentDirs() ([]string, error) {
	rows, err := s.conn.Query("SELECT path FROM recent_dirs ORDER BY visited_at DESC")
	if err != nil {
		return nil, perr.New(perr.KindIOOther, "store.recent_dirs", "", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err == nil {
			out = append(out, path)
		}
	}
	return out, nil
}
