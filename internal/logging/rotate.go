package logging

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// dailyFile is a zapcore.WriteSyncer that reopens its underlying file when
// the calendar day changes, checked on every write. Rotation here is a pure
// date-boundary check rather than size-based, so a small purpose-built
// writer is simpler and more directly testable than pulling in a rotation
// library built around size thresholds (justified in DESIGN.md).
type dailyFile struct {
	mu      sync.Mutex
	dir     string
	prefix  string
	day     string
	file    *os.File
}

// newDailyFile opens (or creates) dir/prefix-YYYY-MM-DD.log for today.
func newDailyFile(dir, prefix string) (*dailyFile, error) {
	d := &dailyFile{dir: dir, prefix: prefix}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := d.rotateLocked(time.Now()); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *dailyFile) rotateLocked(now time.Time) error {
	day := now.Format("2006-01-02")
	if d.file != nil && d.day == day {
		return nil
	}
	if d.file != nil {
		d.file.Close()
	}
	path := filepath.Join(d.dir, d.prefix+"-"+day+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	d.file = f
	d.day = day
	return nil
}

// Write implements zapcore.WriteSyncer, rotating first if the day changed.
func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.rotateLocked(time.Now()); err != nil {
		return 0, err
	}
	return d.file.Write(p)
}

// Sync flushes the underlying file.
func (d *dailyFile) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	return d.file.Sync()
}

// Close releases the underlying file handle.
func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}
