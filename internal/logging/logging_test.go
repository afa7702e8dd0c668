package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesTSVRecord(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Options{Dir: dir, Level: zapcore.InfoLevel})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("scanned directory", zap.String("current_path", "/tmp"), zap.Int64("entries_count", 3))
	logger.Sync()

	data := readTodayLog(t, dir, "pane")
	line := strings.TrimSpace(string(data))
	cols := strings.Split(line, "\t")
	if len(cols) != 14 {
		t.Fatalf("expected 14 columns, got %d: %q", len(cols), line)
	}
	if cols[5] != "/tmp" {
		t.Fatalf("expected current_path column populated, got %q", cols[5])
	}
	if cols[7] != "3" {
		t.Fatalf("expected entries_count column populated, got %q", cols[7])
	}
	if cols[6] != "NULL" {
		t.Fatalf("expected unset target_path column to be NULL, got %q", cols[6])
	}
}

func TestErrorsTeeToSiblingFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Options{Dir: dir, Level: zapcore.InfoLevel})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("not an error")
	logger.Error("disk full")
	logger.Sync()

	errData := readTodayLog(t, dir, "pane-errors")
	if !strings.Contains(string(errData), "disk full") {
		t.Fatalf("expected error line in errors file, got %q", errData)
	}
	if strings.Contains(string(errData), "not an error") {
		t.Fatalf("expected info-level line excluded from errors file")
	}
}

func readTodayLog(t *testing.T, dir, prefix string) []byte {
	t.Helper()
	path := filepath.Join(dir, prefix+"-"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}
