package fsops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/connorleisz/pane/internal/progress"
)

func TestWalkCountsBytesAndFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644)
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)
	os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("world!"), 0o644)

	totalBytes, totalFiles, err := Walk(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if totalFiles != 2 || totalBytes != int64(len("hello")+len("world!")) {
		t.Fatalf("expected 2 files / 11 bytes, got %d files / %d bytes", totalFiles, totalBytes)
	}
}

func TestCopyFileContents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "out", "dst.txt")
	os.WriteFile(src, []byte("payload"), 0o644)

	tracker := progress.NewTracker(int64(len("payload")), 1)
	gate := &progress.ThrottleGate{}
	if err := Copy(context.Background(), src, dst, tracker, gate, func(progress.Snapshot) {}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("expected copied contents to match, got %q", got)
	}
}

func TestCopyDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	os.MkdirAll(filepath.Join(src, "nested"), 0o755)
	os.WriteFile(filepath.Join(src, "top.txt"), []byte("a"), 0o644)
	os.WriteFile(filepath.Join(src, "nested", "deep.txt"), []byte("b"), 0o644)

	dst := filepath.Join(dir, "dst")
	if err := Copy(context.Background(), src, dst, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dst, "top.txt")); err != nil {
		t.Fatalf("expected top.txt copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "nested", "deep.txt")); err != nil {
		t.Fatalf("expected nested/deep.txt copied: %v", err)
	}
}

func TestCopyCancelledRemovesPartialDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	os.WriteFile(src, []byte("payload"), 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Copy(ctx, src, dst, nil, nil, nil)
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial destination removed, stat err = %v", statErr)
	}
}

func TestMoveRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	os.WriteFile(src, []byte("x"), 0o644)

	if err := Move(context.Background(), src, dst, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed after move")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected destination present after move: %v", err)
	}
}

func TestCreateFileAndDirectory(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "nested", "new.txt")
	if err := CreateFile(filePath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filePath); err != nil {
		t.Fatalf("expected created file: %v", err)
	}

	dirPath := filepath.Join(dir, "nested2", "more")
	if err := CreateDirectory(dirPath); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dirPath)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected created directory: %v", err)
	}
}

func TestDeleteRemovesTree(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim")
	os.MkdirAll(filepath.Join(target, "sub"), 0o755)
	os.WriteFile(filepath.Join(target, "sub", "f.txt"), []byte("x"), 0o644)

	if err := Delete(target); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected target removed")
	}
}
