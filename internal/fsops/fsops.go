// Package fsops implements the streaming file-operation primitives of
// spec.md section 4.3.3: copy, move, rename, delete, and create, each
// reporting progress and honoring cancellation. It generalizes the
// teacher's single-file os.Open/io.Copy pattern (internal/app/update_fileop.go)
// into a recursive, progress-tracked, cancellable walk.
package fsops

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/connorleisz/pane/internal/perr"
	"github.com/connorleisz/pane/internal/progress"
)

const copyBufferSize = 64 * 1024

// ProgressFunc is invoked after a buffer-sized chunk is written, at most as
// often as the ThrottleGate allows.
type ProgressFunc func(snap progress.Snapshot)

// Walk computes the total byte count and file count under root, used as the
// progress denominator before a copy begins (spec.md: "pre-walk the source").
// If ctx is cancelled mid-walk, Walk returns the cancellation error.
func Walk(ctx context.Context, root string) (totalBytes int64, totalFiles int, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !info.IsDir() {
			totalBytes += info.Size()
			totalFiles++
		}
		return nil
	})
	if err != nil {
		kind := perr.KindIOOther
		if ctx.Err() != nil {
			kind = perr.KindCancelled
		}
		return 0, 0, perr.New(kind, "fsops.walk", root, err)
	}
	return totalBytes, totalFiles, nil
}

// Copy recursively copies src to dst, streaming each file through a fixed
// 64 KiB buffer and checking cancellation after every buffer (spec.md
// section 4.3.3). tracker and gate drive the throttled progress callback.
func Copy(ctx context.Context, src, dst string, tracker *progress.Tracker, gate *progress.ThrottleGate, report ProgressFunc) error {
	info, err := os.Lstat(src)
	if err != nil {
		return perr.New(perr.KindNotFound, "fsops.copy", src, err)
	}
	if info.IsDir() {
		return copyDir(ctx, src, dst, tracker, gate, report)
	}
	return copyFile(ctx, src, dst, info, tracker, gate, report)
}

func copyDir(ctx context.Context, src, dst string, tracker *progress.Tracker, gate *progress.ThrottleGate, report ProgressFunc) error {
	info, err := os.Stat(src)
	if err != nil {
		return perr.New(perr.KindNotFound, "fsops.copy", src, err)
	}
	if err := os.MkdirAll(dst, info.Mode()); err != nil {
		return perr.New(perr.KindIOOther, "fsops.copy", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return perr.New(perr.KindIOOther, "fsops.copy", src, err)
	}
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return perr.New(perr.KindCancelled, "fsops.copy", src, ctx.Err())
		default:
		}
		childSrc := filepath.Join(src, entry.Name())
		childDst := filepath.Join(dst, entry.Name())
		childInfo, err := entry.Info()
		if err != nil {
			return perr.New(perr.KindIOOther, "fsops.copy", childSrc, err)
		}
		if childInfo.IsDir() {
			if err := copyDir(ctx, childSrc, childDst, tracker, gate, report); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(ctx, childSrc, childDst, childInfo, tracker, gate, report); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(ctx context.Context, src, dst string, info os.FileInfo, tracker *progress.Tracker, gate *progress.ThrottleGate, report ProgressFunc) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return perr.New(perr.KindIOOther, "fsops.copy", src, err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return perr.New(perr.KindIOOther, "fsops.copy", dst, err)
	}
	dstFile, err := os.Create(dst)
	if err != nil {
		return perr.New(perr.KindIOOther, "fsops.copy", dst, err)
	}
	defer dstFile.Close()

	buf := make([]byte, copyBufferSize)
	for {
		select {
		case <-ctx.Done():
			dstFile.Close()
			os.Remove(dst)
			return perr.New(perr.KindCancelled, "fsops.copy", src, ctx.Err())
		default:
		}
		n, readErr := srcFile.Read(buf)
		if n > 0 {
			if _, writeErr := dstFile.Write(buf[:n]); writeErr != nil {
				return perr.New(perr.KindIOOther, "fsops.copy", dst, writeErr)
			}
			if tracker != nil {
				tracker.Advance(src, int64(n))
				if gate != nil && report != nil {
					snap := tracker.Snapshot()
					if gate.ShouldEmit(snap, time.Now()) {
						report(snap)
					}
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return perr.New(perr.KindIOOther, "fsops.copy", src, readErr)
		}
	}
	if tracker != nil {
		tracker.FileDone()
	}
	os.Chmod(dst, info.Mode())
	return nil
}

// Move attempts an atomic rename first; on a cross-device error it falls
// back to copy-then-delete with the same progress contract (spec.md section
// 4.3.3). If cancelled mid-copy, the partial destination is removed.
func Move(ctx context.Context, src, dst string, tracker *progress.Tracker, gate *progress.ThrottleGate, report ProgressFunc) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return perr.New(perr.KindIOOther, "fsops.move", src, err)
	}

	if err := Copy(ctx, src, dst, tracker, gate, report); err != nil {
		os.RemoveAll(dst)
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return perr.New(perr.KindIOOther, "fsops.move", src, err)
	}
	return nil
}

// Rename is a single-shot, no-progress rename (spec.md section 4.3.3).
func Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return perr.New(perr.KindIOOther, "fsops.rename", oldPath, err)
	}
	return nil
}

// Delete removes path and everything beneath it.
func Delete(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return perr.New(perr.KindIOOther, "fsops.delete", path, err)
	}
	return nil
}

// CreateFile creates an empty file at path, including parent directories.
func CreateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.New(perr.KindIOOther, "fsops.create", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return perr.New(perr.KindIOOther, "fsops.create", path, err)
	}
	return f.Close()
}

// CreateDirectory creates path and any missing parents.
func CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return perr.New(perr.KindIOOther, "fsops.create", path, err)
	}
	return nil
}
