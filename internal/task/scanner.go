package task

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/perr"
	"github.com/connorleisz/pane/internal/registry"
)

// ScanMode selects one of the directory-scan wire formats of spec.md
// section 4.3.1: Fast returns one atomic result, Streaming emits
// incremental batches. Two-Phase is not a third ScanMode here: the System
// dispatcher (internal/dispatch/system.go) spawns an EnrichEntries pass
// after every completed scan regardless of mode, so Fast-then-enrich and
// Streaming-then-enrich already cover it without a separate code path.
type ScanMode int

const (
	ScanFast ScanMode = iota
	ScanStreaming
)

// streamBatchSize bounds how many entries accumulate before a Streaming scan
// emits a DirectoryScanBatch, keeping early results visible on large
// directories instead of waiting for enumeration to finish.
const streamBatchSize = 64

// Generation is a monotonically increasing scan counter. Each pane holds its
// own; a scan's result carries the generation it was started with, and the
// consumer drops any result whose generation no longer matches the pane's
// current one (the stale-scan rule of spec.md section 4.3.1).
type Generation = uint64

// ScanDirectory enumerates path under the given scan mode. gen is read once
// at call time and is not re-checked here; the caller (the dispatcher
// re-entering the result action) is responsible for comparing it against
// the pane's live generation and discarding stale results.
func ScanDirectory(ctx context.Context, path string, gen Generation, mode ScanMode, showHidden bool) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		switch mode {
		case ScanStreaming:
			return scanStreaming(ctx, path, gen, showHidden, emit)
		case ScanFast:
			return scanFast(ctx, path, gen, showHidden)
		default:
			return scanFast(ctx, path, gen, showHidden)
		}
	}
}

func scanFast(ctx context.Context, path string, gen Generation, showHidden bool) []action.Action {
	entries, err := readLightEntries(ctx, path, showHidden)
	if err != nil {
		return []action.Action{action.ShowNotificationAction(err.Error(), 3)}
	}
	return []action.Action{action.DirectoryScanUpdateAction(path, gen, entries)}
}

// scanStreaming emits a DirectoryScanBatch as soon as each batch fills,
// via emit, so early entries reach the UI while enumeration continues
// (spec.md section 4.3.1). Its return value is the terminal
// DirectoryScanComplete, or nil on a read error or cancellation.
func scanStreaming(ctx context.Context, path string, gen Generation, showHidden bool, emit Emit) []action.Action {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		emit(action.ShowNotificationAction(
			perr.New(perr.KindIOOther, "task.scan", path, err).Error(), 3))
		return nil
	}

	var batch []*registry.ObjectInfo
	for _, de := range dirEntries {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !showHidden && strings.HasPrefix(de.Name(), ".") {
			continue
		}
		batch = append(batch, lightInfoFor(path, de))
		if len(batch) >= streamBatchSize {
			emit(action.DirectoryScanBatchAction(path, gen, batch))
			batch = nil
		}
	}
	if len(batch) > 0 {
		emit(action.DirectoryScanBatchAction(path, gen, batch))
	}
	return []action.Action{action.DirectoryScanCompleteAction(path, gen)}
}

func readLightEntries(ctx context.Context, path string, showHidden bool) ([]*registry.ObjectInfo, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, perr.New(perr.KindIOOther, "task.scan", path, err)
	}
	out := make([]*registry.ObjectInfo, 0, len(dirEntries))
	for _, de := range dirEntries {
		select {
		case <-ctx.Done():
			return out, perr.New(perr.KindCancelled, "task.scan", path, ctx.Err())
		default:
		}
		if !showHidden && strings.HasPrefix(de.Name(), ".") {
			continue
		}
		out = append(out, lightInfoFor(path, de))
	}
	return out, nil
}

func lightInfoFor(dir string, de os.DirEntry) *registry.ObjectInfo {
	kind := registry.KindFile
	if de.IsDir() {
		kind = registry.KindDirectory
	} else if de.Type()&os.ModeSymlink != 0 {
		kind = registry.KindSymlink
	}
	full := filepath.Join(dir, de.Name())
	return registry.LightInfo(full, de.Name(), kind, strings.HasPrefix(de.Name(), "."))
}
