package task

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/fsops"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/progress"
)

// pasteWorkerCap bounds how many PasteOps within one batch run at once, per
// spec.md section 4.5: "within a batch, operations run in parallel up to a
// worker cap (CPU count x 2)".
func pasteWorkerCap() int {
	n := runtime.GOMAXPROCS(0) * 2
	if n < 2 {
		n = 2
	}
	return n
}

// PasteItems builds the Func that executes batches in sequence, fanning
// every op within a batch out over an errgroup.Group capped at
// pasteWorkerCap, since clipboard.Plan already guarantees no two ops in one
// batch touch the same destination subtree (spec.md section 4.5).
// StatusChange reports let the caller mirror each item's clipboard.Status
// as the paste progresses. Each op runs against the batch's own ctx, not
// the errgroup's derived context, so one op's failure does not cancel its
// siblings — only an explicit cancellation of the whole paste does that.
func PasteItems(opID ids.OperationID, batches []clipboard.PasteBatch, onStatus func(ids.ClipboardItemID, clipboard.Status)) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		var destDirs []string
		seen := make(map[string]bool)
		var failed error

		for _, batch := range batches {
			if ctx.Err() != nil {
				break
			}
			g := &errgroup.Group{}
			g.SetLimit(pasteWorkerCap())
			for _, op := range batch {
				op := op
				g.Go(func() error {
					if onStatus != nil {
						onStatus(op.ItemID, clipboard.StatusInProgress)
					}
					err := runPasteOp(ctx, opID, op, emit)
					status := clipboard.StatusDone
					if err != nil {
						status = clipboard.StatusFailed
					}
					if onStatus != nil {
						onStatus(op.ItemID, status)
					}
					return err
				})
			}
			if err := g.Wait(); err != nil && failed == nil {
				failed = err
			}
			for _, op := range batch {
				dir := filepath.Dir(op.DestPath)
				if !seen[dir] {
					seen[dir] = true
					destDirs = append(destDirs, dir)
				}
			}
		}

		actions := []action.Action{action.FileOperationCompleteAction(opID, failed == nil, failed)}
		for _, dir := range destDirs {
			actions = append(actions, action.ReloadDirectoryAction(dir))
		}
		return actions
	}
}

func runPasteOp(ctx context.Context, opID ids.OperationID, op clipboard.PasteOp, emit Emit) error {
	totalBytes, totalFiles, err := fsops.Walk(ctx, op.SourcePath)
	if err != nil {
		return err
	}
	tracker := progress.NewTracker(totalBytes, totalFiles)
	gate := &progress.ThrottleGate{}
	report := func(snap progress.Snapshot) {
		emit(action.FileOperationProgressAction(opID, snap))
	}
	if op.Op == clipboard.OpMove {
		return fsops.Move(ctx, op.SourcePath, op.DestPath, tracker, gate, report)
	}
	return fsops.Copy(ctx, op.SourcePath, op.DestPath, tracker, gate, report)
}
