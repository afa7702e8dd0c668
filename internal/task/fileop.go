package task

import (
	"context"
	"path/filepath"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/fsops"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/progress"
)

// CopyEntry builds the Func that copies src into destDir, reporting
// throttled progress under opID and a terminal FileOperationComplete on
// success (which also triggers a reload of destDir per spec.md section
// 4.3.3) or failure.
func CopyEntry(opID ids.OperationID, src, destDir string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		return runFileOp(ctx, opID, src, destDir, emit, fsops.Copy)
	}
}

// MoveEntry builds the Func that moves src into destDir, falling back from
// an atomic rename to copy-then-delete on a cross-device error.
func MoveEntry(opID ids.OperationID, src, destDir string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		return runFileOp(ctx, opID, src, destDir, emit, fsops.Move)
	}
}

type streamOp func(ctx context.Context, src, dst string, tracker *progress.Tracker, gate *progress.ThrottleGate, report fsops.ProgressFunc) error

func runFileOp(ctx context.Context, opID ids.OperationID, src, destDir string, emit Emit, op streamOp) []action.Action {
	dst := filepath.Join(destDir, filepath.Base(src))

	totalBytes, totalFiles, err := fsops.Walk(ctx, src)
	if err != nil {
		return []action.Action{action.FileOperationCompleteAction(opID, false, err)}
	}

	tracker := progress.NewTracker(totalBytes, totalFiles)
	gate := &progress.ThrottleGate{}
	report := func(snap progress.Snapshot) {
		emit(action.FileOperationProgressAction(opID, snap))
	}

	if err := op(ctx, src, dst, tracker, gate, report); err != nil {
		return []action.Action{action.FileOperationCompleteAction(opID, false, err)}
	}
	return []action.Action{
		action.FileOperationCompleteAction(opID, true, nil),
		action.ReloadDirectoryAction(destDir),
	}
}

// RenameEntry builds the single-shot rename Func (spec.md section 4.3.3:
// "no progress stream; success/failure action only").
func RenameEntry(opID ids.OperationID, oldPath, newPath string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		err := fsops.Rename(oldPath, newPath)
		actions := []action.Action{action.FileOperationCompleteAction(opID, err == nil, err)}
		if err == nil {
			actions = append(actions, action.ReloadDirectoryAction(filepath.Dir(newPath)))
		}
		return actions
	}
}

// DeleteEntry builds the single-shot delete Func.
func DeleteEntry(opID ids.OperationID, path string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		err := fsops.Delete(path)
		actions := []action.Action{action.FileOperationCompleteAction(opID, err == nil, err)}
		if err == nil {
			actions = append(actions, action.ReloadDirectoryAction(filepath.Dir(path)))
		}
		return actions
	}
}

// CreateFileEntry builds the single-shot file-creation Func.
func CreateFileEntry(opID ids.OperationID, path string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		err := fsops.CreateFile(path)
		actions := []action.Action{action.FileOperationCompleteAction(opID, err == nil, err)}
		if err == nil {
			actions = append(actions, action.ReloadDirectoryAction(filepath.Dir(path)))
		}
		return actions
	}
}

// CreateDirectoryEntry builds the single-shot directory-creation Func.
func CreateDirectoryEntry(opID ids.OperationID, path string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		err := fsops.CreateDirectory(path)
		actions := []action.Action{action.FileOperationCompleteAction(opID, err == nil, err)}
		if err == nil {
			actions = append(actions, action.ReloadDirectoryAction(filepath.Dir(path)))
		}
		return actions
	}
}
