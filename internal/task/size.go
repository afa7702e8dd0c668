package task

import (
	"context"
	"os"
	"path/filepath"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/registry"
)

// ComputeSize walks path and emits an UpdateEntryMetadata action carrying
// the aggregate size once the walk completes, as its own dedicated task
// separate from directory scanning (spec.md section 4.3.5). It yields at
// the same cadence as enrichment so a large tree doesn't stall other work.
func ComputeSize(entry *registry.ObjectInfo) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		var total int64
		var n int
		err := filepath.Walk(entry.Path, func(p string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			n++
			if n%enrichmentYield == 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
			if !info.IsDir() {
				total += info.Size()
			}
			return nil
		})
		if err != nil {
			return nil
		}
		full := entry.PromoteToFull(total, entry.ModTime, entry.Mode, entry.ItemCount)
		return []action.Action{action.UpdateEntryMetadataAction(full)}
	}
}
