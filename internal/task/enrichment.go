package task

import (
	"context"
	"os"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/registry"
)

// enrichmentYield is how many entries are processed between cooperative
// yields, keeping the UI responsive during a large-directory enrichment
// pass (spec.md section 4.3.2: "yields the executor every N entries;
// configurable, approximately 16").
const enrichmentYield = 16

// EnrichEntries builds the Func that promotes each of entries from Light to
// Full metadata via os.Lstat, emitting one UpdateEntryMetadata action per
// entry as it completes. Partial progress is valid: if cancelled mid-batch,
// everything enriched so far has already been emitted.
func EnrichEntries(entries []*registry.ObjectInfo) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		for i, entry := range entries {
			if i%enrichmentYield == 0 {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
			}
			info, err := os.Lstat(entry.Path)
			if err != nil {
				continue
			}
			itemCount := -1
			if info.IsDir() {
				if children, err := os.ReadDir(entry.Path); err == nil {
					itemCount = len(children)
				}
			}
			full := entry.PromoteToFull(info.Size(), info.ModTime(), info.Mode(), itemCount)
			emit(action.UpdateEntryMetadataAction(full))
		}
		return nil
	}
}
