package clipboard

import (
	"path/filepath"
	"strings"

	"github.com/connorleisz/pane/internal/ids"
)

// PasteOp is one planned file operation produced by Plan.
type PasteOp struct {
	ItemID     ids.ClipboardItemID
	SourcePath string
	DestPath   string
	Op         OpKind
}

// PasteBatch is a set of PasteOps that may safely run in parallel: no two
// operations in one batch write to the same destination subtree (spec.md
// section 4.5).
type PasteBatch []PasteOp

// Plan builds the paste batches for itemIDs pasted into destination.
// Operations are partitioned greedily: an op joins the first batch none of
// whose members conflict with it, otherwise it starts a new batch. Batches
// run sequentially; within a batch, the caller runs operations concurrently
// up to its own worker cap.
func (c *Clipboard) Plan(itemIDs []ids.ClipboardItemID, destination string) []PasteBatch {
	var ops []PasteOp
	for _, id := range itemIDs {
		item := c.Get(id)
		if item == nil {
			continue
		}
		dest := filepath.Join(destination, filepath.Base(item.SourcePath))
		ops = append(ops, PasteOp{ItemID: id, SourcePath: item.SourcePath, DestPath: dest, Op: item.Op})
	}

	var batches []PasteBatch
	for _, op := range ops {
		placed := false
		for i := range batches {
			if !conflictsWithBatch(op, batches[i]) {
				batches[i] = append(batches[i], op)
				placed = true
				break
			}
		}
		if !placed {
			batches = append(batches, PasteBatch{op})
		}
	}
	return batches
}

func conflictsWithBatch(op PasteOp, batch PasteBatch) bool {
	for _, existing := range batch {
		if pathsConflict(op.DestPath, existing.DestPath) {
			return true
		}
	}
	return false
}

// pathsConflict reports whether a and b are the same path or one is an
// ancestor directory of the other — either case means the two writes touch
// the same destination subtree.
func pathsConflict(a, b string) bool {
	if a == b {
		return true
	}
	aSep, bSep := a+string(filepath.Separator), b+string(filepath.Separator)
	return strings.HasPrefix(bSep, aSep) || strings.HasPrefix(aSep, bSep)
}
