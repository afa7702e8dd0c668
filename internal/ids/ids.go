// Package ids holds the identifier types shared across the state, task, and
// clipboard packages, kept separate so none of those packages need to
// import one another just to share a typed UUID wrapper.
package ids

import "github.com/google/uuid"

// TaskID identifies one background task (spec.md section 3, TaskInfo).
type TaskID uuid.UUID

// NewTaskID mints a fresh TaskID. Grounded on justyntemme-razor,
// perkeep-perkeep and wilbur182-forge, all of which use google/uuid for
// this purpose.
func NewTaskID() TaskID { return TaskID(uuid.New()) }

func (t TaskID) String() string { return uuid.UUID(t).String() }

// OperationID identifies one file operation (copy/move/rename/delete/create)
// with its own progress and cancellation token (spec.md section 4.3.3).
type OperationID uuid.UUID

func NewOperationID() OperationID { return OperationID(uuid.New()) }

func (o OperationID) String() string { return uuid.UUID(o).String() }

// ClipboardItemID is the clipboard's own monotonic 64-bit id space (spec.md
// section 3: "64-bit id"), distinct from the UUID-based ids above because
// the clipboard's invariant is sequence monotonicity, not global uniqueness.
type ClipboardItemID uint64
