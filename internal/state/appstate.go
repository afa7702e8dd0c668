package state

import (
	"time"

	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/config"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/progress"
)

// TaskKind classifies a background task for display and bookkeeping.
type TaskKind int

const (
	TaskScan TaskKind = iota
	TaskEnrichment
	TaskFileOp
	TaskSearch
	TaskSize
)

func (k TaskKind) String() string {
	switch k {
	case TaskScan:
		return "scan"
	case TaskEnrichment:
		return "enrichment"
	case TaskFileOp:
		return "file_op"
	case TaskSearch:
		return "search"
	case TaskSize:
		return "size"
	default:
		return "unknown"
	}
}

// TaskInfo tracks one in-flight background task (spec.md section 3).
type TaskInfo struct {
	ID        ids.TaskID
	Kind      TaskKind
	StartedAt time.Time
	Cancel    *progress.CancelToken
	Progress  progress.Snapshot
}

// HistoryEntry records one completed operation for the bounded operation
// history AppState carries.
type HistoryEntry struct {
	Kind      TaskKind
	Path      string
	Succeeded bool
	At        time.Time
}

// MaxHistory bounds AppState's operation history.
const MaxHistory = 200

// AppState holds process-wide bookkeeping: the task table, loaded
// configuration, bounded operation history, and the clipboard handle
// (shared process-wide per spec.md section 3 ownership rules).
type AppState struct {
	Tasks     map[ids.TaskID]*TaskInfo
	Config    *config.Config
	History   []HistoryEntry
	Clipboard *clipboard.Clipboard
}

// NewAppState creates an AppState wired to cfg and clip.
func NewAppState(cfg *config.Config, clip *clipboard.Clipboard) *AppState {
	return &AppState{
		Tasks:     make(map[ids.TaskID]*TaskInfo),
		Config:    cfg,
		Clipboard: clip,
	}
}

// StartTask registers a new task.
func (s *AppState) StartTask(info *TaskInfo) {
	s.Tasks[info.ID] = info
}

// FinishTask removes id from the task table and appends a bounded history
// entry.
func (s *AppState) FinishTask(id ids.TaskID, path string, succeeded bool) {
	info, ok := s.Tasks[id]
	if !ok {
		return
	}
	delete(s.Tasks, id)
	s.History = append(s.History, HistoryEntry{Kind: info.Kind, Path: path, Succeeded: succeeded, At: time.Now()})
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
}
