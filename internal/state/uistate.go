package state

import (
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/notify"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/progress"
	"github.com/connorleisz/pane/internal/registry"
)

// Overlay identifies which modal overlay, if any, is currently active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayFilenameSearch
	OverlayContentSearch
	OverlayPrompt
	OverlayCommandPalette
	OverlayClipboard
	OverlaySystemMonitor
	OverlayFileOpsProgress
)

// Mode identifies the current input-interpretation mode (spec.md section
// 4.1: in Command/Prompt/Search modes, character keys are exclusively
// input, never shortcuts).
type Mode int

const (
	ModeBrowse Mode = iota
	ModeCommand
	ModePrompt
	ModeSearch
)

// UIState holds overlay/mode, input buffer, notifications, and the
// per-operation progress and cancellation maps (spec.md section 3).
type UIState struct {
	Overlay Overlay
	Mode    Mode
	Input   string

	Notifications notify.Queue

	// Progress and Cancels track in-flight file operations for rendering;
	// actual cancellation is owned by the Background Task Manager, which
	// dispatch.FileOps calls directly, so these hold bookkeeping only, not
	// cancellation tokens.
	Progress map[ids.OperationID]progress.Snapshot
	Cancels  map[ids.OperationID]struct{}

	// SelectedMirror tracks the selected ObjectId for overlays (search
	// results) that have their own cursor independent of any Pane.
	SelectedMirror objectid.ID

	// ClipboardCursor indexes the clipboard overlay's highlighted item
	// within Clipboard.GetAll()'s insertion order.
	ClipboardCursor int

	// PromptPurpose names what a ModePrompt submission is for
	// ("create-file", "create-directory", "rename"), set when the prompt
	// overlay is opened and consumed once its input is submitted.
	PromptPurpose string

	// SearchStreaming marks whether the currently-open search overlay is
	// filename (streaming-as-typed) or content (submit-to-run) search.
	SearchStreaming bool

	// SearchResults accumulates the currently open search overlay's matches
	// as batches arrive; SearchCursor is its independent selection index.
	SearchResults []*registry.ObjectInfo
	SearchCursor  int
}

// ResetSearch clears the search overlay's accumulated matches and cursor,
// called whenever a new query starts.
func (s *UIState) ResetSearch() {
	s.SearchResults = nil
	s.SearchCursor = 0
}

// AppendSearchResults appends a streaming batch of matches.
func (s *UIState) AppendSearchResults(batch []*registry.ObjectInfo) {
	s.SearchResults = append(s.SearchResults, batch...)
}

// NewUIState creates an empty UIState.
func NewUIState() *UIState {
	return &UIState{
		Progress: make(map[ids.OperationID]progress.Snapshot),
		Cancels:  make(map[ids.OperationID]struct{}),
	}
}

// BeginOperation registers op as in-flight with an empty progress entry.
func (s *UIState) BeginOperation(op ids.OperationID) {
	s.Cancels[op] = struct{}{}
	s.Progress[op] = progress.Snapshot{}
}

// UpdateProgress overwrites op's progress snapshot.
func (s *UIState) UpdateProgress(op ids.OperationID, snap progress.Snapshot) {
	if _, ok := s.Cancels[op]; ok {
		s.Progress[op] = snap
	}
}

// EndOperation removes op's progress entry and cancellation entry, on
// completion or cancellation (spec.md section 3 lifecycle).
func (s *UIState) EndOperation(op ids.OperationID) {
	delete(s.Progress, op)
	delete(s.Cancels, op)
}

// CancelAll clears every in-flight operation's bookkeeping, matching the
// Esc-cancels-everything contract of spec.md section 4.3.3. Actual task
// cancellation is the caller's responsibility (dispatch.FileOps calls
// task.Manager.CancelAll alongside this).
func (s *UIState) CancelAll() {
	s.Progress = make(map[ids.OperationID]progress.Snapshot)
	s.Cancels = make(map[ids.OperationID]struct{})
}
