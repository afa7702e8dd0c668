// Package action defines the typed actions that flow through the event and
// dispatch pipeline (spec.md section 4.1). Every keystroke, timer tick,
// resize, and background task result is translated into one or more Action
// values before anything touches state.
package action

import (
	"time"

	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/registry"
)

// Kind identifies the category and specific action. The zero value is None,
// a deliberate no-op so a handler that finds nothing to do can return an
// explicit action rather than an empty slice.
type Kind int

const (
	None Kind = iota

	// Navigation
	MoveSelection
	EnterSelected
	GoToParent
	GoToPath

	// File ops
	CreateFile
	CreateDirectory
	Rename
	Delete
	Copy
	Move
	CancelOperation
	ReloadDirectory
	OpenFile
	ToggleFavorite

	// Search
	ToggleFilenameSearch
	ToggleContentSearch
	SubmitQuery
	ShowFilenameSearchResults
	ShowContentSearchResults

	// Clipboard
	ClipboardAdd
	ClipboardPaste
	ClipboardRemove
	ClipboardClear
	ClipboardToggleOverlay
	ClipboardNavigateOverlay
	ClipboardSelect

	// UI / Mode
	ShowOverlay
	HideOverlay
	EnterCommandMode
	ExitCommandMode
	AppendInput
	BackspaceInput
	SubmitPrompt
	ToggleHidden
	ShowNotification
	Tick

	// System
	UpdateEntryMetadata
	DirectoryScanUpdate
	FileOperationProgress
	FileOperationComplete
	OpenEditorRequest
	Quit
	NoOp
)

// Action is the single typed unit of work passed through the dispatch
// pipeline. Only the fields relevant to Kind are populated; the rest are
// zero. This mirrors a tagged union without needing one per spec.md's
// "ordered stream of typed actions" (section 4.1).
type Action struct {
	Kind Kind

	// Navigation
	Delta    int    // MoveSelection: +1/-1, or page-sized
	JumpFirst bool
	JumpLast  bool
	Path      string // GoToPath, GoToParent, ReloadDirectory, CreateFile/Directory parent

	// File ops
	Name      string // CreateFile/CreateDirectory/Rename new name
	TargetID  objectid.ID
	OpID      ids.OperationID
	Line      int // OpenFile optional line number; 0 means unset

	// Search
	Query    string
	Streaming bool
	Results  []*registry.ObjectInfo

	// Clipboard
	ClipItemID ids.ClipboardItemID
	ClipDelta  int

	// UI/Mode
	Overlay string
	Input   string
	Message string
	Severity int

	// System
	EntryID    objectid.ID
	Entry      *registry.ObjectInfo
	Generation uint64 // scan generation the result was produced under
	Progress   any    // *progress.Snapshot, kept as any to avoid an import cycle
	Succeeded  bool
	Err        error
	At         time.Time
}

// MoveSelectionBy builds a MoveSelection action for a relative delta (±1 or
// a page size).
func MoveSelectionBy(delta int) Action { return Action{Kind: MoveSelection, Delta: delta} }

// JumpToFirst builds the "jump to first entry" action.
func JumpToFirst() Action { return Action{Kind: MoveSelection, JumpFirst: true} }

// JumpToLast builds the "jump to last entry" action.
func JumpToLast() Action { return Action{Kind: MoveSelection, JumpLast: true} }

// EnterSelectedAction descends into the current selection.
func EnterSelectedAction() Action { return Action{Kind: EnterSelected} }

// GoToParentAction ascends to the parent directory.
func GoToParentAction() Action { return Action{Kind: GoToParent} }

// GoToPathAction jumps directly to an absolute path.
func GoToPathAction(path string) Action { return Action{Kind: GoToPath, Path: path} }

// CreateFileAction requests a new file named name under dir.
func CreateFileAction(dir, name string) Action {
	return Action{Kind: CreateFile, Path: dir, Name: name}
}

// CreateDirectoryAction requests a new directory named name under dir.
func CreateDirectoryAction(dir, name string) Action {
	return Action{Kind: CreateDirectory, Path: dir, Name: name}
}

// RenameAction renames the entry identified by id to newName.
func RenameAction(id objectid.ID, newName string) Action {
	return Action{Kind: Rename, TargetID: id, Name: newName}
}

// DeleteAction deletes the entry identified by id.
func DeleteAction(id objectid.ID) Action { return Action{Kind: Delete, TargetID: id} }

// CopyAction copies the entry identified by id to destDir, tracked under opID.
func CopyAction(id objectid.ID, destDir string, opID ids.OperationID) Action {
	return Action{Kind: Copy, TargetID: id, Path: destDir, OpID: opID}
}

// MoveAction moves the entry identified by id to destDir, tracked under opID.
func MoveAction(id objectid.ID, destDir string, opID ids.OperationID) Action {
	return Action{Kind: Move, TargetID: id, Path: destDir, OpID: opID}
}

// CancelOperationAction cancels a single in-flight operation, or every
// operation when opID is the zero value (Esc-cancels-all, spec.md section
// 4.3.3).
func CancelOperationAction(opID ids.OperationID) Action {
	return Action{Kind: CancelOperation, OpID: opID}
}

// ReloadDirectoryAction triggers a re-scan of path.
func ReloadDirectoryAction(path string) Action { return Action{Kind: ReloadDirectory, Path: path} }

// OpenFileAction opens the entry identified by id in the configured editor,
// optionally at a specific line (0 means unset).
func OpenFileAction(id objectid.ID, line int) Action {
	return Action{Kind: OpenFile, TargetID: id, Line: line}
}

// ToggleFavoriteAction bookmarks or unbookmarks the active pane's current
// directory (spec.md section 3, FSState.favorites).
func ToggleFavoriteAction() Action { return Action{Kind: ToggleFavorite} }

// ToggleFilenameSearchAction toggles the filename-search overlay.
func ToggleFilenameSearchAction() Action { return Action{Kind: ToggleFilenameSearch} }

// ToggleContentSearchAction toggles the content-search overlay.
func ToggleContentSearchAction() Action { return Action{Kind: ToggleContentSearch} }

// SubmitQueryAction submits a search query to run, streaming or terminal.
func SubmitQueryAction(query string, streaming bool) Action {
	return Action{Kind: SubmitQuery, Query: query, Streaming: streaming}
}

// ClipboardAddAction adds the entry identified by id to the clipboard under
// the given op ("copy" or "move").
func ClipboardAddAction(id objectid.ID, op string) Action {
	return Action{Kind: ClipboardAdd, TargetID: id, Name: op}
}

// ClipboardPasteAction pastes every clipboard item into the active pane's
// current directory (sent from inside the clipboard overlay).
func ClipboardPasteAction() Action { return Action{Kind: ClipboardPaste} }

// ClipboardRemoveAction removes a single clipboard item.
func ClipboardRemoveAction(id ids.ClipboardItemID) Action {
	return Action{Kind: ClipboardRemove, ClipItemID: id}
}

// ClipboardClearAction empties the clipboard.
func ClipboardClearAction() Action { return Action{Kind: ClipboardClear} }

// ClipboardToggleOverlayAction shows or hides the clipboard overlay.
func ClipboardToggleOverlayAction() Action { return Action{Kind: ClipboardToggleOverlay} }

// ClipboardNavigateOverlayAction moves the clipboard overlay's cursor.
func ClipboardNavigateOverlayAction(delta int) Action {
	return Action{Kind: ClipboardNavigateOverlay, ClipDelta: delta}
}

// ClipboardSelectAction confirms the highlighted clipboard overlay entry.
func ClipboardSelectAction() Action { return Action{Kind: ClipboardSelect} }

// ShowOverlayAction shows the named overlay.
func ShowOverlayAction(overlay string) Action { return Action{Kind: ShowOverlay, Overlay: overlay} }

// HideOverlayAction hides whatever overlay is currently shown.
func HideOverlayAction() Action { return Action{Kind: HideOverlay} }

// EnterCommandModeAction switches input mode to command entry.
func EnterCommandModeAction() Action { return Action{Kind: EnterCommandMode} }

// ExitCommandModeAction returns to browse mode.
func ExitCommandModeAction() Action { return Action{Kind: ExitCommandMode} }

// AppendInputAction appends typed text to the active input buffer (command,
// prompt, or search mode).
func AppendInputAction(text string) Action { return Action{Kind: AppendInput, Input: text} }

// BackspaceInputAction removes the last rune from the active input buffer.
func BackspaceInputAction() Action { return Action{Kind: BackspaceInput} }

// SubmitPromptAction submits the current prompt input text.
func SubmitPromptAction(input string) Action { return Action{Kind: SubmitPrompt, Input: input} }

// ToggleHiddenAction toggles display of dotfiles.
func ToggleHiddenAction() Action { return Action{Kind: ToggleHidden} }

// ShowNotificationAction surfaces a transient or persistent message.
func ShowNotificationAction(message string, severity int) Action {
	return Action{Kind: ShowNotification, Message: message, Severity: severity}
}

// TickAction is emitted on the render loop's forced-refresh timer.
func TickAction() Action { return Action{Kind: Tick} }

// QuitAction terminates the event loop cleanly. Only a Quit action, never
// any other, is permitted to stop the loop (spec.md section 4.1).
func QuitAction() Action { return Action{Kind: Quit} }

// NoOpAction is the explicit "nothing happened" action.
func NoOpAction() Action { return Action{Kind: NoOp} }

// UpdateEntryMetadataAction re-enters a promoted ObjectInfo through the
// pipeline so the redraw flag is raised atomically with the data change.
func UpdateEntryMetadataAction(entry *registry.ObjectInfo) Action {
	return Action{Kind: UpdateEntryMetadata, EntryID: entry.ID, Entry: entry}
}

// DirectoryScanUpdateAction carries the complete, atomic result of a fast
// scan of path, tagged with the scan generation that produced it. A consumer whose
// pane generation has since advanced past gen must discard this message
// (the stale-scan rule of spec.md section 4.3.1).
func DirectoryScanUpdateAction(path string, gen uint64, results []*registry.ObjectInfo) Action {
	return Action{Kind: DirectoryScanUpdate, Path: path, Generation: gen, Results: results}
}

// DirectoryScanBatchAction carries one incremental batch of a streaming
// scan. Streaming is set so a consumer accumulates rather than replaces
// (unlike the atomic form above, used by the fast scan mode).
func DirectoryScanBatchAction(path string, gen uint64, results []*registry.ObjectInfo) Action {
	return Action{Kind: DirectoryScanUpdate, Path: path, Generation: gen, Results: results, Streaming: true}
}

// DirectoryScanCompleteAction closes a streaming scan's batch sequence,
// telling the consumer to sort and publish its accumulated entries.
func DirectoryScanCompleteAction(path string, gen uint64) Action {
	return Action{Kind: DirectoryScanUpdate, Path: path, Generation: gen, Streaming: true}
}

// FileOperationProgressAction carries a throttled progress snapshot for
// opID.
func FileOperationProgressAction(opID ids.OperationID, snapshot any) Action {
	return Action{Kind: FileOperationProgress, OpID: opID, Progress: snapshot}
}

// FileOperationCompleteAction reports the terminal result of opID.
func FileOperationCompleteAction(opID ids.OperationID, succeeded bool, err error) Action {
	return Action{Kind: FileOperationComplete, OpID: opID, Succeeded: succeeded, Err: err}
}

// ShowFilenameSearchResultsAction appends a streaming batch of filename
// search matches.
func ShowFilenameSearchResultsAction(results []*registry.ObjectInfo) Action {
	return Action{Kind: ShowFilenameSearchResults, Results: results}
}

// ShowContentSearchResultsAction appends a streaming batch of content search
// matches.
func ShowContentSearchResultsAction(results []*registry.ObjectInfo) Action {
	return Action{Kind: ShowContentSearchResults, Results: results}
}

// OpenEditorRequestAction asks the event loop (not the Task Manager, not any
// Dispatcher) to foreground-exec the configured editor on path at an
// optional line. Launching an interactive subprocess suspends the terminal
// UI, which is outside both the background-task and the state-mutation
// contracts, so this is handled by internal/app directly via
// tea.ExecProcess rather than routed to a Dispatcher.
func OpenEditorRequestAction(path string, line int) Action {
	return Action{Kind: OpenEditorRequest, Path: path, Line: line}
}

// String returns the taxonomy name of k, used in log lines and test
// failures.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case MoveSelection:
		return "move-selection"
	case EnterSelected:
		return "enter-selected"
	case GoToParent:
		return "go-to-parent"
	case GoToPath:
		return "go-to-path"
	case CreateFile:
		return "create-file"
	case CreateDirectory:
		return "create-directory"
	case Rename:
		return "rename"
	case Delete:
		return "delete"
	case Copy:
		return "copy"
	case Move:
		return "move"
	case CancelOperation:
		return "cancel-operation"
	case ReloadDirectory:
		return "reload-directory"
	case OpenFile:
		return "open-file"
	case ToggleFavorite:
		return "toggle-favorite"
	case ToggleFilenameSearch:
		return "toggle-filename-search"
	case ToggleContentSearch:
		return "toggle-content-search"
	case SubmitQuery:
		return "submit-query"
	case ShowFilenameSearchResults:
		return "show-filename-search-results"
	case ShowContentSearchResults:
		return "show-content-search-results"
	case ClipboardAdd:
		return "clipboard-add"
	case ClipboardPaste:
		return "clipboard-paste"
	case ClipboardRemove:
		return "clipboard-remove"
	case ClipboardClear:
		return "clipboard-clear"
	case ClipboardToggleOverlay:
		return "clipboard-toggle-overlay"
	case ClipboardNavigateOverlay:
		return "clipboard-navigate-overlay"
	case ClipboardSelect:
		return "clipboard-select"
	case ShowOverlay:
		return "show-overlay"
	case HideOverlay:
		return "hide-overlay"
	case EnterCommandMode:
		return "enter-command-mode"
	case ExitCommandMode:
		return "exit-command-mode"
	case AppendInput:
		return "append-input"
	case BackspaceInput:
		return "backspace-input"
	case SubmitPrompt:
		return "submit-prompt"
	case ToggleHidden:
		return "toggle-hidden"
	case ShowNotification:
		return "show-notification"
	case Tick:
		return "tick"
	case UpdateEntryMetadata:
		return "update-entry-metadata"
	case DirectoryScanUpdate:
		return "directory-scan-update"
	case FileOperationProgress:
		return "file-operation-progress"
	case FileOperationComplete:
		return "file-operation-complete"
	case OpenEditorRequest:
		return "open-editor-request"
	case Quit:
		return "quit"
	case NoOp:
		return "no-op"
	default:
		return "unknown"
	}
}
