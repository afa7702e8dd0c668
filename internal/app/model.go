// Package app wires the Key Handler Orchestrator, Action Dispatcher Router,
// State Coordinator, and Background Task Manager into a Bubble Tea
// tea.Model (spec.md section 4, "Render Driver"). It keeps the teacher's
// program-loop idiom — a tea.Program driving Init/Update/View, tea.Cmd
// closures for background work — while Update itself does nothing but
// translate a tea.Msg into pipeline input and read back a Snapshot; no
// field of Model is mutated by application logic directly, unlike the
// teacher's ~40-field Model struct.
package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/config"
	"github.com/connorleisz/pane/internal/dispatch"
	"github.com/connorleisz/pane/internal/handler"
	"github.com/connorleisz/pane/internal/keys"
	"github.com/connorleisz/pane/internal/notify"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/render"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/store"
	"github.com/connorleisz/pane/internal/task"
)

// forcedRefresh is the render loop's missed-invalidation recovery interval
// (spec.md section 4.2: "a forced-refresh timer (>=100ms)"). It doubles as
// the tick driving UIState.Notifications' auto-dismiss deadlines.
const forcedRefresh = 100 * time.Millisecond

// Model is the Bubble Tea glue: every tea.Msg is normalized into either a
// keys.Event (for tea.KeyMsg) or an action.Action (everything else) and
// routed through the Router; View reads back an immutable render.Snapshot.
type Model struct {
	rootPath string

	coord  *state.Coordinator
	tasks  *task.Manager
	orch   *keys.Orchestrator
	router *dispatch.Router
	clip   *clipboard.Clipboard
	store  *store.Store

	renderer *render.Renderer

	width, height int
}

// startMsg kicks off the initial directory scan once the program loop is
// running; Init cannot touch the Coordinator itself; it only schedules the
// message.
type startMsg struct{}

// tickMsg drives the forced-refresh/notification-expiry timer.
type tickMsg time.Time

// taskResultMsg carries one Background Task Manager result action into the
// event loop.
type taskResultMsg struct{ action action.Action }

// SignalMsg asks the event loop to shut down as if the user had quit
// normally (clipboard saved, store closed), in response to an OS signal
// caught outside the program loop. cmd/pane delivers it via
// tea.Program.Send.
type SignalMsg struct{}

// New builds a Model rooted at rootPath, wiring a fresh Coordinator and
// Task Manager around the handler/dispatcher chains of spec.md section 4.1.
func New(rootPath string, cfg *config.Config, clip *clipboard.Clipboard, st *store.Store) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	reg := registry.New()
	cache := registry.NewCache(reg, cfg.CacheMaxEntries, cfg.CacheTTL)
	app := state.NewAppState(cfg, clip)
	fs := state.NewFSState(rootPath, 24)
	ui := state.NewUIState()
	coord := state.NewCoordinator(app, fs, ui, reg, cache)
	loadPersistedFSState(fs, st)

	tasks := task.NewManager(context.Background())

	orch := keys.NewOrchestrator(
		handler.ClipboardOverlay{},
		handler.Navigation{},
		handler.FileOps{},
		handler.Search{},
		handler.Clipboard{},
		handler.Fallback{},
	)

	router := dispatch.NewRouter(
		&dispatch.System{Coordinator: coord, Tasks: tasks},
		&dispatch.Navigation{Coordinator: coord, Tasks: tasks, Store: st},
		&dispatch.FileOps{Coordinator: coord, Tasks: tasks, Clip: clip},
		&dispatch.Search{Coordinator: coord, Tasks: tasks},
		&dispatch.Clipboard{Coordinator: coord, Clip: clip, Tasks: tasks},
		&dispatch.UIControl{Coordinator: coord, Clip: clip},
		&dispatch.Command{Coordinator: coord},
	)

	return Model{
		rootPath: rootPath,
		coord:    coord,
		tasks:    tasks,
		orch:     orch,
		router:   router,
		clip:     clip,
		store:    st,
		renderer: render.New(),
	}
}

// loadPersistedFSState seeds fs's in-memory favorites/recent-directories
// from the sqlite store (nil st, or a read error, just leaves fs empty;
// there is nothing a fresh session can do about either but start clean).
func loadPersistedFSState(fs *state.FSState, st *store.Store) {
	if st == nil {
		return
	}
	if favs, err := st.Favorites(); err == nil {
		for _, path := range favs {
			fs.Favorites[path] = struct{}{}
		}
	}
	if recent, err := st.RecentDirs(); err == nil {
		fs.Recent = recent
	}
}

// Init schedules the initial directory scan and starts the task-result
// listener and the forced-refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		m.listenForTaskResults(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(forcedRefresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// listenForTaskResults returns a tea.Cmd that blocks for exactly one
// Background Task Manager result, re-issued by Update after each delivery
// so the event loop keeps draining the channel in arrival order (spec.md
// section 4.3: "Task results are consumed by the event core in arrival
// order").
func (m Model) listenForTaskResults() tea.Cmd {
	results := m.tasks.Results()
	return func() tea.Msg {
		a, ok := <-results
		if !ok {
			return nil
		}
		return taskResultMsg{action: a}
	}
}

// route sends a through the Router, recursively re-routing every follow-up
// action it returns (spec.md section 4.1: a dispatcher's follow-up actions
// "re-enter through the Router exactly as if they had arrived from the Key
// Handler Orchestrator or the Task Manager"), reporting whether Quit was
// reached and any tea.Cmd the event loop must run (currently only
// action.OpenEditorRequest produces one; see execEditor).
func (m Model) route(a action.Action) (quit bool, cmd tea.Cmd) {
	if a.Kind == action.OpenEditorRequest {
		return false, m.execEditor(a.Path, a.Line)
	}

	follow, outcome := m.router.Route(context.Background(), a)
	quit = outcome == dispatch.Terminate

	var cmds []tea.Cmd
	for _, f := range follow {
		q, c := m.route(f)
		if q {
			quit = true
		}
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	if len(cmds) > 0 {
		cmd = tea.Batch(cmds...)
	}
	return quit, cmd
}

// execEditor suspends the Bubble Tea program and foreground-execs the
// configured editor on path, per action.OpenEditorRequestAction's contract:
// this is the one piece of work the event loop performs directly instead of
// routing. Config.EditorCommand wins over $EDITOR, which wins over "vi".
// When line is positive (a content-search match), it is passed as a
// leading "+N" argument, the convention vi/vim/nvim/ed all honor for
// opening a file with the cursor on a given line.
func (m Model) execEditor(path string, line int) tea.Cmd {
	appState, release := m.coord.LockApp()
	editor := ""
	if appState.Config != nil {
		editor = appState.Config.EditorCommand
	}
	release()
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	dir := filepath.Dir(path)
	args := []string{path}
	if line > 0 {
		args = []string{fmt.Sprintf("+%d", line), path}
	}
	cmd := exec.Command(editor, args...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return taskResultMsg{action: action.ShowNotificationAction(err.Error(), int(notify.Error))}
		}
		return taskResultMsg{action: action.ReloadDirectoryAction(dir)}
	})
}

func (m Model) shutdown() {
	if m.clip != nil {
		m.clip.Save()
	}
	if m.store != nil {
		m.store.Close()
	}
	m.tasks.Shutdown()
}
