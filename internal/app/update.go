package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/state"
)

// Update normalizes msg into the pipeline's input shape and feeds it through
// the Key Handler Orchestrator / Router, per spec.md section 4. Model itself
// never mutates the Coordinator; it only translates and routes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		_, cmd := m.route(action.GoToPathAction(m.rootPath))
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		fs, release := m.coord.LockFS()
		fs.Active().ViewportHeight = msg.Height - 3
		release()
		m.coord.Redraw.Set(redraw.All)
		return m, nil

	case tea.KeyMsg:
		var cmds []tea.Cmd
		for _, a := range m.orch.Dispatch(keyEvent(msg), m.keyContext()) {
			quit, cmd := m.route(a)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if quit {
				m.shutdown()
				return m, tea.Quit
			}
		}
		if len(cmds) > 0 {
			return m, tea.Batch(cmds...)
		}
		return m, nil

	case tickMsg:
		quit, cmd := m.route(action.TickAction())
		if quit {
			m.shutdown()
			return m, tea.Quit
		}
		return m, tea.Batch(cmd, tickCmd())

	case taskResultMsg:
		quit, cmd := m.route(msg.action)
		if quit {
			m.shutdown()
			return m, tea.Quit
		}
		return m, tea.Batch(cmd, m.listenForTaskResults())

	case SignalMsg:
		m.route(action.QuitAction())
		m.shutdown()
		return m, tea.Quit
	}

	return m, nil
}

// keyEvent turns a tea.KeyMsg into the normalized keys.Event the Orchestrator
// expects, preserving the literal typed runes for plain-character keys.
func keyEvent(msg tea.KeyMsg) keys.Event {
	return keys.Event{Key: msg.String(), Runes: msg.Runes}
}

// keyContext reads the minimal slice of UIState a Handler needs to decide
// CanHandle, converting state's Overlay/Mode to keys' mirrored enums (they
// share ordinal ordering by construction, see keys.Overlay's doc comment).
func (m Model) keyContext() keys.Context {
	ui, release := m.coord.LockUI()
	ctx := keys.Context{
		Overlay:          keys.Overlay(ui.Overlay),
		Mode:             keys.Mode(ui.Mode),
		ClipboardVisible: ui.Overlay == state.OverlayClipboard,
	}
	release()
	return ctx
}
