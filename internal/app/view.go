package app

import "github.com/connorleisz/pane/internal/render"

// View builds the current frame from a fresh Snapshot. A stale UI-lock
// snapshot (render.BuildSnapshot's second return false) still carries a
// valid file table, so it is drawn exactly like any other frame.
func (m Model) View() string {
	snap, _ := render.BuildSnapshot(m.coord, m.clip)
	return m.renderer.Draw(snap, m.width, m.height)
}
