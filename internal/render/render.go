// Package render turns a Coordinator snapshot into a single string frame.
// It deliberately stops at "draw the current state"; it never mutates
// anything and never decides what state means (that is dispatch's job).
// Grounded on the teacher's view.go/internal/ui/styles lipgloss usage,
// generalized from the teacher's fixed two-pane layout to pane/dispatch's
// single active pane plus overlay model.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/notify"
	"github.com/connorleisz/pane/internal/progress"
	"github.com/connorleisz/pane/internal/registry"
	"github.com/connorleisz/pane/internal/state"
	"github.com/connorleisz/pane/internal/ui/styles"
)

// Row is one visible pane entry, already resolved from the registry.
type Row struct {
	Name     string
	Size     int64
	ModTime  time.Time
	Kind     registry.Kind
	Selected bool
}

// Snapshot is every value a Renderer needs, copied out from under the
// Coordinator's locks so rendering never holds one.
type Snapshot struct {
	Path           string
	Rows           []Row
	ViewportOffset int
	ViewportHeight int
	ShowHidden     bool

	Overlay state.Overlay
	Mode    state.Mode
	Input   string

	PromptPurpose string

	SearchResults []string
	SearchCursor  int

	ClipboardRows   []string
	ClipboardCursor int

	Notifications []notify.Notification
	Progress      []progress.Snapshot
}

// BuildSnapshot copies out everything Draw needs from coord and clip. The
// UI lock is acquired with TryLockUI so a busy render loop skips the frame
// instead of stalling a background dispatcher (spec.md section 4.2); FS
// uses the blocking LockFS since the table always needs the active pane's
// entries.
func BuildSnapshot(coord *state.Coordinator, clip *clipboard.Clipboard) (Snapshot, bool) {
	var snap Snapshot

	fs, release := coord.LockFS()
	p := fs.Active()
	snap.Path = p.Path
	snap.ViewportOffset = p.ViewportOffset
	snap.ViewportHeight = p.ViewportHeight
	snap.ShowHidden = fs.ShowHidden
	entries := p.Entries
	selected := p.Selected
	release()

	snap.Rows = make([]Row, len(entries))
	for i, e := range entries {
		info := coord.Registry.Get(e.ID)
		if info == nil {
			continue
		}
		snap.Rows[i] = Row{
			Name:     info.Name,
			Size:     info.Size,
			ModTime:  info.ModTime,
			Kind:     info.Kind,
			Selected: i == selected,
		}
	}

	ui, release, ok := coord.TryLockUI()
	if !ok {
		return snap, false
	}
	snap.Overlay = ui.Overlay
	snap.Mode = ui.Mode
	snap.Input = ui.Input
	snap.PromptPurpose = ui.PromptPurpose
	snap.SearchCursor = ui.SearchCursor
	for _, r := range ui.SearchResults {
		snap.SearchResults = append(snap.SearchResults, r.Path)
	}
	snap.ClipboardCursor = ui.ClipboardCursor
	snap.Notifications = ui.Notifications.All()
	for _, s := range ui.Progress {
		snap.Progress = append(snap.Progress, s)
	}
	release()

	if clip != nil {
		for _, item := range clip.GetAll() {
			snap.ClipboardRows = append(snap.ClipboardRows, clipboardRowText(item))
		}
	}

	return snap, true
}

func clipboardRowText(item *clipboard.ClipboardItem) string {
	return fmt.Sprintf("[%s] %s (%s)", item.Op, item.SourcePath, clipboardStatusText(item.Status))
}

func clipboardStatusText(s clipboard.Status) string {
	switch s {
	case clipboard.StatusInProgress:
		return "in progress"
	case clipboard.StatusDone:
		return "done"
	case clipboard.StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Renderer holds the small pieces of render state that benefit from a
// persistent widget instead of being rebuilt every frame: the overlay's
// scroll position and the blinking input cursor. Both widgets are driven
// read-only from Snapshot; UIState.Input remains the single source of
// truth for the text itself (dispatch.UIControl owns every mutation).
type Renderer struct {
	input   textinput.Model
	overlay viewport.Model
}

// New creates a Renderer with a blinking-cursor input line, matching the
// teacher's own textinput.New() setup in model.go.
func New() *Renderer {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 4096
	return &Renderer{input: ti, overlay: viewport.New(0, 0)}
}

// Draw renders snap at width x height.
func (r *Renderer) Draw(snap Snapshot, width, height int) string {
	header := styles.Header.Copy().Padding(0, 1).Render("pane") +
		styles.Faint.Render(" "+snap.Path)

	bodyHeight := height - 3
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if overlay := r.drawOverlay(snap, width, bodyHeight); overlay != "" {
		body = overlay
	} else {
		body = drawTable(snap, width, bodyHeight)
	}

	footer := drawFooter(snap, width)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func drawTable(snap Snapshot, width, height int) string {
	if len(snap.Rows) == 0 {
		return styles.Faint.Render("(empty directory)")
	}
	end := snap.ViewportOffset + height
	if end > len(snap.Rows) {
		end = len(snap.Rows)
	}
	var lines []string
	for _, row := range snap.Rows[snap.ViewportOffset:end] {
		lines = append(lines, drawRow(row, width))
	}
	return strings.Join(lines, "\n")
}

func drawRow(row Row, width int) string {
	name := row.Name
	if row.Kind == registry.KindDirectory {
		name += "/"
	}
	size := ""
	if row.Kind != registry.KindDirectory {
		size = humanize.Bytes(uint64(row.Size))
	}
	line := lipgloss.NewStyle().Width(width).Render(fmt.Sprintf("%-40s %10s", name, size))
	if row.Selected {
		return styles.Selected.Render(line)
	}
	return styles.Normal.Render(line)
}

// drawOverlay returns a non-empty string when a modal overlay should
// replace the table area entirely, or "" when browse mode owns the frame.
// Overlays whose content can exceed height scroll through r.overlay, its
// YOffset following the overlay's own cursor (search/clipboard).
func (r *Renderer) drawOverlay(snap Snapshot, width, height int) string {
	var content string
	var cursor int
	switch snap.Overlay {
	case state.OverlayHelp:
		return styles.Muted.Render(helpText)
	case state.OverlayPrompt:
		r.input.SetValue(snap.Input)
		r.input.SetWidth(width)
		r.input.Focus()
		return styles.Header.Render(snap.PromptPurpose) + "\n" + r.input.View()
	case state.OverlayCommandPalette:
		r.input.SetValue(snap.Input)
		r.input.SetWidth(width)
		r.input.Focus()
		return styles.Header.Render(":") + r.input.View()
	case state.OverlayFilenameSearch, state.OverlayContentSearch:
		r.input.SetValue(snap.Input)
		r.input.SetWidth(width)
		content = drawSearchResults(snap)
		cursor = snap.SearchCursor
	case state.OverlayClipboard:
		content = drawClipboard(snap)
		cursor = snap.ClipboardCursor
	case state.OverlayFileOpsProgress:
		return drawProgress(snap)
	default:
		return ""
	}

	r.overlay.Width = width
	r.overlay.Height = height - 1
	r.overlay.SetContent(content)
	scrollToCursor(&r.overlay, cursor)

	if snap.Overlay == state.OverlayFilenameSearch || snap.Overlay == state.OverlayContentSearch {
		return styles.Header.Render("search: ") + r.input.View() + "\n" + r.overlay.View()
	}
	return styles.Header.Render("clipboard") + "\n" + r.overlay.View()
}

// scrollToCursor keeps the selected line within the viewport, following the
// same clamp-to-viewport rule state.Pane uses for the main table.
func scrollToCursor(vp *viewport.Model, cursor int) {
	if cursor < vp.YOffset {
		vp.YOffset = cursor
	} else if cursor >= vp.YOffset+vp.Height {
		vp.YOffset = cursor - vp.Height + 1
	}
	if vp.YOffset < 0 {
		vp.YOffset = 0
	}
}

func drawSearchResults(snap Snapshot) string {
	var lines []string
	for i, result := range snap.SearchResults {
		if i == snap.SearchCursor {
			lines = append(lines, styles.Selected.Render(result))
		} else {
			lines = append(lines, result)
		}
	}
	return strings.Join(lines, "\n")
}

func drawClipboard(snap Snapshot) string {
	var lines []string
	for i, row := range snap.ClipboardRows {
		if i == snap.ClipboardCursor {
			lines = append(lines, styles.Selected.Render(row))
		} else {
			lines = append(lines, row)
		}
	}
	return strings.Join(lines, "\n")
}

func drawProgress(snap Snapshot) string {
	var lines []string
	for _, p := range snap.Progress {
		eta := "?"
		if p.ETAKnown {
			eta = p.ETA.Round(time.Second).String()
		}
		lines = append(lines, fmt.Sprintf("%s  %s/%s  %s/s  eta %s",
			p.CurrentFile,
			humanize.Bytes(uint64(p.DoneBytes)), humanize.Bytes(uint64(p.TotalBytes)),
			humanize.Bytes(uint64(p.ThroughputBs)), eta))
	}
	return styles.Header.Render("working…") + "\n" + strings.Join(lines, "\n")
}

func drawFooter(snap Snapshot, width int) string {
	if n := latestNotification(snap.Notifications); n != nil {
		return notificationLine(*n, width)
	}
	return styles.Faint.Render("j/k move  enter open  backspace up  : command  ? help")
}

func latestNotification(all []notify.Notification) *notify.Notification {
	if len(all) == 0 {
		return nil
	}
	n := all[len(all)-1]
	return &n
}

func notificationLine(n notify.Notification, width int) string {
	style := styles.Normal
	switch n.Severity {
	case notify.Warning:
		style = styles.StatusWarning
	case notify.Error:
		style = styles.StatusError
	case notify.Success:
		style = styles.StatusSuccess
	}
	msg := n.Message
	if n.OperationKind != "" {
		msg = fmt.Sprintf("%s: %s (%s)", n.OperationKind, n.SourcePath, n.Cause)
	}
	if width > 0 {
		msg = wordwrap.String(msg, width)
	}
	return style.Render(msg)
}

const helpText = `j/k, up/down    move selection
enter           open / descend
backspace       parent directory
y, c            add to clipboard (copy)
v               add to clipboard (move)
p               toggle clipboard overlay
tab, enter      paste (inside the clipboard overlay only)
d               delete
r               rename
n               new file
N               new directory
/               filename search
ctrl+f          content search (grep)
:               command palette
.               toggle hidden files
esc             cancel operation / close overlay
q               quit`
