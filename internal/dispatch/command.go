package dispatch

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/redraw"
	"github.com/connorleisz/pane/internal/state"
)

// commandSpec is one entry in the command palette's registry: a name to
// fuzzy-match against and the action it resolves to once chosen.
type commandSpec struct {
	name   string
	build  func(arg string) action.Action
}

// commandRegistry lists every palette command (spec.md section 4.1 leaves
// the exact set open; these are the ones with a concrete dispatcher action
// to resolve to).
var commandRegistry = []commandSpec{
	{"quit", func(string) action.Action { return action.QuitAction() }},
	{"toggle-hidden", func(string) action.Action { return action.ToggleHiddenAction() }},
	{"clipboard", func(string) action.Action { return action.ClipboardToggleOverlayAction() }},
	{"search", func(string) action.Action { return action.ToggleFilenameSearchAction() }},
	{"grep", func(string) action.Action { return action.ToggleContentSearchAction() }},
	{"help", func(string) action.Action { return action.ShowOverlayAction("help") }},
	{"goto", func(arg string) action.Action { return action.GoToPathAction(arg) }},
}

// Command resolves command-palette text into one of commandRegistry's
// actions via fuzzy.Find, picking the best-scoring match over the command
// name (spec.md section 4.1's `:` command mode, matching left unspecified
// there).
type Command struct {
	Coordinator *state.Coordinator
}

func (d *Command) Priority() int { return PriorityCommand }

func (d *Command) CanHandle(a action.Action) bool {
	if a.Kind != action.SubmitPrompt {
		return false
	}
	ui, release := d.Coordinator.LockUI()
	defer release()
	return ui.Mode == state.ModeCommand
}

func (d *Command) Handle(ctx context.Context, a action.Action) ([]action.Action, Outcome) {
	ui, release := d.Coordinator.LockUI()
	input := strings.TrimSpace(ui.Input)
	ui.Input = ""
	ui.Overlay = state.OverlayNone
	ui.Mode = state.ModeBrowse
	release()
	d.Coordinator.Redraw.Set(redraw.Overlay)

	if input == "" {
		return nil, Continue
	}
	name, arg := splitCommand(input)
	resolved := resolve(name)
	if resolved == nil {
		return nil, Continue
	}
	return []action.Action{resolved.build(arg)}, Continue
}

func splitCommand(input string) (name, arg string) {
	fields := strings.SplitN(input, " ", 2)
	name = fields[0]
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	return name, arg
}

func resolve(name string) *commandSpec {
	names := make([]string, len(commandRegistry))
	for i, c := range commandRegistry {
		names[i] = c.name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return nil
	}
	return &commandRegistry[matches[0].Index]
}
