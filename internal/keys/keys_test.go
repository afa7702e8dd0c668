package keys

import (
	"testing"

	"github.com/connorleisz/pane/internal/action"
)

type stubHandler struct {
	priority int
	matches  bool
	result   action.Action
}

func (s stubHandler) Priority() int                         { return s.priority }
func (s stubHandler) CanHandle(ev Event, ctx Context) bool   { return s.matches }
func (s stubHandler) Handle(ev Event, ctx Context) []action.Action {
	return []action.Action{s.result}
}

func TestOrchestratorOrdersByPriority(t *testing.T) {
	low := stubHandler{priority: 10, matches: true, result: action.Action{Kind: action.MoveSelection}}
	high := stubHandler{priority: 1, matches: true, result: action.Action{Kind: action.Quit}}
	o := NewOrchestrator(low, high)

	actions := o.Dispatch(Event{Key: "x"}, Context{})
	if len(actions) != 1 || actions[0].Kind != action.Quit {
		t.Fatalf("expected the lower-priority handler to win, got %+v", actions)
	}
}

func TestOrchestratorFirstMatchWins(t *testing.T) {
	noMatch := stubHandler{priority: 1, matches: false}
	match := stubHandler{priority: 2, matches: true, result: action.Action{Kind: action.EnterSelected}}
	fallback := stubHandler{priority: 255, matches: true, result: action.Action{Kind: action.Quit}}
	o := NewOrchestrator(noMatch, match, fallback)

	actions := o.Dispatch(Event{Key: "enter"}, Context{})
	if actions[0].Kind != action.EnterSelected {
		t.Fatalf("expected the matching handler's action, got %+v", actions)
	}
}

func TestOrchestratorNoMatchReturnsNoOp(t *testing.T) {
	noMatch := stubHandler{priority: 1, matches: false}
	o := NewOrchestrator(noMatch)
	actions := o.Dispatch(Event{Key: "z"}, Context{})
	if len(actions) != 1 || actions[0].Kind != action.NoOp {
		t.Fatalf("expected NoOp, got %+v", actions)
	}
}

func TestClipboardOverlaySwallowsNonOverlayKeys(t *testing.T) {
	fallback := stubHandler{priority: 255, matches: true, result: action.Action{Kind: action.Quit}}
	o := NewOrchestrator(fallback)

	ctx := Context{ClipboardVisible: true}
	actions := o.Dispatch(Event{Key: "q"}, ctx)
	if actions[0].Kind != action.NoOp {
		t.Fatalf("expected character key swallowed while clipboard overlay visible, got %+v", actions)
	}

	actions = o.Dispatch(Event{Key: "esc"}, ctx)
	if actions[0].Kind != action.Quit {
		t.Fatalf("expected overlay key to reach the chain, got %+v", actions)
	}
}
