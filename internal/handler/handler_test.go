package handler

import (
	"testing"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/keys"
)

func TestClipboardOverlayOnlyHandlesWhenVisible(t *testing.T) {
	h := ClipboardOverlay{}
	if h.CanHandle(keys.Event{Key: "up"}, keys.Context{ClipboardVisible: false}) {
		t.Fatalf("should not claim events when overlay is hidden")
	}
	if !h.CanHandle(keys.Event{Key: "up"}, keys.Context{ClipboardVisible: true}) {
		t.Fatalf("should claim events when overlay is visible")
	}
	actions := h.Handle(keys.Event{Key: "up"}, keys.Context{ClipboardVisible: true})
	if actions[0].Kind != action.ClipboardNavigateOverlay || actions[0].ClipDelta != -1 {
		t.Fatalf("unexpected action %+v", actions[0])
	}
}

func TestNavigationIgnoresNonBrowseMode(t *testing.T) {
	h := Navigation{}
	if h.CanHandle(keys.Event{Key: "j"}, keys.Context{Mode: keys.ModeCommand}) {
		t.Fatalf("navigation should not claim keys outside browse mode")
	}
	if !h.CanHandle(keys.Event{Key: "j"}, keys.Context{Mode: keys.ModeBrowse}) {
		t.Fatalf("navigation should claim 'j' in browse mode")
	}
}

func TestFileOpsEscClaimedDuringProgressOverlay(t *testing.T) {
	h := FileOps{}
	ctx := keys.Context{Overlay: keys.OverlayFileOpsProgress}
	if !h.CanHandle(keys.Event{Key: "esc"}, ctx) {
		t.Fatalf("expected esc to be claimed during the progress overlay")
	}
	actions := h.Handle(keys.Event{Key: "esc"}, ctx)
	if actions[0].Kind != action.CancelOperation {
		t.Fatalf("expected CancelOperation, got %+v", actions[0])
	}
}

func TestFallbackRoutesCharactersAsInputInPromptMode(t *testing.T) {
	h := Fallback{}
	ctx := keys.Context{Mode: keys.ModePrompt}
	actions := h.Handle(keys.Event{Key: "a", Runes: []rune("a")}, ctx)
	if actions[0].Kind != action.AppendInput || actions[0].Input != "a" {
		t.Fatalf("expected character routed as AppendInput, got %+v", actions[0])
	}

	// The same key means quit in browse mode.
	qActions := h.Handle(keys.Event{Key: "q"}, keys.Context{Mode: keys.ModeBrowse})
	if qActions[0].Kind != action.Quit {
		t.Fatalf("expected 'q' to quit in browse mode, got %+v", qActions[0])
	}
}

func TestFallbackAlwaysCanHandle(t *testing.T) {
	h := Fallback{}
	if !h.CanHandle(keys.Event{Key: "anything"}, keys.Context{}) {
		t.Fatalf("fallback must claim every event")
	}
}
