package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/clipboard"
)

func TestTickPrunesExpiredClipboardItemsOnce(t *testing.T) {
	coord := newTestCoordinator(t, "/tmp/uicontrol-test")
	clip := clipboard.New(clipboard.Options{MaxAge: time.Nanosecond})
	if _, err := clip.Add("/tmp/a", clipboard.OpCopy, clipboard.Meta{}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	d := &UIControl{Coordinator: coord, Clip: clip}
	d.Handle(context.Background(), action.Action{Kind: action.Tick})

	if clip.Len() != 0 {
		t.Fatalf("expected the stale item pruned on first tick, got %d items", clip.Len())
	}
}

func TestTickThrottlesRepeatedPrune(t *testing.T) {
	coord := newTestCoordinator(t, "/tmp/uicontrol-test-throttle")
	clip := clipboard.New(clipboard.Options{MaxAge: time.Nanosecond})
	d := &UIControl{Coordinator: coord, Clip: clip}

	d.Handle(context.Background(), action.Action{Kind: action.Tick})
	first := d.lastPrune
	d.Handle(context.Background(), action.Action{Kind: action.Tick})
	if !d.lastPrune.Equal(first) {
		t.Fatalf("expected a second tick within the throttle window not to re-run prune")
	}
}
