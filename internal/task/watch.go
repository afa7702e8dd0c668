package task

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/connorleisz/pane/internal/action"
)

// watchDebounce mirrors the teacher's waitForFsEvent drain loop
// (internal/app/model.go): once one event arrives, further events reset a
// short timer instead of firing a reload immediately, collapsing a burst of
// writes (a save, a rename-then-write, an editor's temp-file dance) into
// one ReloadDirectory.
const watchDebounce = 100 * time.Millisecond

// WatchDirectory watches path for filesystem changes and emits one
// ReloadDirectory action per settled burst of events, running until ctx is
// cancelled (the active pane navigates elsewhere and the caller cancels its
// token). Grounded on the teacher's internal/app/model.go
// waitForFsEvent/FsEventMsg pair, generalized from a single-shot tea.Cmd
// that returns after one event into a long-lived task.Func that keeps
// emitting for as long as the directory stays active.
func WatchDirectory(path string) Func {
	return func(ctx context.Context, emit Emit) []action.Action {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer watcher.Close()
		if err := watcher.Add(path); err != nil {
			return nil
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !drainBurst(ctx, watcher) {
					return nil
				}
				emit(action.ReloadDirectoryAction(path))
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// drainBurst absorbs additional events arriving within watchDebounce of the
// last one, returning once the directory has gone quiet. It reports false
// if ctx was cancelled mid-drain.
func drainBurst(ctx context.Context, watcher *fsnotify.Watcher) bool {
	timer := time.NewTimer(watchDebounce)
	defer timer.Stop()
	for {
		select {
		case <-watcher.Events:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(watchDebounce)
		case <-timer.C:
			return true
		case <-ctx.Done():
			return false
		}
	}
}
