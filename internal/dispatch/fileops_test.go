package dispatch

import (
	"context"
	"testing"

	"github.com/connorleisz/pane/internal/action"
	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/perr"
)

func TestFileOperationCompleteSuppressesCancelledNotification(t *testing.T) {
	coord := newTestCoordinator(t, "/tmp/fileops-test")
	d := &FileOps{Coordinator: coord}

	opID := ids.NewOperationID()
	ui, release := coord.LockUI()
	ui.BeginOperation(opID)
	release()

	err := perr.New(perr.KindCancelled, "fsops.copy", "/tmp/src", context.Canceled)
	d.Handle(context.Background(), action.FileOperationCompleteAction(opID, false, err))

	ui, release = coord.LockUI()
	n := ui.Notifications.Len()
	release()
	if n != 0 {
		t.Fatalf("expected a cancelled file op to push no notification, got %d", n)
	}
}

func TestFileOperationCompletePushesNotificationOnRealFailure(t *testing.T) {
	coord := newTestCoordinator(t, "/tmp/fileops-test-fail")
	d := &FileOps{Coordinator: coord}

	opID := ids.NewOperationID()
	ui, release := coord.LockUI()
	ui.BeginOperation(opID)
	release()

	err := perr.New(perr.KindIOOther, "fsops.copy", "/tmp/src", context.DeadlineExceeded)
	d.Handle(context.Background(), action.FileOperationCompleteAction(opID, false, err))

	ui, release = coord.LockUI()
	n := ui.Notifications.Len()
	release()
	if n != 1 {
		t.Fatalf("expected a real failure to push one notification, got %d", n)
	}
}
