package action

import (
	"testing"

	"github.com/connorleisz/pane/internal/ids"
)

func TestQuitActionKind(t *testing.T) {
	if a := QuitAction(); a.Kind != Quit {
		t.Fatalf("expected Quit kind, got %v", a.Kind)
	}
}

func TestCancelOperationZeroMeansAll(t *testing.T) {
	a := CancelOperationAction(ids.OperationID{})
	if a.Kind != CancelOperation {
		t.Fatalf("expected CancelOperation kind, got %v", a.Kind)
	}
	if a.OpID != (ids.OperationID{}) {
		t.Fatalf("expected zero-value OpID to mean cancel-all")
	}
}

func TestMoveSelectionBuildsDelta(t *testing.T) {
	a := MoveSelectionBy(-1)
	if a.Kind != MoveSelection || a.Delta != -1 {
		t.Fatalf("expected MoveSelection delta -1, got %+v", a)
	}
	first := JumpToFirst()
	if !first.JumpFirst || first.JumpLast {
		t.Fatalf("expected JumpFirst set exclusively, got %+v", first)
	}
}

func TestKindStringCoversTaxonomy(t *testing.T) {
	for k := None; k <= NoOp; k++ {
		if got := k.String(); got == "unknown" {
			t.Fatalf("Kind %d has no String() case", int(k))
		}
	}
}
