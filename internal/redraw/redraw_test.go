package redraw

import "testing"

func TestSetAndTakeAll(t *testing.T) {
	var f Flags
	f.Set(FileTable)
	f.Set(Notification)

	if got := f.Peek(); !got.Has(FileTable) || !got.Has(Notification) {
		t.Fatalf("expected FileTable and Notification pending, got %v", got)
	}

	taken := f.TakeAll()
	if !taken.Has(FileTable) || !taken.Has(Notification) {
		t.Fatalf("TakeAll missing regions: %v", taken)
	}
	if f.Peek() != 0 {
		t.Fatalf("expected flags cleared after TakeAll, got %v", f.Peek())
	}
}

func TestTakeAllEmpty(t *testing.T) {
	var f Flags
	if f.TakeAll() != 0 {
		t.Fatalf("expected no pending regions on fresh Flags")
	}
}
