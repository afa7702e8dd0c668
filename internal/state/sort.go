package state

import (
	"sort"

	"github.com/connorleisz/pane/internal/objectid"
	"github.com/connorleisz/pane/internal/registry"
)

// SortEntries orders entries in place per mode. Kind always buckets
// directories before files/symlinks regardless of mode, matching the
// teacher's directories-first listing convention. SortByName resolves each
// entry's current Name from reg, since SortableEntry.Key.NameHash is a
// tie-break only and does not preserve lexical order on its own.
func SortEntries(entries []registry.SortableEntry, mode SortMode, reg *registry.Registry) {
	less := func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Key.KindBucket != b.Key.KindBucket {
			return a.Key.KindBucket < b.Key.KindBucket
		}
		switch mode {
		case SortBySize:
			if a.Key.Size != b.Key.Size {
				return a.Key.Size > b.Key.Size
			}
		case SortByModTime:
			if a.Key.ModTime != b.Key.ModTime {
				return a.Key.ModTime > b.Key.ModTime
			}
		case SortByKind:
			// KindBucket already applied above; fall through to name.
		}
		return nameOf(reg, a.ID) < nameOf(reg, b.ID)
	}
	sort.SliceStable(entries, less)
}

func nameOf(reg *registry.Registry, id objectid.ID) string {
	if info := reg.Get(id); info != nil {
		return info.Name
	}
	return ""
}
