package registry

import (
	"os"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/connorleisz/pane/internal/objectid"
)

// Kind classifies a directory entry's filesystem type.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
	KindOther
)

// LoadState tracks how much of ObjectInfo has been populated. Promotion from
// Light to Full is monotonic and idempotent (spec.md section 3): once Full,
// an entry never regresses to Light.
type LoadState int

const (
	Light LoadState = iota
	Full
)

// ObjectInfo is the registry's record for one filesystem entry. Path and
// Name are shared strings, not copied per consumer, per the ownership rules
// in spec.md section 3. Size and ModTime are meaningful only once LoadState
// is Full.
type ObjectInfo struct {
	ID        objectid.ID
	Path      string
	Name      string
	Ext       string
	Kind      Kind
	Size      int64
	ModTime   time.Time
	Mode      os.FileMode
	Hidden    bool
	Symlink   bool
	ItemCount int // directories only; -1 when unknown
	LoadState LoadState
	Line      int // content-search match line; 0 when absent or not applicable
}

// LightInfo builds a Light ObjectInfo carrying only path/name/kind, as produced
// by a fast directory scan.
func LightInfo(path, name string, kind Kind, hidden bool) *ObjectInfo {
	return &ObjectInfo{
		ID:        objectid.FromPath(path),
		Path:      path,
		Name:      name,
		Kind:      kind,
		Hidden:    hidden,
		ItemCount: -1,
		LoadState: Light,
	}
}

// PromoteToFull returns a copy of info with size/mtime/permission fields
// populated and LoadState advanced to Full. Promotion is idempotent: calling
// it again with the same facts is a no-op in effect, and it never regresses
// an already-Full entry's LoadState.
func (o *ObjectInfo) PromoteToFull(size int64, modTime time.Time, mode os.FileMode, itemCount int) *ObjectInfo {
	next := *o
	next.Size = size
	next.ModTime = modTime
	next.Mode = mode
	if itemCount >= 0 {
		next.ItemCount = itemCount
	}
	next.LoadState = Full
	return &next
}

// SortKey is the fixed-size sort key packed into SortableEntry: a name hash
// (not order-preserving; state.SortEntries compares names from the
// Registry instead), the size, the modification time, and
// a kind bucket so directories can sort before files independent of name.
type SortKey struct {
	KindBucket uint8
	NameHash   uint32
	Size       int64
	ModTime    int64 // unix nanos
}

// SortableEntry is the compact (<=32 byte) record panes iterate over for
// viewport and sort operations without touching the full ObjectInfo.
type SortableEntry struct {
	ID  objectid.ID
	Key SortKey
}

// BuildSortKey derives a SortKey from info: directories bucket before files
// and symlinks, so a name-ordered listing still groups directories first
// regardless of which field ultimately breaks ties.
func BuildSortKey(info *ObjectInfo) SortKey {
	bucket := uint8(1)
	if info.Kind == KindDirectory {
		bucket = 0
	}
	return SortKey{
		KindBucket: bucket,
		NameHash:   uint32(xxhash.Sum64String(info.Name)),
		Size:       info.Size,
		ModTime:    info.ModTime.UnixNano(),
	}
}

// ToSortable pairs info's id with its derived SortKey.
func ToSortable(info *ObjectInfo) SortableEntry {
	return SortableEntry{ID: info.ID, Key: BuildSortKey(info)}
}
