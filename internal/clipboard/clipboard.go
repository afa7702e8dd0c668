// Package clipboard implements the persistent, crash-safe, multi-item
// copy/move clipboard of spec.md section 4.5. This supersedes the teacher's
// OS-pasteboard clipboard (atotto/clipboard), a different concern entirely:
// that package copied a single formatted path/text blob to the system
// pasteboard, where this one tracks many pending file operations with their
// own status, ordering, and disk persistence.
package clipboard

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/perr"
	"github.com/connorleisz/pane/internal/redraw"
)

// OpKind is the clipboard intent attached to an item.
type OpKind int

const (
	OpCopy OpKind = iota
	OpMove
)

func (k OpKind) String() string {
	if k == OpMove {
		return "move"
	}
	return "copy"
}

// Status tracks an item's progress through a paste.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusDone
	StatusFailed
)

// Meta is the compact metadata snapshot captured when an item is added, so
// the clipboard overlay can render size/kind without touching the registry.
type Meta struct {
	Size    int64
	ModTime time.Time
	Perm    os.FileMode
	Kind    byte // mirrors registry.Kind, duplicated here to avoid a dependency cycle
	Flags   byte // bit 0: hidden, bit 1: symlink
}

// ClipboardItem is one entry in the clipboard (spec.md section 3).
type ClipboardItem struct {
	ID         ids.ClipboardItemID
	SourcePath string
	Op         OpKind
	Meta       Meta
	AddedAt    time.Time
	Status     Status
}

// Stats are the clipboard's running counters, persisted alongside items.
type Stats struct {
	TotalAdded   uint64
	TotalPasted  uint64
	TotalRemoved uint64
}

// key uniquely identifies a (path, op) pair for the duplicate-refusal rule.
func key(path string, op OpKind) string {
	return path + "\x00" + op.String()
}

// Clipboard is the concurrent, ordered, persisted item store. Reads
// (Get, GetAll, FindByPattern) are wait-free with respect to each other;
// mutations serialize through mu, matching the registry's "many readers,
// many writers, writers serialize" policy from spec.md section 5.
type Clipboard struct {
	mu       sync.RWMutex
	items    map[ids.ClipboardItemID]*ClipboardItem
	order    []ids.ClipboardItemID // insertion order, independent of id order
	byKey    map[string]ids.ClipboardItemID
	nextID   uint64
	stats    Stats
	redraw   *redraw.Flags
	persist  string // path to the main persistence file; "" disables persistence
	backup   bool
	maxItems int
	maxAge   time.Duration
}

// Options configures a new Clipboard.
type Options struct {
	PersistPath string
	Backup      bool
	MaxItems    int
	MaxAge      time.Duration
	Redraw      *redraw.Flags
}

// New creates an empty Clipboard per opts. If opts.PersistPath is set, the
// caller should follow with Load to restore prior state.
func New(opts Options) *Clipboard {
	if opts.MaxItems <= 0 {
		opts.MaxItems = 10000
	}
	return &Clipboard{
		items:    make(map[ids.ClipboardItemID]*ClipboardItem),
		byKey:    make(map[string]ids.ClipboardItemID),
		redraw:   opts.Redraw,
		persist:  opts.PersistPath,
		backup:   opts.Backup,
		maxItems: opts.MaxItems,
		maxAge:   opts.MaxAge,
	}
}

func (c *Clipboard) setRedraw() {
	if c.redraw != nil {
		c.redraw.Set(redraw.Overlay)
	}
}

// Add inserts a new item for (path, op), refusing exact duplicates. The id
// sequence is strictly increasing (spec.md invariant: id_{n+1} > id_n), and
// (path, op) uniqueness holds at any point in time.
func (c *Clipboard) Add(path string, op OpKind, meta Meta) (ids.ClipboardItemID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(path, op)
	if _, exists := c.byKey[k]; exists {
		return 0, perr.New(perr.KindDuplicate, "clipboard.add", path, nil)
	}
	if len(c.items) >= c.maxItems {
		return 0, perr.New(perr.KindClipboardFull, "clipboard.add", path, nil)
	}

	c.nextID++
	id := ids.ClipboardItemID(c.nextID)
	item := &ClipboardItem{
		ID:         id,
		SourcePath: path,
		Op:         op,
		Meta:       meta,
		AddedAt:    time.Now(),
		Status:     StatusPending,
	}
	c.items[id] = item
	c.order = append(c.order, id)
	c.byKey[k] = id
	c.stats.TotalAdded++
	c.setRedraw()
	return id, nil
}

// Remove deletes one item by id.
func (c *Clipboard) Remove(id ids.ClipboardItemID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return false
	}
	c.removeLocked(item)
	c.stats.TotalRemoved++
	c.setRedraw()
	return true
}

// removeLocked removes item from every index; caller holds mu.
func (c *Clipboard) removeLocked(item *ClipboardItem) {
	delete(c.items, item.ID)
	delete(c.byKey, key(item.SourcePath, item.Op))
	for i, id := range c.order {
		if id == item.ID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// ClearAll removes every item, returning the count removed.
func (c *Clipboard) ClearAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	c.items = make(map[ids.ClipboardItemID]*ClipboardItem)
	c.byKey = make(map[string]ids.ClipboardItemID)
	c.order = nil
	c.stats.TotalRemoved += uint64(n)
	c.setRedraw()
	return n
}

// ClearOnPaste removes every item whose Op is Move and whose Status is Done
// (spec.md section 4.5: "removes items whose op is Move and whose status is
// Done").
func (c *Clipboard) ClearOnPaste() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var toRemove []*ClipboardItem
	for _, item := range c.items {
		if item.Op == OpMove && item.Status == StatusDone {
			toRemove = append(toRemove, item)
		}
	}
	for _, item := range toRemove {
		c.removeLocked(item)
	}
	if len(toRemove) > 0 {
		c.setRedraw()
	}
	return len(toRemove)
}

// SetStatus updates an item's status (used by the paste scheduler as
// operations progress and complete).
func (c *Clipboard) SetStatus(id ids.ClipboardItemID, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item, ok := c.items[id]; ok {
		item.Status = status
		if status == StatusDone {
			c.stats.TotalPasted++
		}
	}
}

// Get returns a copy of the item for id, or nil.
func (c *Clipboard) Get(id ids.ClipboardItemID) *ClipboardItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil
	}
	cp := *item
	return &cp
}

// GetAll returns every item in insertion order (not id order, so a future
// user-driven reorder remains possible without renumbering ids).
func (c *Clipboard) GetAll() []*ClipboardItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*ClipboardItem, 0, len(c.order))
	for _, id := range c.order {
		cp := *c.items[id]
		out = append(out, &cp)
	}
	return out
}

// FindByPattern returns every item whose source path contains needle as a
// substring. Scales linearly in item count; at 10,000+ items this is a
// single allocation-light pass, which the spec's scale requirement (section
// 4.5) calls for rather than an index structure this clipboard's write
// volume doesn't justify.
func (c *Clipboard) FindByPattern(needle string) []*ClipboardItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*ClipboardItem
	for _, id := range c.order {
		item := c.items[id]
		if strings.Contains(item.SourcePath, needle) {
			cp := *item
			out = append(out, &cp)
		}
	}
	return out
}

// Len reports the current item count.
func (c *Clipboard) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns a snapshot of the running counters.
func (c *Clipboard) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// PruneExpired removes items older than maxAge (retention policy, spec.md
// section 4.5 "bounded by max_items and max_age_days").
func (c *Clipboard) PruneExpired(now time.Time) int {
	if c.maxAge <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var stale []*ClipboardItem
	for _, item := range c.items {
		if now.Sub(item.AddedAt) > c.maxAge {
			stale = append(stale, item)
		}
	}
	for _, item := range stale {
		c.removeLocked(item)
	}
	if len(stale) > 0 {
		c.setRedraw()
	}
	return len(stale)
}
