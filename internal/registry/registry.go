// Package registry implements the Metadata Registry and its LRU/TTL Cache
// front layer (spec.md section 4.4): the single source of truth for
// ObjectInfo, addressed by the weak ObjectId handle so panes, search
// results, and the cache can all reference an entry without owning it.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/connorleisz/pane/internal/objectid"
)

// entry wraps an ObjectInfo with its own lock, so concurrent updates to
// different ids never contend and a reference count that pins the entry
// against cache eviction while any pane or search result still holds it.
type entry struct {
	mu   sync.Mutex
	info *ObjectInfo
	refs int32
}

// Registry is a concurrent map from ObjectId to shared ObjectInfo. Lookups
// go through sync.Map without a global lock; reads and writes of one id
// take that entry's own mutex, so a reader waits only for a write to the
// same id, never for writes to other ids.
type Registry struct {
	entries sync.Map // objectid.ID -> *entry
}

// New creates an empty Registry.
func New() *Registry { return &Registry{} }

// Insert replaces any prior entry for id atomically. Readers racing with
// Insert see either the old or the new value in full, never a torn one,
// since *ObjectInfo is replaced by pointer swap under the entry lock.
func (r *Registry) Insert(id objectid.ID, info *ObjectInfo) {
	e := r.entryFor(id)
	e.mu.Lock()
	e.info = info
	e.mu.Unlock()
}

// Get returns the current ObjectInfo for id, or nil if absent. It is not
// wait-free: it takes the entry's mutex to copy the pointer, so it waits
// while an Insert or Update of the same id holds that mutex.
func (r *Registry) Get(id objectid.ID) *ObjectInfo {
	v, ok := r.entries.Load(id)
	if !ok {
		return nil
	}
	e := v.(*entry)
	e.mu.Lock()
	info := e.info
	e.mu.Unlock()
	return info
}

// Update applies f to the current ObjectInfo for id under that entry's own
// lock and stores the result. If id is absent, f is not called and Update
// returns false.
func (r *Registry) Update(id objectid.ID, f func(*ObjectInfo) *ObjectInfo) bool {
	v, ok := r.entries.Load(id)
	if !ok {
		return false
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.info == nil {
		return false
	}
	e.info = f(e.info)
	return true
}

// Pin increments id's reference count, preventing the Cache from evicting
// it. Scans hold a soft pin on every id they emit until their generation
// completes or is superseded (spec.md section 9, Open Question resolution).
func (r *Registry) Pin(id objectid.ID) {
	e := r.entryFor(id)
	atomic.AddInt32(&e.refs, 1)
}

// Unpin decrements id's reference count. It is safe to call more Unpins
// than Pins only in the sense that refs never goes negative in practice
// here, since every Pin/Unpin pair is balanced by its caller (scan
// completion, pane replacement, search-result clearing).
func (r *Registry) Unpin(id objectid.ID) {
	v, ok := r.entries.Load(id)
	if !ok {
		return
	}
	e := v.(*entry)
	atomic.AddInt32(&e.refs, -1)
}

// RefCount reports id's current pin count (0 if absent or unpinned).
func (r *Registry) RefCount(id objectid.ID) int32 {
	v, ok := r.entries.Load(id)
	if !ok {
		return 0
	}
	return atomic.LoadInt32(&v.(*entry).refs)
}

// Evict removes id from the registry, but only if its reference count is
// zero. Returns whether it was removed, so the Cache can skip (not retry)
// pinned entries.
func (r *Registry) Evict(id objectid.ID) bool {
	v, ok := r.entries.Load(id)
	if !ok {
		return true
	}
	e := v.(*entry)
	if atomic.LoadInt32(&e.refs) > 0 {
		return false
	}
	r.entries.Delete(id)
	return true
}

// Len reports the number of entries currently tracked (for tests and
// observability; not on any hot path).
func (r *Registry) Len() int {
	n := 0
	r.entries.Range(func(_, _ any) bool { n++; return true })
	return n
}

func (r *Registry) entryFor(id objectid.ID) *entry {
	v, _ := r.entries.LoadOrStore(id, &entry{})
	return v.(*entry)
}
