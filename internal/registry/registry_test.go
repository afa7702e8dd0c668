package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/connorleisz/pane/internal/objectid"
)

func TestInsertGetUpdate(t *testing.T) {
	r := New()
	id := objectid.FromPath("/tmp/a")
	info := LightInfo("/tmp/a", "a", KindFile, false)
	r.Insert(id, info)

	got := r.Get(id)
	if got == nil || got.Path != "/tmp/a" {
		t.Fatalf("expected entry for id, got %+v", got)
	}

	ok := r.Update(id, func(o *ObjectInfo) *ObjectInfo {
		return o.PromoteToFull(100, time.Now(), 0644, -1)
	})
	if !ok {
		t.Fatalf("expected update to apply")
	}
	got = r.Get(id)
	if got.LoadState != Full || got.Size != 100 {
		t.Fatalf("expected promoted entry, got %+v", got)
	}
}

func TestUpdateMissingIsNoop(t *testing.T) {
	r := New()
	ok := r.Update(objectid.FromPath("/nope"), func(o *ObjectInfo) *ObjectInfo { return o })
	if ok {
		t.Fatalf("expected update on missing id to report false")
	}
}

func TestPinBlocksEviction(t *testing.T) {
	r := New()
	id := objectid.FromPath("/tmp/pinned")
	r.Insert(id, LightInfo("/tmp/pinned", "pinned", KindFile, false))
	r.Pin(id)

	if r.Evict(id) {
		t.Fatalf("expected evict to fail while pinned")
	}
	if r.Get(id) == nil {
		t.Fatalf("expected entry to survive failed eviction")
	}

	r.Unpin(id)
	if !r.Evict(id) {
		t.Fatalf("expected evict to succeed once unpinned")
	}
	if r.Get(id) != nil {
		t.Fatalf("expected entry gone after eviction")
	}
}

func TestCacheHitMissLoad(t *testing.T) {
	r := New()
	c := NewCache(r, 10, time.Minute)
	id := objectid.FromPath("/tmp/cached")

	loads := 0
	loader := func(objectid.ID) (*ObjectInfo, error) {
		loads++
		return LightInfo("/tmp/cached", "cached", KindFile, false), nil
	}

	if _, err := c.Get(id, loader); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Get(id, loader); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loads != 1 {
		t.Fatalf("expected loader called once, called %d times", loads)
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Loads != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestCachePutOverwritesWithoutLoader(t *testing.T) {
	r := New()
	c := NewCache(r, 10, time.Minute)
	id := objectid.FromPath("/tmp/put")

	c.Put(id, LightInfo("/tmp/put", "put", KindFile, false))
	c.Put(id, LightInfo("/tmp/put", "put", KindDirectory, false))

	loader := func(objectid.ID) (*ObjectInfo, error) {
		t.Fatal("loader should not run on a Put hit")
		return nil, nil
	}
	info, err := c.Get(id, loader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Kind != KindDirectory {
		t.Fatalf("expected the second Put to win, got %+v", info)
	}
	if r.Get(id).Kind != KindDirectory {
		t.Fatalf("expected Put to reach the underlying Registry too")
	}
}

func TestCacheLoaderErrorCountsException(t *testing.T) {
	r := New()
	c := NewCache(r, 10, time.Minute)
	id := objectid.FromPath("/tmp/bad")

	_, err := c.Get(id, func(objectid.ID) (*ObjectInfo, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected loader error to propagate")
	}
	if c.Stats().Exceptions != 1 {
		t.Fatalf("expected exception counted, got %+v", c.Stats())
	}
}
