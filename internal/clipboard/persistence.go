package clipboard

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/connorleisz/pane/internal/ids"
	"github.com/connorleisz/pane/internal/perr"
)

// formatVersion is bumped whenever the on-disk encoding changes shape. Load
// treats a version mismatch the same as a checksum failure: fall back to
// .bak, then start empty.
const formatVersion = 1

// Save encodes the clipboard to a compact checksummed binary file and
// installs it atomically: encode to a temp sibling, flush, rename over the
// target. If a prior file exists and backups are enabled, it is copied to
// a .bak sibling first, matching spec.md section 4.5's persistence
// contract.
func (c *Clipboard) Save() error {
	if c.persist == "" {
		return nil
	}
	c.mu.RLock()
	buf := encode(c.order, c.items, c.stats)
	c.mu.RUnlock()

	dir := filepath.Dir(c.persist)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.New(perr.KindIOOther, "clipboard.save", c.persist, err)
	}

	if c.backup {
		if _, err := os.Stat(c.persist); err == nil {
			data, err := os.ReadFile(c.persist)
			if err == nil {
				_ = os.WriteFile(c.persist+".bak", data, 0o600)
			}
		}
	}

	tmp := c.persist + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return perr.New(perr.KindIOOther, "clipboard.save", tmp, err)
	}
	if _, err := f.Write(buf); err != nil {
		f.Close()
		os.Remove(tmp)
		return perr.New(perr.KindIOOther, "clipboard.save", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return perr.New(perr.KindIOOther, "clipboard.save", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return perr.New(perr.KindIOOther, "clipboard.save", tmp, err)
	}
	if err := os.Rename(tmp, c.persist); err != nil {
		return perr.New(perr.KindIOOther, "clipboard.save", c.persist, err)
	}
	return nil
}

// Load restores state from the main persistence file, falling back to the
// .bak sibling on checksum failure or version mismatch, and to an empty
// clipboard if both are unusable.
func (c *Clipboard) Load() error {
	if c.persist == "" {
		return nil
	}
	if err := c.loadFrom(c.persist); err == nil {
		return nil
	}
	if err := c.loadFrom(c.persist + ".bak"); err == nil {
		return nil
	}
	// Both unusable: start empty. Not an error to the caller; the clipboard
	// is already empty from New.
	return nil
}

func (c *Clipboard) loadFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return perr.New(perr.KindIOOther, "clipboard.load", path, err)
	}
	order, items, stats, err := decode(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = order
	c.items = items
	c.byKey = make(map[string]ids.ClipboardItemID, len(items))
	var maxID uint64
	for id, item := range items {
		c.byKey[key(item.SourcePath, item.Op)] = id
		if uint64(id) > maxID {
			maxID = uint64(id)
		}
	}
	c.nextID = maxID
	c.stats = stats
	return nil
}

// encode writes {version, stats, items} followed by an xxhash checksum over
// everything preceding it. xxhash is reused here rather than pulling in a
// CRC library, since it is already a dependency for ObjectId derivation.
func encode(order []ids.ClipboardItemID, items map[ids.ClipboardItemID]*ClipboardItem, stats Stats) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(formatVersion))
	binary.Write(&buf, binary.LittleEndian, stats.TotalAdded)
	binary.Write(&buf, binary.LittleEndian, stats.TotalPasted)
	binary.Write(&buf, binary.LittleEndian, stats.TotalRemoved)
	binary.Write(&buf, binary.LittleEndian, uint32(len(order)))

	for _, id := range order {
		item := items[id]
		binary.Write(&buf, binary.LittleEndian, uint64(item.ID))
		writeString(&buf, item.SourcePath)
		binary.Write(&buf, binary.LittleEndian, int32(item.Op))
		binary.Write(&buf, binary.LittleEndian, item.Meta.Size)
		binary.Write(&buf, binary.LittleEndian, item.Meta.ModTime.UnixNano())
		binary.Write(&buf, binary.LittleEndian, uint32(item.Meta.Perm))
		buf.WriteByte(item.Meta.Kind)
		buf.WriteByte(item.Meta.Flags)
		binary.Write(&buf, binary.LittleEndian, item.AddedAt.UnixNano())
		binary.Write(&buf, binary.LittleEndian, int32(item.Status))
	}

	sum := xxhash.Sum64(buf.Bytes())
	out := buf.Bytes()
	checksum := make([]byte, 8)
	binary.LittleEndian.PutUint64(checksum, sum)
	return append(out, checksum...)
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func decode(data []byte) ([]ids.ClipboardItemID, map[ids.ClipboardItemID]*ClipboardItem, Stats, error) {
	if len(data) < 8 {
		return nil, nil, Stats{}, perr.New(perr.KindCorruptedPersistence, "clipboard.load", "", fmt.Errorf("file too short"))
	}
	body, sumBytes := data[:len(data)-8], data[len(data)-8:]
	want := binary.LittleEndian.Uint64(sumBytes)
	got := xxhash.Sum64(body)
	if want != got {
		return nil, nil, Stats{}, perr.New(perr.KindCorruptedPersistence, "clipboard.load", "", fmt.Errorf("checksum mismatch"))
	}

	r := bytes.NewReader(body)
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, nil, Stats{}, perr.New(perr.KindCorruptedPersistence, "clipboard.load", "", err)
	}
	if version != formatVersion {
		return nil, nil, Stats{}, perr.New(perr.KindVersionMismatch, "clipboard.load", "", fmt.Errorf("version %d != %d", version, formatVersion))
	}

	var stats Stats
	binary.Read(r, binary.LittleEndian, &stats.TotalAdded)
	binary.Read(r, binary.LittleEndian, &stats.TotalPasted)
	binary.Read(r, binary.LittleEndian, &stats.TotalRemoved)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, nil, Stats{}, perr.New(perr.KindCorruptedPersistence, "clipboard.load", "", err)
	}

	order := make([]ids.ClipboardItemID, 0, count)
	items := make(map[ids.ClipboardItemID]*ClipboardItem, count)
	for i := uint32(0); i < count; i++ {
		var rawID uint64
		if err := binary.Read(r, binary.LittleEndian, &rawID); err != nil {
			return nil, nil, Stats{}, perr.New(perr.KindCorruptedPersistence, "clipboard.load", "", err)
		}
		path, err := readString(r)
		if err != nil {
			return nil, nil, Stats{}, perr.New(perr.KindCorruptedPersistence, "clipboard.load", "", err)
		}
		var op int32
		binary.Read(r, binary.LittleEndian, &op)
		var size int64
		binary.Read(r, binary.LittleEndian, &size)
		var modNanos int64
		binary.Read(r, binary.LittleEndian, &modNanos)
		var perm uint32
		binary.Read(r, binary.LittleEndian, &perm)
		kind, _ := r.ReadByte()
		flags, _ := r.ReadByte()
		var addedNanos int64
		binary.Read(r, binary.LittleEndian, &addedNanos)
		var status int32
		binary.Read(r, binary.LittleEndian, &status)

		id := ids.ClipboardItemID(rawID)
		item := &ClipboardItem{
			ID:         id,
			SourcePath: path,
			Op:         OpKind(op),
			Meta: Meta{
				Size:    size,
				ModTime: time.Unix(0, modNanos),
				Perm:    os.FileMode(perm),
				Kind:    kind,
				Flags:   flags,
			},
			AddedAt: time.Unix(0, addedNanos),
			Status:  Status(status),
		}
		order = append(order, id)
		items[id] = item
	}
	return order, items, stats, nil
}
