// Package objectid derives stable, process-lifetime identifiers for
// filesystem entries from their canonical absolute path.
package objectid

import (
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// ID is a 64-bit identifier for a filesystem entry. Two paths that resolve
// to the same canonical form within one process lifetime always produce the
// same ID; there is no cross-process stability guarantee, so xxhash (fast,
// non-cryptographic) is the right tool rather than a slower stable hash.
type ID uint64

// Zero is the ID reserved for "no entry" (empty pane, root's parent, etc).
const Zero ID = 0

// FromPath canonicalizes path and derives its ID. Canonicalization is
// lexical (filepath.Clean) plus absolute-ification; it does not resolve
// symlinks, since distinct symlinks to the same target are distinct
// directory entries with distinct identities in this model.
func FromPath(path string) ID {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return ID(xxhash.Sum64String(abs))
}
