// Package perr defines the error taxonomy shared by every background task
// and dispatcher, per spec.md section 7. Background tasks never panic;
// every failure becomes one of these and is converted to a result action.
package perr

import "fmt"

// Kind classifies an error into one of the taxonomy's buckets.
type Kind int

const (
	KindUnknown Kind = iota

	// I/O
	KindNotFound
	KindPermissionDenied
	KindCrossDevice
	KindAlreadyExists
	KindDiskFull
	KindIOOther

	// Cache
	KindLoaderFailed
	KindInvalidKey
	KindCacheTimeout

	// Search
	KindToolMissing
	KindToolFailed
	KindParseError
	KindSearchTimeout

	// Clipboard
	KindDuplicate
	KindClipboardNotFound
	KindClipboardFull
	KindCorruptedPersistence
	KindVersionMismatch

	// Task
	KindCancelled
	KindTaskFailed
	KindTimedOut

	// UI/Input
	KindInvalidInput
	KindComponentError

	// Fatal
	KindTerminal
	KindConfiguration
	KindLogging
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindCrossDevice:
		return "cross_device"
	case KindAlreadyExists:
		return "already_exists"
	case KindDiskFull:
		return "disk_full"
	case KindIOOther:
		return "io_other"
	case KindLoaderFailed:
		return "loader_failed"
	case KindInvalidKey:
		return "invalid_key"
	case KindCacheTimeout:
		return "cache_timeout"
	case KindToolMissing:
		return "tool_missing"
	case KindToolFailed:
		return "tool_failed"
	case KindParseError:
		return "parse_error"
	case KindSearchTimeout:
		return "search_timeout"
	case KindDuplicate:
		return "duplicate"
	case KindClipboardNotFound:
		return "clipboard_not_found"
	case KindClipboardFull:
		return "clipboard_full"
	case KindCorruptedPersistence:
		return "corrupted_persistence"
	case KindVersionMismatch:
		return "version_mismatch"
	case KindCancelled:
		return "cancelled"
	case KindTaskFailed:
		return "task_failed"
	case KindTimedOut:
		return "timed_out"
	case KindInvalidInput:
		return "invalid_input"
	case KindComponentError:
		return "component_error"
	case KindTerminal:
		return "terminal"
	case KindConfiguration:
		return "configuration"
	case KindLogging:
		return "logging"
	default:
		return "unknown"
	}
}

// Error is the concrete error type surfaced across the core. Op and Path
// identify the operation and subject so notifications can show the
// "operation kind, source path (truncated), short cause" spec.md section 7
// asks for without re-parsing a generic error string.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// IsCancelled reports whether err is (or wraps) a cancellation. Cancellation
// is not an error to the user (spec.md section 7); callers use this to route
// around the notification system.
func IsCancelled(err error) bool {
	var e *Error
	if as(err, &e) {
		return e.Kind == KindCancelled
	}
	return false
}

// as is a tiny errors.As shim kept local to avoid importing errors twice in
// call sites that already alias it; defined here so IsCancelled has no
// external dependency beyond the standard library.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
