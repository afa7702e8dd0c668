package fsops

import (
	"errors"
	"syscall"
)

// isCrossDevice reports whether err is the "invalid cross-device link"
// error os.Rename returns when src and dst sit on different filesystems.
func isCrossDevice(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.EXDEV
}
