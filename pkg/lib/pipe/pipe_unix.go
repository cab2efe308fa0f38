//go:build !windows

package pipe

import (
	"golang.org/x/sys/unix"
)

// Handle is a raw file descriptor on POSIX systems.
type Handle = int

const InvalidHandle Handle = -1

// duplicate copies a descriptor. Inheritable means no close-on-exec flag, so
// the child receives the descriptor across exec.
func duplicate(h Handle, inheritable bool) (Handle, error) {
	if inheritable {
		return unix.Dup(h)
	}
	return unix.FcntlInt(uintptr(h), unix.F_DUPFD_CLOEXEC, 0)
}

func closeHandle(h Handle) error {
	return unix.Close(h)
}

func setNonBlocking(h Handle) error {
	return unix.SetNonblock(h, true)
}
