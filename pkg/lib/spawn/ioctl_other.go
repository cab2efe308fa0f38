//go:build !linux && !windows

package spawn

import "golang.org/x/sys/unix"

// ioctlReadCount reports the number of unread bytes in a descriptor. The
// BSD-derived platforms export it under its traditional name.
const ioctlReadCount = unix.FIONREAD
