//go:build linux

package spawn

import "golang.org/x/sys/unix"

// ioctlReadCount reports the number of unread bytes in a descriptor. Linux
// spells the classic FIONREAD as TIOCINQ; the two share the value 0x541b and
// the kernel accepts it on pipes, not just terminals.
const ioctlReadCount = unix.TIOCINQ
