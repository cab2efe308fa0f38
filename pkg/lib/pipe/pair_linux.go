//go:build linux

package pipe

import "golang.org/x/sys/unix"

// newPair allocates a connected pipe. Both descriptors start close-on-exec
// (non-inheritable); the launcher duplicates the child-side end to make it
// inheritable. The buffer resize is best-effort: the kernel rounds the value
// and may refuse sizes above the sysctl limit.
func newPair(size int) (r, w Handle, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return InvalidHandle, InvalidHandle, err
	}
	_, _ = unix.FcntlInt(uintptr(p[1]), unix.F_SETPIPE_SZ, size)
	return p[0], p[1], nil
}
