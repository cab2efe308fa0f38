//go:build !linux && !windows

package pipe

import "golang.org/x/sys/unix"

// newPair allocates a connected pipe. There is no pipe2 here, so the
// close-on-exec flags are set separately right after creation; nothing
// forks between the two calls in this library. The size hint is ignored:
// the platform has no pipe resize fcntl.
func newPair(size int) (r, w Handle, err error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return InvalidHandle, InvalidHandle, err
	}
	unix.CloseOnExec(p[0])
	unix.CloseOnExec(p[1])
	return p[0], p[1], nil
}
