//go:build windows

package pipe

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Handle is a Windows kernel handle.
type Handle = windows.Handle

const InvalidHandle = windows.InvalidHandle

// newPair allocates an anonymous pipe. Handles start non-inheritable; the
// launcher duplicates the child-side end with bInheritHandle set.
func newPair(size int) (r, w Handle, err error) {
	sa := &windows.SecurityAttributes{InheritHandle: 0}
	sa.Length = uint32(unsafe.Sizeof(*sa))
	if err := windows.CreatePipe(&r, &w, sa, uint32(size)); err != nil {
		return InvalidHandle, InvalidHandle, err
	}
	return r, w, nil
}

func duplicate(h Handle, inheritable bool) (Handle, error) {
	var dup Handle
	cur := windows.CurrentProcess()
	err := windows.DuplicateHandle(cur, h, cur, &dup, 0, inheritable, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return InvalidHandle, err
	}
	return dup, nil
}

func closeHandle(h Handle) error {
	return windows.CloseHandle(h)
}

// setNonBlocking flips the read side into PIPE_NOWAIT mode. The mode is
// deprecated but it is the only way to get a ReadFile on an anonymous pipe to
// return instead of blocking, and it is what the non-blocking read path
// depends on.
func setNonBlocking(h Handle) error {
	mode := uint32(windows.PIPE_NOWAIT)
	return windows.SetNamedPipeHandleState(h, &mode, nil, nil)
}
