package lib

import (
	"errors"
	"fmt"
)

// ErrBrokenPipe is returned by stream writes when the read side of the
// child's stdin pipe is gone (the child exited or closed its stdin).
var ErrBrokenPipe = errors.New("broken pipe: peer closed the read end")

// ResourceError reports a failed OS resource allocation (pipe or handle)
// during launch setup. All partially created resources are released before
// it is returned.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource allocation failed (%s): %v", e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// LaunchError reports a failed process spawn. Command preserves the command
// string the caller asked for; Err is the underlying OS error.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }
