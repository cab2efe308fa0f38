// Package spawn starts console child processes with their stdio wired
// through pipes and hands the caller a non-blocking view of them.
//
// The launch sequence follows one fixed shape: two pipe endpoints (child
// stdin, child stdout with stderr merged in), the child-side end of each
// duplicated as inheritable, the parent-side end kept private, then the
// platform spawn primitive, then the parent drops its copies of the
// child-side handles and flips the output read end into non-blocking mode.
// After Exec returns, the package holds nothing: the returned Handle and
// Streams own every surviving OS handle.
//
// Everything here is single-threaded by design. Liveness and output are
// polled cooperatively by the caller; no goroutines, no locks.
package spawn

import (
	"errors"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/pipe"
)

// Request describes a process to start. Immutable once passed to Exec.
type Request struct {
	Command lib.Command

	// Dir is the child's working directory; empty means inherit the
	// parent's.
	Dir string

	// PipeSize is the stdio pipe buffer size hint; zero selects
	// pipe.DefaultBufferSize.
	PipeSize int
}

var errEmptyCommand = errors.New("command is required")

// Exec starts the requested process and returns its handle plus the
// parent-side stdin (write) and stdout+stderr (read) streams. The output
// stream is non-blocking unless the platform refused the mode switch, which
// Stream.NonBlocking reports.
//
// On any failure every handle created along the way is released before the
// error is returned.
func Exec(req Request) (*Handle, *Stream, *Stream, error) {
	if req.Command.Command == "" {
		return nil, nil, nil, &lib.LaunchError{Command: "", Err: errEmptyCommand}
	}

	// Child stdin: the child inherits the read end, the parent keeps the
	// write end private.
	stdin, err := pipe.New(req.PipeSize)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := stdin.Duplicate(pipe.ReadEnd, true); err != nil {
		stdin.CloseBoth()
		return nil, nil, nil, err
	}

	// Child stdout+stderr: the child inherits the write end, the parent
	// keeps the read end private.
	stdout, err := pipe.New(req.PipeSize)
	if err != nil {
		stdin.CloseBoth()
		return nil, nil, nil, err
	}
	if err := stdout.Duplicate(pipe.WriteEnd, true); err != nil {
		stdin.CloseBoth()
		stdout.CloseBoth()
		return nil, nil, nil, err
	}

	proc, err := startProcess(req, stdin.Handle(pipe.ReadEnd), stdout.Handle(pipe.WriteEnd))
	if err != nil {
		stdin.CloseBoth()
		stdout.CloseBoth()
		return nil, nil, nil, &lib.LaunchError{Command: req.Command.Command, Err: err}
	}

	// The child holds its own inherited copies now; drop the parent's.
	stdin.Close(pipe.ReadEnd)
	stdout.Close(pipe.WriteEnd)

	// Best-effort: on failure the output stream degrades to blocking reads.
	nonBlocking := stdout.SetNonBlocking() == nil

	h := &Handle{
		pid:        proc.pid,
		tid:        proc.tid,
		sys:        proc,
		running:    true,
		unbuffered: proc.unbufferedStdio(),
	}
	in := newStream(stdin.Release(pipe.WriteEnd), false)
	out := newStream(stdout.Release(pipe.ReadEnd), nonBlocking)
	return h, in, out, nil
}
