package spawn

// Handle is the live handle to a spawned process. It is exclusively owned by
// the caller that received it from Exec and is not safe for concurrent use.
type Handle struct {
	pid int
	tid int

	sys sysProcess

	running    bool
	exitCode   *int
	unbuffered bool
	closed     bool
}

// Pid returns the OS process identifier.
func (h *Handle) Pid() int { return h.pid }

// Tid returns the identifier of the process's initial thread where the
// platform has one; elsewhere it equals Pid.
func (h *Handle) Tid() int { return h.tid }

// UnbufferedStdio reports whether the platform accepted the unbuffered-stdio
// hint at launch. When false the child's runtime may buffer its output; the
// hint is best-effort and may not affect all child runtimes even when true.
func (h *Handle) UnbufferedStdio() bool { return h.unbuffered }

// CheckRunning polls the OS for the child's exit status without blocking.
// The first time the OS reports a real exit the handle records the exit code
// and flips to not-running permanently; it never flips back.
func (h *Handle) CheckRunning() bool {
	if !h.running {
		return false
	}
	if h.closed {
		// The OS handles are gone; the last observed state stands.
		return h.running
	}
	code, exited := h.sys.poll()
	if exited {
		h.exitCode = &code
		h.running = false
	}
	return h.running
}

// ExitCode returns the child's exit code. It is meaningful only after
// CheckRunning has observed termination; before that ok is false.
func (h *Handle) ExitCode() (code int, ok bool) {
	if h.exitCode == nil {
		return 0, false
	}
	return *h.exitCode, true
}

// Kill forcibly terminates the child. It is the explicit external
// termination policy; nothing in this package calls it implicitly.
func (h *Handle) Kill() error {
	if h.closed || !h.running {
		return nil
	}
	return h.sys.kill()
}

// Close releases the OS handles owned by this Handle. A still-running child
// keeps running. Calling Close more than once is a no-op.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.sys.release()
}
