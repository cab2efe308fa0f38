// Package pipe owns a single OS pipe pair and the handle bookkeeping around
// it: duplicating an end with a chosen inheritability, switching the read end
// into non-blocking mode, and idempotent close. One Endpoint is one logical
// stdio direction between a parent and a child process.
package pipe

import (
	"errors"

	"github.com/streamexec/streamexec/pkg/lib"
)

// End selects one side of an Endpoint.
type End int

const (
	ReadEnd End = iota
	WriteEnd
)

// DefaultBufferSize is the pipe buffer size requested from the OS when the
// caller does not specify one. The OS treats it as a hint.
const DefaultBufferSize = 64 * 1024

var errClosedEnd = errors.New("pipe: end already closed")

// Endpoint is a connected read/write pipe pair. Each end holds exactly one
// live handle at a time; Duplicate replaces a handle rather than aliasing it,
// so a double close cannot happen through this type.
//
// An Endpoint is not safe for concurrent use. Once both ends are closed it is
// permanently invalid.
type Endpoint struct {
	read  Handle
	write Handle
}

// New allocates a connected pipe pair with the given buffer size hint
// (DefaultBufferSize when size <= 0).
func New(size int) (*Endpoint, error) {
	if size <= 0 {
		size = DefaultBufferSize
	}
	r, w, err := newPair(size)
	if err != nil {
		return nil, &lib.ResourceError{Op: "create pipe", Err: err}
	}
	return &Endpoint{read: r, write: w}, nil
}

// Handle returns the current OS handle for the given end, or InvalidHandle
// if that end has been closed or released.
func (e *Endpoint) Handle(end End) Handle {
	if end == ReadEnd {
		return e.read
	}
	return e.write
}

func (e *Endpoint) setHandle(end End, h Handle) {
	if end == ReadEnd {
		e.read = h
	} else {
		e.write = h
	}
}

// Duplicate replaces the handle of the given end with a duplicate of the
// requested inheritability. The prior handle is closed: after Duplicate there
// is still exactly one live handle per end, never two aliases.
func (e *Endpoint) Duplicate(end End, inheritable bool) error {
	old := e.Handle(end)
	if old == InvalidHandle {
		return &lib.ResourceError{Op: "duplicate pipe handle", Err: errClosedEnd}
	}
	dup, err := duplicate(old, inheritable)
	if err != nil {
		return &lib.ResourceError{Op: "duplicate pipe handle", Err: err}
	}
	_ = closeHandle(old)
	e.setHandle(end, dup)
	return nil
}

// SetNonBlocking switches the read end into non-blocking mode: reads return
// immediately with zero bytes instead of suspending when the pipe is empty.
// Callers treat a failure as a degradation, not a fatal error.
func (e *Endpoint) SetNonBlocking() error {
	if e.read == InvalidHandle {
		return errClosedEnd
	}
	return setNonBlocking(e.read)
}

// Close closes one end. Closing an already-closed end is a no-op.
func (e *Endpoint) Close(end End) {
	h := e.Handle(end)
	if h == InvalidHandle {
		return
	}
	_ = closeHandle(h)
	e.setHandle(end, InvalidHandle)
}

// CloseBoth closes whichever ends are still open.
func (e *Endpoint) CloseBoth() {
	e.Close(ReadEnd)
	e.Close(WriteEnd)
}

// Release transfers ownership of one end's handle to the caller. The end is
// marked closed from the Endpoint's point of view; the OS handle itself stays
// open and is from now on the caller's to close.
func (e *Endpoint) Release(end End) Handle {
	h := e.Handle(end)
	e.setHandle(end, InvalidHandle)
	return h
}
