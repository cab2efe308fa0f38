package spawn

import (
	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/pipe"
)

// Stream is a thin read/write wrapper over one parent-side pipe handle. It
// buffers nothing: every Read reflects what is in the pipe right now.
type Stream struct {
	h           pipe.Handle
	nonBlocking bool
}

func newStream(h pipe.Handle, nonBlocking bool) *Stream {
	return &Stream{h: h, nonBlocking: nonBlocking}
}

// NonBlocking reports whether the non-blocking mode switch took effect on
// this stream's handle. When false, Read may suspend until data arrives.
func (s *Stream) NonBlocking() bool { return s.nonBlocking }

// Read returns the bytes currently available in the pipe, possibly nil. It
// never blocks once non-blocking mode is active. An empty result does not
// distinguish "no data yet" from "pipe closed, nothing left"; combine with
// Handle.CheckRunning to tell EOF-after-exit from a transient empty read.
func (s *Stream) Read() ([]byte, error) {
	if s.h == pipe.InvalidHandle {
		return nil, nil
	}
	return readAvailable(s.h)
}

// Write pushes bytes into the pipe. When the peer has closed its read end it
// returns lib.ErrBrokenPipe (wrapped over the OS error); on success it
// returns the number of bytes written, which is always len(p).
func (s *Stream) Write(p []byte) (int, error) {
	if s.h == pipe.InvalidHandle {
		return 0, lib.ErrBrokenPipe
	}
	return writeAll(s.h, p)
}

// Close releases the underlying handle. Idempotent.
func (s *Stream) Close() error {
	if s.h == pipe.InvalidHandle {
		return nil
	}
	err := closeHandle(s.h)
	s.h = pipe.InvalidHandle
	return err
}
