package runner

import (
	"github.com/streamexec/streamexec/pkg/lib"
)

// Write pushes bytes into the process's stdin. Returns lib.ErrBrokenPipe
// once the process has exited or closed its stdin.
func (runner *Runner) Write(id string, data []byte) error {
	s, err := runner.getSession(id)
	if err != nil {
		return err
	}

	s.inMu.Lock()
	defer s.inMu.Unlock()

	s.mu.RLock()
	stopped := s.state == lib.ProcessStateStopped
	s.mu.RUnlock()
	if stopped {
		return lib.ErrBrokenPipe
	}

	_, err = s.in.Write(data)
	return err
}

// CloseInput closes the process's stdin, delivering EOF to a child that is
// reading it. Idempotent; the poll loop's own close at exit is unaffected.
func (runner *Runner) CloseInput(id string) error {
	s, err := runner.getSession(id)
	if err != nil {
		return err
	}

	s.inMu.Lock()
	defer s.inMu.Unlock()
	return s.in.Close()
}
