package runner

import (
	"time"

	"github.com/streamexec/streamexec/pkg/lib"
)

// StopResult returns process info and its final status after Stop.
type StopResult struct {
	Command *lib.Command
	Status  *lib.ProcessStatus
}

// Stop requests termination of the process by identifier and returns its
// final status (or current if already stopped). The kill itself happens on
// the session's poll loop, which owns the process handle.
func (runner *Runner) Stop(id string) (*StopResult, error) {
	s, err := runner.getSession(id)
	if err != nil {
		return nil, err
	}
	res := StopResult{Command: &s.command}

	s.killRequested.Store(true)

	// Return status after it transitions; small wait loop
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		st := s.lockAndGetStatus()
		res.Status = &st
		if st.State == lib.ProcessStateStopped {
			return &res, nil
		}
		time.Sleep(10 * time.Millisecond)
	}

	st := s.lockAndGetStatus()
	res.Status = &st

	return &res, nil
}
