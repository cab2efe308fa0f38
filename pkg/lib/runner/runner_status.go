package runner

import (
	"os"

	"github.com/streamexec/streamexec/pkg/lib"
)

type StatusResult struct {
	Command *lib.Command
	Status  *lib.ProcessStatus
}

// Status returns the current process and status by identifier.
func (runner *Runner) Status(id string) (*StatusResult, error) {
	s, err := runner.getSession(id)
	if err != nil {
		return nil, err
	}

	status := s.lockAndGetStatus()
	result := StatusResult{
		Command: &s.command,
		Status:  &status,
	}

	return &result, nil
}

func (runner *Runner) getSession(id string) (*session, error) {
	runner.mu.RLock()
	s := runner.sessions[id]
	runner.mu.RUnlock()
	if s == nil {
		return nil, os.ErrNotExist
	}
	return s, nil
}
