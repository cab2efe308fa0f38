package runner

import (
	"time"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/outbuf"
	"github.com/streamexec/streamexec/pkg/lib/spawn"
)

type StartResult struct {
	ID     string
	Pid    int
	Status *lib.ProcessStatus
}

// Start starts a new process in the runner's current directory, returning
// its generated identifier and initial status.
func (runner *Runner) Start(command string, args ...string) (*StartResult, error) {
	return runner.StartIn("", command, args...)
}

// StartIn starts a new process with the given working directory (empty means
// inherit the runner's).
func (runner *Runner) StartIn(dir string, command string, args ...string) (*StartResult, error) {
	id := lib.NewID()
	cmd := lib.Command{Command: command, Args: append([]string(nil), args...)}

	runner.logger.Debug().Str("id", id).Str("command", command).Msg("starting process")
	handle, in, out, err := spawn.Exec(spawn.Request{Command: cmd, Dir: dir})
	if err != nil {
		runner.logger.Error().Str("id", id).Err(err).Msg("failed to start process")
		return nil, err
	}

	s := &session{
		id:      id,
		command: cmd,
		handle:  handle,
		outStr:  out,
		out:     outbuf.New(),
		in:      in,
		state:   lib.ProcessStateRunning,
		start:   time.Now(),
	}

	runner.mu.Lock()
	runner.sessions[id] = s
	runner.mu.Unlock()

	go runner.pollSession(s)

	status := s.lockAndGetStatus()
	return &StartResult{ID: id, Pid: handle.Pid(), Status: &status}, nil
}

// pollSession is the cooperative drain loop: pull whatever the child has
// written, then check liveness, then sleep. It is the only goroutine that
// touches the session's handle and output stream.
func (runner *Runner) pollSession(s *session) {
	for {
		chunk, err := s.outStr.Read()
		if err != nil {
			runner.logger.Warn().Str("id", s.id).Err(err).Msg("output read failed")
		}
		if len(chunk) > 0 {
			s.out.Append(chunk)
			// Keep draining a busy pipe before looking at liveness.
			continue
		}

		running := s.handle.CheckRunning()
		if running && s.killRequested.Load() {
			if err := s.handle.Kill(); err != nil {
				runner.logger.Warn().Str("id", s.id).Err(err).Msg("kill failed")
			}
		}
		if !running {
			runner.finishSession(s)
			return
		}
		time.Sleep(runner.poll)
	}
}

func (runner *Runner) finishSession(s *session) {
	// Bytes written right before exit are still sitting in the pipe.
	for {
		chunk, err := s.outStr.Read()
		if err != nil || len(chunk) == 0 {
			break
		}
		s.out.Append(chunk)
	}
	code, ok := s.handle.ExitCode()

	// Publish the final status before the buffer closes: a consumer that
	// sees the output channel end must observe Stopped and the exit code on
	// its very next Status call.
	now := time.Now()
	s.mu.Lock()
	if ok {
		s.exitCode = &code
	}
	s.end = &now
	s.state = lib.ProcessStateStopped
	s.mu.Unlock()

	s.out.Close()
	_ = s.outStr.Close()

	s.inMu.Lock()
	_ = s.in.Close()
	s.inMu.Unlock()

	_ = s.handle.Close()

	ev := runner.logger.Debug().Str("id", s.id)
	if ok {
		ev = ev.Int("exit_code", code)
	}
	ev.Msg("process finished")
}
