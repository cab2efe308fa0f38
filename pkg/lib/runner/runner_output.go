package runner

// Output subscribes to the process's merged stdout+stderr stream: full
// replay of everything captured so far, then live follow. The channel closes
// once the process has exited and the backlog is drained. A caller that
// abandons the channel before it closes must call cancel to release the
// subscription; calling cancel after a full drain is a no-op.
func (runner *Runner) Output(id string) (<-chan []byte, func(), error) {
	s, err := runner.getSession(id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.out.Subscribe(5)
	return ch, cancel, nil
}
