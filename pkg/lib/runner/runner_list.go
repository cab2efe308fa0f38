package runner

import "sort"

type ListResult struct {
	ID     string
	Result *StatusResult
}

// List returns the status of every session the runner knows about, running
// and stopped alike, ordered by start time (identifier breaks ties).
func (runner *Runner) List() []*ListResult {
	runner.mu.RLock()
	sessions := make([]*session, 0, len(runner.sessions))
	for _, s := range runner.sessions {
		sessions = append(sessions, s)
	}
	runner.mu.RUnlock()

	results := make([]*ListResult, 0, len(sessions))
	for _, s := range sessions {
		status := s.lockAndGetStatus()
		results = append(results, &ListResult{
			ID:     s.id,
			Result: &StatusResult{Command: &s.command, Status: &status},
		})
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !a.Result.Status.StartTime.Equal(b.Result.Status.StartTime) {
			return a.Result.Status.StartTime.Before(b.Result.Status.StartTime)
		}
		return a.ID < b.ID
	})
	return results
}
