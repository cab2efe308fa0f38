// Package runner keeps a registry of spawned child processes and runs one
// cooperative poll loop per child: drain the non-blocking output stream into
// a replayable buffer, check liveness, sleep, repeat. It is the concurrent
// convenience layer on top of package spawn, which itself stays
// single-threaded.
package runner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/outbuf"
	"github.com/streamexec/streamexec/pkg/lib/spawn"
)

// DefaultPollInterval is how long a session poller sleeps between drains
// when the pipe was empty.
const DefaultPollInterval = 10 * time.Millisecond

// Runner manages processes started by this library.
type Runner struct {
	mu       sync.RWMutex
	sessions map[string]*session

	poll   time.Duration
	logger zerolog.Logger
}

// session is one spawned process plus everything the poller needs. The
// spawn.Handle and output stream are owned exclusively by the poller
// goroutine; the stdin stream is guarded by inMu; the status fields by mu.
type session struct {
	id      string
	command lib.Command

	handle *spawn.Handle
	outStr *spawn.Stream
	out    *outbuf.Buffer

	inMu sync.Mutex
	in   *spawn.Stream

	killRequested atomic.Bool

	mu       sync.RWMutex
	state    lib.ProcessState
	exitCode *int
	start    time.Time
	end      *time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithPollInterval overrides the poller sleep interval.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		sessions: make(map[string]*session),
		poll:     DefaultPollInterval,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (s *session) lockAndGetStatus() lib.ProcessStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := lib.ProcessStatus{State: s.state, StartTime: s.start}
	if s.exitCode != nil {
		st.ExitCode = new(int)
		*st.ExitCode = *s.exitCode
	}
	if s.end != nil {
		t := *s.end
		st.EndTime = &t
	}
	return st
}
