//go:build !windows

package spawn

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/pipe"
)

// sysProcess is the POSIX backend. A child here is identified by its pid
// alone; there is no separate kernel handle to hold or release.
type sysProcess struct {
	pid int
	tid int
}

// startProcess forks and execs the requested program with fd 0 wired to
// childIn and fds 1 and 2 both wired to childOut. The child is put into its
// own process group so Kill can take the whole group down.
//
// There is no POSIX counterpart of the unbuffered-stdio hint: a child whose
// stdio is a pipe decides its own buffering. unbufferedStdio therefore
// reports false on this backend.
func startProcess(req Request, childIn, childOut pipe.Handle) (sysProcess, error) {
	path, err := exec.LookPath(req.Command.Command)
	if err != nil {
		return sysProcess{}, err
	}

	argv := append([]string{req.Command.Command}, req.Command.Args...)
	attr := &syscall.ProcAttr{
		Dir: req.Dir,
		Env: os.Environ(),
		// fork/exec duplicates these into the child as fds 0..2; stderr is
		// deliberately the same pipe as stdout.
		Files: []uintptr{uintptr(childIn), uintptr(childOut), uintptr(childOut)},
		Sys: &syscall.SysProcAttr{
			// New process group to manage children as a unit
			Setpgid: true,
		},
	}

	pid, err := syscall.ForkExec(path, argv, attr)
	if err != nil {
		return sysProcess{}, err
	}
	return sysProcess{pid: pid, tid: pid}, nil
}

func (p sysProcess) unbufferedStdio() bool { return false }

// poll reaps the child if it has terminated, without blocking. exited is
// false while the OS still reports the process as active.
func (p sysProcess) poll() (code int, exited bool) {
	var ws unix.WaitStatus
	wpid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG, nil)
	if err != nil || wpid == 0 {
		// EINTR and "not exited yet" both mean: still running as far as we
		// can tell; try again on the next poll.
		return 0, false
	}
	switch {
	case ws.Exited():
		return ws.ExitStatus(), true
	case ws.Signaled():
		return 128 + int(ws.Signal()), true
	default:
		// Stopped/continued; the child is still alive.
		return 0, false
	}
}

func (p sysProcess) kill() error {
	// Negative pid addresses the process group set up at launch.
	if err := unix.Kill(-p.pid, unix.SIGKILL); err == nil {
		return nil
	}
	return unix.Kill(p.pid, unix.SIGKILL)
}

func (p sysProcess) release() error {
	// Nothing to release: pids are not handles on POSIX.
	return nil
}

// readAvailable drains whatever the pipe holds right now. It sizes the read
// from the FIONREAD-style ioctl so a single call picks up the full backlog,
// and maps both "nothing yet" (EAGAIN) and EOF to an empty result.
func readAvailable(h pipe.Handle) ([]byte, error) {
	n, err := unix.IoctlGetInt(h, ioctlReadCount)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		// Either empty or at EOF; a 1-byte read tells the two apart without
		// ever blocking on a non-blocking descriptor.
		n = 1
	}

	buf := make([]byte, n)
	for {
		got, err := unix.Read(h, buf)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EAGAIN) {
				return nil, nil
			}
			return nil, err
		}
		if got == 0 {
			// EOF: the child closed its end. Indistinguishable from "no
			// data" by design; the caller consults CheckRunning.
			return nil, nil
		}
		return buf[:got], nil
	}
}

func writeAll(h pipe.Handle, p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(h, p[written:])
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EPIPE) {
				return written, fmt.Errorf("%w: %v", lib.ErrBrokenPipe, err)
			}
			return written, err
		}
		written += n
	}
	return written, nil
}

func closeHandle(h pipe.Handle) error {
	return unix.Close(h)
}
