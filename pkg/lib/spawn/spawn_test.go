//go:build !windows

package spawn

import (
	"errors"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/streamexec/streamexec/pkg/lib"
)

// drainUntilExit polls the output stream and the handle the way a real
// caller does: read whatever is there, check liveness, sleep, repeat. It
// returns everything the child wrote.
func drainUntilExit(t *testing.T, h *Handle, out *Stream) []byte {
	t.Helper()
	var all []byte
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		chunk, err := out.Read()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		all = append(all, chunk...)
		if !h.CheckRunning() {
			// One final drain for bytes written right before exit.
			for {
				chunk, err := out.Read()
				if err != nil {
					t.Fatalf("Read failed: %v", err)
				}
				if len(chunk) == 0 {
					return all
				}
				all = append(all, chunk...)
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("process did not exit in time")
	return nil
}

func TestExecStreamsOutput(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "sh", Args: []string{"-c", "printf 'hello\\n'"}}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer in.Close()
	defer out.Close()

	if !h.CheckRunning() {
		// Fast children may already be gone; that is fine as long as the
		// exit code shows up below.
		t.Logf("child exited before first poll")
	}
	if !out.NonBlocking() {
		t.Fatalf("expected output stream to be non-blocking")
	}

	got := drainUntilExit(t, h, out)
	if string(got) != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", got)
	}
	code, ok := h.ExitCode()
	if !ok || code != 0 {
		t.Fatalf("expected exit code 0, got %d (ok=%v)", code, ok)
	}
}

func TestExecMergesStderrInWriteOrder(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "sh", Args: []string{"-c", "printf one; printf two 1>&2; printf three"}}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer in.Close()
	defer out.Close()

	got := drainUntilExit(t, h, out)
	if string(got) != "onetwothree" {
		t.Fatalf("expected merged output in write order, got %q", got)
	}
}

func TestWriteReachesChildStdin(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "cat"}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer out.Close()

	if _, err := in.Write([]byte("ping")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var got []byte
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && string(got) != "ping" {
		chunk, err := out.Read()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		got = append(got, chunk...)
		time.Sleep(5 * time.Millisecond)
	}
	if string(got) != "ping" {
		t.Fatalf("expected %q echoed back, got %q", "ping", got)
	}

	// Closing stdin ends cat.
	if err := in.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	deadline = time.Now().Add(5 * time.Second)
	for h.CheckRunning() {
		if !time.Now().Before(deadline) {
			t.Fatalf("child did not exit after stdin close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLaunchErrorPreservesCommand(t *testing.T) {
	_, _, _, err := Exec(Request{Command: lib.Command{Command: "definitely-not-a-real-binary-12345"}})
	if err == nil {
		t.Fatalf("expected launch failure")
	}
	var le *lib.LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected LaunchError, got %T: %v", err, err)
	}
	if le.Command != "definitely-not-a-real-binary-12345" {
		t.Fatalf("LaunchError lost the command: %q", le.Command)
	}
}

func TestEmptyCommandRejected(t *testing.T) {
	_, _, _, err := Exec(Request{})
	if err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestSilentChildReadsEmpty(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "true"}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer in.Close()
	defer out.Close()

	got := drainUntilExit(t, h, out)
	if len(got) != 0 {
		t.Fatalf("expected no output, got %q", got)
	}
	if code, ok := h.ExitCode(); !ok || code != 0 {
		t.Fatalf("expected exit code 0, got %d (ok=%v)", code, ok)
	}
}

func TestExitCodePropagates(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "sh", Args: []string{"-c", "exit 7"}}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer in.Close()
	defer out.Close()

	drainUntilExit(t, h, out)
	if code, ok := h.ExitCode(); !ok || code != 7 {
		t.Fatalf("expected exit code 7, got %d (ok=%v)", code, ok)
	}
}

func TestCloseDoesNotKillChild(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "sleep", Args: []string{"5"}}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	pid := h.Pid()

	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close must be a no-op: %v", err)
	}
	in.Close()
	out.Close()
	out.Close()

	// Signal 0 probes existence without delivering anything.
	if err := unix.Kill(pid, 0); err != nil {
		t.Fatalf("child died after Close: %v", err)
	}
	_ = unix.Kill(pid, unix.SIGKILL)
	// Reap so the zombie does not outlive the test.
	var ws unix.WaitStatus
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if wpid, _ := unix.Wait4(pid, &ws, unix.WNOHANG, nil); wpid == pid {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestKillStopsChild(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "sleep", Args: []string{"30"}}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer in.Close()
	defer out.Close()

	if err := h.Kill(); err != nil {
		t.Fatalf("Kill failed: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for h.CheckRunning() {
		if !time.Now().Before(deadline) {
			t.Fatalf("child still running after Kill")
		}
		time.Sleep(5 * time.Millisecond)
	}
	code, ok := h.ExitCode()
	if !ok {
		t.Fatalf("expected exit code after Kill")
	}
	if code != 128+int(unix.SIGKILL) {
		t.Fatalf("expected SIGKILL exit mapping, got %d", code)
	}
}

// openHandleCount counts this process's open descriptors. The enumeration
// holds one descriptor of its own while it runs, which cancels out across a
// before/after comparison.
func openHandleCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/dev/fd")
	if err != nil {
		t.Skipf("cannot enumerate descriptors: %v", err)
	}
	return len(entries)
}

func TestExecLeaksNoHandles(t *testing.T) {
	before := openHandleCount(t)

	// Failure path: every pipe handle created during setup is torn down
	// before the error returns.
	if _, _, _, err := Exec(Request{Command: lib.Command{Command: "definitely-not-a-real-binary-12345"}}); err == nil {
		t.Fatalf("expected launch failure")
	}
	if got := openHandleCount(t); got != before {
		t.Fatalf("failed launch leaked descriptors: %d before, %d after", before, got)
	}

	// Success path: once the caller closes what Exec handed over, nothing
	// is left behind.
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "true"}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	drainUntilExit(t, h, out)
	if err := in.Close(); err != nil {
		t.Fatalf("stdin Close failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("stdout Close failed: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("handle Close failed: %v", err)
	}
	if got := openHandleCount(t); got != before {
		t.Fatalf("completed launch leaked descriptors: %d before, %d after", before, got)
	}
}

func TestWriteToExitedChildBreaksPipe(t *testing.T) {
	h, in, out, err := Exec(Request{Command: lib.Command{Command: "true"}})
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	defer h.Close()
	defer in.Close()
	defer out.Close()

	drainUntilExit(t, h, out)

	// The pipe buffer may absorb a first write after exit; keep pushing
	// until the kernel reports the missing reader.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := in.Write([]byte("anyone there?")); err != nil {
			if !errors.Is(err, lib.ErrBrokenPipe) {
				t.Fatalf("expected ErrBrokenPipe, got %v", err)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("writes to an exited child never failed")
}
