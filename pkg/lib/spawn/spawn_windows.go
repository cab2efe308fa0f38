//go:build windows

package spawn

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/streamexec/streamexec/pkg/lib"
	"github.com/streamexec/streamexec/pkg/lib/pipe"
)

// sysProcess is the Windows backend: the kernel handles for the spawned
// process and its initial thread.
type sysProcess struct {
	pid int
	tid int

	process windows.Handle
	thread  windows.Handle

	unbuffered bool
}

// CRT fd flags for the STARTUPINFO lpReserved2 block. FDEV makes the child's
// C runtime treat the inherited handle as a character device, which is what
// keeps its stdio unbuffered.
const (
	crtFOpen = 0x01 // FOPEN
	crtFDev  = 0x40 // FDEV
)

// crtStdioBlock builds the undocumented lpReserved2 payload the Microsoft C
// runtime reads at startup: an entry count, one flag byte per fd, then one
// HANDLE per fd. Flagging all three stdio fds FOPEN|FDEV tells the child's
// CRT to treat them as open device handles, so it skips its user-space
// stdio buffering and every write lands in the pipe immediately.
//
// This is undocumented OS behavior and only affects children linked against
// a Microsoft C runtime; other runtimes ignore the block entirely.
func crtStdioBlock(stdin, stdout windows.Handle) []byte {
	handles := []windows.Handle{stdin, stdout, stdout}
	n := len(handles)

	// The CRT reads native-width HANDLE slots: 8 bytes on amd64/arm64,
	// 4 on 386.
	hs := int(unsafe.Sizeof(windows.Handle(0)))
	buf := make([]byte, 4+n+n*hs)
	binary.LittleEndian.PutUint32(buf[0:], uint32(n))
	for i := 0; i < n; i++ {
		buf[4+i] = crtFOpen | crtFDev
	}
	off := 4 + n
	for i, h := range handles {
		v := uintptr(h)
		for j := 0; j < hs; j++ {
			buf[off+i*hs+j] = byte(v >> (8 * j))
		}
	}
	return buf
}

// startProcess launches the program via CreateProcess with the child-side
// pipe handles as its standard handles (stderr merged into stdout), a hidden
// window, and the CRT unbuffered-stdio block attached.
func startProcess(req Request, childIn, childOut pipe.Handle) (sysProcess, error) {
	cmdline := windows.ComposeCommandLine(append([]string{req.Command.Command}, req.Command.Args...))
	cmdlinePtr, err := windows.UTF16PtrFromString(cmdline)
	if err != nil {
		return sysProcess{}, err
	}

	var dirPtr *uint16
	if req.Dir != "" {
		dirPtr, err = windows.UTF16PtrFromString(req.Dir)
		if err != nil {
			return sysProcess{}, err
		}
	}

	si := &windows.StartupInfo{
		Flags:      windows.STARTF_USESTDHANDLES | windows.STARTF_USESHOWWINDOW,
		ShowWindow: windows.SW_HIDE,
		StdInput:   childIn,
		StdOutput:  childOut,
		StdErr:     childOut,
	}
	si.Cb = uint32(unsafe.Sizeof(*si))

	crt := crtStdioBlock(childIn, childOut)
	si.CbReserved2 = uint16(len(crt))
	si.Reserved2 = &crt[0]

	var pi windows.ProcessInformation
	err = windows.CreateProcess(
		nil, cmdlinePtr,
		nil, nil,
		true, // inherit handles: the child needs its pipe ends
		windows.CREATE_NO_WINDOW,
		nil, dirPtr, si, &pi,
	)
	runtime.KeepAlive(crt)
	if err != nil {
		return sysProcess{}, err
	}

	return sysProcess{
		pid:        int(pi.ProcessId),
		tid:        int(pi.ThreadId),
		process:    pi.Process,
		thread:     pi.Thread,
		unbuffered: true,
	}, nil
}

func (p sysProcess) unbufferedStdio() bool { return p.unbuffered }

// poll asks the kernel whether the process object is signaled, with a zero
// timeout. Checking the wait state first avoids misreading a child that
// exits with code 259 (STILL_ACTIVE) as running forever.
func (p sysProcess) poll() (code int, exited bool) {
	ev, err := windows.WaitForSingleObject(p.process, 0)
	if err != nil || ev != windows.WAIT_OBJECT_0 {
		return 0, false
	}
	var ec uint32
	if err := windows.GetExitCodeProcess(p.process, &ec); err != nil {
		return 0, false
	}
	return int(ec), true
}

func (p sysProcess) kill() error {
	return windows.TerminateProcess(p.process, 1)
}

func (p sysProcess) release() error {
	err := windows.CloseHandle(p.process)
	if err2 := windows.CloseHandle(p.thread); err == nil {
		err = err2
	}
	return err
}

// readAvailable peeks at the pipe and drains exactly what is there. Both an
// empty pipe and a broken (EOF) pipe come back as an empty result.
func readAvailable(h pipe.Handle) ([]byte, error) {
	var avail uint32
	if err := windows.PeekNamedPipe(h, nil, 0, nil, &avail, nil); err != nil {
		if errors.Is(err, windows.ERROR_BROKEN_PIPE) {
			return nil, nil
		}
		return nil, err
	}
	if avail == 0 {
		return nil, nil
	}

	buf := make([]byte, avail)
	var done uint32
	if err := windows.ReadFile(h, buf, &done, nil); err != nil {
		if errors.Is(err, windows.ERROR_NO_DATA) || errors.Is(err, windows.ERROR_BROKEN_PIPE) {
			return nil, nil
		}
		return nil, err
	}
	return buf[:done], nil
}

func writeAll(h pipe.Handle, p []byte) (int, error) {
	written := 0
	for written < len(p) {
		var done uint32
		err := windows.WriteFile(h, p[written:], &done, nil)
		if err != nil {
			if errors.Is(err, windows.ERROR_NO_DATA) || errors.Is(err, windows.ERROR_BROKEN_PIPE) {
				return written, fmt.Errorf("%w: %v", lib.ErrBrokenPipe, err)
			}
			return written, err
		}
		written += int(done)
	}
	return written, nil
}

func closeHandle(h pipe.Handle) error {
	return windows.CloseHandle(h)
}
