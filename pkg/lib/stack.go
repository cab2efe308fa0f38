package lib

import (
	"fmt"
	"runtime"
	"strings"
)

// FormatCallstack renders the calling goroutine's stack as one line per
// frame, "func (file:line)", skipping the given number of frames on top of
// the FormatCallstack frame itself. Used for crash reporting in the CLI.
func FormatCallstack(skip int) string {
	pc := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s (%s:%d)\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}
