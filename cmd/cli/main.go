package main

import (
	"fmt"
	"os"

	"github.com/streamexec/streamexec/pkg/lib"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, lib.FormatCallstack(1))
			os.Exit(2)
		}
	}()

	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(childExitCode)
}
