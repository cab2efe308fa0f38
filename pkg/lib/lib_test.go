package lib

import (
	"errors"
	"strings"
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if len(a) != 36 {
		t.Fatalf("expected canonical UUID form, got %q", a)
	}
}

func TestLaunchErrorWrapping(t *testing.T) {
	inner := errors.New("no such file")
	err := &LaunchError{Command: "frobnicate", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected LaunchError to wrap the OS error")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("expected message to carry the command, got %q", err.Error())
	}
}

func TestResourceErrorWrapping(t *testing.T) {
	inner := errors.New("too many open files")
	err := &ResourceError{Op: "create pipe", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected ResourceError to wrap the OS error")
	}
	if !strings.Contains(err.Error(), "create pipe") {
		t.Fatalf("expected message to carry the operation, got %q", err.Error())
	}
}

func TestFormatCallstack(t *testing.T) {
	out := FormatCallstack(0)
	if !strings.Contains(out, "TestFormatCallstack") {
		t.Fatalf("expected the test frame in the stack, got:\n%s", out)
	}
	if !strings.Contains(out, ".go:") {
		t.Fatalf("expected file:line positions, got:\n%s", out)
	}
}
