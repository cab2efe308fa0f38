package encoding

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestResolveNames(t *testing.T) {
	cases := []struct {
		name    string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"utf8", true, false},
		{"UTF-8", true, false},
		{"cp1252", false, false},
		{"latin1", false, false},
		{"cp866", false, false},
		{"utf16le", false, false},
		{"utf16be", false, false},
		{"klingon", false, true},
	}
	for _, tc := range cases {
		e, err := Resolve(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q): expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error %v", tc.name, err)
			continue
		}
		if (e == nil) != tc.wantNil {
			t.Errorf("Resolve(%q): nil=%v, want nil=%v", tc.name, e == nil, tc.wantNil)
		}
	}
}

func TestDecodeCP1252(t *testing.T) {
	// "café" with é as 0xE9.
	in := []byte{'c', 'a', 'f', 0xE9}
	r, err := NewReader(bytes.NewReader(in), CP1252)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "café" {
		t.Fatalf("expected %q, got %q", "café", got)
	}
}

func TestDecodeUTF16LE(t *testing.T) {
	in := []byte{'h', 0, 'i', 0}
	r, err := NewReader(bytes.NewReader(in), UTF16LE)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
}

func TestAutoDetectsUTF16BOM(t *testing.T) {
	in := []byte{0xFF, 0xFE, 'o', 0, 'k', 0}
	r, err := NewReader(bytes.NewReader(in), Auto)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "ok" {
		t.Fatalf("expected %q, got %q", "ok", got)
	}
}

func TestAutoPassesThroughPlainUTF8(t *testing.T) {
	r, err := NewReader(strings.NewReader("plain"), Auto)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "plain" {
		t.Fatalf("expected %q, got %q", "plain", got)
	}
}

func TestChunkReader(t *testing.T) {
	ch := make(chan []byte, 3)
	ch <- []byte("ab")
	ch <- []byte("")
	ch <- []byte("cdef")
	close(ch)

	got, err := io.ReadAll(NewChunkReader(ch))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "abcdef" {
		t.Fatalf("expected %q, got %q", "abcdef", got)
	}
}
