// Package encoding converts legacy console output to UTF-8. Console
// children on Windows frequently emit the OEM or ANSI codepage rather than
// UTF-8; this package wraps their captured output stream with a decoder.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported encoding names.
const (
	UTF8    = "utf8"
	CP1252  = "cp1252"
	CP866   = "cp866"
	UTF16LE = "utf16le"
	UTF16BE = "utf16be"
	Auto    = "auto"
)

// Resolve maps a user-facing encoding name to an x/text Encoding. A nil
// result with nil error means passthrough (the input is already UTF-8).
func Resolve(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case UTF8, "utf-8", "":
		return nil, nil
	case CP1252, "windows-1252", "latin1":
		return charmap.Windows1252, nil
	case CP866, "ibm866", "oem866":
		return charmap.CodePage866, nil
	case UTF16LE, "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case UTF16BE, "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %q (supported: utf8, cp1252, cp866, utf16le, utf16be, auto)", name)
	}
}

// NewReader wraps r so that reads yield UTF-8 regardless of the child's
// console encoding. With Auto, the first bytes are sniffed for a BOM and the
// stream is assumed UTF-8 when none is found.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	if strings.ToLower(strings.TrimSpace(name)) == Auto {
		return newBOMReader(r)
	}
	e, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return r, nil
	}
	return transform.NewReader(r, e.NewDecoder()), nil
}

// sniffBOM returns the encoding indicated by a leading byte-order mark, or
// nil when there is none (UTF-8 BOMs pass through untouched).
func sniffBOM(head []byte) encoding.Encoding {
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		return nil
	}
	if len(head) >= 2 {
		switch {
		case head[0] == 0xFF && head[1] == 0xFE:
			return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
		case head[0] == 0xFE && head[1] == 0xFF:
			return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
		}
	}
	return nil
}

func newBOMReader(r io.Reader) (io.Reader, error) {
	head := make([]byte, 3)
	n, err := io.ReadAtLeast(r, head, 2)
	if err != nil && err != io.ErrUnexpectedEOF {
		if n == 0 {
			return r, nil
		}
	}
	head = head[:n]

	combined := io.MultiReader(bytes.NewReader(head), r)
	if e := sniffBOM(head); e != nil {
		return transform.NewReader(combined, e.NewDecoder()), nil
	}
	return combined, nil
}

// ChunkReader adapts a chunk channel (as returned by runner.Output) to an
// io.Reader, so a decoder can run over the live stream.
type ChunkReader struct {
	ch  <-chan []byte
	buf []byte
}

func NewChunkReader(ch <-chan []byte) *ChunkReader {
	return &ChunkReader{ch: ch}
}

func (c *ChunkReader) Read(p []byte) (int, error) {
	for len(c.buf) == 0 {
		chunk, ok := <-c.ch
		if !ok {
			return 0, io.EOF
		}
		c.buf = chunk
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}
