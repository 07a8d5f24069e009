package core

// streaming.go prepares raw source bytes for the CSV parser.
//
//   - skipBOM: drops the UTF-8 BOM (0xEF 0xBB 0xBF) left by spreadsheet exports
//   - utf8Sanitizer: replaces invalid UTF-8 bytes with '?'
//   - countingReader: tracks bytes read for the load log line
//
// Use wrapSource to apply all transforms in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after the UTF-8 BOM, if there is one.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?' as data streams through.
// A multi-byte rune split across two reads is held back until it completes.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte // scratch space for one underlying read
	out     []byte // sanitized bytes not yet handed out
	pending []byte // incomplete rune carried to the next fill
	err     error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		r:       r,
		buf:     make([]byte, 4096),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads once from the underlying reader into out.
func (s *utf8Sanitizer) fill() {
	off := copy(s.buf, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(s.buf[off:])
	n += off
	s.err = err
	s.out = s.buf[:s.sanitize(s.buf[:n], err != nil)]
}

// sanitize rewrites buf in place and returns the number of bytes to hand out.
// Unless atEnd, an incomplete rune at the tail is moved to pending.
func (s *utf8Sanitizer) sanitize(buf []byte, atEnd bool) int {
	if !atEnd {
		if tail := partialRuneTail(buf); tail > 0 {
			s.pending = append(s.pending, buf[len(buf)-tail:]...)
			buf = buf[:len(buf)-tail]
		}
	}
	if utf8.Valid(buf) {
		return len(buf)
	}

	w := 0
	for r := 0; r < len(buf); {
		ru, size := utf8.DecodeRune(buf[r:])
		if ru == utf8.RuneError && size == 1 {
			buf[w] = '?'
			w++
			r++
			continue
		}
		w += copy(buf[w:], buf[r:r+size])
		r += size
	}
	return w
}

// partialRuneTail returns how many trailing bytes of buf start a multi-byte
// rune that is not complete yet.
func partialRuneTail(buf []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(buf); i++ {
		b := buf[len(buf)-i]
		if utf8.RuneStart(b) {
			if b >= 0xC0 && !utf8.FullRune(buf[len(buf)-i:]) {
				return i
			}
			return 0
		}
	}
	return 0
}

// countingReader tracks the number of bytes read through it.
type countingReader struct {
	r    io.Reader
	read int64
}

// Read implements io.Reader.
func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (c *countingReader) BytesRead() int64 {
	return c.read
}

// wrapSource applies BOM removal, then UTF-8 sanitization, then counting.
// The BOM must go first so the sanitizer never sees it split.
func wrapSource(r io.Reader) *countingReader {
	return &countingReader{r: newUTF8Sanitizer(skipBOM(r))}
}
