package dataset

// streaming.go provides the readers every CSV source is wrapped in before
// parsing. None of them buffer more than a small window of the input:
//
//   - limitReader: fails with ErrTooLarge once a size cap is exceeded
//   - bomReader: drops a leading UTF-8 byte order mark
//   - utf8Sanitizer: replaces invalid UTF-8 with U+FFFD
//
// wrapInput applies them in that order.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrTooLarge is returned when a source exceeds its size cap.
var ErrTooLarge = errors.New("source too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// wrapInput applies the size cap (if positive), BOM removal and UTF-8
// sanitizing to r.
func wrapInput(r io.Reader, maxBytes int64) io.Reader {
	if maxBytes > 0 {
		r = &limitReader{r: r, remaining: maxBytes, limit: maxBytes}
	}
	return newUTF8Sanitizer(newBOMReader(r))
}

// limitReader is io.LimitReader that reports overflow instead of a silent EOF.
type limitReader struct {
	r         io.Reader
	remaining int64
	limit     int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.limit)
	}
	// Read one byte past the cap so an input of exactly limit bytes passes.
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n + int(l.remaining), fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.limit)
	}
	return n, err
}

// newBOMReader returns a reader with any leading UTF-8 BOM removed.
// Excel on Windows writes one at the start of exported CSVs.
func newBOMReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer replaces invalid UTF-8 sequences with U+FFFD on the fly.
// A multi-byte rune split across two reads of the underlying reader is held
// back until the rest of it arrives.
type utf8Sanitizer struct {
	r    io.Reader
	raw  []byte // bytes read but not yet decoded
	out  []byte // decoded bytes not yet returned
	pos  int
	err  error
	next [4096]byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for s.pos == len(s.out) {
		if s.err != nil {
			return 0, s.err
		}
		s.out, s.pos = s.out[:0], 0
		n, err := s.r.Read(s.next[:])
		s.raw = append(s.raw, s.next[:n]...)
		s.err = err
		s.decode(err != nil)
	}
	n := copy(p, s.out[s.pos:])
	s.pos += n
	return n, nil
}

// decode moves complete runes from raw to out. When final is set, a
// truncated trailing sequence is flushed as a replacement character.
func (s *utf8Sanitizer) decode(final bool) {
	i := 0
	for i < len(s.raw) {
		b := s.raw[i]
		if b < utf8.RuneSelf {
			s.out = append(s.out, b)
			i++
			continue
		}
		if !final && !utf8.FullRune(s.raw[i:]) {
			break
		}
		r, size := utf8.DecodeRune(s.raw[i:])
		if r == utf8.RuneError && size == 1 {
			s.out = utf8.AppendRune(s.out, utf8.RuneError)
		} else {
			s.out = append(s.out, s.raw[i:i+size]...)
		}
		i += size
	}
	s.raw = append(s.raw[:0], s.raw[i:]...)
}
