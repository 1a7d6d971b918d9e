// Package scanner locates token boundaries in a byte buffer without
// building tree nodes: whitespace runs, string spans, number spans and
// structural characters. The scalar kernel and the word-blocked kernels
// are interchangeable; boundary positions are a pure function of the
// bytes regardless of the selected width.
package scanner

import (
	"fmt"
)

// SpanError reports a malformed or truncated span. Offset is absolute in
// the scanned buffer. Truncated distinguishes running off the end of the
// input from an invalid byte.
type SpanError struct {
	Offset    int
	Truncated bool
	Msg       string
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

// Scanner scans one immutable byte buffer. It is cheap to construct; the
// parallel engine creates one per worker over the shared input. The zero
// value is not usable, use New.
type Scanner struct {
	buf  []byte
	kern Kernel
}

// New returns a scanner over buf using the process-wide active kernel.
func New(buf []byte) *Scanner {
	return &Scanner{buf: buf, kern: Active()}
}

// NewWithKernel pins a specific kernel. The scalar kernel serves the
// simd-disabled path; tests use this to prove width independence.
func NewWithKernel(buf []byte, k Kernel) *Scanner {
	if k.Width < 1 {
		k = Scalar()
	}
	return &Scanner{buf: buf, kern: k}
}

// Kernel reports the kernel this scanner runs on.
func (s *Scanner) Kernel() Kernel { return s.kern }

// Rebind points the scanner at a different buffer, keeping its kernel.
// The chunk engine uses this to re-window one scanner across member
// ranges of the shared input.
func (s *Scanner) Rebind(buf []byte) {
	s.buf = buf
}

// Len reports the buffer length.
func (s *Scanner) Len() int { return len(s.buf) }

// SkipWhitespace advances past space, tab, newline and carriage return,
// returning the position of the first other byte or len(buf).
func (s *Scanner) SkipWhitespace(pos int) int {
	buf := s.buf
	i := pos
	if w := s.kern.Width; w >= 8 {
		for i+w <= len(buf) {
			hit := -1
			for j := 0; j < w; j += 8 {
				x := le64(buf[i+j:])
				if m := ^whitespaceMask(x) & msbMask; m != 0 {
					hit = i + j + firstSet(m)
					break
				}
			}
			if hit >= 0 {
				return hit
			}
			i += w
		}
	}
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// NextStructural returns the position and value of the next structural
// character or quote at or after pos. ok is false when none remains.
func (s *Scanner) NextStructural(pos int) (int, byte, bool) {
	buf := s.buf
	i := pos
	if w := s.kern.Width; w >= 8 {
		for i+w <= len(buf) {
			hit := -1
			for j := 0; j < w; j += 8 {
				x := le64(buf[i+j:])
				if m := structuralMask(x); m != 0 {
					hit = i + j + firstSet(m)
					break
				}
			}
			if hit >= 0 {
				return hit, buf[hit], true
			}
			i += w
		}
	}
	for ; i < len(buf); i++ {
		if charClass[buf[i]]&classStructural != 0 {
			return i, buf[i], true
		}
	}
	return len(buf), 0, false
}

// ScanStringSpan scans a string body starting at pos, the byte after the
// opening quote. It returns the position of the closing quote and whether
// any backslash escape was seen. Escape sequences are skipped, not
// decoded; UTF-8 well-formedness of the raw bytes is checked inline. An
// unescaped control byte or truncated input stops the scan early.
func (s *Scanner) ScanStringSpan(pos int) (int, bool, *SpanError) {
	buf := s.buf
	escaped := false
	i := pos
	for {
		// Bulk-skip plain ASCII. Any quote, backslash, control byte or
		// non-ASCII byte drops to the byte loop below.
		if w := s.kern.Width; w >= 8 {
		bulk:
			for i+w <= len(buf) {
				for j := 0; j < w; j += 8 {
					x := le64(buf[i+j:])
					if m := stringSpecialMask(x); m != 0 {
						i += j + firstSet(m)
						break bulk
					}
				}
				i += w
			}
		}
		if i >= len(buf) {
			return 0, false, &SpanError{Offset: len(buf), Truncated: true, Msg: "unterminated string"}
		}
		c := buf[i]
		switch {
		case c == '"':
			return i, escaped, nil
		case c == '\\':
			escaped = true
			if i+1 >= len(buf) {
				return 0, false, &SpanError{Offset: len(buf), Truncated: true, Msg: "unterminated string"}
			}
			i += 2
		case c < 0x20:
			return 0, false, &SpanError{Offset: i, Msg: "unescaped control character in string"}
		case c < 0x80:
			i++
		default:
			size := validUTF8At(buf, i)
			if size == 0 {
				return 0, false, &SpanError{Offset: i, Msg: "invalid UTF-8 sequence in string"}
			}
			i += size
		}
	}
}

// ScanNumberSpan advances over the characters a numeric literal may
// contain (sign, digits, decimal point, exponent) and returns the first
// position past the span. Grammar validation is the number parser's job.
func (s *Scanner) ScanNumberSpan(pos int) int {
	buf := s.buf
	i := pos
	if w := s.kern.Width; w >= 8 {
		for i+w <= len(buf) {
			hit := -1
			for j := 0; j < w; j += 8 {
				x := le64(buf[i+j:])
				if m := ^numberMask(x) & msbMask; m != 0 {
					hit = i + j + firstSet(m)
					break
				}
			}
			if hit >= 0 {
				return hit
			}
			i += w
		}
	}
	for ; i < len(buf); i++ {
		if charClass[buf[i]]&classNumber == 0 {
			return i
		}
	}
	return i
}

// ValidUTF8At reports the byte length of the UTF-8 sequence starting at
// pos, or 0 when the sequence is malformed (bad continuation byte,
// overlong encoding, surrogate code point or value above U+10FFFF).
func ValidUTF8At(buf []byte, pos int) int {
	return validUTF8At(buf, pos)
}

func validUTF8At(buf []byte, i int) int {
	c0 := buf[i]
	switch {
	case c0 < 0x80:
		return 1
	case c0 < 0xC2:
		// 0x80..0xBF are stray continuations, 0xC0/0xC1 always overlong.
		return 0
	case c0 < 0xE0:
		if i+1 >= len(buf) || !isCont(buf[i+1]) {
			return 0
		}
		return 2
	case c0 < 0xF0:
		if i+2 >= len(buf) || !isCont(buf[i+1]) || !isCont(buf[i+2]) {
			return 0
		}
		// Overlong (E0 80..9F) and surrogates (ED A0..BF).
		if c0 == 0xE0 && buf[i+1] < 0xA0 {
			return 0
		}
		if c0 == 0xED && buf[i+1] >= 0xA0 {
			return 0
		}
		return 3
	case c0 < 0xF5:
		if i+3 >= len(buf) || !isCont(buf[i+1]) || !isCont(buf[i+2]) || !isCont(buf[i+3]) {
			return 0
		}
		// Overlong (F0 80..8F) and beyond U+10FFFF (F4 90..).
		if c0 == 0xF0 && buf[i+1] < 0x90 {
			return 0
		}
		if c0 == 0xF4 && buf[i+1] >= 0x90 {
			return 0
		}
		return 4
	default:
		return 0
	}
}

func isCont(c byte) bool {
	return c&0xC0 == 0x80
}
