package fastjson

import (
	"fmt"
)

// ErrorCode classifies parse and access failures.
type ErrorCode int

const (
	// InvalidCharacter marks a byte that cannot start or continue a token.
	InvalidCharacter ErrorCode = iota
	// InvalidString marks a malformed string: bad escape, unescaped
	// control character or ill-formed UTF-8.
	InvalidString
	// InvalidNumber marks a numeric literal that violates the grammar.
	InvalidNumber
	// UnexpectedEndOfInput marks input that stops mid-token or mid-value.
	UnexpectedEndOfInput
	// MaxDepthExceeded marks nesting past ParseOptions.MaxNestingDepth.
	MaxDepthExceeded
	// OutOfMemory marks an allocation the configured budget cannot satisfy.
	OutOfMemory
	// NotFound marks an array index out of range or a missing object key.
	NotFound
)

var errorCodeNames = map[ErrorCode]string{
	InvalidCharacter:     "invalid character",
	InvalidString:        "invalid string",
	InvalidNumber:        "invalid number",
	UnexpectedEndOfInput: "unexpected end of input",
	MaxDepthExceeded:     "maximum nesting depth exceeded",
	OutOfMemory:          "out of memory",
	NotFound:             "not found",
}

func (c ErrorCode) String() string {
	if s, ok := errorCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("error(%d)", int(c))
}

// Error carries the failure class, a human-readable message, the absolute
// byte offset, and the line and column derived from it. Immutable once
// constructed.
type Error struct {
	Code    ErrorCode
	Message string
	Offset  int
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s at offset %d (line %d, column %d)",
		e.Code, e.Message, e.Offset, e.Line, e.Column)
}

// newError derives line and column by counting newlines up to offset.
// Errors are rare enough that the linear walk costs nothing in practice.
func newError(buf []byte, code ErrorCode, offset int, msg string) *Error {
	if offset > len(buf) {
		offset = len(buf)
	}
	line, col := 1, 1
	for _, c := range buf[:offset] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &Error{Code: code, Message: msg, Offset: offset, Line: line, Column: col}
}
