package scanner

// Character classes for the scalar kernel. One 256-entry table keeps the
// byte loop branch-light and mirrors what the wide kernels compute with
// lane masks.
const (
	classStructural uint8 = 1 << 0 // { } [ ] : , "
	classWhitespace uint8 = 1 << 1 // space, tab, newline, carriage return
	classNumber     uint8 = 1 << 2 // 0-9 . + - e E
	classDigit      uint8 = 1 << 3 // 0-9
)

var charClass = buildCharClass()

func buildCharClass() [256]uint8 {
	var t [256]uint8
	for _, c := range []byte("{}[]:,\"") {
		t[c] |= classStructural
	}
	for _, c := range []byte(" \t\n\r") {
		t[c] |= classWhitespace
	}
	for c := byte('0'); c <= '9'; c++ {
		t[c] |= classNumber | classDigit
	}
	for _, c := range []byte(".+-eE") {
		t[c] |= classNumber
	}
	return t
}

// IsWhitespace reports whether c is one of the format's whitespace bytes.
func IsWhitespace(c byte) bool {
	return charClass[c]&classWhitespace != 0
}

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c byte) bool {
	return charClass[c]&classDigit != 0
}
