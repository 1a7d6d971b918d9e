package fastjson

import (
	"math"
	"strconv"
	"sync"
)

// Serialize renders the document as compact or two-space indented text.
// All numeric tiers round-trip with full precision: the 128-bit tiers are
// written as exact decimal text, doubles with the shortest representation
// that parses back to the same value.
func Serialize(doc *Document, pretty bool) string {
	return SerializeValue(doc.Root(), pretty)
}

// SerializeValue renders a single value subtree.
func SerializeValue(v *Value, pretty bool) string {
	s := newSerializer()
	defer s.release()
	s.appendValue(v, pretty, 0)
	return string(s.buf)
}

type serializer struct {
	buf []byte
}

var serializerPool = sync.Pool{
	New: func() any {
		return &serializer{buf: make([]byte, 0, 4096)}
	},
}

func newSerializer() *serializer {
	s := serializerPool.Get().(*serializer)
	s.buf = s.buf[:0]
	return s
}

func (s *serializer) release() {
	if cap(s.buf) > 1<<20 {
		s.buf = make([]byte, 0, 4096)
	}
	serializerPool.Put(s)
}

func (s *serializer) indent(depth int) {
	s.buf = append(s.buf, '\n')
	for i := 0; i < depth; i++ {
		s.buf = append(s.buf, ' ', ' ')
	}
}

func (s *serializer) appendValue(v *Value, pretty bool, depth int) {
	if v == nil {
		s.buf = append(s.buf, "null"...)
		return
	}
	switch v.kind {
	case KindNull:
		s.buf = append(s.buf, "null"...)
	case KindBool:
		if v.b {
			s.buf = append(s.buf, "true"...)
		} else {
			s.buf = append(s.buf, "false"...)
		}
	case KindInt64:
		if v.unsigned {
			s.buf = strconv.AppendUint(s.buf, v.u64, 10)
		} else {
			s.buf = strconv.AppendInt(s.buf, v.i64, 10)
		}
	case KindDouble:
		s.appendDouble(v.f64)
	case KindInt128:
		s.buf = v.big.Append(s.buf, 10)
	case KindFloat128:
		// Minimal digits that uniquely recover the value at its
		// precision, so parse(serialize(x)) == x holds for the wide tier.
		start := len(s.buf)
		s.buf = v.bigf.Append(s.buf, 'g', -1)
		s.ensureFloatForm(start)
	case KindString:
		s.appendString(v.str)
	case KindArray:
		s.buf = append(s.buf, '[')
		for i, e := range v.arr {
			if i > 0 {
				s.buf = append(s.buf, ',')
			}
			if pretty {
				s.indent(depth + 1)
			}
			s.appendValue(e, pretty, depth+1)
		}
		if pretty && len(v.arr) > 0 {
			s.indent(depth)
		}
		s.buf = append(s.buf, ']')
	case KindObject:
		s.buf = append(s.buf, '{')
		for i := range v.obj.members {
			m := &v.obj.members[i]
			if i > 0 {
				s.buf = append(s.buf, ',')
			}
			if pretty {
				s.indent(depth + 1)
			}
			s.appendString(m.Key)
			s.buf = append(s.buf, ':')
			if pretty {
				s.buf = append(s.buf, ' ')
			}
			s.appendValue(m.Value, pretty, depth+1)
		}
		if pretty && len(v.obj.members) > 0 {
			s.indent(depth)
		}
		s.buf = append(s.buf, '}')
	}
}

func (s *serializer) appendDouble(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// Not representable in the format; parsing can never produce
		// these, so this only guards hand-built values.
		s.buf = append(s.buf, "null"...)
		return
	}
	start := len(s.buf)
	s.buf = strconv.AppendFloat(s.buf, f, 'g', -1, 64)
	s.ensureFloatForm(start)
}

// ensureFloatForm appends ".0" when the shortest 'g' rendering of an
// integral value carries neither a decimal point nor an exponent. Bare
// integer text would reparse into the integer tiers.
func (s *serializer) ensureFloatForm(start int) {
	for _, c := range s.buf[start:] {
		if c == '.' || c == 'e' || c == 'E' {
			return
		}
	}
	s.buf = append(s.buf, '.', '0')
}

func (s *serializer) appendString(str string) {
	s.buf = append(s.buf, '"')
	if !needsEscape(str) {
		s.buf = append(s.buf, str...)
		s.buf = append(s.buf, '"')
		return
	}
	s.buf = appendEscaped(s.buf, str)
	s.buf = append(s.buf, '"')
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c == '"' || c == '\\' {
			return true
		}
	}
	return false
}

const hexDigits = "0123456789abcdef"

func appendEscaped(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			} else {
				dst = append(dst, c)
			}
		}
	}
	return dst
}
