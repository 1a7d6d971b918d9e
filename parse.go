package fastjson

import (
	"unsafe"

	"github.com/fastjsonwest/fastjson-go/internal/arena"
	"github.com/fastjsonwest/fastjson-go/internal/number"
	"github.com/fastjsonwest/fastjson-go/internal/scanner"
)

// treeParser builds one parse unit: the whole document on the sequential
// path, one chunk of top-level members on the parallel path. Each parser
// owns its arena and node slab exclusively; the input buffer is shared
// and read-only.
type treeParser struct {
	buf      []byte
	sc       *scanner.Scanner
	mem      *arena.Arena
	nodes    *arena.Slab[Value]
	maxDepth int
	pos      int
}

const valueNodeSize = int(unsafe.Sizeof(Value{}))

func newTreeParser(buf []byte, kern scanner.Kernel, budget *arena.Budget, maxDepth int) *treeParser {
	return &treeParser{
		buf:      buf,
		sc:       scanner.NewWithKernel(buf, kern),
		mem:      arena.New(budget),
		nodes:    arena.NewSlab[Value](valueNodeSize, budget),
		maxDepth: maxDepth,
	}
}

func (p *treeParser) newValue() (*Value, *Error) {
	v, err := p.nodes.New()
	if err != nil {
		return nil, newError(p.buf, OutOfMemory, p.pos, "node allocation failed")
	}
	return v, nil
}

// parseDocument parses one complete value plus optional trailing
// whitespace and rejects anything after it.
func (p *treeParser) parseDocument() (*Value, *Error) {
	v, err := p.parseValue(1)
	if err != nil {
		return nil, err
	}
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos < len(p.buf) {
		return nil, newError(p.buf, InvalidCharacter, p.pos, "unexpected data after top-level value")
	}
	return v, nil
}

func (p *treeParser) parseValue(depth int) (*Value, *Error) {
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos >= len(p.buf) {
		return nil, newError(p.buf, UnexpectedEndOfInput, len(p.buf), "value expected")
	}
	switch c := p.buf[p.pos]; {
	case c == '{':
		return p.parseObject(depth)
	case c == '[':
		return p.parseArray(depth)
	case c == '"':
		return p.parseStringValue()
	case c == 't':
		return p.parseKeyword("true", func(v *Value) { v.kind = KindBool; v.b = true })
	case c == 'f':
		return p.parseKeyword("false", func(v *Value) { v.kind = KindBool; v.b = false })
	case c == 'n':
		return p.parseKeyword("null", func(v *Value) { v.kind = KindNull })
	case c == '-' || scanner.IsDigit(c):
		return p.parseNumber()
	default:
		return nil, newError(p.buf, InvalidCharacter, p.pos, "unexpected character "+quoteByte(c))
	}
}

func (p *treeParser) parseKeyword(word string, fill func(*Value)) (*Value, *Error) {
	start := p.pos
	if len(p.buf)-start < len(word) || string(p.buf[start:start+len(word)]) != word {
		if rest := len(p.buf) - start; rest < len(word) && string(p.buf[start:]) == word[:rest] {
			return nil, newError(p.buf, UnexpectedEndOfInput, len(p.buf), "truncated literal")
		}
		return nil, newError(p.buf, InvalidCharacter, start, "invalid literal")
	}
	// A keyword must end at a token boundary: "truex" is one bad token,
	// not "true" followed by garbage.
	if end := start + len(word); end < len(p.buf) {
		c := p.buf[end]
		if !scanner.IsWhitespace(c) && c != ',' && c != '}' && c != ']' {
			return nil, newError(p.buf, InvalidCharacter, start, "invalid literal")
		}
	}
	v, err := p.newValue()
	if err != nil {
		return nil, err
	}
	fill(v)
	p.pos = start + len(word)
	return v, nil
}

func (p *treeParser) parseNumber() (*Value, *Error) {
	start := p.pos
	end := p.sc.ScanNumberSpan(start)
	lit, err := number.Parse(p.buf[start:end])
	if err != nil {
		return nil, newError(p.buf, InvalidNumber, start, err.Error())
	}
	v, perr := p.newValue()
	if perr != nil {
		return nil, perr
	}
	switch lit.Kind {
	case number.Int64:
		v.kind = KindInt64
		v.i64 = lit.I64
	case number.Uint64:
		v.kind = KindInt64
		v.u64 = lit.U64
		v.unsigned = true
	case number.Int128:
		v.kind = KindInt128
		v.big = lit.Big
	case number.Float64:
		v.kind = KindDouble
		v.f64 = lit.F64
	case number.Float128:
		v.kind = KindFloat128
		v.bigf = lit.BigF
	}
	p.pos = end
	return v, nil
}

func (p *treeParser) parseStringValue() (*Value, *Error) {
	s, err := p.parseString()
	if err != nil {
		return nil, err
	}
	v, perr := p.newValue()
	if perr != nil {
		return nil, perr
	}
	v.kind = KindString
	v.str = s
	return v, nil
}

// parseString consumes a string token, p.pos at the opening quote. The
// fast path aliases the source bytes without copying; escaped strings are
// decoded into arena storage.
func (p *treeParser) parseString() (string, *Error) {
	start := p.pos + 1
	end, escaped, serr := p.sc.ScanStringSpan(start)
	if serr != nil {
		return "", p.spanError(serr)
	}
	p.pos = end + 1
	if !escaped {
		return bytesToString(p.buf[start:end]), nil
	}
	return p.unescape(start, end)
}

func (p *treeParser) spanError(serr *scanner.SpanError) *Error {
	code := InvalidString
	if serr.Truncated {
		code = UnexpectedEndOfInput
	}
	return newError(p.buf, code, serr.Offset, serr.Msg)
}

// unescape decodes the escape sequences of buf[start:end] into arena
// bytes. The decoded form is never longer than the raw span.
func (p *treeParser) unescape(start, end int) (string, *Error) {
	raw := p.buf[start:end]
	out, aerr := p.mem.Alloc(len(raw))
	if aerr != nil {
		return "", newError(p.buf, OutOfMemory, start, "string allocation failed")
	}
	n := 0
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '\\' {
			out[n] = c
			n++
			i++
			continue
		}
		// The scanner guarantees a byte after every backslash.
		esc := raw[i+1]
		switch esc {
		case '"', '\\', '/':
			out[n] = esc
			n++
			i += 2
		case 'b':
			out[n] = '\b'
			n++
			i += 2
		case 'f':
			out[n] = '\f'
			n++
			i += 2
		case 'n':
			out[n] = '\n'
			n++
			i += 2
		case 'r':
			out[n] = '\r'
			n++
			i += 2
		case 't':
			out[n] = '\t'
			n++
			i += 2
		case 'u':
			r, size, ok := decodeUnicodeEscape(raw[i:])
			if !ok {
				return "", newError(p.buf, InvalidString, start+i, "invalid unicode escape")
			}
			n += encodeRune(out[n:], r)
			i += size
		default:
			return "", newError(p.buf, InvalidString, start+i, "invalid escape character")
		}
	}
	return bytesToString(out[:n]), nil
}

// decodeUnicodeEscape decodes \uXXXX at the start of raw, combining UTF-16
// surrogate pairs. size is the raw bytes consumed (6 or 12).
func decodeUnicodeEscape(raw []byte) (rune, int, bool) {
	hi, ok := hex4(raw, 2)
	if !ok {
		return 0, 0, false
	}
	if hi < 0xD800 || hi > 0xDFFF {
		return rune(hi), 6, true
	}
	if hi >= 0xDC00 {
		// Unpaired low surrogate.
		return 0, 0, false
	}
	if len(raw) < 12 || raw[6] != '\\' || raw[7] != 'u' {
		return 0, 0, false
	}
	lo, ok := hex4(raw, 8)
	if !ok || lo < 0xDC00 || lo > 0xDFFF {
		return 0, 0, false
	}
	return 0x10000 + (rune(hi)-0xD800)<<10 + (rune(lo) - 0xDC00), 12, true
}

func hex4(raw []byte, off int) (uint32, bool) {
	if len(raw) < off+4 {
		return 0, false
	}
	var v uint32
	for k := 0; k < 4; k++ {
		c := raw[off+k]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | uint32(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, false
		}
	}
	return v, true
}

// encodeRune is utf8.EncodeRune without the replacement-character cases;
// decodeUnicodeEscape only produces valid scalar values.
func encodeRune(dst []byte, r rune) int {
	switch {
	case r < 0x80:
		dst[0] = byte(r)
		return 1
	case r < 0x800:
		dst[0] = 0xC0 | byte(r>>6)
		dst[1] = 0x80 | byte(r)&0x3F
		return 2
	case r < 0x10000:
		dst[0] = 0xE0 | byte(r>>12)
		dst[1] = 0x80 | byte(r>>6)&0x3F
		dst[2] = 0x80 | byte(r)&0x3F
		return 3
	default:
		dst[0] = 0xF0 | byte(r>>18)
		dst[1] = 0x80 | byte(r>>12)&0x3F
		dst[2] = 0x80 | byte(r>>6)&0x3F
		dst[3] = 0x80 | byte(r)&0x3F
		return 4
	}
}

func (p *treeParser) parseArray(depth int) (*Value, *Error) {
	if depth > p.maxDepth {
		return nil, newError(p.buf, MaxDepthExceeded, p.pos, "nesting too deep")
	}
	v, err := p.newValue()
	if err != nil {
		return nil, err
	}
	v.kind = KindArray
	p.pos++ // consume '['
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos < len(p.buf) && p.buf[p.pos] == ']' {
		p.pos++
		return v, nil
	}
	for {
		elem, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		v.arr = append(v.arr, elem)

		p.pos = p.sc.SkipWhitespace(p.pos)
		if p.pos >= len(p.buf) {
			return nil, newError(p.buf, UnexpectedEndOfInput, len(p.buf), "unterminated array")
		}
		switch p.buf[p.pos] {
		case ']':
			p.pos++
			return v, nil
		case ',':
			p.pos++
		default:
			return nil, newError(p.buf, InvalidCharacter, p.pos, "expected ',' or ']' in array")
		}
	}
}

func (p *treeParser) parseObject(depth int) (*Value, *Error) {
	if depth > p.maxDepth {
		return nil, newError(p.buf, MaxDepthExceeded, p.pos, "nesting too deep")
	}
	v, err := p.newValue()
	if err != nil {
		return nil, err
	}
	v.kind = KindObject
	v.obj = &Object{}
	p.pos++ // consume '{'
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos < len(p.buf) && p.buf[p.pos] == '}' {
		p.pos++
		return v, nil
	}
	for {
		key, val, err := p.parseMember(depth)
		if err != nil {
			return nil, err
		}
		v.obj.put(key, val)

		p.pos = p.sc.SkipWhitespace(p.pos)
		if p.pos >= len(p.buf) {
			return nil, newError(p.buf, UnexpectedEndOfInput, len(p.buf), "unterminated object")
		}
		switch p.buf[p.pos] {
		case '}':
			p.pos++
			return v, nil
		case ',':
			p.pos++
		default:
			return nil, newError(p.buf, InvalidCharacter, p.pos, "expected ',' or '}' in object")
		}
	}
}

// parseMember parses one "key": value pair; depth is the object's own
// depth, the value nests one deeper.
func (p *treeParser) parseMember(depth int) (string, *Value, *Error) {
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos >= len(p.buf) {
		return "", nil, newError(p.buf, UnexpectedEndOfInput, len(p.buf), "object key expected")
	}
	if p.buf[p.pos] != '"' {
		return "", nil, newError(p.buf, InvalidCharacter, p.pos, "object key must be a string")
	}
	key, err := p.parseString()
	if err != nil {
		return "", nil, err
	}
	p.pos = p.sc.SkipWhitespace(p.pos)
	if p.pos >= len(p.buf) {
		return "", nil, newError(p.buf, UnexpectedEndOfInput, len(p.buf), "':' expected")
	}
	if p.buf[p.pos] != ':' {
		return "", nil, newError(p.buf, InvalidCharacter, p.pos, "':' expected after object key")
	}
	p.pos++
	val, verr := p.parseValue(depth + 1)
	if verr != nil {
		return "", nil, verr
	}
	return key, val, nil
}

func quoteByte(c byte) string {
	if c >= 0x20 && c < 0x7F {
		return "'" + string(c) + "'"
	}
	const hexdigits = "0123456789abcdef"
	return "0x" + string([]byte{hexdigits[c>>4], hexdigits[c&0xF]})
}

// bytesToString aliases b as a string without copying. Safe here because
// parsed strings alias either the immutable input buffer or arena bytes
// that are written exactly once.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
