// Package number turns the numeric spans located by the scanner into
// tagged literals, escalating precision only when a compact representation
// would lose information: 64-bit integers first, 128-bit integers when the
// magnitude demands it, 64-bit floating point for ordinary reals, and a
// 128-bit floating tier when the literal carries more than 15 significant
// digits or an exponent beyond the double range.
package number

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Kind tags the representation chosen for a literal.
type Kind uint8

const (
	Int64 Kind = iota
	Uint64
	Int128
	Float64
	Float128
)

// Literal is the parsed numeric value. Exactly one of the payload fields
// is meaningful, selected by Kind.
type Literal struct {
	Kind Kind
	I64  int64
	U64  uint64
	Big  *big.Int
	F64  float64
	BigF *big.Float
}

// SyntaxError reports a malformed literal. Offset is relative to the start
// of the span.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid number: %s (span offset %d)", e.Msg, e.Offset)
}

// Float128Prec is the mantissa precision, in bits, of the Float128 tier.
const Float128Prec = 128

// Significant-digit and exponent thresholds beyond which a double can no
// longer represent the literal faithfully.
const (
	maxDoubleDigits = 15
	maxDoubleExp    = 308
)

// Parse validates and converts one numeric span. The scanner guarantees
// only that span contains no token-terminating byte; the full grammar
// (optional minus, integer digits without a redundant leading zero,
// optional fraction, optional exponent) is enforced here.
func Parse(span []byte) (Literal, error) {
	if len(span) == 0 {
		return Literal{}, &SyntaxError{Offset: 0, Msg: "empty literal"}
	}

	i := 0
	neg := false
	if span[i] == '-' {
		neg = true
		i++
	} else if span[i] == '+' {
		// A leading plus is scanner-reachable but not grammar.
		return Literal{}, &SyntaxError{Offset: 0, Msg: "unexpected '+'"}
	}

	intStart := i
	for i < len(span) && isDigit(span[i]) {
		i++
	}
	intDigits := i - intStart
	if intDigits == 0 {
		return Literal{}, &SyntaxError{Offset: i, Msg: "missing integer digits"}
	}
	if intDigits > 1 && span[intStart] == '0' {
		return Literal{}, &SyntaxError{Offset: intStart, Msg: "leading zero"}
	}

	fracStart, fracDigits := 0, 0
	if i < len(span) && span[i] == '.' {
		i++
		fracStart = i
		for i < len(span) && isDigit(span[i]) {
			i++
		}
		fracDigits = i - fracStart
		if fracDigits == 0 {
			return Literal{}, &SyntaxError{Offset: i, Msg: "missing digits after decimal point"}
		}
	}

	expVal, hasExp := 0, false
	if i < len(span) && (span[i] == 'e' || span[i] == 'E') {
		hasExp = true
		i++
		expNeg := false
		if i < len(span) && (span[i] == '+' || span[i] == '-') {
			expNeg = span[i] == '-'
			i++
		}
		expStart := i
		for i < len(span) && isDigit(span[i]) {
			if expVal < 100000 {
				expVal = expVal*10 + int(span[i]-'0')
			}
			i++
		}
		if i == expStart {
			return Literal{}, &SyntaxError{Offset: i, Msg: "missing digits in exponent"}
		}
		if expNeg {
			expVal = -expVal
		}
	}

	if i != len(span) {
		return Literal{}, &SyntaxError{Offset: i, Msg: "trailing characters in literal"}
	}

	if fracDigits == 0 && !hasExp {
		return parseInteger(span, neg, span[intStart:intStart+intDigits])
	}
	return parseReal(span, intStart, intDigits, fracStart, fracDigits, expVal)
}

func parseInteger(span []byte, neg bool, digits []byte) (Literal, error) {
	// Up to 19 digits always fits a uint64 accumulator; 20 may overflow.
	if len(digits) <= 20 {
		var mag uint64
		overflow := false
		for _, c := range digits {
			d := uint64(c - '0')
			if mag > (math.MaxUint64-d)/10 {
				overflow = true
				break
			}
			mag = mag*10 + d
		}
		if !overflow {
			if neg {
				if mag <= uint64(math.MaxInt64)+1 {
					return Literal{Kind: Int64, I64: -int64(mag)}, nil
				}
			} else if mag <= math.MaxInt64 {
				return Literal{Kind: Int64, I64: int64(mag)}, nil
			} else {
				return Literal{Kind: Uint64, U64: mag}, nil
			}
		}
	}

	b := new(big.Int)
	if _, ok := b.SetString(string(span), 10); !ok {
		return Literal{}, &SyntaxError{Offset: 0, Msg: "malformed integer"}
	}
	// Beyond the signed 128-bit range the integer tiers are exhausted and
	// the literal falls to the wide floating tier.
	if fitsInt128(b) {
		return Literal{Kind: Int128, Big: b}, nil
	}
	f := new(big.Float).SetPrec(Float128Prec).SetInt(b)
	return Literal{Kind: Float128, BigF: f}, nil
}

func parseReal(span []byte, intStart, intDigits, fracStart, fracDigits, expVal int) (Literal, error) {
	sig := significantDigits(span, intStart, intDigits, fracStart, fracDigits)
	// Decimal exponent of the most significant digit.
	adjExp := expVal + intDigits - 1
	if intDigits == 1 && span[intStart] == '0' && fracDigits > 0 {
		lead := 0
		for lead < fracDigits && span[fracStart+lead] == '0' {
			lead++
		}
		adjExp = expVal - lead - 1
	}

	if sig > maxDoubleDigits || adjExp > maxDoubleExp || adjExp < -maxDoubleExp {
		f, _, err := big.ParseFloat(string(span), 10, Float128Prec, big.ToNearestEven)
		if err != nil {
			return Literal{}, &SyntaxError{Offset: 0, Msg: "malformed literal"}
		}
		return Literal{Kind: Float128, BigF: f}, nil
	}

	if f, ok := fastFloat(span, intStart, intDigits, fracStart, fracDigits, expVal); ok {
		return Literal{Kind: Float64, F64: f}, nil
	}
	f, err := strconv.ParseFloat(string(span), 64)
	if err != nil {
		return Literal{}, &SyntaxError{Offset: 0, Msg: "malformed literal"}
	}
	return Literal{Kind: Float64, F64: f}, nil
}

// fastFloat is the digit-accumulation path: when the mantissa fits a
// uint64 exactly and the effective power of ten is itself exact in a
// double, one multiply or divide yields the correctly rounded result.
func fastFloat(span []byte, intStart, intDigits, fracStart, fracDigits, expVal int) (float64, bool) {
	var man uint64
	digits := 0
	for k := 0; k < intDigits; k++ {
		d := uint64(span[intStart+k] - '0')
		if man > (math.MaxUint64-d)/10 {
			return 0, false
		}
		man = man*10 + d
		digits++
	}
	for k := 0; k < fracDigits; k++ {
		d := uint64(span[fracStart+k] - '0')
		if man > (math.MaxUint64-d)/10 {
			return 0, false
		}
		man = man*10 + d
		digits++
	}
	if man >= 1<<53 {
		return 0, false
	}
	eff := expVal - fracDigits
	if eff < -22 || eff > 22 {
		return 0, false
	}
	f := float64(man)
	if span[0] == '-' {
		f = -f
	}
	if eff > 0 {
		return f * pow10[eff], true
	}
	if eff < 0 {
		return f / pow10[-eff], true
	}
	return f, true
}

// Powers of ten exactly representable as doubles.
var pow10 = [...]float64{
	1e0, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10,
	1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19, 1e20, 1e21, 1e22,
}

func significantDigits(span []byte, intStart, intDigits, fracStart, fracDigits int) int {
	// Leading zeros carry no information; trailing zeros do (they pin the
	// magnitude of integer-part digits).
	k := intStart
	for k < intStart+intDigits && span[k] == '0' {
		k++
	}
	sig := intStart + intDigits - k
	if sig == 0 {
		// 0.000123: skip fraction leading zeros too.
		j := fracStart
		for j < fracStart+fracDigits && span[j] == '0' {
			j++
		}
		return fracStart + fracDigits - j
	}
	return sig + fracDigits
}

var (
	int128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	int128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

func fitsInt128(b *big.Int) bool {
	return b.Cmp(int128Min) >= 0 && b.Cmp(int128Max) <= 0
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
