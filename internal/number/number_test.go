package number

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"
)

func TestParseInt64(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"-0", 0},
		{"1", 1},
		{"42", 42},
		{"-123", -123},
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775808", math.MinInt64},
		{"9007199254740993", 1<<53 + 1}, // exact beyond double precision
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lit, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if lit.Kind != Int64 {
				t.Fatalf("kind = %v, want Int64", lit.Kind)
			}
			if lit.I64 != tt.want {
				t.Errorf("value = %d, want %d", lit.I64, tt.want)
			}
		})
	}
}

func TestParseUint64(t *testing.T) {
	lit, err := Parse([]byte("18446744073709551615"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if lit.Kind != Uint64 || lit.U64 != math.MaxUint64 {
		t.Fatalf("got kind=%v u64=%d", lit.Kind, lit.U64)
	}
}

func TestParseInt128(t *testing.T) {
	tests := []string{
		"18446744073709551616",                     // MaxUint64 + 1
		"-9223372036854775809",                     // MinInt64 - 1
		"170141183460469231731687303715884105727",  // 2^127 - 1
		"-170141183460469231731687303715884105728", // -2^127
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			lit, err := Parse([]byte(in))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if lit.Kind != Int128 {
				t.Fatalf("kind = %v, want Int128", lit.Kind)
			}
			want, _ := new(big.Int).SetString(in, 10)
			if lit.Big.Cmp(want) != 0 {
				t.Errorf("value = %s, want %s", lit.Big, want)
			}
		})
	}
}

func TestIntegerBeyond128BitsFallsToFloat128(t *testing.T) {
	in := "170141183460469231731687303715884105728" // 2^127
	lit, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if lit.Kind != Float128 {
		t.Fatalf("kind = %v, want Float128", lit.Kind)
	}
}

func TestParseFloat64(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"-2.5", -2.5},
		{"3.14", 3.14},
		{"0.0", 0},
		{"1e10", 1e10},
		{"1E10", 1e10},
		{"1e+10", 1e10},
		{"1e-10", 1e-10},
		{"-1.25e2", -125},
		{"123.456e-7", 123.456e-7},
		{"0.000125", 0.000125},
		{"2.5e-300", 2.5e-300},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lit, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if lit.Kind != Float64 {
				t.Fatalf("kind = %v, want Float64", lit.Kind)
			}
			if lit.F64 != tt.want {
				t.Errorf("value = %g, want %g", lit.F64, tt.want)
			}
		})
	}
}

// The fast accumulation path and strconv must agree exactly.
func TestFastPathMatchesStrconv(t *testing.T) {
	inputs := []string{
		"1.5", "123.25", "0.125", "7e3", "9e-3", "255.255", "1e22",
		"0.1", "0.2", "0.3", "123456789.123456",
	}
	for _, in := range inputs {
		lit, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		want, err2 := strconv.ParseFloat(in, 64)
		if err2 != nil {
			t.Fatalf("reference parse failed: %v", err2)
		}
		if lit.F64 != want {
			t.Errorf("Parse(%q) = %v, strconv = %v", in, lit.F64, want)
		}
	}
}

func TestParseFloat128(t *testing.T) {
	t.Run("high precision pi", func(t *testing.T) {
		in := "3.14159265358979323846"
		lit, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if lit.Kind != Float128 {
			t.Fatalf("kind = %v, want Float128", lit.Kind)
		}
		want, _, _ := big.ParseFloat(in, 10, Float128Prec, big.ToNearestEven)
		if lit.BigF.Cmp(want) != 0 {
			t.Errorf("value = %s, want %s", lit.BigF.Text('g', 25), want.Text('g', 25))
		}
		// 20 significant digits survive.
		if got := lit.BigF.Text('g', 21); got != "3.14159265358979323846" {
			t.Errorf("21-digit text = %s", got)
		}
	})

	t.Run("huge exponent", func(t *testing.T) {
		for _, in := range []string{"1e309", "1e-309", "-2.5e400"} {
			lit, err := Parse([]byte(in))
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", in, err)
			}
			if lit.Kind != Float128 {
				t.Errorf("Parse(%q) kind = %v, want Float128", in, lit.Kind)
			}
		}
	})

	t.Run("16 significant digits escalate", func(t *testing.T) {
		lit, err := Parse([]byte("1.234567890123456"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if lit.Kind != Float128 {
			t.Errorf("kind = %v, want Float128", lit.Kind)
		}
	})

	t.Run("15 significant digits stay double", func(t *testing.T) {
		lit, err := Parse([]byte("1.23456789012345"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if lit.Kind != Float64 {
			t.Errorf("kind = %v, want Float64", lit.Kind)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"lone minus", "-"},
		{"leading zero", "01"},
		{"leading zero negative", "-01"},
		{"missing fraction digits", "1."},
		{"missing fraction digits mid", "1.e5"},
		{"missing exponent digits", "1e"},
		{"missing exponent digits after sign", "1e+"},
		{"leading plus", "+1"},
		{"leading dot", ".5"},
		{"double dot", "1.2.3"},
		{"double exponent", "1e2e3"},
		{"minus after digits", "1-2"},
		{"long garbage", strings.Repeat("9", 40) + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.in)
			}
		})
	}
}

func TestSyntaxErrorOffsets(t *testing.T) {
	tests := []struct {
		in     string
		offset int
	}{
		{"01", 0},
		{"-01", 1},
		{"1.", 2},
		{"1e+", 3},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.in))
		serr, ok := err.(*SyntaxError)
		if !ok {
			t.Fatalf("Parse(%q): expected *SyntaxError, got %v", tt.in, err)
		}
		if serr.Offset != tt.offset {
			t.Errorf("Parse(%q) offset = %d, want %d", tt.in, serr.Offset, tt.offset)
		}
	}
}
