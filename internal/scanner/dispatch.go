package scanner

import (
	"math/bits"
	"sync"
)

// Kernel identifies one scanning implementation by the number of bytes it
// classifies per block iteration. Width 1 is the byte-at-a-time scalar
// kernel; wider kernels classify 8 bytes per register using bit-parallel
// (SWAR) comparisons and block their loads to the machine's vector width.
// Every kernel produces identical boundary positions for identical input;
// only throughput differs.
type Kernel struct {
	Name  string
	Width int
}

var kernels = []Kernel{
	{Name: "scalar", Width: 1},
	{Name: "block8", Width: 8},
	{Name: "block16", Width: 16},
	{Name: "block32", Width: 32},
	{Name: "block64", Width: 64},
}

// Kernels returns every kernel, scalar first. All of them run on any
// architecture; the capability probe only decides which one is fastest.
func Kernels() []Kernel {
	out := make([]Kernel, len(kernels))
	copy(out, kernels)
	return out
}

// Scalar returns the byte-at-a-time kernel, used when SIMD is disabled by
// options and as the last rung of the fallback chain.
func Scalar() Kernel {
	return kernels[0]
}

var (
	activeOnce sync.Once
	active     Kernel
)

// Active returns the kernel selected for this process. The capability
// probe runs once; the result is immutable afterwards.
func Active() Kernel {
	activeOnce.Do(func() {
		active = rankKernel()
	})
	return active
}

func kernelByWidth(w int) Kernel {
	for _, k := range kernels {
		if k.Width == w {
			return k
		}
	}
	return kernels[0]
}

// SWAR primitives. Words are loaded little-endian so byte i of the block
// occupies bits [8i, 8i+8) and the first matching byte is the lowest set
// bit. All masks are exact per byte: no borrow or carry crosses a byte
// lane.

const (
	lsbMask uint64 = 0x0101010101010101
	msbMask uint64 = 0x8080808080808080
)

func le64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// zeroMask sets the high bit of each zero byte in x.
func zeroMask(x uint64) uint64 {
	y := (x &^ msbMask) + ^msbMask
	return ^(y | x) & msbMask
}

// eqMask sets the high bit of each byte in w equal to b.
func eqMask(w uint64, b byte) uint64 {
	return zeroMask(w ^ (lsbMask * uint64(b)))
}

// ltMask sets the high bit of each byte in w strictly below n. n must be
// at most 0x80; bytes with the high bit set never match.
func ltMask(w uint64, n byte) uint64 {
	ge := ((w &^ msbMask) + lsbMask*uint64(0x80-n)) & msbMask
	return ^(ge | w) & msbMask
}

// digitMask sets the high bit of each ASCII decimal digit byte.
func digitMask(w uint64) uint64 {
	ge := ((w &^ msbMask) + lsbMask*uint64(0x80-'0')) & msbMask
	return ge & ltMask(w, '9'+1)
}

func whitespaceMask(w uint64) uint64 {
	return eqMask(w, ' ') | eqMask(w, '\t') | eqMask(w, '\n') | eqMask(w, '\r')
}

func structuralMask(w uint64) uint64 {
	return eqMask(w, '{') | eqMask(w, '}') |
		eqMask(w, '[') | eqMask(w, ']') |
		eqMask(w, ':') | eqMask(w, ',') | eqMask(w, '"')
}

func stringSpecialMask(w uint64) uint64 {
	return eqMask(w, '"') | eqMask(w, '\\') | ltMask(w, 0x20) | (w & msbMask)
}

func numberMask(w uint64) uint64 {
	return digitMask(w) | eqMask(w, '.') | eqMask(w, '+') | eqMask(w, '-') |
		eqMask(w, 'e') | eqMask(w, 'E')
}

// firstSet converts a lane mask to the byte index of its lowest hit.
func firstSet(m uint64) int {
	return bits.TrailingZeros64(m) >> 3
}
