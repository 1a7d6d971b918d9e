//go:build amd64

package scanner

import (
	"golang.org/x/sys/cpu"
)

// rankKernel picks the widest block the CPU's vector units can keep fed:
// 64-byte blocks on AVX-512, 32 on AVX2, 16 on SSE4.2, then the generic
// 8-byte word kernel.
func rankKernel() Kernel {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		return kernelByWidth(64)
	case cpu.X86.HasAVX2:
		return kernelByWidth(32)
	case cpu.X86.HasSSE42:
		return kernelByWidth(16)
	default:
		return kernelByWidth(8)
	}
}
