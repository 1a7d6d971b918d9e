//go:build arm64

package scanner

import (
	"golang.org/x/sys/cpu"
)

// rankKernel maps NEON (128-bit) to 16-byte blocks; every arm64 core has
// ASIMD but the probe keeps the fallback chain explicit.
func rankKernel() Kernel {
	if cpu.ARM64.HasASIMD {
		return kernelByWidth(16)
	}
	return kernelByWidth(8)
}
