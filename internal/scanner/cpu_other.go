//go:build !amd64 && !arm64

package scanner

// rankKernel has no vector width information on other architectures; the
// 8-byte word kernel is still a win over scalar on any 64-bit machine.
func rankKernel() Kernel {
	return kernelByWidth(8)
}
