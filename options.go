package fastjson

import (
	"runtime"
)

// Defaults mirroring the reference configuration. The chunk threshold is
// deliberately high: below it the partition pre-scan costs more than it
// buys.
const (
	DefaultParallelChunkThreshold = 1 << 20 // 1 MiB
	DefaultChunkTargetBytes       = 256 << 10
	DefaultMaxNestingDepth        = 1000
)

// ParseOptions configures one parse call. Options are passed per call and
// never stored as process state.
type ParseOptions struct {
	// MaxThreads bounds the worker pool. 0 means hardware concurrency,
	// 1 forces single-threaded operation (same code path, pool of one).
	MaxThreads int

	// ParallelChunkThreshold is the input size, in bytes, above which the
	// chunked parallel path engages. 0 means the default.
	ParallelChunkThreshold int

	// ChunkTargetBytes is the static partitioning target: consecutive
	// top-level members are grouped until a chunk reaches roughly this
	// many bytes. 0 means the default.
	ChunkTargetBytes int

	// EnableSIMD selects the vectorized scanner kernels. When false the
	// scalar kernel runs; output is identical either way.
	EnableSIMD bool

	// MaxNestingDepth bounds container nesting. 0 means the default.
	MaxNestingDepth int

	// MaxArenaBytes caps the memory allocated across all arenas of this
	// parse. 0 means unlimited; exhaustion surfaces as OutOfMemory.
	MaxArenaBytes int64
}

// DefaultOptions returns the options Parse uses.
func DefaultOptions() ParseOptions {
	return ParseOptions{
		MaxThreads:             0,
		ParallelChunkThreshold: DefaultParallelChunkThreshold,
		ChunkTargetBytes:       DefaultChunkTargetBytes,
		EnableSIMD:             true,
		MaxNestingDepth:        DefaultMaxNestingDepth,
	}
}

func (o ParseOptions) normalized() ParseOptions {
	if o.MaxThreads <= 0 {
		o.MaxThreads = runtime.NumCPU()
	}
	if o.ParallelChunkThreshold <= 0 {
		o.ParallelChunkThreshold = DefaultParallelChunkThreshold
	}
	if o.ChunkTargetBytes <= 0 {
		o.ChunkTargetBytes = DefaultChunkTargetBytes
	}
	if o.MaxNestingDepth <= 0 {
		o.MaxNestingDepth = DefaultMaxNestingDepth
	}
	return o
}
