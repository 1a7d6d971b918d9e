// Package arena provides bump allocation for parse-local node and string
// storage. One arena has exactly one writer; the parallel engine gives each
// worker its own arena and keeps all of them alive in the final Document,
// so subtrees are re-parented rather than copied.
package arena

import (
	"errors"
	"sync/atomic"
)

// ErrBudgetExceeded is returned when an allocation would push the parse
// past its configured memory budget.
var ErrBudgetExceeded = errors.New("arena: allocation budget exceeded")

const (
	initialBlockSize = 4 * 1024
	maxBlockSize     = 4 * 1024 * 1024
)

// Budget caps the total bytes allocated across all arenas of one parse.
// It is shared between workers, hence the atomic counter. A nil *Budget
// means unlimited.
type Budget struct {
	limit int64
	used  atomic.Int64
}

// NewBudget returns a budget of limit bytes. limit <= 0 means unlimited.
func NewBudget(limit int64) *Budget {
	if limit <= 0 {
		return nil
	}
	return &Budget{limit: limit}
}

func (b *Budget) grab(n int64) bool {
	if b == nil {
		return true
	}
	if b.used.Add(n) > b.limit {
		b.used.Add(-n)
		return false
	}
	return true
}

// Arena is a bump allocator over a chain of byte blocks. Blocks are
// retained and never moved, so slices handed out by Alloc stay valid until
// Reset. Reset invalidates every outstanding slice; that is the caller's
// contract, not enforced here.
type Arena struct {
	blocks   [][]byte
	cur      []byte // active block, len = bytes used in it
	usedPrev int    // bytes used in retired blocks
	nextSize int
	budget   *Budget
}

// New returns an empty arena drawing on the given budget (nil = unlimited).
func New(budget *Budget) *Arena {
	return &Arena{nextSize: initialBlockSize, budget: budget}
}

// Alloc returns a zeroed n-byte slice carved out of the current block,
// growing the arena when the block is exhausted.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		n = 0
	}
	if cap(a.cur)-len(a.cur) < n {
		if err := a.grow(n); err != nil {
			return nil, err
		}
	}
	off := len(a.cur)
	a.cur = a.cur[:off+n]
	return a.cur[off : off+n : off+n], nil
}

func (a *Arena) grow(need int) error {
	size := a.nextSize
	for size < need {
		size *= 2
	}
	if !a.budget.grab(int64(size)) {
		return ErrBudgetExceeded
	}
	if a.cur != nil {
		a.usedPrev += len(a.cur)
	}
	a.cur = make([]byte, 0, size)
	a.blocks = append(a.blocks, a.cur)
	if a.nextSize < maxBlockSize {
		a.nextSize *= 2
	}
	return nil
}

// BytesUsed reports bytes handed out since the last Reset.
func (a *Arena) BytesUsed() int {
	return a.usedPrev + len(a.cur)
}

// BytesAvailable reports the remaining capacity of the active block.
func (a *Arena) BytesAvailable() int {
	return cap(a.cur) - len(a.cur)
}

// Reset drops every block at once. All previously returned slices become
// invalid.
func (a *Arena) Reset() {
	a.blocks = nil
	a.cur = nil
	a.usedPrev = 0
	a.nextSize = initialBlockSize
}

// Slab is a typed bump allocator for fixed-size nodes, following the same
// block growth and retention policy as Arena. Pointers returned by New stay
// valid for the slab's lifetime because blocks are never reallocated.
type Slab[T any] struct {
	blocks   [][]T
	cur      []T
	nextSize int
	elemSize int64
	budget   *Budget
}

// NewSlab returns an empty slab for nodes of approximate size elemSize
// bytes, counted against budget (nil = unlimited).
func NewSlab[T any](elemSize int, budget *Budget) *Slab[T] {
	if elemSize < 1 {
		elemSize = 1
	}
	return &Slab[T]{nextSize: 64, elemSize: int64(elemSize), budget: budget}
}

// New returns a pointer to a zeroed node.
func (s *Slab[T]) New() (*T, error) {
	if len(s.cur) == cap(s.cur) {
		size := s.nextSize
		if !s.budget.grab(int64(size) * s.elemSize) {
			return nil, ErrBudgetExceeded
		}
		s.cur = make([]T, 0, size)
		s.blocks = append(s.blocks, s.cur)
		if s.nextSize < 64*1024 {
			s.nextSize *= 2
		}
	}
	s.cur = s.cur[:len(s.cur)+1]
	return &s.cur[len(s.cur)-1], nil
}

// Len reports the number of nodes allocated since the last Reset.
func (s *Slab[T]) Len() int {
	n := len(s.cur)
	for _, b := range s.blocks[:max(0, len(s.blocks)-1)] {
		n += cap(b)
	}
	return n
}

// BytesReserved reports the block capacity drawn from the budget, in
// bytes. Reservation, not occupancy: the budget charges whole blocks.
func (s *Slab[T]) BytesReserved() int64 {
	var n int64
	for _, b := range s.blocks {
		n += int64(cap(b)) * s.elemSize
	}
	return n
}

// Reset drops all blocks; outstanding pointers become invalid.
func (s *Slab[T]) Reset() {
	s.blocks = nil
	s.cur = nil
	s.nextSize = 64
}
