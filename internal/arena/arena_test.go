package arena

import (
	"testing"
)

func TestArenaAlloc(t *testing.T) {
	a := New(nil)
	if a.BytesUsed() != 0 {
		t.Fatalf("fresh arena reports %d bytes used", a.BytesUsed())
	}

	b1, err := a.Alloc(100)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if len(b1) != 100 {
		t.Fatalf("Alloc(100) returned %d bytes", len(b1))
	}
	if a.BytesUsed() != 100 {
		t.Errorf("BytesUsed = %d, want 100", a.BytesUsed())
	}

	// Earlier allocations must stay valid and disjoint across growth.
	for i := range b1 {
		b1[i] = 0xAA
	}
	var slices [][]byte
	for i := 0; i < 200; i++ {
		b, err := a.Alloc(1024)
		if err != nil {
			t.Fatalf("Alloc failed at %d: %v", i, err)
		}
		slices = append(slices, b)
	}
	for i := range b1 {
		if b1[i] != 0xAA {
			t.Fatalf("first allocation corrupted at byte %d", i)
		}
	}
	for i, b := range slices {
		if len(b) != 1024 {
			t.Fatalf("allocation %d has length %d", i, len(b))
		}
	}
}

func TestArenaLargeAlloc(t *testing.T) {
	a := New(nil)
	b, err := a.Alloc(1 << 20)
	if err != nil {
		t.Fatalf("large Alloc failed: %v", err)
	}
	if len(b) != 1<<20 {
		t.Fatalf("got %d bytes", len(b))
	}
}

func TestArenaReset(t *testing.T) {
	a := New(nil)
	if _, err := a.Alloc(5000); err != nil {
		t.Fatal(err)
	}
	a.Reset()
	if a.BytesUsed() != 0 {
		t.Errorf("BytesUsed after Reset = %d", a.BytesUsed())
	}
	if _, err := a.Alloc(16); err != nil {
		t.Errorf("Alloc after Reset failed: %v", err)
	}
}

func TestBudget(t *testing.T) {
	b := NewBudget(8 * 1024)
	a := New(b)
	if _, err := a.Alloc(1024); err != nil {
		t.Fatalf("first Alloc failed: %v", err)
	}
	// Block growth is budgeted, so a large request must fail cleanly.
	if _, err := a.Alloc(1 << 20); err != ErrBudgetExceeded {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
}

func TestBudgetUnlimited(t *testing.T) {
	if b := NewBudget(0); b != nil {
		t.Fatalf("zero limit should mean unlimited (nil budget)")
	}
}

func TestSlab(t *testing.T) {
	type node struct {
		k int
		p *node
	}
	s := NewSlab[node](16, nil)
	var ptrs []*node
	for i := 0; i < 1000; i++ {
		n, err := s.New()
		if err != nil {
			t.Fatalf("New failed at %d: %v", i, err)
		}
		n.k = i
		ptrs = append(ptrs, n)
	}
	// Pointers issued before growth stay valid.
	for i, n := range ptrs {
		if n.k != i {
			t.Fatalf("node %d holds %d", i, n.k)
		}
	}
	if got := s.Len(); got != 1000 {
		t.Errorf("Len = %d, want 1000", got)
	}
	// Blocks of 64,128,256,512,1024 at 16 bytes per element.
	if got := s.BytesReserved(); got != 1984*16 {
		t.Errorf("BytesReserved = %d, want %d", got, 1984*16)
	}
}

func TestSlabBudget(t *testing.T) {
	b := NewBudget(1024)
	s := NewSlab[[64]byte](64, b)
	var err error
	for i := 0; i < 1000; i++ {
		if _, err = s.New(); err != nil {
			break
		}
	}
	if err != ErrBudgetExceeded {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
}
