package fastjson

import (
	"github.com/fastjsonwest/fastjson-go/internal/arena"
)

// Document owns one parsed tree and the arenas backing it. String values
// alias either the source buffer or arena storage, so the Document keeps
// the source alive for its own lifetime. Destroying a Document is one
// step: Close releases every arena at once, no per-node teardown.
type Document struct {
	root   *Value
	src    []byte
	arenas []*arena.Arena
	slabs  []*arena.Slab[Value]
}

// Root returns the document's root value.
func (d *Document) Root() *Value {
	return d.root
}

// MemoryUsage reports the bytes held by the document's storage: decoded
// string bytes plus the node blocks reserved by its slabs. Matches what
// an allocation budget would charge for the slab side.
func (d *Document) MemoryUsage() int {
	n := 0
	for _, a := range d.arenas {
		n += a.BytesUsed()
	}
	for _, s := range d.slabs {
		n += int(s.BytesReserved())
	}
	return n
}

// Close releases all arena memory in one step. Every Value reached from
// this document, and every string aliasing it, is invalid afterwards;
// that is the caller's contract.
func (d *Document) Close() {
	for _, a := range d.arenas {
		a.Reset()
	}
	for _, s := range d.slabs {
		s.Reset()
	}
	d.root = nil
	d.src = nil
	d.arenas = nil
	d.slabs = nil
}

// adopt re-parents another parse unit's storage into this document,
// keeping its subtree pointers valid without copying nodes.
func (d *Document) adopt(a *arena.Arena, s *arena.Slab[Value]) {
	d.arenas = append(d.arenas, a)
	d.slabs = append(d.slabs, s)
}
