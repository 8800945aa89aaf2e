package filtergraph

import "strconv"

// Allocator issues unique intermediate stream labels within one compilation.
// It is the sole source of labels: a prefix plus a monotonically increasing
// counter, so no two stages can ever alias an output. A fresh Allocator is
// created per Compile call, which keeps compilation deterministic.
type Allocator struct {
	next int
}

// NewAllocator returns an allocator with its counter at zero.
func NewAllocator() *Allocator { return &Allocator{} }

// Allocate returns a fresh label ref for the given prefix, e.g. "std0",
// "std1", "cat2". The counter is global across prefixes, never per prefix.
func (a *Allocator) Allocate(prefix string) StreamRef {
	ref := StreamRef{Label: prefix + strconv.Itoa(a.next)}
	a.next++
	return ref
}
