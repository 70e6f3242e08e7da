// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arena

import "github.com/cpmech/gosl/chk"

// Pool is a fixed-block-size free-list allocator over a slab of T carved
// out of an Arena once, at construction. Alloc/Free are O(1); Alloc
// returns (nil, -1, false) when the pool is exhausted rather than growing —
// the pool never allocates lazily, matching §7 of SPEC_FULL.md's capacity
// taxonomy.
type Pool[T any] struct {
	slab []T
	free []int32 // stack of free slab indices
	used []bool
}

// NewPool carves n elements of T out of a, plus an n-entry free-index
// stack, and returns a pool ready for O(1) Alloc/Free.
func NewPool[T any](a *Arena, n int) *Pool[T] {
	p := &Pool[T]{
		slab: PushSlice[T](a, n),
		free: PushSlice[int32](a, n),
		used: make([]bool, n), // bookkeeping only, not part of the fixed data budget
	}
	p.Reset()
	return p
}

// Cap returns the total number of blocks the pool owns.
func (p *Pool[T]) Cap() int { return len(p.slab) }

// InUse returns the number of blocks currently allocated.
func (p *Pool[T]) InUse() int {
	n := 0
	for _, u := range p.used {
		if u {
			n++
		}
	}
	return n
}

// Reset returns every block to the free list and zeroes the slab. It is
// not safe to call while any block is in active use by a caller that has
// retained a pointer.
func (p *Pool[T]) Reset() {
	var zero T
	p.free = p.free[:len(p.slab)]
	for i := range p.slab {
		p.slab[i] = zero
		p.used[i] = false
		p.free[i] = int32(len(p.slab) - 1 - i) // fill stack so index 0 pops first
	}
}

// Alloc pops a free block and returns (pointer, index, true), or
// (nil, -1, false) if the pool is exhausted.
func (p *Pool[T]) Alloc() (*T, int, bool) {
	n := len(p.free)
	if n == 0 {
		return nil, -1, false
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]
	p.used[idx] = true
	return &p.slab[idx], int(idx), true
}

// Free returns a block to the free list without touching its payload: a
// caller may wire up resource fields (e.g. slices) once at pool-construction
// time and rely on them surviving a Free/Alloc cycle unchanged, the way
// rnn.Pool's per-slot LSTM state buffers are carved out once in NewPool and
// never re-wired in Allocate. Freeing an index that is not currently
// allocated is a fatal invariant violation (double-free).
func (p *Pool[T]) Free(idx int) {
	if idx < 0 || idx >= len(p.slab) {
		chk.Panic("pool: free out of range index %d (cap %d)\n", idx, len(p.slab))
	}
	if !p.used[idx] {
		chk.Panic("pool: double-free of index %d\n", idx)
	}
	p.used[idx] = false
	p.free = append(p.free, int32(idx))
}

// At returns a pointer to the block at idx regardless of allocation state;
// callers that track liveness themselves (e.g. an LSTM state pool keyed by
// agent id) use this instead of re-deriving a pointer from Alloc.
func (p *Pool[T]) At(idx int) *T {
	return &p.slab[idx]
}

// InUseAt reports whether the block at idx is currently allocated.
func (p *Pool[T]) InUseAt(idx int) bool {
	if idx < 0 || idx >= len(p.used) {
		return false
	}
	return p.used[idx]
}
