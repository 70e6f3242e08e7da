// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
)

// Pair is an ordered candidate pair (A < B) emitted by Pairs.Enumerate.
type Pair struct {
	A, B int
}

// pairSet is a fixed-capacity open-addressing hash set over packed
// (A,B) keys, arena-backed so per-step deduplication never touches the Go
// allocator. spec.md §4.G permits either a deduplicating pair set or an
// idempotent narrow phase; this module takes the dedup route so the
// solver never receives the same contact pair twice within one step.
type pairSet struct {
	slots    []uint64
	occupied []bool
}

const emptyPairSlot = 0 // 0 can never be a real key: A and B are always distinct non-negative ids packed with A<B, so A==B==0 is impossible

func newPairSet(a *arena.Arena, capacity int) *pairSet {
	size := nextPow2(capacity * 2)
	return &pairSet{
		slots:    arena.PushSlice[uint64](a, size),
		occupied: arena.PushSlice[bool](a, size),
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	if p < 16 {
		p = 16
	}
	return p
}

func packPair(a, b int) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// reset clears every slot. Bounded by capacity, same cost model as the
// rest of this step's fixed-size scratch tables.
func (s *pairSet) reset() {
	for i := range s.occupied {
		s.occupied[i] = false
	}
}

// insert reports whether (a,b) is newly added (true) or was already
// present (false). Returns false without inserting if the table is
// completely full — a pathological case given its 2x-oversized sizing,
// treated as a capacity saturation rather than a panic.
func (s *pairSet) insert(a, b int) bool {
	key := packPair(a, b)
	mask := uint64(len(s.slots) - 1)
	h := fnv1a(key) & mask
	for i := uint64(0); i < uint64(len(s.slots)); i++ {
		idx := (h + i) & mask
		if !s.occupied[idx] {
			s.occupied[idx] = true
			s.slots[idx] = key
			return true
		}
		if s.slots[idx] == key {
			return false
		}
	}
	return false
}

func fnv1a(x uint64) uint64 {
	const offset = 14695981039346656037
	const prime = 1099511628211
	h := uint64(offset)
	for i := 0; i < 8; i++ {
		h ^= x & 0xff
		h *= prime
		x >>= 8
	}
	return h
}

// Pairs holds the per-step output of Enumerate: a fixed-capacity
// ordered-pair list plus the dedup set that fed it.
type Pairs struct {
	list     []Pair
	count    int
	set      *pairSet
	dropped  int // profiling counter: pair table full this step
}

// NewPairs reserves room for maxPairs pairs.
func NewPairs(a *arena.Arena, p config.Params) *Pairs {
	return &Pairs{
		list: arena.PushSlice[Pair](a, p.MaxPairsPerStep),
		set:  newPairSet(a, p.MaxPairsPerStep),
	}
}

// List returns the live prefix of pairs found this step.
func (ps *Pairs) List() []Pair { return ps.list[:ps.count] }

// Dropped reports how many candidate pairs were discarded this step
// because the pair table was full.
func (ps *Pairs) Dropped() int { return ps.dropped }

// Enumerate walks every grid cell and emits each ordered (i<j) pair found
// among its bodies, deduplicated across cells (spec.md §4.G). Pairs may
// optionally be sorted by ascending AABB-center distance^2 afterward by
// the caller via SortByProximity; Enumerate itself only collects them.
func (ps *Pairs) Enumerate(g *Grid) {
	ps.count = 0
	ps.dropped = 0
	ps.set.reset()
	for ci := range g.cells {
		c := &g.cells[ci]
		for i := 0; i < c.count; i++ {
			for j := i + 1; j < c.count; j++ {
				a, b := c.ids[i], c.ids[j]
				if a > b {
					a, b = b, a
				}
				if a == b {
					continue
				}
				if !ps.set.insert(a, b) {
					continue // already emitted from a different shared cell
				}
				if ps.count >= len(ps.list) {
					ps.dropped++
					continue
				}
				ps.list[ps.count] = Pair{A: a, B: b}
				ps.count++
			}
		}
	}
}

// SortByProximity orders the emitted pairs by ascending squared distance
// between their AABB centers, favoring cache reuse in narrow phase and the
// solver (spec.md §4.G "optionally sorted"). Plain insertion sort: pair
// counts per step are small and this keeps the routine allocation-free.
func (ps *Pairs) SortByProximity(bodies *body.Set) {
	list := ps.list[:ps.count]
	for i := 1; i < len(list); i++ {
		key := list[i]
		keyDist := centerDistSq(bodies, key)
		j := i - 1
		for j >= 0 && centerDistSq(bodies, list[j]) > keyDist {
			list[j+1] = list[j]
			j--
		}
		list[j+1] = key
	}
}

func centerDistSq(bodies *body.Set, p Pair) float64 {
	a := bodies.Position(p.A)
	b := bodies.Position(p.B)
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
