// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package broadphase implements the uniform spatial hash grid of spec.md
// §4.G: per-step cell insertion from body AABBs, ordered-pair enumeration,
// and overlap/ray queries that reuse the same grid.
package broadphase

import (
	"math"

	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/config"
)

// cellBucket is one hash bucket's fixed-capacity body id list.
type cellBucket struct {
	ids   []int
	count int
}

// Grid is the fixed-capacity spatial hash: G buckets, each holding up to
// MaxBodyListPerCell body ids, rebuilt every fixed step from scratch
// (spec.md §4.G "clear cell lists; ... insert its id into every cell
// overlapping its AABB").
type Grid struct {
	cells    []cellBucket
	cellSize float64
	g, p1, p2, p3 uint32

	overflowedCells int // profiling counter: cell body list full this step
}

// NewGrid reserves G buckets of MaxBodyListPerCell ids each from a.
func NewGrid(a *arena.Arena, p config.Params) *Grid {
	grid := &Grid{
		cells:    make([]cellBucket, p.GridBuckets), // bucket headers: small, setup-time only
		cellSize: p.GridCellSize,
		g:        p.GridBuckets,
		p1:       p.GridPrime1,
		p2:       p.GridPrime2,
		p3:       p.GridPrime3,
	}
	backing := arena.PushSlice[int](a, int(p.GridBuckets)*p.MaxBodyListPerCell)
	for i := range grid.cells {
		grid.cells[i].ids = backing[i*p.MaxBodyListPerCell : (i+1)*p.MaxBodyListPerCell]
	}
	return grid
}

// OverflowedCells reports how many cell insertions were dropped this step
// because a bucket's list was full (spec.md §7 capacity saturation).
func (g *Grid) OverflowedCells() int { return g.overflowedCells }

// Clear empties every bucket without releasing its backing array, and
// resets the overflow counter, per §4.K "counters are reset at the start
// of each fixed step".
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].count = 0
	}
	g.overflowedCells = 0
}

// cellCoord maps a world-space coordinate to its integer cell index.
func (g *Grid) cellCoord(x float64) int32 {
	return int32(math.Floor(x / g.cellSize))
}

// hash implements h(ix,iy,iz) = (ix*p1 xor iy*p2 xor iz*p3) mod G (spec.md
// §4.G), using the two's-complement bit pattern of each signed coordinate
// so negative cells hash deterministically too.
func (g *Grid) hash(ix, iy, iz int32) uint32 {
	h := uint32(ix)*g.p1 ^ uint32(iy)*g.p2 ^ uint32(iz)*g.p3
	return h % g.g
}

// insertCell appends id to the bucket at (ix,iy,iz), dropping it (and
// counting the overflow) if the bucket is already full.
func (g *Grid) insertCell(ix, iy, iz int32, id int) {
	idx := g.hash(ix, iy, iz)
	c := &g.cells[idx]
	if c.count >= len(c.ids) {
		g.overflowedCells++
		return
	}
	c.ids[c.count] = id
	c.count++
}

// Insert inserts id into every cell its AABB overlaps.
func (g *Grid) Insert(id int, box body.AABB) {
	minX, maxX := g.cellCoord(box.Min.X), g.cellCoord(box.Max.X)
	minY, maxY := g.cellCoord(box.Min.Y), g.cellCoord(box.Max.Y)
	minZ, maxZ := g.cellCoord(box.Min.Z), g.cellCoord(box.Max.Z)
	for ix := minX; ix <= maxX; ix++ {
		for iy := minY; iy <= maxY; iy++ {
			for iz := minZ; iz <= maxZ; iz++ {
				g.insertCell(ix, iy, iz, id)
			}
		}
	}
}

// Rebuild clears the grid then inserts every non-sleeping body from bodies
// (spec.md §4.G "for each active non-sleeping body").
func (g *Grid) Rebuild(bodies *body.Set) {
	g.Clear()
	bodies.Each(func(id int) {
		if bodies.IsSleeping(id) {
			return
		}
		g.Insert(id, bodies.AABBOf(id))
	})
}
