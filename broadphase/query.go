// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"math"

	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

// candidateIDs walks the grid cells overlapping box and calls f once per
// distinct body id found, reusing the same grid every query builds on
// (spec.md §4.G "Overlap queries ... reuse the same grid").
func (g *Grid) candidateIDs(box body.AABB, f func(id int)) {
	seen := make(map[int]struct{}, 16) // query-time only, not the per-step hot path
	minX, maxX := g.cellCoord(box.Min.X), g.cellCoord(box.Max.X)
	minY, maxY := g.cellCoord(box.Min.Y), g.cellCoord(box.Max.Y)
	minZ, maxZ := g.cellCoord(box.Min.Z), g.cellCoord(box.Max.Z)
	for ix := minX; ix <= maxX; ix++ {
		for iy := minY; iy <= maxY; iy++ {
			for iz := minZ; iz <= maxZ; iz++ {
				c := &g.cells[g.hash(ix, iy, iz)]
				for i := 0; i < c.count; i++ {
					id := c.ids[i]
					if _, ok := seen[id]; ok {
						continue
					}
					seen[id] = struct{}{}
					f(id)
				}
			}
		}
	}
}

// OverlapSphere writes up to len(out) ids of bodies whose AABB-refined
// shape overlaps the query sphere into out, returning the count found
// (spec.md §6 "overlap_sphere(center, r, out[], max) -> count").
func (g *Grid) OverlapSphere(bodies *body.Set, center vecmath.V3, radius float64, out []int) int {
	box := body.AABB{
		Min: vecmath.Sub(center, vecmath.V3{X: radius, Y: radius, Z: radius}),
		Max: vecmath.Add(center, vecmath.V3{X: radius, Y: radius, Z: radius}),
	}
	count := 0
	g.candidateIDs(box, func(id int) {
		if count >= len(out) {
			return
		}
		if sphereOverlapsBody(bodies, id, center, radius) {
			out[count] = id
			count++
		}
	})
	return count
}

// OverlapBox writes up to len(out) ids of bodies whose AABB overlaps the
// query box's world AABB into out (a conservative broad-phase-only test,
// consistent with the grid reuse the spec calls for), returning the count
// found.
func (g *Grid) OverlapBox(bodies *body.Set, center, halfExtent vecmath.V3, q vecmath.Quat, out []int) int {
	queryShape := body.NewBox(halfExtent)
	box := queryShape.LocalExtent()
	r := vecmath.MFromQuat(q)
	rotated := vecmath.V3{
		X: absC(r, 0, box), Y: absC(r, 1, box), Z: absC(r, 2, box),
	}
	worldBox := body.AABB{Min: vecmath.Sub(center, rotated), Max: vecmath.Add(center, rotated)}
	count := 0
	g.candidateIDs(worldBox, func(id int) {
		if count >= len(out) {
			return
		}
		if body.Overlap(bodies.AABBOf(id), worldBox) {
			out[count] = id
			count++
		}
	})
	return count
}

func absC(r vecmath.Mat4, row int, ext vecmath.V3) float64 {
	base := row * 4
	return mabs(r[base])*ext.X + mabs(r[base+1])*ext.Y + mabs(r[base+2])*ext.Z
}

func mabs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// sphereOverlapsBody refines a broad-phase hit against id's actual shape
// for a sphere query: sphere/sphere is exact; any other shape kind falls
// back to the AABB test already used to gather the candidate, consistent
// with overlap queries being a conservative broad-phase convenience, not a
// narrow-phase manifold build.
func sphereOverlapsBody(bodies *body.Set, id int, center vecmath.V3, radius float64) bool {
	v := bodies.Get(id)
	if v.Shape.Kind == body.Sphere {
		d := vecmath.Length(vecmath.Sub(v.Position, center))
		return d <= radius+v.Shape.Radius
	}
	box := body.AABB{
		Min: vecmath.Sub(center, vecmath.V3{X: radius, Y: radius, Z: radius}),
		Max: vecmath.Add(center, vecmath.V3{X: radius, Y: radius, Z: radius}),
	}
	return body.Overlap(v.Box, box)
}

// RaycastHit reports a ray-AABB slab-test hit.
type RaycastHit struct {
	Found  bool
	BodyID int
	Point  vecmath.V3
	Normal vecmath.V3
}

// Raycast walks the grid's candidate bodies along the ray's AABB and
// returns the nearest slab-test hit within maxDist (spec.md §6
// "raycast(origin, dir, max_dist) -> (hit?, body_id, point, normal)",
// §4.G "ray-AABB uses the slab test"). dir need not be normalized; it is
// normalized internally.
func Raycast(g *Grid, bodies *body.Set, origin, dir vecmath.V3, maxDist float64) RaycastHit {
	d := vecmath.Normalize(dir)
	rayEnd := vecmath.Add(origin, vecmath.Scale(d, maxDist))
	sweepBox := body.AABB{
		Min: vecmath.V3{X: math.Min(origin.X, rayEnd.X), Y: math.Min(origin.Y, rayEnd.Y), Z: math.Min(origin.Z, rayEnd.Z)},
		Max: vecmath.V3{X: math.Max(origin.X, rayEnd.X), Y: math.Max(origin.Y, rayEnd.Y), Z: math.Max(origin.Z, rayEnd.Z)},
	}

	best := RaycastHit{}
	bestT := math.Inf(1)
	g.candidateIDs(sweepBox, func(id int) {
		v := bodies.Get(id)
		t, ok := slabIntersect(v.Box, origin, d, maxDist)
		if !ok || t >= bestT {
			return
		}
		bestT = t
		point := vecmath.Add(origin, vecmath.Scale(d, t))
		best = RaycastHit{
			Found:  true,
			BodyID: id,
			Point:  point,
			Normal: aabbNormalAt(v.Box, point),
		}
	})
	return best
}

// slabIntersect is the standard ray-AABB slab test, returning the nearest
// entry distance t along the ray if it lies within [0, maxDist].
func slabIntersect(box body.AABB, origin, dir vecmath.V3, maxDist float64) (float64, bool) {
	tmin, tmax := 0.0, maxDist
	axes := [3]struct{ o, d, lo, hi float64 }{
		{origin.X, dir.X, box.Min.X, box.Max.X},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y},
		{origin.Z, dir.Z, box.Min.Z, box.Max.Z},
	}
	for _, ax := range axes {
		if math.Abs(ax.d) < 1e-12 {
			if ax.o < ax.lo || ax.o > ax.hi {
				return 0, false
			}
			continue
		}
		inv := 1 / ax.d
		t0 := (ax.lo - ax.o) * inv
		t1 := (ax.hi - ax.o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// aabbNormalAt returns the outward face normal of box nearest point, used
// to report a deterministic normal for raycast hits against any shape
// (the slab test itself is shape-agnostic).
func aabbNormalAt(box body.AABB, point vecmath.V3) vecmath.V3 {
	faces := []struct {
		dist   float64
		normal vecmath.V3
	}{
		{math.Abs(point.X - box.Min.X), vecmath.V3{X: -1}},
		{math.Abs(point.X - box.Max.X), vecmath.V3{X: 1}},
		{math.Abs(point.Y - box.Min.Y), vecmath.V3{Y: -1}},
		{math.Abs(point.Y - box.Max.Y), vecmath.V3{Y: 1}},
		{math.Abs(point.Z - box.Min.Z), vecmath.V3{Z: -1}},
		{math.Abs(point.Z - box.Max.Z), vecmath.V3{Z: 1}},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.dist < best.dist {
			best = f
		}
	}
	return best.normal
}
