// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import "github.com/coldiron/substrate/vecmath"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max vecmath.V3
}

// Overlap reports whether a and b intersect, per-axis. It is symmetric by
// construction: Overlap(a, b) == Overlap(b, a) for all a, b (spec.md §8
// property 4).
func Overlap(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// planeAABBExtent bounds how far a plane's AABB reaches on the axes it
// doesn't constrain; the broad phase needs a finite box even for an
// infinite shape.
const planeAABBExtent = 1e4

// computeAABB derives the world-space AABB of shape at the given
// transform, rotating the shape's local half-extent by orientation and
// summing the absolute rotated components (spec.md §4.F).
func computeAABB(shape Shape, position vecmath.V3, orientation vecmath.Quat) AABB {
	if shape.Kind == Plane {
		return planeAABB(shape, position)
	}
	ext := shape.LocalExtent()
	r := vecmath.MFromQuat(orientation)
	rotatedExtent := vecmath.V3{
		X: absComponent(r, 0, ext),
		Y: absComponent(r, 1, ext),
		Z: absComponent(r, 2, ext),
	}
	return AABB{
		Min: vecmath.Sub(position, rotatedExtent),
		Max: vecmath.Add(position, rotatedExtent),
	}
}

// absComponent sums |R[row][k]| * ext[k] across the row, the per-axis term
// of the standard rotated-box-extent formula.
func absComponent(r vecmath.Mat4, row int, ext vecmath.V3) float64 {
	base := row * 4
	return abs(r[base])*ext.X + abs(r[base+1])*ext.Y + abs(r[base+2])*ext.Z
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// planeAABBThin is the half-extent of the plane's finite box along its
// normal axis.
const planeAABBThin = 0.01

// planeAABB builds a finite box for an infinite plane: thin along the
// normal, very wide on the plane itself, centered on the plane's closest
// point to the origin.
func planeAABB(shape Shape, _ vecmath.V3) AABB {
	center := vecmath.Scale(shape.Normal, shape.Offset)
	n := vecmath.Abs(shape.Normal)
	lerp := func(nAxis float64) float64 {
		return planeAABBExtent*(1-nAxis) + planeAABBThin*nAxis
	}
	halfExtent := vecmath.V3{X: lerp(n.X), Y: lerp(n.Y), Z: lerp(n.Z)}
	return AABB{Min: vecmath.Sub(center, halfExtent), Max: vecmath.Add(center, halfExtent)}
}
