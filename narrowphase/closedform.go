// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package narrowphase

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

type bodyInfo struct {
	ID       int
	Position vecmath.V3
	Orient   vecmath.Quat
	Shape    body.Shape
	Material body.Material
}

func infoOf(bodies *body.Set, id int) bodyInfo {
	v := bodies.Get(id)
	return bodyInfo{ID: id, Position: v.Position, Orient: v.Orientation, Shape: v.Shape, Material: v.Material}
}

func finalize(m *Manifold, a, b bodyInfo) {
	m.BodyA, m.BodyB = a.ID, b.ID
	m.Restitution = body.CombineRestitution(a.Material, b.Material)
	m.Friction = body.CombineFriction(a.Material, b.Material)
	m.Tangent1, m.Tangent2 = buildTangentBasis(m.Normal)
}

// sphereSphere is the closed form of spec.md §4.H: "penetration = rA+rB-d;
// normal along the center line; single contact at the weighted midpoint."
func sphereSphere(a, b bodyInfo) (Manifold, bool) {
	delta := vecmath.Sub(b.Position, a.Position)
	d := vecmath.Length(delta)
	sum := a.Shape.Radius + b.Shape.Radius
	if d >= sum {
		return Manifold{}, false
	}
	normal := vecmath.Normalize(delta)
	penetration := sum - d
	// weighted midpoint: the point splitting the overlap proportionally to
	// each sphere's radius, landing exactly on the contact surface for
	// equal radii.
	wa := a.Shape.Radius / sum
	point := vecmath.Add(a.Position, vecmath.Scale(delta, wa))

	var m Manifold
	m.Normal = normal
	m.Count = 1
	m.Points[0] = ContactPoint{Point: point, Penetration: penetration}
	finalize(&m, a, b)
	return m, true
}

// sphereBox is the closed form of spec.md §4.H: "clamp sphere center to
// box in box-local frame; penetration = r - |clamp-center|; degenerate
// case (center inside box) selects the minimum-separation axis."
func sphereBox(sphere, box bodyInfo) (Manifold, bool) {
	inv := conjugate(box.Orient)
	localCenter := vecmath.QRotateVec(inv, vecmath.Sub(sphere.Position, box.Position))
	ext := box.Shape.HalfExtent

	clamped := vecmath.V3{
		X: clampF(localCenter.X, -ext.X, ext.X),
		Y: clampF(localCenter.Y, -ext.Y, ext.Y),
		Z: clampF(localCenter.Z, -ext.Z, ext.Z),
	}

	diff := vecmath.Sub(localCenter, clamped)
	dist := vecmath.Length(diff)

	var localNormal vecmath.V3
	var penetration float64
	if dist > 1e-9 {
		if dist >= sphere.Shape.Radius {
			return Manifold{}, false
		}
		localNormal = vecmath.Scale(diff, 1/dist)
		penetration = sphere.Shape.Radius - dist
	} else {
		// center inside the box: select the minimum-separation axis.
		sep := [6]float64{
			ext.X - localCenter.X, localCenter.X + ext.X,
			ext.Y - localCenter.Y, localCenter.Y + ext.Y,
			ext.Z - localCenter.Z, localCenter.Z + ext.Z,
		}
		axisNormals := [6]vecmath.V3{
			{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1},
		}
		best := 0
		for i := 1; i < 6; i++ {
			if sep[i] < sep[best] {
				best = i
			}
		}
		localNormal = axisNormals[best]
		penetration = sep[best] + sphere.Shape.Radius
		clamped = localCenter
	}

	worldNormal := vecmath.QRotateVec(box.Orient, localNormal)
	worldClamped := vecmath.Add(box.Position, vecmath.QRotateVec(box.Orient, clamped))

	var m Manifold
	// normal points from A (sphere) to B (box) per the manifold convention.
	m.Normal = vecmath.Neg(worldNormal)
	m.Count = 1
	m.Points[0] = ContactPoint{Point: worldClamped, Penetration: penetration}
	finalize(&m, sphere, box)
	return m, true
}

// spherePlane tests a sphere against an infinite plane satisfying
// dot(Normal, x) == Offset.
func spherePlane(sphere, plane bodyInfo) (Manifold, bool) {
	d := vecmath.Dot(plane.Shape.Normal, sphere.Position) - plane.Shape.Offset
	if d >= sphere.Shape.Radius {
		return Manifold{}, false
	}
	penetration := sphere.Shape.Radius - d
	point := vecmath.Sub(sphere.Position, vecmath.Scale(plane.Shape.Normal, d))

	var m Manifold
	// normal points from A (sphere) to B (plane) per the manifold convention.
	m.Normal = vecmath.Neg(plane.Shape.Normal)
	m.Count = 1
	m.Points[0] = ContactPoint{Point: point, Penetration: penetration}
	finalize(&m, sphere, plane)
	return m, true
}

// boxPlane tests each of a box's eight world-space vertices against the
// plane, emitting up to MaxContactPoints contacts for the ones below the
// surface (deepest first), which is what lets a box settle flat (spec.md
// §8 scenario S2).
func boxPlane(box, plane bodyInfo) (Manifold, bool) {
	ext := box.Shape.HalfExtent
	var verts [8]vecmath.V3
	signs := [8][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	}
	for i, s := range signs {
		local := vecmath.V3{X: s[0] * ext.X, Y: s[1] * ext.Y, Z: s[2] * ext.Z}
		verts[i] = vecmath.Add(box.Position, vecmath.QRotateVec(box.Orient, local))
	}

	type cand struct {
		point       vecmath.V3
		penetration float64
	}
	var deepest [8]cand
	n := 0
	for _, v := range verts {
		d := vecmath.Dot(plane.Shape.Normal, v) - plane.Shape.Offset
		if d < 0 {
			deepest[n] = cand{point: v, penetration: -d}
			n++
		}
	}
	if n == 0 {
		return Manifold{}, false
	}
	// insertion sort by descending penetration, keep the deepest
	// MaxContactPoints.
	for i := 1; i < n; i++ {
		key := deepest[i]
		j := i - 1
		for j >= 0 && deepest[j].penetration < key.penetration {
			deepest[j+1] = deepest[j]
			j--
		}
		deepest[j+1] = key
	}
	if n > MaxContactPoints {
		n = MaxContactPoints
	}

	var m Manifold
	m.Normal = vecmath.Neg(plane.Shape.Normal)
	m.Count = n
	for i := 0; i < n; i++ {
		m.Points[i] = ContactPoint{Point: deepest[i].point, Penetration: deepest[i].penetration}
	}
	finalize(&m, box, plane)
	return m, true
}

// capsulePlane tests each of a capsule's two hemisphere centers against
// the plane (the capsule's medial axis endpoints), at most one contact per
// end.
func capsulePlane(capsule, plane bodyInfo) (Manifold, bool) {
	axis := vecmath.QRotateVec(capsule.Orient, vecmath.V3{Y: 1})
	ends := [2]vecmath.V3{
		vecmath.Add(capsule.Position, vecmath.Scale(axis, capsule.Shape.HalfHeight)),
		vecmath.Sub(capsule.Position, vecmath.Scale(axis, capsule.Shape.HalfHeight)),
	}

	var m Manifold
	m.Normal = vecmath.Neg(plane.Shape.Normal)
	for _, end := range ends {
		d := vecmath.Dot(plane.Shape.Normal, end) - plane.Shape.Offset - capsule.Shape.Radius
		if d < 0 && m.Count < MaxContactPoints {
			point := vecmath.Sub(end, vecmath.Scale(plane.Shape.Normal, d+capsule.Shape.Radius))
			m.Points[m.Count] = ContactPoint{Point: point, Penetration: -d}
			m.Count++
		}
	}
	if m.Count == 0 {
		return Manifold{}, false
	}
	finalize(&m, capsule, plane)
	return m, true
}

// capsuleSphere treats the capsule as a swept sphere: closest point on its
// medial segment to the sphere center, then a sphere/sphere test at that
// point.
func capsuleSphere(capsule, sphere bodyInfo) (Manifold, bool) {
	axis := vecmath.QRotateVec(capsule.Orient, vecmath.V3{Y: 1})
	a := vecmath.Add(capsule.Position, vecmath.Scale(axis, capsule.Shape.HalfHeight))
	b := vecmath.Sub(capsule.Position, vecmath.Scale(axis, capsule.Shape.HalfHeight))
	closest := closestPointOnSegment(a, b, sphere.Position)

	delta := vecmath.Sub(sphere.Position, closest)
	d := vecmath.Length(delta)
	sum := capsule.Shape.Radius + sphere.Shape.Radius
	if d >= sum {
		return Manifold{}, false
	}
	normal := vecmath.Normalize(delta)
	penetration := sum - d
	point := vecmath.Add(closest, vecmath.Scale(normal, capsule.Shape.Radius))

	var m Manifold
	m.Normal = normal
	m.Count = 1
	m.Points[0] = ContactPoint{Point: point, Penetration: penetration}
	finalize(&m, capsule, sphere)
	return m, true
}

func closestPointOnSegment(a, b, p vecmath.V3) vecmath.V3 {
	ab := vecmath.Sub(b, a)
	lenSq := vecmath.Dot(ab, ab)
	if lenSq < 1e-12 {
		return a
	}
	t := vecmath.Dot(vecmath.Sub(p, a), ab) / lenSq
	t = clampF(t, 0, 1)
	return vecmath.Add(a, vecmath.Scale(ab, t))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func conjugate(q vecmath.Quat) vecmath.Quat {
	return vecmath.Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}
