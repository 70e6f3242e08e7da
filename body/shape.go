// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package body owns the SoA body table every world keeps: transforms,
// velocities, accumulators, shapes, materials, mass properties, and AABBs,
// indexed by a stable body id across step boundaries (spec.md §9 "cyclic
// graphs"). Shapes and materials are sum types with an explicit
// discriminant, dispatched by exhaustive match, never open inheritance
// (spec.md §9 "tagged unions").
package body

import "github.com/coldiron/substrate/vecmath"

// ShapeKind discriminates the Shape union.
type ShapeKind int

const (
	Sphere ShapeKind = iota
	Box
	Capsule
	Plane
)

// Shape is a tagged union over the four collision primitives spec.md
// §4.F/§4.H name. Only the fields matching Kind are meaningful.
type Shape struct {
	Kind ShapeKind

	Radius     float64   // Sphere, Capsule
	HalfExtent vecmath.V3 // Box
	HalfHeight float64   // Capsule: half the cylindrical segment length, axis Y
	Normal     vecmath.V3 // Plane
	Offset     float64   // Plane: signed distance along Normal, plane equation n.x = d
}

// UnitSphere is the default shape create_body assigns before set_shape is
// ever called.
func UnitSphere() Shape { return Shape{Kind: Sphere, Radius: 1} }

// NewSphere builds a Sphere shape of the given radius.
func NewSphere(radius float64) Shape { return Shape{Kind: Sphere, Radius: radius} }

// NewBox builds a Box shape from half-extents.
func NewBox(halfExtent vecmath.V3) Shape { return Shape{Kind: Box, HalfExtent: halfExtent} }

// NewCapsule builds a Capsule shape: a cylinder of the given radius and
// half-height, axis along local Y, capped by two hemispheres.
func NewCapsule(radius, halfHeight float64) Shape {
	return Shape{Kind: Capsule, Radius: radius, HalfHeight: halfHeight}
}

// NewPlane builds a static Plane shape satisfying dot(Normal, x) == Offset.
func NewPlane(normal vecmath.V3, offset float64) Shape {
	return Shape{Kind: Plane, Normal: vecmath.Normalize(normal), Offset: offset}
}

// LocalExtent returns the shape's local-frame half-extent box used by the
// AABB rotation formula in spec.md §4.F ("rotates the local extent by the
// current orientation and sums absolute rotated components"). Planes have
// no finite extent; callers special-case Plane before calling this.
func (s Shape) LocalExtent() vecmath.V3 {
	switch s.Kind {
	case Sphere:
		return vecmath.V3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	case Box:
		return s.HalfExtent
	case Capsule:
		h := s.HalfHeight + s.Radius
		return vecmath.V3{X: s.Radius, Y: h, Z: s.Radius}
	default:
		return vecmath.V3{}
	}
}
