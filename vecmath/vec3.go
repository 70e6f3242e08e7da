// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vecmath is the math kernel (SPEC_FULL.md component B): 3-vectors,
// quaternions, 4x4 matrices, and deterministic fixed-point arithmetic.
// 3-vectors (Add4/Sub4/Scale4/Dot4) and 16.16 fixed point
// (Fx16Add4/Fx16Mul4) have batched (four-lanes-at-a-time) variants that
// are bit-identical to their scalar counterparts for equal inputs;
// quaternions, matrices and 32.32 fixed point are scalar only. There is no
// true SIMD here — Go has no portable intrinsics in the examined corpus —
// so "batched" means a fixed four-lane loop, which is what gives the
// bit-identical guarantee for free: the batched path literally calls the
// scalar path per lane.
package vecmath

import "math"

// V3 is a 3-component vector.
type V3 struct {
	X, Y, Z float64
}

// Zero3 is the additive identity.
var Zero3 = V3{}

func Add(a, b V3) V3 { return V3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func Sub(a, b V3) V3 { return V3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func Scale(a V3, s float64) V3 { return V3{a.X * s, a.Y * s, a.Z * s} }

func Dot(a, b V3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func Cross(a, b V3) V3 {
	return V3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func LengthSq(a V3) float64 { return Dot(a, a) }

func Length(a V3) float64 { return math.Sqrt(LengthSq(a)) }

// Normalize returns a unit vector along a. Degenerate (near-zero) input
// falls back deterministically to the +X axis rather than propagating NaN
// (SPEC_FULL.md "Degenerate numerics").
func Normalize(a V3) V3 {
	l := Length(a)
	if l < 1e-12 {
		return V3{1, 0, 0}
	}
	return Scale(a, 1/l)
}

// Abs returns the component-wise absolute value, used when rotating an
// AABB half-extent by an orientation (sum of |R_ij| * extent_j).
func Abs(a V3) V3 { return V3{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)} }

func Neg(a V3) V3 { return V3{-a.X, -a.Y, -a.Z} }

// Lane4 is a structure-of-arrays group of four vectors, the batch unit for
// the *4 kernels below.
type Lane4 [4]V3

// Add4 adds corresponding lanes of a and b into out. It is a plain loop
// over Add, which is exactly what makes it bit-identical to four scalar
// Add calls for equal inputs — there is no separate "vectorized" code
// path to drift from the scalar one.
func Add4(out, a, b *Lane4) {
	for i := 0; i < 4; i++ {
		out[i] = Add(a[i], b[i])
	}
}

func Sub4(out, a, b *Lane4) {
	for i := 0; i < 4; i++ {
		out[i] = Sub(a[i], b[i])
	}
}

func Scale4(out, a *Lane4, s float64) {
	for i := 0; i < 4; i++ {
		out[i] = Scale(a[i], s)
	}
}

func Dot4(out *[4]float64, a, b *Lane4) {
	for i := 0; i < 4; i++ {
		out[i] = Dot(a[i], b[i])
	}
}
