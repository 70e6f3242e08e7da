// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package narrowphase

import (
	"github.com/coldiron/substrate/body"
	"github.com/coldiron/substrate/vecmath"
)

// supportPoint returns the farthest point of info's shape along world
// direction dir, the primitive every GJK/EPA iteration is built from.
// Plane has no finite support and must never reach this function; callers
// dispatch plane pairs through the closed-form routines instead.
func supportPoint(info bodyInfo, dir vecmath.V3) vecmath.V3 {
	switch info.Shape.Kind {
	case body.Sphere:
		n := vecmath.Normalize(dir)
		return vecmath.Add(info.Position, vecmath.Scale(n, info.Shape.Radius))
	case body.Box:
		localDir := vecmath.QRotateVec(conjugate(info.Orient), dir)
		ext := info.Shape.HalfExtent
		local := vecmath.V3{
			X: signedExtent(localDir.X, ext.X),
			Y: signedExtent(localDir.Y, ext.Y),
			Z: signedExtent(localDir.Z, ext.Z),
		}
		return vecmath.Add(info.Position, vecmath.QRotateVec(info.Orient, local))
	case body.Capsule:
		localDir := vecmath.QRotateVec(conjugate(info.Orient), dir)
		segY := info.Shape.HalfHeight
		if localDir.Y < 0 {
			segY = -segY
		}
		localCenter := vecmath.V3{Y: segY}
		n := vecmath.Normalize(dir)
		return vecmath.Add(vecmath.Add(info.Position, vecmath.QRotateVec(info.Orient, localCenter)), vecmath.Scale(n, info.Shape.Radius))
	default:
		return info.Position
	}
}

func signedExtent(dirComp, ext float64) float64 {
	if dirComp < 0 {
		return -ext
	}
	return ext
}

// minkowskiSupport returns the support of the Minkowski difference A-B
// along dir.
func minkowskiSupport(a, b bodyInfo, dir vecmath.V3) vecmath.V3 {
	return vecmath.Sub(supportPoint(a, dir), supportPoint(b, vecmath.Neg(dir)))
}
