// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecmath

// Mat4 is a row-major 4x4 matrix, M[row*4+col].
type Mat4 [16]float64

// MIdentity returns the 4x4 identity matrix.
func MIdentity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MFromQuat builds a rotation matrix from a unit quaternion.
func MFromQuat(q Quat) Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, yy, zz := x*x2, y*y2, z*z2
	xy, xz, yz := x*y2, x*z2, y*z2
	wx, wy, wz := w*x2, w*y2, w*z2
	return Mat4{
		1 - (yy + zz), xy - wz, xz + wy, 0,
		xy + wz, 1 - (xx + zz), yz - wx, 0,
		xz - wy, yz + wx, 1 - (xx + yy), 0,
		0, 0, 0, 1,
	}
}

// MTranslate builds a pure translation matrix.
func MTranslate(t V3) Mat4 {
	m := MIdentity()
	m[3] = t.X
	m[7] = t.Y
	m[11] = t.Z
	return m
}

// MMul composes two row-major matrices: (a*b) applied to a point is
// a.MultiplyPoint(b.MultiplyPoint(p)).
func MMul(a, b Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[r*4+k] * b[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// MMulPoint transforms a point (implicit w=1), including translation.
func MMulPoint(m Mat4, p V3) V3 {
	return V3{
		m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// MMulDir transforms a direction (implicit w=0), excluding translation.
func MMulDir(m Mat4, d V3) V3 {
	return V3{
		m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		m[4]*d.X + m[5]*d.Y + m[6]*d.Z,
		m[8]*d.X + m[9]*d.Y + m[10]*d.Z,
	}
}
