// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package narrowphase

import "github.com/coldiron/substrate/vecmath"

// simplex is the up-to-4-point set GJK evolves toward enclosing the
// origin, stored newest-first (simplex.pts[0] is the most recently added
// support point) as a fixed-size array so a narrow-phase test against one
// pair never touches the Go allocator.
type simplex struct {
	pts [4]vecmath.V3
	n   int
}

func (s *simplex) push(p vecmath.V3) {
	for i := s.n; i > 0; i-- {
		s.pts[i] = s.pts[i-1]
	}
	s.pts[0] = p
	if s.n < 4 {
		s.n++
	}
}

// gjkResult carries the final simplex out of a successful GJK run, the
// seed EPA expands into a full polytope.
type gjkResult struct {
	simplex simplex
}

// gjk runs the GJK distance algorithm over the Minkowski difference of a
// and b, terminating after at most maxIterations iterations or when the
// support along the current direction stops improving (spec.md §4.H
// "GJK over Minkowski-difference supports ... terminates on
// non-improvement of the support along the current direction"). Returns
// (result, true) on overlap.
func gjk(a, b bodyInfo, maxIterations int) (gjkResult, bool) {
	dir := vecmath.Sub(b.Position, a.Position)
	if vecmath.Length(dir) < 1e-9 {
		dir = vecmath.V3{X: 1}
	}

	var s simplex
	s.push(minkowskiSupport(a, b, dir))
	dir = vecmath.Neg(s.pts[0])

	lastSupportDot := -1.0
	for iter := 0; iter < maxIterations; iter++ {
		if vecmath.Length(dir) < 1e-12 {
			return gjkResult{simplex: s}, true
		}
		p := minkowskiSupport(a, b, dir)
		d := vecmath.Dot(p, dir)
		if d < 0 {
			return gjkResult{}, false
		}
		if iter > 0 && d <= lastSupportDot+1e-10 {
			// non-improvement: the direction has converged without
			// enclosing the origin and without a separating axis either;
			// with at least three simplex points, treat as a (shallow)
			// overlap so the caller still gets a manifold rather than
			// silently dropping contact; with fewer, report no overlap.
			return gjkResult{simplex: s}, s.n >= 3
		}
		lastSupportDot = d
		s.push(p)

		if doSimplex(&s, &dir) {
			return gjkResult{simplex: s}, true
		}
	}
	return gjkResult{simplex: s}, s.n >= 4
}

// doSimplex reduces s to the minimal sub-simplex closest to the origin and
// updates dir to point from that sub-simplex toward the origin. Returns
// true once s is a tetrahedron containing the origin.
func doSimplex(s *simplex, dir *vecmath.V3) bool {
	switch s.n {
	case 2:
		return lineCase(s, dir)
	case 3:
		return triangleCase(s, dir)
	case 4:
		return tetrahedronCase(s, dir)
	default:
		return false
	}
}

func sameDir(a, b vecmath.V3) bool { return vecmath.Dot(a, b) > 0 }

func lineCase(s *simplex, dir *vecmath.V3) bool {
	a, b := s.pts[0], s.pts[1]
	ab := vecmath.Sub(b, a)
	ao := vecmath.Neg(a)
	if sameDir(ab, ao) {
		*dir = vecmath.Cross(vecmath.Cross(ab, ao), ab)
	} else {
		s.pts[0] = a
		s.n = 1
		*dir = ao
	}
	return false
}

func triangleCase(s *simplex, dir *vecmath.V3) bool {
	a, b, c := s.pts[0], s.pts[1], s.pts[2]
	ab := vecmath.Sub(b, a)
	ac := vecmath.Sub(c, a)
	ao := vecmath.Neg(a)
	abc := vecmath.Cross(ab, ac)

	if sameDir(vecmath.Cross(abc, ac), ao) {
		if sameDir(ac, ao) {
			s.pts[0], s.pts[1] = a, c
			s.n = 2
			*dir = vecmath.Cross(vecmath.Cross(ac, ao), ac)
		} else {
			return edgeFallback(s, dir, a, b, ao, ab)
		}
		return false
	}
	if sameDir(vecmath.Cross(ab, abc), ao) {
		return edgeFallback(s, dir, a, b, ao, ab)
	}
	if sameDir(abc, ao) {
		*dir = abc
	} else {
		s.pts[0], s.pts[1], s.pts[2] = a, c, b
		*dir = vecmath.Neg(abc)
	}
	return false
}

func edgeFallback(s *simplex, dir *vecmath.V3, a, b, ao, ab vecmath.V3) bool {
	if sameDir(ab, ao) {
		s.pts[0], s.pts[1] = a, b
		s.n = 2
		*dir = vecmath.Cross(vecmath.Cross(ab, ao), ab)
	} else {
		s.pts[0] = a
		s.n = 1
		*dir = ao
	}
	return false
}

func tetrahedronCase(s *simplex, dir *vecmath.V3) bool {
	a, b, c, d := s.pts[0], s.pts[1], s.pts[2], s.pts[3]
	ao := vecmath.Neg(a)

	abc := vecmath.Cross(vecmath.Sub(b, a), vecmath.Sub(c, a))
	acd := vecmath.Cross(vecmath.Sub(c, a), vecmath.Sub(d, a))
	adb := vecmath.Cross(vecmath.Sub(d, a), vecmath.Sub(b, a))

	if sameDir(abc, ao) {
		s.pts[0], s.pts[1], s.pts[2] = a, b, c
		s.n = 3
		*dir = abc
		triangleCase(s, dir)
		return false
	}
	if sameDir(acd, ao) {
		s.pts[0], s.pts[1], s.pts[2] = a, c, d
		s.n = 3
		*dir = acd
		triangleCase(s, dir)
		return false
	}
	if sameDir(adb, ao) {
		s.pts[0], s.pts[1], s.pts[2] = a, d, b
		s.n = 3
		*dir = adb
		triangleCase(s, dir)
		return false
	}
	return true
}
