// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package narrowphase

import "github.com/coldiron/substrate/vecmath"

const (
	epaMaxPoints = 40
	epaMaxFaces  = 80
	epaMaxEdges  = 80
)

type epaFace struct {
	a, b, c int
	normal  vecmath.V3
	dist    float64
}

type epaEdge struct{ a, b int }

// epaPolytope is the expanding polytope EPA iterates on, entirely
// fixed-size arrays: a narrow-phase test against one pair allocates
// nothing on the heap regardless of how many expansion steps it takes
// (bounded by epaMaxFaces).
type epaPolytope struct {
	points [epaMaxPoints]vecmath.V3
	nPts   int
	faces  [epaMaxFaces]epaFace
	nFaces int
}

func (p *epaPolytope) addPoint(v vecmath.V3) int {
	if p.nPts >= epaMaxPoints {
		return p.nPts - 1
	}
	p.points[p.nPts] = v
	p.nPts++
	return p.nPts - 1
}

func (p *epaPolytope) addFace(a, b, c int) {
	if p.nFaces >= epaMaxFaces {
		return
	}
	normal := vecmath.Normalize(vecmath.Cross(vecmath.Sub(p.points[b], p.points[a]), vecmath.Sub(p.points[c], p.points[a])))
	dist := vecmath.Dot(normal, p.points[a])
	if dist < 0 {
		// keep normals outward-facing (away from the origin, which lies
		// inside the polytope during EPA by construction).
		a, b = b, a
		normal = vecmath.Neg(normal)
		dist = -dist
	}
	p.faces[p.nFaces] = epaFace{a: a, b: b, c: c, normal: normal, dist: dist}
	p.nFaces++
}

// buildFromTetrahedron seeds the polytope from s's four points, assuming
// they already enclose the origin (GJK's termination condition).
func (p *epaPolytope) buildFromTetrahedron(s simplex) {
	p.nPts, p.nFaces = 0, 0
	ia := p.addPoint(s.pts[0])
	ib := p.addPoint(s.pts[1])
	ic := p.addPoint(s.pts[2])
	id := p.addPoint(s.pts[3])
	p.addFace(ia, ib, ic)
	p.addFace(ia, ic, id)
	p.addFace(ia, id, ib)
	p.addFace(ib, id, ic)
}

func (p *epaPolytope) closestFace() int {
	best := 0
	for i := 1; i < p.nFaces; i++ {
		if p.faces[i].dist < p.faces[best].dist {
			best = i
		}
	}
	return best
}

// epaExpand runs EPA from a GJK-terminated simplex, returning the contact
// normal and penetration depth of the face closest to the origin once
// further support points stop improving by more than tolerance (spec.md
// §4.H "EPA expands the simplex ... returns the face closest to the
// origin as (normal, penetration), with a tolerance of 10^-4 on further
// progress"). This module treats EPA's exact rebuild strategy as a
// black-box convergence contract (spec.md §9 open question): the polytope
// here is patched incrementally each iteration, removing the faces that
// see the new support point and closing the hole with faces from the
// silhouette edges to that point.
func epaExpand(a, b bodyInfo, s simplex, maxIterations int, tolerance float64) (vecmath.V3, float64, bool) {
	if s.n < 4 {
		return fallbackSeparation(a, b)
	}

	var poly epaPolytope
	poly.buildFromTetrahedron(s)
	if poly.nFaces == 0 {
		return fallbackSeparation(a, b)
	}

	var edges [epaMaxEdges]epaEdge
	for iter := 0; iter < maxIterations; iter++ {
		fi := poly.closestFace()
		face := poly.faces[fi]
		support := minkowskiSupport(a, b, face.normal)
		d := vecmath.Dot(face.normal, support)

		if d-face.dist < tolerance {
			return face.normal, face.dist, true
		}

		newPt := poly.addPoint(support)

		nEdges := 0
		var survivors [epaMaxFaces]epaFace
		nSurvivors := 0
		for i := 0; i < poly.nFaces; i++ {
			f := poly.faces[i]
			if vecmath.Dot(f.normal, vecmath.Sub(support, poly.points[f.a])) > 0 {
				nEdges = addUniqueEdge(&edges, nEdges, f.a, f.b)
				nEdges = addUniqueEdge(&edges, nEdges, f.b, f.c)
				nEdges = addUniqueEdge(&edges, nEdges, f.c, f.a)
				continue
			}
			survivors[nSurvivors] = f
			nSurvivors++
		}
		poly.nFaces = 0
		for i := 0; i < nSurvivors; i++ {
			f := survivors[i]
			poly.faces[poly.nFaces] = f
			poly.nFaces++
		}
		for i := 0; i < nEdges; i++ {
			poly.addFace(edges[i].a, edges[i].b, newPt)
		}
		if poly.nFaces == 0 {
			return face.normal, face.dist, true
		}
	}

	fi := poly.closestFace()
	return poly.faces[fi].normal, poly.faces[fi].dist, true
}

// addUniqueEdge keeps the silhouette edge list free of edges shared by two
// removed faces (those are interior to the new cavity, not its boundary).
func addUniqueEdge(edges *[epaMaxEdges]epaEdge, n, a, b int) int {
	for i := 0; i < n; i++ {
		if edges[i].a == b && edges[i].b == a {
			edges[i] = edges[n-1]
			return n - 1
		}
	}
	if n >= epaMaxEdges {
		return n
	}
	edges[n] = epaEdge{a: a, b: b}
	return n + 1
}

// fallbackSeparation handles a degenerate GJK termination (fewer than 4
// simplex points reached, e.g. the non-improvement early-out) with a
// shallow, deterministic contact along the center-line direction rather
// than aborting the narrow phase (spec.md §7 "degenerate numerics").
func fallbackSeparation(a, b bodyInfo) (vecmath.V3, float64, bool) {
	delta := vecmath.Sub(b.Position, a.Position)
	n := vecmath.Normalize(delta)
	return n, 1e-4, true
}
