// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnet

// Tile is the block size of the tiled GEMM loop nest (spec.md §4.C).
const Tile = 64

// lanes is the inner-loop accumulation width; the corpus has no real SIMD
// intrinsics, so this is a manually-unrolled accumulation group standing
// in for "the SIMD inner loop accumulates 8 floats at a time" with a
// scalar loop cleaning the remainder.
const lanes = 8

// GEMM computes c[MxN] += a[MxK] * b[KxN], all row-major, using a 64x64
// tiled loop nest over the K (reduction) dimension with an 8-wide
// accumulation group and a scalar tail. c is not zeroed first, so callers
// that want C = A*B (rather than an accumulate) must zero c themselves.
func GEMM(c []float32, m, n int, a []float32, k int, b []float32) {
	for i0 := 0; i0 < m; i0 += Tile {
		iEnd := minInt(i0+Tile, m)
		for j0 := 0; j0 < n; j0 += Tile {
			jEnd := minInt(j0+Tile, n)
			for k0 := 0; k0 < k; k0 += Tile {
				kEnd := minInt(k0+Tile, k)
				for i := i0; i < iEnd; i++ {
					arow := a[i*k : i*k+k]
					crow := c[i*n : i*n+n]
					for j := j0; j < jEnd; j++ {
						sum := crow[j]
						kk := k0
						for ; kk+lanes <= kEnd; kk += lanes {
							var acc float32
							for l := 0; l < lanes; l++ {
								acc += arow[kk+l] * b[(kk+l)*n+j]
							}
							sum += acc
						}
						for ; kk < kEnd; kk++ { // scalar tail
							sum += arow[kk] * b[kk*n+j]
						}
						crow[j] = sum
					}
				}
			}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
