// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewc

import (
	"github.com/coldiron/substrate/arena"
	"github.com/coldiron/substrate/nnet"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/floats"
)

// DefaultFisherThreshold is the sparsity cutoff below which a parameter's
// estimated Fisher value is not stored (spec.md §4.E).
const DefaultFisherThreshold = 1e-6

// FisherEntry is one sparse Fisher-information record: a parameter index
// and its estimated importance.
type FisherEntry struct {
	Index uint32
	Value float32
}

// Fisher is a sparse diagonal Fisher-information matrix: a fixed-capacity
// array of entries, appended in strictly increasing parameter-index order
// (spec.md §3 "Fisher matrix").
type Fisher struct {
	entries []FisherEntry
	count   int
}

// NewFisher reserves room for up to maxEntries entries from a.
func NewFisher(a *arena.Arena, maxEntries int) *Fisher {
	return &Fisher{entries: arena.PushSlice[FisherEntry](a, maxEntries)}
}

// Cap returns the maximum number of entries the Fisher matrix can hold.
func (f *Fisher) Cap() int { return len(f.entries) }

// Count returns the current number of stored entries.
func (f *Fisher) Count() int { return f.count }

// Entries returns the live prefix of the entry table, in index order.
func (f *Fisher) Entries() []FisherEntry { return f.entries[:f.count] }

// reset clears the table (used before recomputing from scratch).
func (f *Fisher) reset() {
	for i := 0; i < f.count; i++ {
		f.entries[i] = FisherEntry{}
	}
	f.count = 0
}

// append adds an entry if there is room; returns false (a capacity
// saturation, not an error) if the table is full, per spec.md §7.
func (f *Fisher) append(index uint32, value float32) bool {
	if f.count >= len(f.entries) {
		return false
	}
	f.entries[f.count] = FisherEntry{Index: index, Value: value}
	f.count++
	return true
}

// Compress removes every entry whose value is below threshold, preserving
// the remaining entries' relative (index-ascending) order, per spec.md
// §4.E "compress(threshold)".
func (f *Fisher) Compress(threshold float32) {
	w := 0
	for r := 0; r < f.count; r++ {
		if f.entries[r].Value >= threshold {
			f.entries[w] = f.entries[r]
			w++
		}
	}
	for i := w; i < f.count; i++ {
		f.entries[i] = FisherEntry{}
	}
	f.count = w
}

// ComputeFisher estimates a diagonal Fisher-information matrix: for every
// sample input, it runs the network forward, builds a pseudo-label at the
// model's own predicted class (the standard empirical-Fisher
// approximation), accumulates the squared per-parameter gradient, averages
// over the samples, and stores an entry wherever the average exceeds
// threshold. scratchGrad and scratchSumSq must both have length
// net.ParamCount(); scratchOutput and scratchPseudoTarget must both have
// length equal to net's output size. All four are reused across calls (no
// per-call allocation) and are typically the EWC State's own scratch
// buffers, arena-allocated once at init_ewc time.
func ComputeFisher(f *Fisher, net *nnet.Network, samples [][]float32, threshold float32, scratchGrad, scratchSumSq []float64, scratchOutput, scratchPseudoTarget []float32) {
	f.reset()
	if len(samples) == 0 {
		return
	}

	la.VecFill(scratchSumSq, 0)

	for _, x := range samples {
		net.Forward(x, scratchOutput)
		arg := argmax(scratchOutput)
		for i := range scratchPseudoTarget {
			scratchPseudoTarget[i] = 0
		}
		scratchPseudoTarget[arg] = 1

		net.GradientVector(scratchPseudoTarget, scratchGrad)
		for i, g := range scratchGrad {
			scratchSumSq[i] += g * g
		}
	}

	floats.Scale(1/float64(len(samples)), scratchSumSq)

	for i, v := range scratchSumSq {
		if v > float64(threshold) {
			if !f.append(uint32(i), float32(v)) {
				break // table full: drop the remaining, higher-index entries
			}
		}
	}
}

func argmax(x []float32) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}
