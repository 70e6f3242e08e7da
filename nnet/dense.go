// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnet

import "github.com/coldiron/substrate/arena"

// Layer is a single dense layer: weight matrix (OutSize x InSize), bias
// vector, activation buffer, and gradient buffer, all arena-allocated at
// construction (spec.md §3 "Dense layer").
type Layer struct {
	InSize, OutSize int
	Kind            Activation

	W    []float32 // OutSize*InSize, row-major: W[o*InSize+i]
	B    []float32 // OutSize
	Z    []float32 // pre-activation, OutSize
	A    []float32 // post-activation, OutSize
	Grad []float32 // dL/dz for this layer, OutSize

	in []float32 // reference to the input this layer last saw; not owned
}

func newLayer(a *arena.Arena, inSize, outSize int, kind Activation) *Layer {
	return &Layer{
		InSize:  inSize,
		OutSize: outSize,
		Kind:    kind,
		W:       arena.PushSlice[float32](a, outSize*inSize),
		B:       arena.PushSlice[float32](a, outSize),
		Z:       arena.PushSlice[float32](a, outSize),
		A:       arena.PushSlice[float32](a, outSize),
		Grad:    arena.PushSlice[float32](a, outSize),
	}
}

// SetWeight writes a single weight, used by tests and by callers that seed
// deterministic weights (e.g. spec.md S4's `0.01*((i%100)-50)` pattern).
func (l *Layer) SetWeight(out, in int, v float32) { l.W[out*l.InSize+in] = v }

func (l *Layer) forward(input []float32) {
	l.in = input
	for o := 0; o < l.OutSize; o++ {
		sum := l.B[o]
		row := l.W[o*l.InSize : o*l.InSize+l.InSize]
		for i, w := range row {
			sum += w * input[i]
		}
		l.Z[o] = sum
	}
	copy(l.A, l.Z)
	ApplyActivation(l.Kind, l.A)
}

// ParamCount returns the number of trainable scalars (weights + biases) in
// the layer, used by EWC to size its parameter vector.
func (l *Layer) ParamCount() int { return len(l.W) + len(l.B) }
