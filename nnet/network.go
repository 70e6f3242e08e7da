// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnet

import "github.com/coldiron/substrate/arena"

// Network is a forward-only (unless Backward is called) stack of dense
// layers composed left to right, matching spec.md §6's
// `init_network(arena, input_size, h1, h2, output_size)`.
type Network struct {
	Layers []*Layer
}

// InitNetwork builds the fixed 4-layer topology named in §6: two ReLU
// hidden layers sized h1, h2, and a softmax output layer. All buffers come
// from a; the network performs no further allocation.
func InitNetwork(a *arena.Arena, inputSize, h1, h2, outputSize int) *Network {
	return &Network{
		Layers: []*Layer{
			newLayer(a, inputSize, h1, ReLU),
			newLayer(a, h1, h2, ReLU),
			newLayer(a, h2, outputSize, Softmax),
		},
	}
}

// Forward composes layers left to right, feeding each layer's activation
// as the next layer's input, and copies the final activation into output.
func (n *Network) Forward(input, output []float32) {
	cur := input
	for _, l := range n.Layers {
		l.forward(cur)
		cur = l.A
	}
	copy(output, cur)
}

// Output returns the last layer's activation buffer directly (no copy),
// for read-only introspection (component K).
func (n *Network) Output() []float32 {
	return n.Layers[len(n.Layers)-1].A
}

// computeDeltas runs the backward recursion, filling every layer's Grad
// (dL/dz) buffer given the output target, without touching any weight.
// Backward and GradientVector both build on this so the two never disagree
// about what the gradient is.
func (n *Network) computeDeltas(target []float32) {
	last := len(n.Layers) - 1
	out := n.Layers[last]
	for i := range out.Grad {
		out.Grad[i] = out.A[i] - target[i]
	}
	for li := last; li > 0; li-- {
		l := n.Layers[li]
		prev := n.Layers[li-1]
		for i := 0; i < prev.OutSize; i++ {
			var sum float32
			for o := 0; o < l.OutSize; o++ {
				sum += l.W[o*l.InSize+i] * l.Grad[o]
			}
			prev.Grad[i] = sum * activationDeriv(prev.Kind, prev.Z[i], prev.A[i])
		}
	}
}

// Backward runs dense backprop with the output layer treated as
// cross-entropy-over-softmax (so its delta is simply `a - target`) and
// applies gradients with learning rate lr. Accumulation order is the fixed
// layer order then fixed unit order within each layer: the same inputs
// always produce the same sequence of floating point operations.
func (n *Network) Backward(target []float32, lr float32) {
	n.computeDeltas(target)
	for _, l := range n.Layers {
		for o := 0; o < l.OutSize; o++ {
			g := l.Grad[o]
			row := l.W[o*l.InSize : o*l.InSize+l.InSize]
			for i := range row {
				row[i] -= lr * g * l.in[i]
			}
			l.B[o] -= lr * g
		}
	}
}

// GradientVector fills out (len == ParamCount()) with dL/dθ in the same
// flattened order as ReadParams/WriteParams, without mutating any weight.
// EWC's Fisher-information estimate (an average of squared gradients over
// sample inputs) is built from repeated calls to this.
func (n *Network) GradientVector(target []float32, out []float64) {
	n.computeDeltas(target)
	idx := 0
	for _, l := range n.Layers {
		for o := 0; o < l.OutSize; o++ {
			g := float64(l.Grad[o])
			for i := 0; i < l.InSize; i++ {
				out[idx] = g * float64(l.in[i])
				idx++
			}
		}
		for o := 0; o < l.OutSize; o++ {
			out[idx] = float64(l.Grad[o])
			idx++
		}
	}
}

// ParamCount returns the total number of trainable scalars across every
// layer, in the flattened order used by ReadParams/WriteParams/
// ApplyParamGradients. EWC sizes its parameter vector from this.
func (n *Network) ParamCount() int {
	total := 0
	for _, l := range n.Layers {
		total += l.ParamCount()
	}
	return total
}

// ReadParams copies every weight then every bias of each layer, in layer
// order, into out (len(out) must equal ParamCount()). This is the
// "scratch current_parameters vector" spec.md §3 describes EWC reading
// weights into.
func (n *Network) ReadParams(out []float64) {
	idx := 0
	for _, l := range n.Layers {
		for _, w := range l.W {
			out[idx] = float64(w)
			idx++
		}
		for _, b := range l.B {
			out[idx] = float64(b)
			idx++
		}
	}
}

// WriteParams is the inverse of ReadParams: it overwrites every weight and
// bias from a flattened parameter vector, used to restore a θ* snapshot.
func (n *Network) WriteParams(in []float64) {
	idx := 0
	for _, l := range n.Layers {
		for i := range l.W {
			l.W[i] = float32(in[idx])
			idx++
		}
		for i := range l.B {
			l.B[i] = float32(in[idx])
			idx++
		}
	}
}

// ApplyParamGradients subtracts lr*grad[i] from parameter i in the same
// flattened order as ReadParams, used by EWC's
// update_parameters_with_ewc to fold the EWC gradient contribution into an
// ordinary SGD step.
func (n *Network) ApplyParamGradients(grad []float64, lr float64) {
	idx := 0
	for _, l := range n.Layers {
		for i := range l.W {
			l.W[i] -= float32(lr * grad[idx])
			idx++
		}
		for i := range l.B {
			l.B[i] -= float32(lr * grad[idx])
			idx++
		}
	}
}
