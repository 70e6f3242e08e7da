// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rnn is the LSTM core (SPEC_FULL.md component D): weights shared
// read-only across every agent in a pool, recurrent state owned
// exclusively per agent, and a fused-gate forward step with no runtime
// allocation.
package rnn

import "github.com/coldiron/substrate/arena"

// gate ordering within the packed weight matrix and the four bias vectors:
// forget, input, candidate, output — fixed so a build's gate layout never
// changes between runs (determinism, spec.md §5).
const (
	gateForget = iota
	gateInput
	gateCandidate
	gateOutput
	numGates
)

// Cell holds the weights shared read-only across every agent that steps
// through it: a packed matrix for the four gates (rows 4*hidden, cols
// input+hidden) and four bias vectors (spec.md §3 "LSTM cell").
type Cell struct {
	InputSize, HiddenSize int

	// W is row-major, (4*HiddenSize) x (InputSize+HiddenSize). Row
	// gate*HiddenSize+h holds the weights for hidden unit h of the given
	// gate, laid out input-columns-then-hidden-columns.
	W []float32

	Bf []float32 // forget gate bias, HiddenSize
	Bi []float32 // input gate bias, HiddenSize
	Bg []float32 // candidate gate bias, HiddenSize
	Bo []float32 // output gate bias, HiddenSize
}

// NewCell allocates a cell's weights from a. Weights start at zero; the
// caller (or a training/init routine) is responsible for seeding them.
func NewCell(a *arena.Arena, inputSize, hiddenSize int) *Cell {
	concatSize := inputSize + hiddenSize
	return &Cell{
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		W:          arena.PushSlice[float32](a, numGates*hiddenSize*concatSize),
		Bf:         arena.PushSlice[float32](a, hiddenSize),
		Bi:         arena.PushSlice[float32](a, hiddenSize),
		Bg:         arena.PushSlice[float32](a, hiddenSize),
		Bo:         arena.PushSlice[float32](a, hiddenSize),
	}
}

func (c *Cell) concatSize() int { return c.InputSize + c.HiddenSize }

// gateRow returns the weight row for hidden unit h of the given gate.
func (c *Cell) gateRow(gate, h int) []float32 {
	cs := c.concatSize()
	start := (gate*c.HiddenSize + h) * cs
	return c.W[start : start+cs]
}

// SetGateWeight writes a single weight for (gate, hidden unit h, concat
// column j), used by tests and deterministic seeding routines.
func (c *Cell) SetGateWeight(gate, h, j int, v float32) {
	row := c.gateRow(gate, h)
	row[j] = v
}
