// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rnn

import "math"

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func tanh32(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}

// Forward runs one fused-gate step for state on cell: concatenate input
// with the previous hidden state, compute the four gate preactivations
// through the packed weight matrix plus biases, apply sigmoid to
// forget/input/output and tanh to the candidate, update c and h, and copy
// h into output (spec.md §4.D). Forward touches only state's own buffers —
// the pool's guarantee that concurrent agents never alias each other rests
// entirely on state.C/H/Concat being exclusive to this agent.
func Forward(cell *Cell, state *State, input, output []float32) {
	n := cell.InputSize
	h := cell.HiddenSize

	copy(state.Concat[:n], input)
	copy(state.Concat[n:], state.H)

	for i := 0; i < h; i++ {
		state.Forget[i] = sigmoid(dotAdd(cell.gateRow(gateForget, i), state.Concat, cell.Bf[i]))
		state.Input[i] = sigmoid(dotAdd(cell.gateRow(gateInput, i), state.Concat, cell.Bi[i]))
		state.Candidate[i] = tanh32(dotAdd(cell.gateRow(gateCandidate, i), state.Concat, cell.Bg[i]))
		state.Output[i] = sigmoid(dotAdd(cell.gateRow(gateOutput, i), state.Concat, cell.Bo[i]))
	}

	for i := 0; i < h; i++ {
		state.C[i] = state.Forget[i]*state.C[i] + state.Input[i]*state.Candidate[i]
	}
	for i := 0; i < h; i++ {
		state.H[i] = state.Output[i] * tanh32(state.C[i])
	}

	copy(output, state.H)
	state.Step++
}

func dotAdd(row, x []float32, bias float32) float32 {
	sum := bias
	for i, w := range row {
		sum += w * x[i]
	}
	return sum
}
