// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewc

// paramReader is the subset of *nnet.Network this package needs; declared
// locally so ewc never imports nnet's concrete type where an interface
// suffices, matching the split the teacher keeps between ele.Element and
// its consumers.
type paramReader interface {
	ReadParams([]float64)
}

type paramWriter interface {
	ApplyParamGradients(grad []float64, lr float64)
}

// ComputePenalty evaluates
//
//	L_EWC = Σ_tasks α_task · λ · Σ_{i ∈ Fisher_task} F_i · (θ_i − θ*_i)²
//
// over every ActiveRetained task (spec.md §4.E). At θ == θ* for every
// retained task the penalty is exactly 0 (spec.md §8 property 8).
func (s *State) ComputePenalty(net paramReader) float64 {
	s.readParams(net)
	var total float64
	for _, t := range s.Tasks {
		if t.State != ActiveRetained {
			continue
		}
		var taskSum float64
		for _, e := range t.Fisher.Entries() {
			d := s.CurrentParams[e.Index] - t.Theta[e.Index]
			taskSum += float64(e.Value) * d * d
		}
		total += t.Alpha * s.Lambda * taskSum
	}
	return total
}

// UpdateParametersWithEWC adds the EWC gradient contribution
//
//	g_i += Σ_retained-tasks 2 · λ · α_t · F_{t,i} · (θ_i − θ*_{t,i})
//
// to the caller-supplied base gradient (already computed from the current
// task's own loss), then applies the combined gradient to net with
// learning rate lr. The sign of each task's contribution always matches
// the sign of (θ_i − θ*_{t,i}) (spec.md §8 property 9), since every factor
// multiplying that difference (2, λ, α_t, F_{t,i}) is non-negative.
func (s *State) UpdateParametersWithEWC(net interface {
	paramReader
	paramWriter
}, gradients []float64, lr float64) {
	s.readParams(net)
	for _, t := range s.Tasks {
		if t.State != ActiveRetained {
			continue
		}
		coef := 2 * s.Lambda * t.Alpha
		for _, e := range t.Fisher.Entries() {
			d := s.CurrentParams[e.Index] - t.Theta[e.Index]
			gradients[e.Index] += coef * float64(e.Value) * d
		}
	}
	net.ApplyParamGradients(gradients, lr)
}
