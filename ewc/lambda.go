// Copyright 2026 The Substrate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ewc

// DefaultLambdaMargin and DefaultLambdaFactor resolve the open question in
// spec.md §9 ("update_lambda rule is stated in commentary but not
// normatively bounded"): a relative margin around the previous validation
// loss, and a multiplicative adjustment factor, clamped to [λ_min, λ_max].
// See DESIGN.md for the reasoning.
const (
	DefaultLambdaMargin = 0.01
	DefaultLambdaFactor = 1.1
)

// SetLambdaRange sets the clamp bounds for λ. If the current λ falls
// outside the new range, it is immediately clamped into it.
func (s *State) SetLambdaRange(min, max float64) {
	s.LambdaMin, s.LambdaMax = min, max
	s.Lambda = clamp(s.Lambda, min, max)
}

// UpdateLambda adjusts λ from a pair of validation losses: if newLoss
// exceeds prevLoss by more than DefaultLambdaMargin (relative), λ scales
// up by DefaultLambdaFactor (clamped at λ_max); if newLoss improves on
// prevLoss by more than the margin, λ scales down by the same factor
// (clamped at λ_min); otherwise λ is unchanged. The rule is monotonic in
// the loss delta and idempotent when prevLoss == newLoss (spec.md §4.E).
func (s *State) UpdateLambda(prevLoss, newLoss float64) {
	if prevLoss == 0 {
		return // nothing to compare a relative margin against
	}
	delta := (newLoss - prevLoss) / absF(prevLoss)
	switch {
	case delta > DefaultLambdaMargin:
		s.Lambda = clamp(s.Lambda*DefaultLambdaFactor, s.LambdaMin, s.LambdaMax)
	case delta < -DefaultLambdaMargin:
		s.Lambda = clamp(s.Lambda/DefaultLambdaFactor, s.LambdaMin, s.LambdaMax)
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
