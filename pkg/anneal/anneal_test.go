// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package anneal

import (
	"math/rand"
	"testing"
)

// countingDynamics records loop behavior for assertions.
type countingDynamics struct {
	gradientCalls int
	applyCalls    int
	perturbCalls  int
	betas         []float64
}

func (d *countingDynamics) Gradient(state []float64, beta float64, grad []float64) {
	d.gradientCalls++
	d.betas = append(d.betas, beta)
	for i := range grad {
		grad[i] = 1.0
	}
}

func (d *countingDynamics) Apply(state []float64, grad []float64, beta float64) {
	d.applyCalls++
	for i := range state {
		state[i] += 0.5 * grad[i]
	}
}

func (d *countingDynamics) Perturb(state []float64, step int, rng *rand.Rand) {
	d.perturbCalls++
}

func TestScheduleBeta(t *testing.T) {
	t.Run("monotone non-decreasing over full ramp", func(t *testing.T) {
		s := Schedule{Steps: 1000, BetaMax: 2.5}
		prev := -1.0
		for step := 0; step < s.Steps; step++ {
			beta := s.Beta(step)
			if beta < prev {
				t.Fatalf("beta decreased at step %d: %v < %v", step, beta, prev)
			}
			if beta < 0 || beta > s.BetaMax {
				t.Fatalf("beta out of range at step %d: %v", step, beta)
			}
			prev = beta
		}
	})

	t.Run("starts at zero", func(t *testing.T) {
		s := Schedule{Steps: 100, BetaMax: 5.0}
		if got := s.Beta(0); got != 0 {
			t.Errorf("expected beta 0 at step 0, got %v", got)
		}
	})

	t.Run("zero steps", func(t *testing.T) {
		s := Schedule{Steps: 0, BetaMax: 5.0}
		if got := s.Beta(0); got != 0 {
			t.Errorf("expected beta 0 for empty schedule, got %v", got)
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("executes exactly steps iterations", func(t *testing.T) {
		dyn := &countingDynamics{}
		state := make([]float64, 4)
		Run(Config{Steps: 50, BetaMax: 1.0}, state, dyn, rand.New(rand.NewSource(1)))

		if dyn.gradientCalls != 50 || dyn.applyCalls != 50 || dyn.perturbCalls != 50 {
			t.Errorf("expected 50 calls each, got gradient=%d apply=%d perturb=%d",
				dyn.gradientCalls, dyn.applyCalls, dyn.perturbCalls)
		}
		for i, v := range state {
			if v != 25.0 {
				t.Errorf("state[%d]: expected 25.0, got %v", i, v)
			}
		}
	})

	t.Run("zero steps leaves state untouched", func(t *testing.T) {
		dyn := &countingDynamics{}
		state := []float64{0.25, 0.75}
		Run(Config{Steps: 0, BetaMax: 1.0}, state, dyn, rand.New(rand.NewSource(1)))

		if dyn.gradientCalls != 0 {
			t.Errorf("expected no gradient calls, got %d", dyn.gradientCalls)
		}
		if state[0] != 0.25 || state[1] != 0.75 {
			t.Errorf("state mutated: %v", state)
		}
	})

	t.Run("betas follow the schedule", func(t *testing.T) {
		dyn := &countingDynamics{}
		Run(Config{Steps: 10, BetaMax: 5.0}, make([]float64, 1), dyn, rand.New(rand.NewSource(1)))

		for step, beta := range dyn.betas {
			want := (float64(step) / 10.0) * 5.0
			if beta != want {
				t.Errorf("step %d: expected beta %v, got %v", step, want, beta)
			}
		}
	})

	t.Run("progress hook fires on interval and final step", func(t *testing.T) {
		var seen []int
		config := Config{
			Steps:            10,
			BetaMax:          1.0,
			ProgressInterval: 4,
			Progress: func(p Progress) {
				seen = append(seen, p.Step)
				if p.Steps != 10 {
					t.Errorf("expected Steps 10, got %d", p.Steps)
				}
			},
		}
		Run(config, make([]float64, 1), &countingDynamics{}, rand.New(rand.NewSource(1)))

		want := []int{0, 4, 8, 9}
		if len(seen) != len(want) {
			t.Fatalf("expected callbacks at %v, got %v", want, seen)
		}
		for i := range want {
			if seen[i] != want[i] {
				t.Fatalf("expected callbacks at %v, got %v", want, seen)
			}
		}
	})
}

func TestNewRNG(t *testing.T) {
	t.Run("seeded streams are identical", func(t *testing.T) {
		seed := int64(42)
		a, b := NewRNG(&seed), NewRNG(&seed)
		for i := 0; i < 100; i++ {
			if a.Float64() != b.Float64() {
				t.Fatal("seeded RNGs diverged")
			}
		}
	})

	t.Run("nil seed still produces a generator", func(t *testing.T) {
		if NewRNG(nil) == nil {
			t.Fatal("expected non-nil RNG")
		}
	})
}
