// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package anneal provides the shared annealing-relaxation loop used by the
// SAT, Q-state, and scheduling solvers.
//
// Description:
//
//	Each solver relaxes its discrete decision variables into a continuous
//	potential vector and runs a fixed number of gradient steps under a
//	linear inverse-temperature ramp. The loop itself is identical across
//	problem types; only the gradient, the descent update, and the
//	perturbation policy differ. Those three are supplied through the
//	Dynamics interface, so the loop lives in exactly one place.
//
//	The loop is synchronous and has no suspension points: one Run call is
//	one uninterrupted sweep of Steps iterations with no I/O inside. A
//	caller that needs to bound runtime must bound Steps. Every Run owns
//	its own state slice and RNG, so independent solves may run on
//	separate goroutines without synchronization.
//
// Thread Safety: Run is safe for concurrent use as long as each call gets
// its own state, dynamics, and RNG instance.
package anneal

import (
	"math/rand"
	"time"
)

// -----------------------------------------------------------------------------
// Temperature Schedule
// -----------------------------------------------------------------------------

// Schedule is the linear inverse-temperature ramp.
//
// Beta rises from 0 toward BetaMax as the step index advances. Low beta
// keeps the system soft and exploratory; high beta hardens it toward a
// discrete decision.
type Schedule struct {
	// Steps is the total iteration count of the sweep.
	Steps int

	// BetaMax is the final inverse temperature.
	BetaMax float64
}

// Beta returns the inverse temperature for a step index.
//
// The value is (step/Steps)*BetaMax: deterministic, independent of problem
// data, and non-decreasing in step. Steps == 0 yields 0.
func (s Schedule) Beta(step int) float64 {
	if s.Steps <= 0 {
		return 0
	}
	return (float64(step) / float64(s.Steps)) * s.BetaMax
}

// -----------------------------------------------------------------------------
// Dynamics
// -----------------------------------------------------------------------------

// Dynamics supplies the problem-specific numerics of one solver.
//
// Description:
//
//	Gradient fills grad (already zeroed, same length as state) with the
//	constraint-driven gradient at the current state and beta. Apply
//	performs the descent update in place, including any learning-rate and
//	beta scaling plus range projection; the update rule deliberately
//	varies per problem and is not owned by the loop. Perturb may inject
//	bounded noise on selected steps to escape saddle points; most steps
//	are a no-op.
//
//	Implementations must not retain state or grad across calls.
type Dynamics interface {
	Gradient(state []float64, beta float64, grad []float64)
	Apply(state []float64, grad []float64, beta float64)
	Perturb(state []float64, step int, rng *rand.Rand)
}

// -----------------------------------------------------------------------------
// Progress Hook
// -----------------------------------------------------------------------------

// Progress is a snapshot handed to the optional per-step observer.
type Progress struct {
	// Step is the completed step index, in [0, Steps).
	Step int

	// Steps is the total step count of the sweep.
	Steps int

	// Beta is the inverse temperature used for this step.
	Beta float64

	// State is a read-only view of the live potential vector. Observers
	// must not mutate or retain it past the callback.
	State []float64
}

// ProgressFunc observes solve progress. It is an optional hook: solving
// never depends on it, and a nil func is never called. The callback runs
// on the solving goroutine, so it must be cheap.
type ProgressFunc func(Progress)

// -----------------------------------------------------------------------------
// Engine
// -----------------------------------------------------------------------------

// Config configures one annealing sweep.
type Config struct {
	// Steps is the iteration count. Zero is valid and leaves the initial
	// state untouched.
	Steps int

	// BetaMax is the final inverse temperature of the ramp.
	BetaMax float64

	// Progress, if non-nil, is invoked every ProgressInterval steps and
	// on the final step.
	Progress ProgressFunc

	// ProgressInterval is the step spacing of Progress callbacks.
	// Values < 1 default to 100.
	ProgressInterval int
}

// Run executes one annealing sweep over state using the given dynamics.
//
// Description:
//
//	For each step: compute beta from the schedule, fill the gradient,
//	apply the descent update, then give the dynamics a chance to perturb.
//	The gradient buffer is allocated once and reused. Constraint
//	accumulation order inside Gradient is sequential and fixed, so a
//	seeded run is bit-for-bit reproducible.
//
// Inputs:
//   - config: Sweep parameters.
//   - state: The continuous potential vector, mutated in place.
//   - dyn: Problem-specific numerics.
//   - rng: The solve's private RNG, used only by Perturb.
func Run(config Config, state []float64, dyn Dynamics, rng *rand.Rand) {
	sched := Schedule{Steps: config.Steps, BetaMax: config.BetaMax}
	interval := config.ProgressInterval
	if interval < 1 {
		interval = 100
	}
	grad := make([]float64, len(state))

	for step := 0; step < config.Steps; step++ {
		beta := sched.Beta(step)

		for i := range grad {
			grad[i] = 0
		}
		dyn.Gradient(state, beta, grad)
		dyn.Apply(state, grad, beta)
		dyn.Perturb(state, step, rng)

		if config.Progress != nil && (step%interval == 0 || step == config.Steps-1) {
			config.Progress(Progress{Step: step, Steps: config.Steps, Beta: beta, State: state})
		}
	}
}

// NewRNG returns the private random generator for one solve call.
//
// A non-nil seed gives a deterministic stream; nil seeds from the wall
// clock. The generator is never shared across calls.
func NewRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
