// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package sat solves boolean satisfiability by continuous relaxation.
//
// Description:
//
//	Each boolean variable is relaxed to a probability in [0.001, 0.999].
//	A clause's probability of being unsatisfied is the product over its
//	literals of (1 - P(literal true)); the solver descends the gradient
//	of the prime-weighted log-likelihood of clause satisfaction under a
//	rising inverse-temperature schedule, then thresholds at 0.5.
//
//	This is a heuristic, anytime solver: it always terminates after the
//	configured step count and returns a best-effort assignment with no
//	guarantee of full satisfaction. Use Verify to score the result.
//
// Thread Safety: a Solver is stateless between calls; each Solve owns its
// own state and RNG, so concurrent Solve calls are safe.
package sat

import (
	"fmt"
	"math/rand"

	"github.com/AleutianAI/navokoj/pkg/anneal"
	"github.com/AleutianAI/navokoj/pkg/prime"
)

const epsilon = 1e-9

// -----------------------------------------------------------------------------
// Solver
// -----------------------------------------------------------------------------

// Config configures the SAT relaxation solver.
type Config struct {
	// Steps is the annealing iteration count. Zero returns the collapsed
	// initial state.
	Steps int

	// LearningRate is the gradient step size. Must be > 0.
	LearningRate float64

	// BetaMax is the final inverse temperature. Must be >= 0.
	BetaMax float64

	// Seed makes the solve deterministic. Nil seeds from the wall clock.
	Seed *int64

	// Progress is an optional per-step observer.
	Progress anneal.ProgressFunc

	// ProgressInterval is the step spacing of Progress callbacks.
	ProgressInterval int
}

// DefaultConfig returns the published solver defaults.
func DefaultConfig() *Config {
	return &Config{
		Steps:        1000,
		LearningRate: 0.1,
		BetaMax:      2.5,
	}
}

// Solver runs the SAT annealing relaxation.
type Solver struct {
	config *Config
}

// New creates a SAT solver. A nil config gets DefaultConfig.
func New(config *Config) *Solver {
	if config == nil {
		config = DefaultConfig()
	}
	return &Solver{config: config}
}

// Solve returns a 0/1 assignment for numVars variables.
//
// Description:
//
//	Clauses are lists of non-zero literals: a positive literal asserts
//	the 1-indexed variable true, a negative one asserts it false.
//	Malformed input (numVars < 1, empty clause, zero literal, literal
//	magnitude beyond numVars) is rejected before the annealing loop
//	starts; indices are never silently truncated or wrapped.
//
//	Zero clauses is valid: the state stays at its noisy 0.5 baseline and
//	the thresholded result is returned.
//
// Inputs:
//   - numVars: Number of boolean variables, >= 1.
//   - clauses: CNF clauses over 1-indexed signed literals.
//
// Outputs:
//   - []int: Length numVars, each entry exactly 0 or 1.
//   - error: Input-contract violations only; never solve failure.
func (s *Solver) Solve(numVars int, clauses [][]int) ([]int, error) {
	if err := validate(numVars, clauses, s.config); err != nil {
		return nil, err
	}

	rng := anneal.NewRNG(s.config.Seed)

	// Maximum-entropy start with small noise to break variable symmetry.
	state := make([]float64, numVars)
	for v := range state {
		state[v] = clip(0.5 + rng.NormFloat64()*0.001)
	}

	dyn := &dynamics{
		clauses: clauses,
		weights: prime.Weights(len(clauses)),
		lr:      s.config.LearningRate,
	}
	anneal.Run(anneal.Config{
		Steps:            s.config.Steps,
		BetaMax:          s.config.BetaMax,
		Progress:         s.config.Progress,
		ProgressInterval: s.config.ProgressInterval,
	}, state, dyn, rng)

	assignment := make([]int, numVars)
	for v, p := range state {
		if p > 0.5 {
			assignment[v] = 1
		}
	}
	return assignment, nil
}

func validate(numVars int, clauses [][]int, config *Config) error {
	if numVars < 1 {
		return fmt.Errorf("sat: num_vars must be >= 1, got %d", numVars)
	}
	if config.Steps < 0 {
		return fmt.Errorf("sat: steps must be >= 0, got %d", config.Steps)
	}
	if config.LearningRate <= 0 {
		return fmt.Errorf("sat: learning_rate must be > 0, got %v", config.LearningRate)
	}
	if config.BetaMax < 0 {
		return fmt.Errorf("sat: beta_max must be >= 0, got %v", config.BetaMax)
	}
	for ci, clause := range clauses {
		if len(clause) == 0 {
			return fmt.Errorf("sat: clause %d is empty", ci)
		}
		for _, lit := range clause {
			if lit == 0 {
				return fmt.Errorf("sat: clause %d contains a zero literal", ci)
			}
			if v := abs(lit); v > numVars {
				return fmt.Errorf("sat: clause %d references variable %d outside [1, %d]", ci, v, numVars)
			}
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Dynamics
// -----------------------------------------------------------------------------

// dynamics implements anneal.Dynamics for the soft-clause gradient.
type dynamics struct {
	clauses [][]int
	weights []float64
	lr      float64

	// probs is a per-clause scratch buffer of literal probabilities,
	// reused across steps to keep the inner loop allocation-free.
	probs []float64
}

func (d *dynamics) Gradient(state []float64, beta float64, grad []float64) {
	for ci, clause := range d.clauses {
		probs := d.probs[:0]

		// P(clause unsat) = product over literals of (1 - P(lit true)).
		unsat := 1.0
		for _, lit := range clause {
			p := state[abs(lit)-1]
			if lit < 0 {
				p = 1.0 - p
			}
			unsat *= 1.0 - p
			probs = append(probs, p)
		}
		sat := 1.0 - unsat + epsilon

		// Chain rule for E = -w * log(P(sat)).
		coeff := d.weights[ci] / sat * unsat
		for li, lit := range clause {
			sign := 1.0
			if lit < 0 {
				sign = -1.0
			}
			grad[abs(lit)-1] += coeff * sign * (1.0 / (1.0 - probs[li] + epsilon))
		}

		d.probs = probs
	}
}

func (d *dynamics) Apply(state []float64, grad []float64, beta float64) {
	// The step size is beta-scaled: the system stiffens as it cools.
	lr := d.lr * beta
	for i := range state {
		state[i] = clip(state[i] + lr*grad[i])
	}
}

func (d *dynamics) Perturb(state []float64, step int, rng *rand.Rand) {}

// clip projects a probability into the numerically safe band.
func clip(p float64) float64 {
	if p < 0.001 {
		return 0.001
	}
	if p > 0.999 {
		return 0.999
	}
	return p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
