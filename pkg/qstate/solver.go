// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package qstate assigns one of Q discrete states to each node of a graph
// so that adjacent nodes differ (graph coloring, register allocation).
//
// Description:
//
//	Each node holds a potential vector over the Q states, interpreted
//	through a beta-tempered softmax as a state distribution. Edges exert
//	a prime-weighted repulsive force: the more a neighbor believes in a
//	state, the more that state is discouraged. A rising beta sharpens the
//	softmax until the per-node argmax is effectively a hard choice.
//
//	Unlike the SAT solver, the descent update here is NOT scaled by beta;
//	beta enters only through the softmax temperature. That asymmetry is
//	part of the published algorithm and is preserved as-is.
//
// Thread Safety: a Solver is stateless between calls; concurrent Solve
// calls are safe.
package qstate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/AleutianAI/navokoj/pkg/anneal"
	"github.com/AleutianAI/navokoj/pkg/prime"
)

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// Edge is an unordered "must differ" constraint between two 1-indexed
// nodes.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

// Config configures the Q-state solver.
type Config struct {
	// Steps is the annealing iteration count.
	Steps int

	// LearningRate is the gradient step size. Must be > 0.
	LearningRate float64

	// BetaMax is the final softmax inverse temperature. Must be >= 0.
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
		Steps:        2000,
		LearningRate: 0.1,
		BetaMax:      5.0,
	}
}

// Solver runs the Q-state annealing relaxation.
type Solver struct {
	config *Config
}

// New creates a Q-state solver. A nil config gets DefaultConfig.
func New(config *Config) *Solver {
	if config == nil {
		config = DefaultConfig()
	}
	return &Solver{config: config}
}

// -----------------------------------------------------------------------------
// Solve
// -----------------------------------------------------------------------------

// Solve returns a 1-indexed state per node.
//
// Description:
//
//	With zero edges the result is decided purely by the initial noise:
//	an arbitrary, trivially conflict-free assignment. nStates == 1
//	forces every node into state 1, which conflicts on every edge; that
//	is the expected outcome, not an error. Use CountConflicts to score
//	the result.
//
// Inputs:
//   - nNodes: Number of graph nodes, >= 1.
//   - nStates: Number of states per node, >= 1.
//   - edges: 1-indexed "must differ" pairs.
//
// Outputs:
//   - []int: Length nNodes, each entry in [1, nStates].
//   - error: Input-contract violations only.
func (s *Solver) Solve(nNodes, nStates int, edges []Edge) ([]int, error) {
	if err := s.validate(nNodes, nStates, edges); err != nil {
		return nil, err
	}

	rng := anneal.NewRNG(s.config.Seed)

	// Potentials are an nNodes x nStates matrix stored row-major.
	potentials := make([]float64, nNodes*nStates)
	for i := range potentials {
		potentials[i] = rng.NormFloat64() * 0.1
	}

	dyn := &dynamics{
		edges:   edges,
		weights: prime.Weights(len(edges)),
		nStates: nStates,
		lr:      s.config.LearningRate,
		probs:   make([]float64, nNodes*nStates),
	}
	anneal.Run(anneal.Config{
		Steps:            s.config.Steps,
		BetaMax:          s.config.BetaMax,
		Progress:         s.config.Progress,
		ProgressInterval: s.config.ProgressInterval,
	}, potentials, dyn, rng)

	assignment := make([]int, nNodes)
	for node := 0; node < nNodes; node++ {
		row := potentials[node*nStates : (node+1)*nStates]
		best := 0
		for k := 1; k < nStates; k++ {
			if row[k] > row[best] {
				best = k
			}
		}
		assignment[node] = best + 1
	}
	return assignment, nil
}

func (s *Solver) validate(nNodes, nStates int, edges []Edge) error {
	if nNodes < 1 {
		return fmt.Errorf("qstate: n_nodes must be >= 1, got %d", nNodes)
	}
	if nStates < 1 {
		return fmt.Errorf("qstate: n_states must be >= 1, got %d", nStates)
	}
	if s.config.Steps < 0 {
		return fmt.Errorf("qstate: steps must be >= 0, got %d", s.config.Steps)
	}
	if s.config.LearningRate <= 0 {
		return fmt.Errorf("qstate: learning_rate must be > 0, got %v", s.config.LearningRate)
	}
	if s.config.BetaMax < 0 {
		return fmt.Errorf("qstate: beta_max must be >= 0, got %v", s.config.BetaMax)
	}
	for i, e := range edges {
		if e.U < 1 || e.U > nNodes || e.V < 1 || e.V > nNodes {
			return fmt.Errorf("qstate: edge %d (%d, %d) references a node outside [1, %d]", i, e.U, e.V, nNodes)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Dynamics
// -----------------------------------------------------------------------------

// dynamics implements anneal.Dynamics for pairwise softmax repulsion.
type dynamics struct {
	edges   []Edge
	weights []float64
	nStates int
	lr      float64

	// probs caches the row-wise softmax of the current step.
	probs []float64
}

func (d *dynamics) Gradient(state []float64, beta float64, grad []float64) {
	d.softmax(state, beta)

	q := d.nStates
	for i, e := range d.edges {
		w := d.weights[i]
		u, v := (e.U-1)*q, (e.V-1)*q
		for k := 0; k < q; k++ {
			grad[u+k] += w * d.probs[v+k]
			grad[v+k] += w * d.probs[u+k]
		}
	}
}

func (d *dynamics) Apply(state []float64, grad []float64, beta float64) {
	// Fixed learning rate; beta shapes only the softmax temperature.
	for i := range state {
		state[i] -= d.lr * grad[i]
	}
}

func (d *dynamics) Perturb(state []float64, step int, rng *rand.Rand) {
	// Fresh noise every 100th step shakes the system off saddle points.
	if step%100 != 0 {
		return
	}
	for i := range state {
		state[i] += rng.NormFloat64() * 0.05
	}
}

// softmax fills d.probs with the row-wise beta-tempered softmax of state,
// subtracting each row's max before exponentiating so exp never
// overflows.
func (d *dynamics) softmax(state []float64, beta float64) {
	q := d.nStates
	for row := 0; row < len(state)/q; row++ {
		off := row * q

		max := state[off]
		for k := 1; k < q; k++ {
			if state[off+k] > max {
				max = state[off+k]
			}
		}

		sum := 0.0
		for k := 0; k < q; k++ {
			e := math.Exp(beta * (state[off+k] - max))
			d.probs[off+k] = e
			sum += e
		}
		for k := 0; k < q; k++ {
			d.probs[off+k] /= sum
		}
	}
}
