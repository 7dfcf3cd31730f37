// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package qstate

import (
	"math"
	"testing"

	"github.com/AleutianAI/navokoj/pkg/anneal"
)

func seedPtr(s int64) *int64 { return &s }

func TestSolveTriangle(t *testing.T) {
	// A triangle with 3 states must come out pairwise distinct.
	edges := []Edge{{1, 2}, {2, 3}, {1, 3}}
	solver := New(&Config{Steps: 2000, LearningRate: 0.1, BetaMax: 5.0, Seed: seedPtr(42)})

	assignment, err := solver.Solve(3, 3, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignment) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(assignment))
	}
	if got := CountConflicts(edges, assignment); got != 0 {
		t.Errorf("expected conflict-free coloring, got %d conflicts (%v)", got, assignment)
	}
}

func TestSolveDeterminism(t *testing.T) {
	edges := []Edge{{1, 2}, {2, 3}, {3, 4}, {4, 1}, {1, 3}}
	config := func() *Config {
		return &Config{Steps: 500, LearningRate: 0.1, BetaMax: 5.0, Seed: seedPtr(9)}
	}

	a, err := New(config()).Solve(4, 3, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New(config()).Solve(4, 3, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded solves diverged: %v vs %v", a, b)
		}
	}
}

func TestSolveRangeInvariant(t *testing.T) {
	seed := int64(4)
	edges, err := GenerateRandomGraph(20, 0.2, &seed)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	config := &Config{
		Steps: 400, LearningRate: 0.1, BetaMax: 5.0, Seed: seedPtr(1),
		ProgressInterval: 50,
		Progress: func(p anneal.Progress) {
			for i, v := range p.State {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("step %d: potential %d is not finite", p.Step, i)
				}
			}
		},
	}
	assignment, err := New(config).Solve(20, 4, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for node, state := range assignment {
		if state < 1 || state > 4 {
			t.Errorf("node %d assigned state %d outside [1, 4]", node+1, state)
		}
	}
}

func TestSolveDegenerateInputs(t *testing.T) {
	t.Run("zero edges is trivially conflict-free", func(t *testing.T) {
		assignment, err := New(&Config{Steps: 100, LearningRate: 0.1, BetaMax: 5.0, Seed: seedPtr(2)}).Solve(5, 3, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for node, state := range assignment {
			if state < 1 || state > 3 {
				t.Errorf("node %d assigned state %d outside [1, 3]", node+1, state)
			}
		}
	})

	t.Run("single state forces total conflict", func(t *testing.T) {
		edges := []Edge{{1, 2}}
		assignment, err := New(&Config{Steps: 100, LearningRate: 0.1, BetaMax: 5.0, Seed: seedPtr(2)}).Solve(2, 1, edges)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if assignment[0] != 1 || assignment[1] != 1 {
			t.Errorf("expected both nodes in state 1, got %v", assignment)
		}
		if got := CountConflicts(edges, assignment); got != 1 {
			t.Errorf("expected 1 conflict, got %d", got)
		}
	})
}

func TestSolveRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name    string
		nNodes  int
		nStates int
		edges   []Edge
		config  *Config
	}{
		{"zero nodes", 0, 3, nil, DefaultConfig()},
		{"zero states", 3, 0, nil, DefaultConfig()},
		{"edge node too large", 3, 3, []Edge{{1, 4}}, DefaultConfig()},
		{"edge node zero", 3, 3, []Edge{{0, 2}}, DefaultConfig()},
		{"zero learning rate", 3, 3, nil, &Config{Steps: 10, LearningRate: 0, BetaMax: 5}},
		{"negative steps", 3, 3, nil, &Config{Steps: -5, LearningRate: 0.1, BetaMax: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.config).Solve(tc.nNodes, tc.nStates, tc.edges); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestGenerateRandomGraph(t *testing.T) {
	t.Run("deterministic per seed", func(t *testing.T) {
		seed := int64(3)
		a, _ := GenerateRandomGraph(30, 0.2, &seed)
		b, _ := GenerateRandomGraph(30, 0.2, &seed)
		if len(a) != len(b) {
			t.Fatal("seeded generation diverged in edge count")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatal("seeded generation diverged")
			}
		}
	})

	t.Run("density bounds", func(t *testing.T) {
		seed := int64(3)
		empty, _ := GenerateRandomGraph(10, 0, &seed)
		if len(empty) != 0 {
			t.Errorf("density 0 produced %d edges", len(empty))
		}
		full, _ := GenerateRandomGraph(10, 1, &seed)
		if len(full) != 45 {
			t.Errorf("density 1 produced %d edges, want 45", len(full))
		}
	})

	t.Run("rejects bad arguments", func(t *testing.T) {
		if _, err := GenerateRandomGraph(0, 0.5, nil); err == nil {
			t.Error("expected error for zero nodes")
		}
		if _, err := GenerateRandomGraph(5, 1.5, nil); err == nil {
			t.Error("expected error for density > 1")
		}
	})
}

func TestCountConflicts(t *testing.T) {
	edges := []Edge{{1, 2}, {2, 3}}
	if got := CountConflicts(edges, []int{1, 2, 2}); got != 1 {
		t.Errorf("expected 1 conflict, got %d", got)
	}
	if got := CountConflicts(edges, []int{1, 2, 1}); got != 0 {
		t.Errorf("expected 0 conflicts, got %d", got)
	}
}
