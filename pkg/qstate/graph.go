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
	"fmt"

	"github.com/AleutianAI/navokoj/pkg/anneal"
)

// GenerateRandomGraph produces an Erdos-Renyi style edge list.
//
// Every unordered pair (i, j), i < j, becomes an edge with probability
// density. Node ids are 1-indexed.
//
// Inputs:
//   - nNodes: Number of nodes, >= 1.
//   - density: Edge probability in [0, 1].
//   - seed: Deterministic generation when non-nil.
func GenerateRandomGraph(nNodes int, density float64, seed *int64) ([]Edge, error) {
	if nNodes < 1 {
		return nil, fmt.Errorf("qstate: n_nodes must be >= 1, got %d", nNodes)
	}
	if density < 0 || density > 1 {
		return nil, fmt.Errorf("qstate: density must be in [0, 1], got %v", density)
	}

	rng := anneal.NewRNG(seed)
	var edges []Edge
	for i := 1; i <= nNodes; i++ {
		for j := i + 1; j <= nNodes; j++ {
			if rng.Float64() < density {
				edges = append(edges, Edge{U: i, V: j})
			}
		}
	}
	return edges, nil
}

// CountConflicts returns how many edges connect equal states.
//
// Like sat.Verify, this is a pure read: the count is identical before and
// after any serialization round trip of the assignment.
func CountConflicts(edges []Edge, assignment []int) int {
	conflicts := 0
	for _, e := range edges {
		if assignment[e.U-1] == assignment[e.V-1] {
			conflicts++
		}
	}
	return conflicts
}
