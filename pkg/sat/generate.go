// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package sat

import (
	"fmt"

	"github.com/AleutianAI/navokoj/pkg/anneal"
)

// CriticalAlpha is the clause-to-variable ratio where random 3-SAT
// undergoes its phase transition. Instances at this density are the
// empirically hardest region for SAT solvers.
const CriticalAlpha = 4.26

// GenerateCritical3SAT produces a random 3-SAT instance.
//
// Description:
//
//	Generates int(nVars*alpha) clauses. Each clause picks 3 distinct
//	variables uniformly and negates each with probability 0.5.
//
// Inputs:
//   - nVars: Number of variables, >= 3.
//   - alpha: Clause-to-variable ratio; use CriticalAlpha for hard
//     instances.
//   - seed: Deterministic generation when non-nil.
//
// Outputs:
//   - [][]int: The clauses, each with 3 signed literals.
//   - error: nVars < 3 or alpha <= 0.
func GenerateCritical3SAT(nVars int, alpha float64, seed *int64) ([][]int, error) {
	if nVars < 3 {
		return nil, fmt.Errorf("sat: 3-sat generation needs at least 3 variables, got %d", nVars)
	}
	if alpha <= 0 {
		return nil, fmt.Errorf("sat: alpha must be > 0, got %v", alpha)
	}

	rng := anneal.NewRNG(seed)
	nClauses := int(float64(nVars) * alpha)
	clauses := make([][]int, 0, nClauses)

	for len(clauses) < nClauses {
		perm := rng.Perm(nVars)
		clause := make([]int, 3)
		for i := 0; i < 3; i++ {
			v := perm[i] + 1
			if rng.Float64() > 0.5 {
				clause[i] = v
			} else {
				clause[i] = -v
			}
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}
