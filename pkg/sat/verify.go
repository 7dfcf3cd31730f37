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

// Verify returns the fraction of clauses satisfied by an assignment.
//
// Description:
//
//	A clause is satisfied when at least one of its literals holds under
//	the 0/1 assignment. Verification is a pure read of its inputs, so
//	the score is identical whether computed immediately or after a
//	serialization round trip of the assignment.
//
// Inputs:
//   - clauses: CNF clauses over 1-indexed signed literals.
//   - assignment: 0/1 value per variable, 0-indexed.
//
// Outputs:
//   - float64: Satisfied fraction in [0, 1]. Zero clauses scores 1.0.
func Verify(clauses [][]int, assignment []int) float64 {
	if len(clauses) == 0 {
		return 1.0
	}
	satisfied := 0
	for _, clause := range clauses {
		for _, lit := range clause {
			val := assignment[abs(lit)-1]
			if (lit > 0 && val == 1) || (lit < 0 && val == 0) {
				satisfied++
				break
			}
		}
	}
	return float64(satisfied) / float64(len(clauses))
}
