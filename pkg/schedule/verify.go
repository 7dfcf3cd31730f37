// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package schedule

import (
	"fmt"
	"math"
)

// DefaultTolerance is the floating-point slack used when checking a
// schedule against its constraints.
const DefaultTolerance = 0.1

// Verify checks a schedule against its constraints.
//
// Description:
//
//	A precedence pair (i, j) passes when start_j - (start_i + dur_i)
//	>= -tolerance; a conflict pair passes when the interval overlap is
//	<= tolerance. Verification reads only its arguments, so the verdict
//	survives any serialization round trip of the schedule unchanged.
//
// Inputs:
//   - jobs: Job descriptions, keyed by id.
//   - sched: Start time per job id; must cover every constrained job.
//   - conflicts: Pairs that may not overlap.
//   - precedences: Pairs (i, j) where i must finish before j starts.
//   - tolerance: Slack; use DefaultTolerance when in doubt.
//
// Outputs:
//   - bool: True when no violations were found.
//   - []string: Human-readable violation descriptions.
//   - error: A constrained job missing from jobs or sched.
func Verify(jobs map[int]Job, sched map[int]float64, conflicts, precedences []Pair, tolerance float64) (bool, []string, error) {
	lookup := func(id int) (float64, float64, error) {
		job, ok := jobs[id]
		if !ok {
			return 0, 0, fmt.Errorf("schedule: verify references unknown job %d", id)
		}
		start, ok := sched[id]
		if !ok {
			return 0, 0, fmt.Errorf("schedule: job %d missing from schedule", id)
		}
		return start, job.Duration, nil
	}

	var violations []string

	for _, p := range precedences {
		startI, durI, err := lookup(p.I)
		if err != nil {
			return false, nil, err
		}
		startJ, _, err := lookup(p.J)
		if err != nil {
			return false, nil, err
		}
		endI := startI + durI
		if gap := startJ - endI; gap < -tolerance {
			violations = append(violations, fmt.Sprintf(
				"precedence violation: job %d ends at %.1f, job %d starts at %.1f (gap: %.1f)",
				p.I, endI, p.J, startJ, gap))
		}
	}

	for _, c := range conflicts {
		startI, durI, err := lookup(c.I)
		if err != nil {
			return false, nil, err
		}
		startJ, durJ, err := lookup(c.J)
		if err != nil {
			return false, nil, err
		}
		overlap := math.Min(startI+durI, startJ+durJ) - math.Max(startI, startJ)
		if overlap > tolerance {
			violations = append(violations, fmt.Sprintf(
				"conflict overlap: job %d and %d overlap by %.1f", c.I, c.J, overlap))
		}
	}

	return len(violations) == 0, violations, nil
}
