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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseDIMACS reads a CNF formula in DIMACS format.
//
// Description:
//
//	Accepts comment lines ("c ..."), one "p cnf <vars> <clauses>" header,
//	and whitespace-separated literals with 0 terminating each clause.
//	Clauses may span lines. The declared clause count is advisory; the
//	actual clauses read are returned.
//
// Outputs:
//   - int: Declared variable count.
//   - [][]int: The clauses.
//   - error: Malformed header, token, or an unterminated clause.
func ParseDIMACS(r io.Reader) (int, [][]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	numVars := 0
	sawHeader := false
	var clauses [][]int
	var current []int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		if strings.HasPrefix(line, "p") {
			if sawHeader {
				return 0, nil, fmt.Errorf("sat: duplicate dimacs problem line")
			}
			fields := strings.Fields(line)
			if len(fields) != 4 || fields[1] != "cnf" {
				return 0, nil, fmt.Errorf("sat: malformed dimacs problem line %q", line)
			}
			v, err := strconv.Atoi(fields[2])
			if err != nil || v < 1 {
				return 0, nil, fmt.Errorf("sat: bad variable count in %q", line)
			}
			numVars = v
			sawHeader = true
			continue
		}
		if !sawHeader {
			return 0, nil, fmt.Errorf("sat: clause data before dimacs problem line")
		}
		for _, token := range strings.Fields(line) {
			lit, err := strconv.Atoi(token)
			if err != nil {
				return 0, nil, fmt.Errorf("sat: bad dimacs token %q", token)
			}
			if lit == 0 {
				if len(current) > 0 {
					clauses = append(clauses, current)
					current = nil
				}
				continue
			}
			current = append(current, lit)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("sat: reading dimacs: %w", err)
	}
	if !sawHeader {
		return 0, nil, fmt.Errorf("sat: missing dimacs problem line")
	}
	if len(current) > 0 {
		return 0, nil, fmt.Errorf("sat: unterminated dimacs clause")
	}
	return numVars, clauses, nil
}

// WriteDIMACS writes a CNF formula in DIMACS format.
func WriteDIMACS(w io.Writer, numVars int, clauses [][]int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", numVars, len(clauses)); err != nil {
		return fmt.Errorf("sat: writing dimacs: %w", err)
	}
	for _, clause := range clauses {
		for _, lit := range clause {
			if _, err := fmt.Fprintf(bw, "%d ", lit); err != nil {
				return fmt.Errorf("sat: writing dimacs: %w", err)
			}
		}
		if _, err := fmt.Fprintln(bw, "0"); err != nil {
			return fmt.Errorf("sat: writing dimacs: %w", err)
		}
	}
	return bw.Flush()
}
