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
	"strings"
	"testing"
)

func TestGenerateCritical3SAT(t *testing.T) {
	t.Run("clause count and shape", func(t *testing.T) {
		seed := int64(11)
		clauses, err := GenerateCritical3SAT(50, CriticalAlpha, &seed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := int(50 * CriticalAlpha); len(clauses) != want {
			t.Errorf("expected %d clauses, got %d", want, len(clauses))
		}
		for ci, clause := range clauses {
			if len(clause) != 3 {
				t.Fatalf("clause %d has %d literals", ci, len(clause))
			}
			seen := map[int]bool{}
			for _, lit := range clause {
				v := abs(lit)
				if lit == 0 || v > 50 {
					t.Fatalf("clause %d has bad literal %d", ci, lit)
				}
				if seen[v] {
					t.Fatalf("clause %d repeats variable %d", ci, v)
				}
				seen[v] = true
			}
		}
	})

	t.Run("deterministic per seed", func(t *testing.T) {
		seed := int64(5)
		a, _ := GenerateCritical3SAT(20, 4.26, &seed)
		b, _ := GenerateCritical3SAT(20, 4.26, &seed)
		for i := range a {
			for j := range a[i] {
				if a[i][j] != b[i][j] {
					t.Fatal("seeded generation diverged")
				}
			}
		}
	})

	t.Run("rejects tiny instances", func(t *testing.T) {
		if _, err := GenerateCritical3SAT(2, 4.26, nil); err == nil {
			t.Error("expected error for nVars < 3")
		}
		if _, err := GenerateCritical3SAT(10, 0, nil); err == nil {
			t.Error("expected error for alpha <= 0")
		}
	})
}

func TestEncodeNQueens(t *testing.T) {
	numVars, clauses, err := EncodeNQueens(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if numVars != 16 {
		t.Errorf("expected 16 variables, got %d", numVars)
	}

	// A known 4-queens solution: queens at (0,1), (1,3), (2,0), (3,2).
	assignment := make([]int, 16)
	for _, rc := range [][2]int{{0, 1}, {1, 3}, {2, 0}, {3, 2}} {
		assignment[rc[0]*4+rc[1]] = 1
	}
	if got := Verify(clauses, assignment); got != 1.0 {
		t.Errorf("known solution scores %v, want 1.0", got)
	}

	// Two queens in one row must violate an exclusion clause.
	assignment[0*4+0] = 1
	if got := Verify(clauses, assignment); got == 1.0 {
		t.Error("conflicting placement still scores 1.0")
	}

	if _, _, err := EncodeNQueens(0); err == nil {
		t.Error("expected error for board size 0")
	}
}

func TestEncodeSudoku(t *testing.T) {
	blank := strings.Repeat(".", 81)

	t.Run("variable count and clue units", func(t *testing.T) {
		grid := "5" + strings.Repeat(".", 80)
		numVars, clauses, err := EncodeSudoku(grid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if numVars != 729 {
			t.Errorf("expected 729 variables, got %d", numVars)
		}

		// The clue (0,0)=5 must appear as the unit clause for variable
		// (0*9+0)*9 + 4 + 1 = 5.
		found := false
		for _, clause := range clauses {
			if len(clause) == 1 && clause[0] == 5 {
				found = true
				break
			}
		}
		if !found {
			t.Error("clue unit clause missing")
		}
	})

	t.Run("blank grid has no unit clauses", func(t *testing.T) {
		_, clauses, err := EncodeSudoku(blank)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, clause := range clauses {
			if len(clause) == 1 {
				t.Fatal("unexpected unit clause in blank grid")
			}
		}
	})

	t.Run("rejects malformed grids", func(t *testing.T) {
		if _, _, err := EncodeSudoku("123"); err == nil {
			t.Error("expected error for short grid")
		}
		if _, _, err := EncodeSudoku(strings.Repeat("x", 81)); err == nil {
			t.Error("expected error for bad rune")
		}
	})
}

func TestDecodeSudoku(t *testing.T) {
	assignment := make([]int, 729)
	// Set cell (0,0)=5 and (8,8)=9.
	assignment[(0*9+0)*9+4] = 1
	assignment[(8*9+8)*9+8] = 1

	grid := DecodeSudoku(assignment)
	if grid[0][0] != "5" {
		t.Errorf("expected cell (0,0)=5, got %q", grid[0][0])
	}
	if grid[8][8] != "9" {
		t.Errorf("expected cell (8,8)=9, got %q", grid[8][8])
	}
	if grid[4][4] != "." {
		t.Errorf("expected unset cell to be \".\", got %q", grid[4][4])
	}
}
