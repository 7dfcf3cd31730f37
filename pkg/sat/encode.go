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
	"strings"
)

// EncodeNQueens encodes the N-Queens problem as CNF.
//
// Description:
//
//	One boolean per board cell, true = queen placed. Clauses enforce at
//	least one queen per row and pairwise exclusion per row, column, and
//	diagonal. The diagonal encoding is naive O(N^4), which is fine for
//	the board sizes a relaxation solve can handle.
//
// Inputs:
//   - boardSize: N for an NxN board, >= 1.
//
// Outputs:
//   - int: Variable count, N*N.
//   - [][]int: The clauses.
//   - error: boardSize < 1.
func EncodeNQueens(boardSize int) (int, [][]int, error) {
	if boardSize < 1 {
		return 0, nil, fmt.Errorf("sat: board size must be >= 1, got %d", boardSize)
	}

	n := boardSize
	cell := func(r, c int) int { return r*n + c + 1 }
	var clauses [][]int

	// At least one queen per row.
	for r := 0; r < n; r++ {
		clause := make([]int, n)
		for c := 0; c < n; c++ {
			clause[c] = cell(r, c)
		}
		clauses = append(clauses, clause)
	}

	// At most one queen per row.
	for r := 0; r < n; r++ {
		for c1 := 0; c1 < n; c1++ {
			for c2 := c1 + 1; c2 < n; c2++ {
				clauses = append(clauses, []int{-cell(r, c1), -cell(r, c2)})
			}
		}
	}

	// At most one queen per column.
	for c := 0; c < n; c++ {
		for r1 := 0; r1 < n; r1++ {
			for r2 := r1 + 1; r2 < n; r2++ {
				clauses = append(clauses, []int{-cell(r1, c), -cell(r2, c)})
			}
		}
	}

	// At most one queen per diagonal.
	for r1 := 0; r1 < n; r1++ {
		for c1 := 0; c1 < n; c1++ {
			for r2 := r1 + 1; r2 < n; r2++ {
				for c2 := 0; c2 < n; c2++ {
					if abs(r1-r2) == abs(c1-c2) {
						clauses = append(clauses, []int{-cell(r1, c1), -cell(r2, c2)})
					}
				}
			}
		}
	}

	return n * n, clauses, nil
}

// EncodeSudoku encodes a 9x9 Sudoku puzzle as CNF.
//
// Description:
//
//	729 variables: cell (r,c) holds value v. Clauses enforce at least
//	one value per cell, at most one occurrence of each value per row,
//	column, and 3x3 box, and fix the given clues as unit clauses.
//
// Inputs:
//   - grid: 81 cells reading order; '1'-'9' are clues, '.' or '0' are
//     blanks. Whitespace is ignored.
//
// Outputs:
//   - int: Variable count, always 729.
//   - [][]int: The clauses.
//   - error: Grid does not contain exactly 81 cells or holds a bad rune.
func EncodeSudoku(grid string) (int, [][]int, error) {
	cells, err := cleanSudokuGrid(grid)
	if err != nil {
		return 0, nil, err
	}

	const n = 9
	v := func(row, col, val int) int { return (row*n+col)*n + val + 1 }
	var clauses [][]int

	// Each cell takes at least one value.
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			clause := make([]int, n)
			for val := 0; val < n; val++ {
				clause[val] = v(r, c, val)
			}
			clauses = append(clauses, clause)
		}
	}

	for val := 0; val < n; val++ {
		// Row uniqueness.
		for r := 0; r < n; r++ {
			for c1 := 0; c1 < n; c1++ {
				for c2 := c1 + 1; c2 < n; c2++ {
					clauses = append(clauses, []int{-v(r, c1, val), -v(r, c2, val)})
				}
			}
		}

		// Column uniqueness.
		for c := 0; c < n; c++ {
			for r1 := 0; r1 < n; r1++ {
				for r2 := r1 + 1; r2 < n; r2++ {
					clauses = append(clauses, []int{-v(r1, c, val), -v(r2, c, val)})
				}
			}
		}

		// Box uniqueness.
		for br := 0; br < 3; br++ {
			for bc := 0; bc < 3; bc++ {
				var box [][2]int
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						box = append(box, [2]int{br*3 + i, bc*3 + j})
					}
				}
				for i := 0; i < len(box); i++ {
					for j := i + 1; j < len(box); j++ {
						clauses = append(clauses, []int{
							-v(box[i][0], box[i][1], val),
							-v(box[j][0], box[j][1], val),
						})
					}
				}
			}
		}
	}

	// Clues become unit clauses.
	for i, cell := range cells {
		if cell == 0 {
			continue
		}
		r, c := i/n, i%n
		clauses = append(clauses, []int{v(r, c, cell-1)})
	}

	return n * n * n, clauses, nil
}

// DecodeSudoku converts a 729-variable assignment back to a 9x9 grid.
//
// Cells where no value variable is set come back as ".". The first set
// value wins when the relaxation left a cell ambiguous.
func DecodeSudoku(assignment []int) [][]string {
	const n = 9
	grid := make([][]string, n)
	for r := range grid {
		grid[r] = make([]string, n)
		for c := range grid[r] {
			grid[r][c] = "."
			for val := 0; val < n; val++ {
				idx := (r*n+c)*n + val
				if idx < len(assignment) && assignment[idx] == 1 {
					grid[r][c] = fmt.Sprintf("%d", val+1)
					break
				}
			}
		}
	}
	return grid
}

func cleanSudokuGrid(grid string) ([]int, error) {
	compact := strings.NewReplacer("\n", "", "\t", "", " ", "").Replace(grid)
	if len(compact) != 81 {
		return nil, fmt.Errorf("sat: sudoku grid must have 81 cells, got %d", len(compact))
	}
	cells := make([]int, 81)
	for i, ch := range compact {
		switch {
		case ch >= '1' && ch <= '9':
			cells[i] = int(ch - '0')
		case ch == '.' || ch == '0':
			cells[i] = 0
		default:
			return nil, fmt.Errorf("sat: invalid sudoku cell %q at position %d", ch, i)
		}
	}
	return cells, nil
}
