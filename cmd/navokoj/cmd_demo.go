// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/navokoj/pkg/qstate"
	"github.com/AleutianAI/navokoj/pkg/sat"
	"github.com/AleutianAI/navokoj/pkg/schedule"
)

// ---- Random 3-SAT ----

func runDemoSAT(cmd *cobra.Command, args []string) {
	const nVars = 30
	printHeading("Random 3-SAT at the critical clause density (alpha=%.2f)", sat.CriticalAlpha)

	seed := seedOverride(cmd)
	clauses, err := sat.GenerateCritical3SAT(nVars, sat.CriticalAlpha, seed)
	if err != nil {
		exitErr("generating instance: %v", err)
	}
	fmt.Printf("%d variables, %d clauses\n", nVars, len(clauses))

	config := satConfig(cmd)
	start := time.Now()
	assignment, err := sat.New(config).Solve(nVars, clauses)
	if err != nil {
		exitErr("solve failed: %v", err)
	}

	fraction := sat.Verify(clauses, assignment)
	if fraction == 1.0 {
		printSuccess("Solved in %v", time.Since(start).Round(time.Millisecond))
	} else {
		printError("Best found satisfies %.1f%% of clauses", fraction*100)
	}
}

// ---- N-Queens ----

func runDemoQueens(cmd *cobra.Command, args []string) {
	boardSize := 8
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			exitErr("board size must be a positive integer, got %q", args[0])
		}
		boardSize = n
	}
	printHeading("%d-Queens as SAT", boardSize)

	numVars, clauses, err := sat.EncodeNQueens(boardSize)
	if err != nil {
		exitErr("encoding: %v", err)
	}
	fmt.Printf("%d variables, %d clauses\n", numVars, len(clauses))

	config := satConfig(cmd)
	if stepsFlag == 0 {
		// Queens instances are tight; give the ramp more room than the
		// SAT default.
		config.Steps = 3000
	}
	start := time.Now()
	assignment, err := sat.New(config).Solve(numVars, clauses)
	if err != nil {
		exitErr("solve failed: %v", err)
	}

	if sat.Verify(clauses, assignment) == 1.0 {
		printSuccess("Solved in %v", time.Since(start).Round(time.Millisecond))
	} else {
		printError("No full placement found; showing the best attempt")
	}
	printQueensBoard(boardSize, assignment)
}

func printQueensBoard(boardSize int, assignment []int) {
	var b strings.Builder
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if assignment[r*boardSize+c] == 1 {
				b.WriteString(" Q")
			} else {
				b.WriteString(" .")
			}
		}
		b.WriteString("\n")
	}
	fmt.Print(b.String())
}

// ---- Sudoku ----

// demoSudokuGrid is a standard 30-clue puzzle.
const demoSudokuGrid = `
	53..7....
	6..195...
	.98....6.
	8...6...3
	4..8.3..1
	7...2...6
	.6....28.
	...419..5
	....8..79
`

func runDemoSudoku(cmd *cobra.Command, args []string) {
	printHeading("Sudoku as SAT")

	numVars, clauses, err := sat.EncodeSudoku(demoSudokuGrid)
	if err != nil {
		exitErr("encoding: %v", err)
	}
	fmt.Printf("%d variables, %d clauses\n", numVars, len(clauses))

	config := satConfig(cmd)
	if stepsFlag == 0 {
		config.Steps = 5000
	}
	start := time.Now()
	assignment, err := sat.New(config).Solve(numVars, clauses)
	if err != nil {
		exitErr("solve failed: %v", err)
	}

	if sat.Verify(clauses, assignment) == 1.0 {
		printSuccess("Solved in %v", time.Since(start).Round(time.Millisecond))
	} else {
		printError("No full solution found; showing the best attempt")
	}
	for _, row := range sat.DecodeSudoku(assignment) {
		fmt.Println(strings.Join(row, " "))
	}
}

// ---- Seating ----

func runDemoSeating(cmd *cobra.Command, args []string) {
	const tables = 3
	printHeading("Seating %d guests at %d tables (rivals apart)", 9, tables)

	guests := []string{
		"Alice", "Bob", "Carol", "Dave", "Erin",
		"Frank", "Grace", "Heidi", "Ivan",
	}
	// Pairs that must not share a table; guest i is node i+1.
	rivalries := []qstate.Edge{
		{U: 1, V: 2}, {U: 1, V: 3}, {U: 2, V: 4},
		{U: 3, V: 5}, {U: 4, V: 6}, {U: 5, V: 7},
		{U: 6, V: 8}, {U: 7, V: 9}, {U: 8, V: 9},
		{U: 2, V: 5}, {U: 4, V: 7},
	}

	config := qstateConfig(cmd)
	start := time.Now()
	assignment, err := qstate.New(config).Solve(len(guests), tables, rivalries)
	if err != nil {
		exitErr("solve failed: %v", err)
	}

	conflicts := qstate.CountConflicts(rivalries, assignment)
	if conflicts == 0 {
		printSuccess("All rivals separated in %v", time.Since(start).Round(time.Millisecond))
	} else {
		printError("%d rival pairs still share a table", conflicts)
	}
	for table := 1; table <= tables; table++ {
		var seated []string
		for i, g := range guests {
			if assignment[i] == table {
				seated = append(seated, g)
			}
		}
		fmt.Printf("table %d: %s\n", table, strings.Join(seated, ", "))
	}
}

// ---- Pipeline ----

func runDemoPipeline(cmd *cobra.Command, args []string) {
	printHeading("Build pipeline with precedence and a shared runner")

	jobs := map[int]schedule.Job{
		0: {Duration: 5, Name: "checkout"},
		1: {Duration: 10, Name: "compile"},
		2: {Duration: 8, Name: "unit tests"},
		3: {Duration: 8, Name: "integration tests"},
		4: {Duration: 4, Name: "package"},
		5: {Duration: 3, Name: "publish"},
	}
	precedences := []schedule.Pair{
		{I: 0, J: 1}, {I: 1, J: 2}, {I: 1, J: 3},
		{I: 2, J: 4}, {I: 3, J: 4}, {I: 4, J: 5},
	}
	// Both test suites contend for the single runner.
	conflicts := []schedule.Pair{{I: 2, J: 3}}

	config := scheduleConfig(cmd, 0)
	start := time.Now()
	sched, err := schedule.New(config).Schedule(jobs, conflicts, precedences)
	if err != nil {
		exitErr("schedule failed: %v", err)
	}

	valid, violations, err := schedule.Verify(jobs, sched, conflicts, precedences, schedule.DefaultTolerance)
	if err != nil {
		exitErr("verifying schedule: %v", err)
	}
	if valid {
		printSuccess("Valid pipeline in %v", time.Since(start).Round(time.Millisecond))
	} else {
		printError("%d violations remain", len(violations))
		for _, v := range violations {
			printError("  %s", v)
		}
	}
	printSchedule(jobs, sched)
}
