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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/navokoj/pkg/logging"
)

// --- Global Command Variables ---
var (
	stepsFlag   int
	lrFlag      float64
	betaMaxFlag float64
	seedFlag    int64
	verbose     bool

	// qstate flags
	numNodes  int
	numStates int
	density   float64

	// schedule flags
	horizonFlag float64

	// bench flags
	benchVars   int
	benchAlpha  float64
	benchTrials int

	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "navokoj",
		Short: "A cli for the navokoj annealing constraint solvers",
		Long: `Navokoj relaxes discrete constraint problems into continuous
				potentials, anneals them with a rising inverse temperature,
				and collapses the result back to a discrete solution.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelWarn
			if verbose {
				level = logging.LevelDebug
			}
			logger = logging.New(logging.Config{Level: level, Service: "navokoj-cli"}).Logger
		},
	}

	// --- Solvers ---
	satCmd = &cobra.Command{
		Use:   "sat [dimacs_file]",
		Short: "Solve a CNF formula in DIMACS format (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSATCommand, // Defined in cmd_sat.go
	}

	qstateCmd = &cobra.Command{
		Use:   "color [edges_file]",
		Short: "Color a graph with Q states (random graph when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runColorCommand, // Defined in cmd_qstate.go
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule [problem_file]",
		Short: "Schedule jobs from a YAML problem description",
		Args:  cobra.ExactArgs(1),
		Run:   runScheduleCommand, // Defined in cmd_schedule.go
	}

	// --- Demos ---
	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run built-in demonstration problems",
	}
	demoSATCmd = &cobra.Command{
		Use:   "sat",
		Short: "Solve a random 3-SAT instance near the critical density",
		Run:   runDemoSAT, // Defined in cmd_demo.go
	}
	demoQueensCmd = &cobra.Command{
		Use:   "queens [board_size]",
		Short: "Solve the N-Queens puzzle as a SAT instance",
		Args:  cobra.MaximumNArgs(1),
		Run:   runDemoQueens, // Defined in cmd_demo.go
	}
	demoSudokuCmd = &cobra.Command{
		Use:   "sudoku",
		Short: "Solve a sample Sudoku grid as a SAT instance",
		Run:   runDemoSudoku, // Defined in cmd_demo.go
	}
	demoSeatingCmd = &cobra.Command{
		Use:   "seating",
		Short: "Assign guests to tables as a graph coloring problem",
		Run:   runDemoSeating, // Defined in cmd_demo.go
	}
	demoPipelineCmd = &cobra.Command{
		Use:   "pipeline",
		Short: "Schedule a build pipeline with precedence and resource conflicts",
		Run:   runDemoPipeline, // Defined in cmd_demo.go
	}

	// --- Benchmark ---
	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the SAT solver on random critical-density instances",
		Run:   runBenchCommand, // Defined in cmd_bench.go
	}
)

func init() {
	rootCmd.PersistentFlags().IntVar(&stepsFlag, "steps", 0, "Annealing steps (0 uses the solver default)")
	rootCmd.PersistentFlags().Float64Var(&lrFlag, "lr", 0, "Learning rate (0 uses the solver default)")
	rootCmd.PersistentFlags().Float64Var(&betaMaxFlag, "beta-max", 0, "Final inverse temperature (0 uses the solver default)")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Random seed (omit for a time-based seed)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(satCmd)

	rootCmd.AddCommand(qstateCmd)
	qstateCmd.Flags().IntVar(&numNodes, "nodes", 20, "Node count for a random graph")
	qstateCmd.Flags().IntVar(&numStates, "states", 4, "Number of states (colors)")
	qstateCmd.Flags().Float64Var(&density, "density", 0.3, "Edge density for a random graph")

	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().Float64Var(&horizonFlag, "horizon", 0, "Soft horizon (0 uses the file value or the default)")

	rootCmd.AddCommand(demoCmd)
	demoCmd.AddCommand(demoSATCmd)
	demoCmd.AddCommand(demoQueensCmd)
	demoCmd.AddCommand(demoSudokuCmd)
	demoCmd.AddCommand(demoSeatingCmd)
	demoCmd.AddCommand(demoPipelineCmd)

	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&benchVars, "vars", 50, "Variables per instance")
	benchCmd.Flags().Float64Var(&benchAlpha, "alpha", 4.26, "Clause-to-variable ratio")
	benchCmd.Flags().IntVar(&benchTrials, "trials", 8, "Instances to solve")
}

// seedOverride returns the --seed value when the user set it.
func seedOverride(cmd *cobra.Command) *int64 {
	if cmd.Flags().Changed("seed") || cmd.InheritedFlags().Changed("seed") {
		s := seedFlag
		return &s
	}
	return nil
}

func exitErr(format string, args ...interface{}) {
	printError(format, args...)
	os.Exit(1)
}
