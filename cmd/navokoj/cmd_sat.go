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
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/navokoj/pkg/sat"
)

// satConfig builds a solver config from the shared CLI flags.
func satConfig(cmd *cobra.Command) *sat.Config {
	config := sat.DefaultConfig()
	if stepsFlag > 0 {
		config.Steps = stepsFlag
	}
	if lrFlag > 0 {
		config.LearningRate = lrFlag
	}
	if betaMaxFlag > 0 {
		config.BetaMax = betaMaxFlag
	}
	config.Seed = seedOverride(cmd)
	return config
}

func runSATCommand(cmd *cobra.Command, args []string) {
	input := os.Stdin
	source := "stdin"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("opening %s: %v", args[0], err)
		}
		defer f.Close()
		input = f
		source = args[0]
	}

	numVars, clauses, err := sat.ParseDIMACS(input)
	if err != nil {
		exitErr("parsing %s: %v", source, err)
	}
	logger.Debug("parsed formula", "vars", numVars, "clauses", len(clauses))

	config := satConfig(cmd)
	start := time.Now()
	assignment, err := sat.New(config).Solve(numVars, clauses)
	if err != nil {
		exitErr("solve failed: %v", err)
	}
	elapsed := time.Since(start)

	fraction := sat.Verify(clauses, assignment)
	if fraction == 1.0 {
		printSuccess("SATISFIABLE (%d vars, %d clauses, %v)", numVars, len(clauses), elapsed.Round(time.Millisecond))
	} else {
		printError("INCOMPLETE: %.2f%% of clauses satisfied (%v)", fraction*100, elapsed.Round(time.Millisecond))
	}
	fmt.Println(formatAssignment(assignment))
}

// formatAssignment renders the DIMACS-style solution line.
func formatAssignment(assignment []int) string {
	var b strings.Builder
	b.WriteString("v")
	for i, v := range assignment {
		lit := i + 1
		if v == 0 {
			lit = -lit
		}
		fmt.Fprintf(&b, " %d", lit)
	}
	b.WriteString(" 0")
	return b.String()
}
