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
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/navokoj/pkg/qstate"
)

func qstateConfig(cmd *cobra.Command) *qstate.Config {
	config := qstate.DefaultConfig()
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

// edgesFile is the JSON problem format for the color command. Node ids
// are 1-indexed.
type edgesFile struct {
	NumNodes int           `json:"num_nodes"`
	Edges    []qstate.Edge `json:"edges"`
}

func runColorCommand(cmd *cobra.Command, args []string) {
	var edges []qstate.Edge
	nodes := numNodes

	if len(args) == 1 {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			exitErr("reading %s: %v", args[0], err)
		}
		var file edgesFile
		if err := json.Unmarshal(raw, &file); err != nil {
			exitErr("parsing %s: %v", args[0], err)
		}
		nodes = file.NumNodes
		edges = file.Edges
	} else {
		var err error
		edges, err = qstate.GenerateRandomGraph(nodes, density, seedOverride(cmd))
		if err != nil {
			exitErr("generating graph: %v", err)
		}
		logger.Debug("generated random graph", "nodes", nodes, "density", density, "edges", len(edges))
	}

	config := qstateConfig(cmd)
	start := time.Now()
	assignment, err := qstate.New(config).Solve(nodes, numStates, edges)
	if err != nil {
		exitErr("solve failed: %v", err)
	}
	elapsed := time.Since(start)

	conflicts := qstate.CountConflicts(edges, assignment)
	if conflicts == 0 {
		printSuccess("VALID %d-coloring (%d nodes, %d edges, %v)", numStates, nodes, len(edges), elapsed.Round(time.Millisecond))
	} else {
		printError("INVALID: %d conflicting edges (%v)", conflicts, elapsed.Round(time.Millisecond))
	}
	// Assignment rows are 0-based; node ids are 1-indexed everywhere.
	for row, state := range assignment {
		fmt.Printf("node %d -> state %d\n", row+1, state)
	}
}
