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
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/navokoj/pkg/sat"
)

type benchResult struct {
	fraction float64
	solved   bool
	elapsed  time.Duration
}

func runBenchCommand(cmd *cobra.Command, args []string) {
	printHeading("Benchmark: %d trials, %d vars, alpha=%.2f", benchTrials, benchVars, benchAlpha)

	baseSeed := int64(1)
	if s := seedOverride(cmd); s != nil {
		baseSeed = *s
	}

	results := make([]benchResult, benchTrials)
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for trial := 0; trial < benchTrials; trial++ {
		g.Go(func() error {
			seed := baseSeed + int64(trial)
			clauses, err := sat.GenerateCritical3SAT(benchVars, benchAlpha, &seed)
			if err != nil {
				return err
			}

			config := satConfig(cmd)
			config.Seed = &seed
			start := time.Now()
			assignment, err := sat.New(config).Solve(benchVars, clauses)
			if err != nil {
				return err
			}

			fraction := sat.Verify(clauses, assignment)
			results[trial] = benchResult{
				fraction: fraction,
				solved:   fraction == 1.0,
				elapsed:  time.Since(start),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		exitErr("benchmark failed: %v", err)
	}

	solved := 0
	var sumFraction float64
	var sumElapsed time.Duration
	for _, r := range results {
		if r.solved {
			solved++
		}
		sumFraction += r.fraction
		sumElapsed += r.elapsed
	}

	fmt.Printf("solved:        %d/%d\n", solved, benchTrials)
	fmt.Printf("mean sat:      %.4f\n", sumFraction/float64(benchTrials))
	fmt.Printf("mean duration: %v\n", (sumElapsed / time.Duration(benchTrials)).Round(time.Millisecond))
}
