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
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/navokoj/pkg/schedule"
)

// scheduleFile is the YAML problem format for the schedule command.
type scheduleFile struct {
	Jobs        map[int]schedule.Job `yaml:"jobs"`
	Conflicts   []schedule.Pair      `yaml:"conflicts"`
	Precedences []schedule.Pair      `yaml:"precedences"`
	Horizon     float64              `yaml:"horizon"`
}

func scheduleConfig(cmd *cobra.Command, fileHorizon float64) *schedule.Config {
	config := schedule.DefaultConfig()
	if fileHorizon > 0 {
		config.Horizon = fileHorizon
	}
	if horizonFlag > 0 {
		config.Horizon = horizonFlag
	}
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

func runScheduleCommand(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("reading %s: %v", args[0], err)
	}
	var file scheduleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		exitErr("parsing %s: %v", args[0], err)
	}
	logger.Debug("loaded problem", "jobs", len(file.Jobs),
		"conflicts", len(file.Conflicts), "precedences", len(file.Precedences))

	config := scheduleConfig(cmd, file.Horizon)
	start := time.Now()
	sched, err := schedule.New(config).Schedule(file.Jobs, file.Conflicts, file.Precedences)
	if err != nil {
		exitErr("schedule failed: %v", err)
	}
	elapsed := time.Since(start)

	valid, violations, err := schedule.Verify(file.Jobs, sched, file.Conflicts, file.Precedences, schedule.DefaultTolerance)
	if err != nil {
		exitErr("verifying schedule: %v", err)
	}
	if valid {
		printSuccess("VALID schedule (%d jobs, %v)", len(file.Jobs), elapsed.Round(time.Millisecond))
	} else {
		printError("INVALID schedule: %d violations (%v)", len(violations), elapsed.Round(time.Millisecond))
		for _, v := range violations {
			printError("  %s", v)
		}
	}
	printSchedule(file.Jobs, sched)
}

// printSchedule lists jobs in start order as a simple timeline.
func printSchedule(jobs map[int]schedule.Job, sched map[int]float64) {
	ids := make([]int, 0, len(sched))
	for id := range sched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return sched[ids[i]] < sched[ids[j]] })

	for _, id := range ids {
		job := jobs[id]
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("job %d", id)
		}
		fmt.Printf("%8.1f - %8.1f  %s\n", sched[id], sched[id]+job.Duration, name)
	}
}
