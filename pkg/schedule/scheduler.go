// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package schedule assigns continuous start times to jobs under
// precedence and mutual-exclusion constraints.
//
// Description:
//
//	The timeline is treated as a physical system: precedence pairs act
//	as springs that pull violated orderings back into shape, conflict
//	pairs repel overlapping intervals with a force that hardens as beta
//	rises, and a weak gravity toward t=0 keeps the makespan from
//	drifting. Start times are clamped to >= 0 after every step.
//
//	The periodic perturbation here is deliberately not RNG noise: every
//	500th step each job gets a bounded sinusoidal kick sin(p*step)*2
//	keyed by its own prime, so exact ties and head-on collisions break
//	deterministically even in unseeded runs.
//
// Thread Safety: a Scheduler is stateless between calls; concurrent
// Schedule calls are safe.
package schedule

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/AleutianAI/navokoj/pkg/anneal"
	"github.com/AleutianAI/navokoj/pkg/prime"
)

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// Job describes one schedulable unit.
type Job struct {
	// Duration is the job's fixed execution time. Must be > 0.
	Duration float64 `json:"duration" yaml:"duration"`

	// Name is an optional human-readable label.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Pair references two jobs by id. As a precedence it means "I must finish
// before J starts"; as a conflict it means "I and J may not overlap".
type Pair struct {
	I int `json:"i" yaml:"i"`
	J int `json:"j" yaml:"j"`
}

// Config configures the temporal scheduler.
type Config struct {
	// Horizon is a soft upper time bound: start times initialize
	// uniformly in [0, Horizon/2] and are never hard-capped by it.
	// Must be > 0.
	Horizon float64

	// Steps is the annealing iteration count.
	Steps int

	// LearningRate is the gradient step size. Must be > 0.
	LearningRate float64

	// BetaMax is the final conflict-repulsion stiffness. Must be >= 0.
	BetaMax float64

	// Seed makes the initial scatter deterministic. Nil seeds from the
	// wall clock. The periodic kick is deterministic regardless.
	Seed *int64

	// Progress is an optional per-step observer.
	Progress anneal.ProgressFunc

	// ProgressInterval is the step spacing of Progress callbacks.
	ProgressInterval int
}

// DefaultConfig returns the published scheduler defaults.
func DefaultConfig() *Config {
	return &Config{
		Horizon:      100.0,
		Steps:        5000,
		LearningRate: 0.5,
		BetaMax:      10.0,
	}
}

// Scheduler runs the temporal annealing relaxation.
type Scheduler struct {
	config *Config
}

// New creates a scheduler. A nil config gets DefaultConfig.
func New(config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scheduler{config: config}
}

// -----------------------------------------------------------------------------
// Schedule
// -----------------------------------------------------------------------------

// Schedule returns a non-negative start time per job id.
//
// Description:
//
//	Job ids may be any integers; internally they are ordered ascending,
//	which fixes the constraint reduction order and keeps seeded runs
//	bit-for-bit reproducible. The result is best-effort: it always
//	arrives after exactly Steps iterations and should be checked with
//	Verify.
//
// Inputs:
//   - jobs: Job id to description. Must be non-empty, durations > 0.
//   - conflicts: Pairs that may not overlap in time.
//   - precedences: Pairs (i, j) where i must finish before j starts.
//
// Outputs:
//   - map[int]float64: Start time per job id, all >= 0.
//   - error: Input-contract violations only.
func (s *Scheduler) Schedule(jobs map[int]Job, conflicts, precedences []Pair) (map[int]float64, error) {
	if err := s.validate(jobs, conflicts, precedences); err != nil {
		return nil, err
	}

	// Fixed deterministic slot order: ascending job id.
	ids := make([]int, 0, len(jobs))
	for id := range jobs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	slot := make(map[int]int, len(ids))
	durations := make([]float64, len(ids))
	for i, id := range ids {
		slot[id] = i
		durations[i] = jobs[id].Duration
	}

	rng := anneal.NewRNG(s.config.Seed)

	// Scatter jobs over the first half of the horizon to break initial
	// symmetry.
	starts := make([]float64, len(ids))
	for i := range starts {
		starts[i] = rng.Float64() * s.config.Horizon / 2.0
	}

	dyn := &dynamics{
		durations:   durations,
		conflicts:   toSlots(conflicts, slot),
		precedences: toSlots(precedences, slot),
		primes:      prime.First(len(ids)),
		lr:          s.config.LearningRate,
	}
	anneal.Run(anneal.Config{
		Steps:            s.config.Steps,
		BetaMax:          s.config.BetaMax,
		Progress:         s.config.Progress,
		ProgressInterval: s.config.ProgressInterval,
	}, starts, dyn, rng)

	result := make(map[int]float64, len(ids))
	for i, id := range ids {
		result[id] = starts[i]
	}
	return result, nil
}

func (s *Scheduler) validate(jobs map[int]Job, conflicts, precedences []Pair) error {
	if len(jobs) == 0 {
		return fmt.Errorf("schedule: at least one job is required")
	}
	if s.config.Horizon <= 0 {
		return fmt.Errorf("schedule: horizon must be > 0, got %v", s.config.Horizon)
	}
	if s.config.Steps < 0 {
		return fmt.Errorf("schedule: steps must be >= 0, got %d", s.config.Steps)
	}
	if s.config.LearningRate <= 0 {
		return fmt.Errorf("schedule: learning_rate must be > 0, got %v", s.config.LearningRate)
	}
	if s.config.BetaMax < 0 {
		return fmt.Errorf("schedule: beta_max must be >= 0, got %v", s.config.BetaMax)
	}
	for id, job := range jobs {
		if job.Duration <= 0 {
			return fmt.Errorf("schedule: job %d duration must be > 0, got %v", id, job.Duration)
		}
	}
	check := func(kind string, pairs []Pair) error {
		for i, p := range pairs {
			if _, ok := jobs[p.I]; !ok {
				return fmt.Errorf("schedule: %s %d references unknown job %d", kind, i, p.I)
			}
			if _, ok := jobs[p.J]; !ok {
				return fmt.Errorf("schedule: %s %d references unknown job %d", kind, i, p.J)
			}
		}
		return nil
	}
	if err := check("conflict", conflicts); err != nil {
		return err
	}
	return check("precedence", precedences)
}

func toSlots(pairs []Pair, slot map[int]int) [][2]int {
	out := make([][2]int, len(pairs))
	for i, p := range pairs {
		out[i] = [2]int{slot[p.I], slot[p.J]}
	}
	return out
}

// -----------------------------------------------------------------------------
// Dynamics
// -----------------------------------------------------------------------------

// dynamics implements anneal.Dynamics for the temporal force model.
type dynamics struct {
	durations   []float64
	conflicts   [][2]int
	precedences [][2]int
	primes      []int
	lr          float64
}

func (d *dynamics) Gradient(state []float64, beta float64, grad []float64) {
	// Precedence springs: unscaled pull proportional to the violation.
	for _, p := range d.precedences {
		i, j := p[0], p[1]
		violation := (state[i] + d.durations[i]) - state[j]
		if violation > 0 {
			grad[i] -= violation
			grad[j] += violation
		}
	}

	// Conflict repulsion: the later starter is pushed forward, the
	// earlier one backward, harder as the system cools.
	for _, c := range d.conflicts {
		i, j := c[0], c[1]
		endI := state[i] + d.durations[i]
		endJ := state[j] + d.durations[j]
		overlap := math.Min(endI, endJ) - math.Max(state[i], state[j])
		if overlap > 0 {
			direction := 1.0
			if state[i] >= state[j] {
				direction = -1.0
			}
			force := overlap * beta
			grad[i] -= force * direction
			grad[j] += force * direction
		}
	}

	// Horizon gravity: weak pull toward t=0, implicitly minimizing
	// makespan.
	for i := range grad {
		grad[i] -= 0.01 * state[i]
	}
}

func (d *dynamics) Apply(state []float64, grad []float64, beta float64) {
	// No floor here: the intermediate may go negative so a kick in the
	// same step lands on the raw value.
	for i := range state {
		state[i] += d.lr * grad[i]
	}
}

func (d *dynamics) Perturb(state []float64, step int, rng *rand.Rand) {
	if step%500 == 0 {
		for i := range state {
			state[i] += math.Sin(float64(d.primes[i])*float64(step)) * 2.0
		}
	}
	// Per-step order is update, kick, then the zero floor.
	for i := range state {
		state[i] = math.Max(0, state[i])
	}
}
