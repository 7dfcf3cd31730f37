// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes defines the request and response payloads for the
// solver HTTP API.
package datatypes

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// -----------------------------------------------------------------------------
// Solver Parameters
// -----------------------------------------------------------------------------

// SolverParams are optional overrides for the annealing loop. Omitted
// fields fall back to each solver's defaults.
type SolverParams struct {
	Steps        *int     `json:"steps,omitempty" validate:"omitempty,gte=0"`
	LearningRate *float64 `json:"learning_rate,omitempty" validate:"omitempty,gt=0"`
	BetaMax      *float64 `json:"beta_max,omitempty" validate:"omitempty,gt=0"`
	Seed         *int64   `json:"seed,omitempty"`
}

// -----------------------------------------------------------------------------
// SAT
// -----------------------------------------------------------------------------

// SATRequest is a CNF formula to solve.
type SATRequest struct {
	NumVars int     `json:"num_vars" validate:"required,gte=1"`
	Clauses [][]int `json:"clauses"`
	SolverParams
}

// Validate checks the request beyond what JSON decoding enforces.
func (r *SATRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for i, clause := range r.Clauses {
		if len(clause) == 0 {
			return fmt.Errorf("clause %d is empty", i)
		}
	}
	return nil
}

// SATResponse carries the assignment and its verified quality.
type SATResponse struct {
	Assignment        []int   `json:"assignment"`
	SatisfiedFraction float64 `json:"satisfied_fraction"`
	ElapsedMS         int64   `json:"elapsed_ms"`
}

// -----------------------------------------------------------------------------
// Q-State Coloring
// -----------------------------------------------------------------------------

// QStateRequest is a graph coloring problem. Edge endpoints are
// 1-indexed node ids.
type QStateRequest struct {
	NumNodes  int      `json:"num_nodes" validate:"required,gte=1"`
	NumStates int      `json:"num_states" validate:"required,gte=1"`
	Edges     [][2]int `json:"edges"`
	SolverParams
}

// Validate checks edge endpoints against the node count.
func (r *QStateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for i, e := range r.Edges {
		if e[0] < 1 || e[0] > r.NumNodes || e[1] < 1 || e[1] > r.NumNodes {
			return fmt.Errorf("edge %d references a node outside [1, %d]", i, r.NumNodes)
		}
	}
	return nil
}

// QStateResponse carries the coloring and its conflict count.
type QStateResponse struct {
	Assignment []int `json:"assignment"`
	Conflicts  int   `json:"conflicts"`
	ElapsedMS  int64 `json:"elapsed_ms"`
}

// -----------------------------------------------------------------------------
// Scheduling
// -----------------------------------------------------------------------------

// JobSpec is one job in a scheduling request.
type JobSpec struct {
	Duration float64 `json:"duration" validate:"gt=0"`
	Name     string  `json:"name,omitempty"`
}

// ScheduleRequest is a temporal scheduling problem over a job map
// keyed by integer id.
type ScheduleRequest struct {
	Jobs        map[int]JobSpec `json:"jobs" validate:"required,min=1,dive"`
	Conflicts   [][2]int        `json:"conflicts"`
	Precedences [][2]int        `json:"precedences"`
	Horizon     *float64        `json:"horizon,omitempty" validate:"omitempty,gt=0"`
	SolverParams
}

// Validate checks that constraints reference declared jobs.
func (r *ScheduleRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	check := func(kind string, pairs [][2]int) error {
		for i, p := range pairs {
			for _, id := range p {
				if _, ok := r.Jobs[id]; !ok {
					return fmt.Errorf("%s %d references unknown job %d", kind, i, id)
				}
			}
		}
		return nil
	}
	if err := check("conflict", r.Conflicts); err != nil {
		return err
	}
	return check("precedence", r.Precedences)
}

// ScheduleResponse carries start times and verification results.
type ScheduleResponse struct {
	Schedule   map[int]float64 `json:"schedule"`
	Valid      bool            `json:"valid"`
	Violations []string        `json:"violations,omitempty"`
	ElapsedMS  int64           `json:"elapsed_ms"`
}

// -----------------------------------------------------------------------------
// Async Problems
// -----------------------------------------------------------------------------

// ProblemRequest wraps one solve request of any kind for async
// submission. Exactly one payload field must match Kind.
type ProblemRequest struct {
	Kind     string           `json:"kind" validate:"required,oneof=sat qstate schedule"`
	SAT      *SATRequest      `json:"sat,omitempty"`
	QState   *QStateRequest   `json:"qstate,omitempty"`
	Schedule *ScheduleRequest `json:"schedule,omitempty"`
}

// Validate checks the kind and delegates to the matching payload.
func (r *ProblemRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	switch r.Kind {
	case "sat":
		if r.SAT == nil {
			return fmt.Errorf("kind is sat but sat payload is missing")
		}
		return r.SAT.Validate()
	case "qstate":
		if r.QState == nil {
			return fmt.Errorf("kind is qstate but qstate payload is missing")
		}
		return r.QState.Validate()
	case "schedule":
		if r.Schedule == nil {
			return fmt.Errorf("kind is schedule but schedule payload is missing")
		}
		return r.Schedule.Validate()
	}
	return nil
}

// ProblemAccepted is the response to an async submission.
type ProblemAccepted struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
