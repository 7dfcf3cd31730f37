// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the HTTP endpoints of the solver service.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/navokoj/pkg/anneal"
	"github.com/AleutianAI/navokoj/pkg/qstate"
	"github.com/AleutianAI/navokoj/pkg/sat"
	"github.com/AleutianAI/navokoj/pkg/schedule"
	"github.com/AleutianAI/navokoj/services/solver/datatypes"
)

var tracer = otel.Tracer("navokoj.solver.handlers")

// ---- SAT ----

// HandleSolveSAT solves a CNF formula synchronously.
//
// Description: POST /v1/solve/sat. Runs the annealing SAT solver on the
// request body and returns the assignment plus its verified satisfied
// fraction.
func HandleSolveSAT(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "solve.sat")
		defer span.End()

		var req datatypes.SATRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		span.SetAttributes(
			attribute.Int("sat.num_vars", req.NumVars),
			attribute.Int("sat.num_clauses", len(req.Clauses)),
		)

		resp, err := runSAT(&req, nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			solvesTotal.WithLabelValues("sat", "error").Inc()
			logger.Error("sat solve failed", "error", err)
			c.JSON(http.StatusUnprocessableEntity, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		solvesTotal.WithLabelValues("sat", "ok").Inc()
		c.JSON(http.StatusOK, resp)
	}
}

func runSAT(req *datatypes.SATRequest, progress anneal.ProgressFunc) (*datatypes.SATResponse, error) {
	config := sat.DefaultConfig()
	applyParams(&config.Steps, &config.LearningRate, &config.BetaMax, &config.Seed, req.SolverParams)
	config.Progress = progress

	solver := sat.New(config)
	start := time.Now()
	assignment, err := solver.Solve(req.NumVars, req.Clauses)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	solveDuration.WithLabelValues("sat").Observe(elapsed.Seconds())
	return &datatypes.SATResponse{
		Assignment:        assignment,
		SatisfiedFraction: sat.Verify(req.Clauses, assignment),
		ElapsedMS:         elapsed.Milliseconds(),
	}, nil
}

// ---- Q-State Coloring ----

// HandleSolveQState colors a graph synchronously.
//
// Description: POST /v1/solve/qstate. Runs the Q-state relaxation on the
// request graph and returns the state assignment plus the conflict count.
func HandleSolveQState(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "solve.qstate")
		defer span.End()

		var req datatypes.QStateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		span.SetAttributes(
			attribute.Int("qstate.num_nodes", req.NumNodes),
			attribute.Int("qstate.num_states", req.NumStates),
			attribute.Int("qstate.num_edges", len(req.Edges)),
		)

		resp, err := runQState(&req, nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			solvesTotal.WithLabelValues("qstate", "error").Inc()
			logger.Error("qstate solve failed", "error", err)
			c.JSON(http.StatusUnprocessableEntity, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		solvesTotal.WithLabelValues("qstate", "ok").Inc()
		c.JSON(http.StatusOK, resp)
	}
}

func runQState(req *datatypes.QStateRequest, progress anneal.ProgressFunc) (*datatypes.QStateResponse, error) {
	config := qstate.DefaultConfig()
	applyParams(&config.Steps, &config.LearningRate, &config.BetaMax, &config.Seed, req.SolverParams)
	config.Progress = progress

	solver := qstate.New(config)
	edges := make([]qstate.Edge, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = qstate.Edge{U: e[0], V: e[1]}
	}
	start := time.Now()
	assignment, err := solver.Solve(req.NumNodes, req.NumStates, edges)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	solveDuration.WithLabelValues("qstate").Observe(elapsed.Seconds())
	return &datatypes.QStateResponse{
		Assignment: assignment,
		Conflicts:  qstate.CountConflicts(edges, assignment),
		ElapsedMS:  elapsed.Milliseconds(),
	}, nil
}

// ---- Scheduling ----

// HandleSolveSchedule schedules a job set synchronously.
//
// Description: POST /v1/solve/schedule. Runs the temporal scheduler on
// the request and returns start times plus verification results.
func HandleSolveSchedule(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "solve.schedule")
		defer span.End()

		var req datatypes.ScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		span.SetAttributes(
			attribute.Int("schedule.num_jobs", len(req.Jobs)),
			attribute.Int("schedule.num_conflicts", len(req.Conflicts)),
			attribute.Int("schedule.num_precedences", len(req.Precedences)),
		)

		resp, err := runSchedule(&req, nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			solvesTotal.WithLabelValues("schedule", "error").Inc()
			logger.Error("schedule solve failed", "error", err)
			c.JSON(http.StatusUnprocessableEntity, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		solvesTotal.WithLabelValues("schedule", "ok").Inc()
		c.JSON(http.StatusOK, resp)
	}
}

func runSchedule(req *datatypes.ScheduleRequest, progress anneal.ProgressFunc) (*datatypes.ScheduleResponse, error) {
	config := schedule.DefaultConfig()
	applyParams(&config.Steps, &config.LearningRate, &config.BetaMax, &config.Seed, req.SolverParams)
	config.Progress = progress
	if req.Horizon != nil {
		config.Horizon = *req.Horizon
	}

	scheduler := schedule.New(config)
	jobs := make(map[int]schedule.Job, len(req.Jobs))
	for id, spec := range req.Jobs {
		jobs[id] = schedule.Job{Duration: spec.Duration, Name: spec.Name}
	}
	start := time.Now()
	result, err := scheduler.Schedule(jobs, toPairs(req.Conflicts), toPairs(req.Precedences))
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	solveDuration.WithLabelValues("schedule").Observe(elapsed.Seconds())

	valid, violations, err := schedule.Verify(jobs, result, toPairs(req.Conflicts), toPairs(req.Precedences), schedule.DefaultTolerance)
	if err != nil {
		return nil, err
	}
	return &datatypes.ScheduleResponse{
		Schedule:   result,
		Valid:      valid,
		Violations: violations,
		ElapsedMS:  elapsed.Milliseconds(),
	}, nil
}

// ---- Shared Helpers ----

func applyParams(steps *int, lr, betaMax *float64, seed **int64, p datatypes.SolverParams) {
	if p.Steps != nil {
		*steps = *p.Steps
	}
	if p.LearningRate != nil {
		*lr = *p.LearningRate
	}
	if p.BetaMax != nil {
		*betaMax = *p.BetaMax
	}
	if p.Seed != nil {
		*seed = p.Seed
	}
}

func toPairs(raw [][2]int) []schedule.Pair {
	pairs := make([]schedule.Pair, len(raw))
	for i, p := range raw {
		pairs[i] = schedule.Pair{I: p[0], J: p[1]}
	}
	return pairs
}
