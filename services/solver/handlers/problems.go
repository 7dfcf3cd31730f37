// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/navokoj/services/solver/datatypes"
	"github.com/AleutianAI/navokoj/services/solver/store"
)

// ProblemRunner executes async problems against the store.
//
// Thread Safety: safe for concurrent use. Each submission runs in its
// own goroutine; record updates go through BadgerDB transactions.
type ProblemRunner struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProblemRunner wires a runner to its store.
func NewProblemRunner(s *store.Store, logger *slog.Logger) *ProblemRunner {
	return &ProblemRunner{store: s, logger: logger}
}

// HandleSubmitProblem accepts an async solve.
//
// Description: POST /v1/problems. Validates the wrapped request, stores
// a pending record, kicks off the solve in the background, and returns
// 202 with the problem id.
func (r *ProblemRunner) HandleSubmitProblem() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracer.Start(c.Request.Context(), "problems.submit")
		defer span.End()

		var req datatypes.ProblemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: err.Error()})
			return
		}

		raw, err := json.Marshal(&req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		problem := &store.Problem{
			ID:          uuid.New().String(),
			Kind:        req.Kind,
			Status:      store.StatusPending,
			SubmittedAt: time.Now().UTC(),
			Request:     raw,
		}
		if err := r.store.PutProblem(problem); err != nil {
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: err.Error()})
			return
		}

		problemsQueued.Inc()
		go r.run(problem.ID, &req)

		c.JSON(http.StatusAccepted, datatypes.ProblemAccepted{
			ID:     problem.ID,
			Status: string(store.StatusPending),
		})
	}
}

// HandleGetProblem fetches one problem record.
//
// Description: GET /v1/problems/:id. Returns the stored record with its
// current status and, once done, the result payload.
func (r *ProblemRunner) HandleGetProblem() gin.HandlerFunc {
	return func(c *gin.Context) {
		problem, err := r.store.GetProblem(c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, datatypes.ErrorResponse{Error: "problem not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, problem)
	}
}

// HandleListProblems lists all stored problems, newest first.
//
// Description: GET /v1/problems.
func (r *ProblemRunner) HandleListProblems() gin.HandlerFunc {
	return func(c *gin.Context) {
		problems, err := r.store.ListProblems()
		if err != nil {
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: err.Error()})
			return
		}
		if problems == nil {
			problems = []*store.Problem{}
		}
		c.JSON(http.StatusOK, problems)
	}
}

// run executes the solve and records the outcome.
func (r *ProblemRunner) run(id string, req *datatypes.ProblemRequest) {
	defer problemsQueued.Dec()

	r.setStatus(id, store.StatusRunning, nil, "")

	var result interface{}
	var err error
	switch req.Kind {
	case "sat":
		result, err = runSAT(req.SAT, nil)
	case "qstate":
		result, err = runQState(req.QState, nil)
	case "schedule":
		result, err = runSchedule(req.Schedule, nil)
	}

	if err != nil {
		solvesTotal.WithLabelValues(req.Kind, "error").Inc()
		r.logger.Error("async solve failed", "problem_id", id, "kind", req.Kind, "error", err)
		r.setStatus(id, store.StatusFailed, nil, err.Error())
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		r.setStatus(id, store.StatusFailed, nil, err.Error())
		return
	}
	solvesTotal.WithLabelValues(req.Kind, "ok").Inc()
	r.setStatus(id, store.StatusDone, raw, "")
}

func (r *ProblemRunner) setStatus(id string, status store.Status, result json.RawMessage, errMsg string) {
	problem, err := r.store.GetProblem(id)
	if err != nil {
		r.logger.Error("problem record lost", "problem_id", id, "error", err)
		return
	}
	problem.Status = status
	problem.Error = errMsg
	if result != nil {
		problem.Result = result
	}
	if status == store.StatusDone || status == store.StatusFailed {
		now := time.Now().UTC()
		problem.CompletedAt = &now
	}
	if err := r.store.PutProblem(problem); err != nil {
		r.logger.Error("updating problem record", "problem_id", id, "error", err)
	}
}
