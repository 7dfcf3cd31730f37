// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package routes wires the solver service's HTTP surface.
package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/navokoj/services/solver/handlers"
	"github.com/AleutianAI/navokoj/services/solver/store"
)

// SetupRoutes registers every endpoint on the router.
//
// Description: mounts health and metrics at the root, and the solve API
// under /v1. Synchronous solves block the request; async problems go
// through the store-backed runner.
func SetupRoutes(router *gin.Engine, problemStore *store.Store, logger *slog.Logger) {
	router.GET("/health", handlers.HandleHealth())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	runner := handlers.NewProblemRunner(problemStore, logger)

	v1 := router.Group("/v1")
	{
		solve := v1.Group("/solve")
		{
			solve.POST("/sat", handlers.HandleSolveSAT(logger))
			solve.POST("/qstate", handlers.HandleSolveQState(logger))
			solve.POST("/schedule", handlers.HandleSolveSchedule(logger))
			solve.GET("/ws", handlers.HandleSolveWebSocket(logger))
		}

		problems := v1.Group("/problems")
		{
			problems.POST("", runner.HandleSubmitProblem())
			problems.GET("", runner.HandleListProblems())
			problems.GET("/:id", runner.HandleGetProblem())
		}
	}
}
