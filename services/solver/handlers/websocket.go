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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/navokoj/pkg/anneal"
	"github.com/AleutianAI/navokoj/services/solver/datatypes"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// The service binds to localhost by default; origin filtering
		// belongs to the reverse proxy in other deployments.
		return true
	},
}

// wsMessage is the envelope for every frame the server sends.
type wsMessage struct {
	Type    string      `json:"type"`
	Step    int         `json:"step,omitempty"`
	Steps   int         `json:"steps,omitempty"`
	Beta    float64     `json:"beta,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HandleSolveWebSocket streams annealing progress over a websocket.
//
// Description: GET /v1/solve/ws. The client sends one solve request per
// frame (same envelope as POST /v1/problems). The server answers with a
// stream of "progress" frames at the solver's progress interval and a
// final "result" frame, then waits for the next request. The connection
// stays open until the client closes it.
//
// Thread Safety: each connection is served by one goroutine; solves on
// a connection run sequentially.
func HandleSolveWebSocket(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		sessionID := uuid.New().String()
		logger.Info("solve websocket opened", "session_id", sessionID)

		for {
			var req datatypes.ProblemRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("solve websocket error", "session_id", sessionID, "error", err)
				}
				return
			}
			if err := req.Validate(); err != nil {
				sendWS(conn, logger, wsMessage{Type: "error", Error: err.Error()})
				continue
			}

			streamSolve(conn, logger, &req)
		}
	}
}

// streamSolve runs one solve, pushing progress frames as it goes.
func streamSolve(conn *websocket.Conn, logger *slog.Logger, req *datatypes.ProblemRequest) {
	// The solver invokes the callback from this goroutine, so writes
	// to the connection never interleave.
	progress := func(p anneal.Progress) {
		sendWS(conn, logger, wsMessage{
			Type:  "progress",
			Step:  p.Step,
			Steps: p.Steps,
			Beta:  p.Beta,
		})
	}

	var result interface{}
	var err error
	switch req.Kind {
	case "sat":
		result, err = runSAT(req.SAT, progress)
	case "qstate":
		result, err = runQState(req.QState, progress)
	case "schedule":
		result, err = runSchedule(req.Schedule, progress)
	}

	if err != nil {
		solvesTotal.WithLabelValues(req.Kind, "error").Inc()
		sendWS(conn, logger, wsMessage{Type: "error", Error: err.Error()})
		return
	}
	solvesTotal.WithLabelValues(req.Kind, "ok").Inc()
	sendWS(conn, logger, wsMessage{Type: "result", Payload: result})
}

func sendWS(conn *websocket.Conn, logger *slog.Logger, msg wsMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		logger.Warn("websocket write failed", "error", err)
	}
}
