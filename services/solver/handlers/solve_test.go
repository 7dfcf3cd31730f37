// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the synchronous solve handlers

package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/navokoj/services/solver/datatypes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func seed(s int64) *int64 { return &s }

// =============================================================================
// SAT Tests
// =============================================================================

func TestHandleSolveSAT_SolvesSmallFormula(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/sat", HandleSolveSAT(testLogger()))

	req := datatypes.SATRequest{
		NumVars: 3,
		Clauses: [][]int{{1, 2}, {-1, 3}},
	}
	req.Seed = seed(42)

	w := postJSON(t, router, "/v1/solve/sat", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.SATResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Assignment, 3)
	assert.Equal(t, 1.0, resp.SatisfiedFraction)
}

func TestHandleSolveSAT_RejectsMissingNumVars(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/sat", HandleSolveSAT(testLogger()))

	w := postJSON(t, router, "/v1/solve/sat", map[string]interface{}{
		"clauses": [][]int{{1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSolveSAT_RejectsEmptyClause(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/sat", HandleSolveSAT(testLogger()))

	w := postJSON(t, router, "/v1/solve/sat", map[string]interface{}{
		"num_vars": 2,
		"clauses":  [][]int{{}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSolveSAT_RejectsOutOfRangeLiteral(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/sat", HandleSolveSAT(testLogger()))

	w := postJSON(t, router, "/v1/solve/sat", map[string]interface{}{
		"num_vars": 2,
		"clauses":  [][]int{{5}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// =============================================================================
// Q-State Tests
// =============================================================================

func TestHandleSolveQState_ColorsTriangle(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/qstate", HandleSolveQState(testLogger()))

	req := datatypes.QStateRequest{
		NumNodes:  3,
		NumStates: 3,
		Edges:     [][2]int{{1, 2}, {2, 3}, {1, 3}},
	}
	req.Seed = seed(42)

	w := postJSON(t, router, "/v1/solve/qstate", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.QStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Assignment, 3)
	assert.Equal(t, 0, resp.Conflicts)
	for _, s := range resp.Assignment {
		assert.GreaterOrEqual(t, s, 1)
		assert.LessOrEqual(t, s, 3)
	}
}

func TestHandleSolveQState_AcceptsHighestNodeID(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/qstate", HandleSolveQState(testLogger()))

	// An edge touching node NumNodes is the top of the 1-indexed range
	// and must pass both API validation and the solver.
	req := datatypes.QStateRequest{
		NumNodes:  4,
		NumStates: 2,
		Edges:     [][2]int{{1, 4}},
	}
	req.Seed = seed(7)

	w := postJSON(t, router, "/v1/solve/qstate", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.QStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Assignment, 4)
	assert.Equal(t, 0, resp.Conflicts)
}

func TestHandleSolveQState_RejectsBadEdge(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/qstate", HandleSolveQState(testLogger()))

	cases := []struct {
		name string
		edge [2]int
	}{
		{"node zero", [2]int{0, 2}},
		{"beyond num_nodes", [2]int{1, 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/v1/solve/qstate", map[string]interface{}{
				"num_nodes":  2,
				"num_states": 2,
				"edges":      [][2]int{tc.edge},
			})
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// =============================================================================
// Schedule Tests
// =============================================================================

func TestHandleSolveSchedule_SeparatesConflictingJobs(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/schedule", HandleSolveSchedule(testLogger()))

	req := datatypes.ScheduleRequest{
		Jobs: map[int]datatypes.JobSpec{
			0: {Duration: 4, Name: "setup"},
			1: {Duration: 3, Name: "teardown"},
		},
		Conflicts: [][2]int{{0, 1}},
	}
	req.Seed = seed(42)

	w := postJSON(t, router, "/v1/solve/schedule", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid, "violations: %v", resp.Violations)
	assert.Len(t, resp.Schedule, 2)
}

func TestHandleSolveSchedule_RejectsUnknownJobInConflict(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/schedule", HandleSolveSchedule(testLogger()))

	w := postJSON(t, router, "/v1/solve/schedule", map[string]interface{}{
		"jobs":      map[string]interface{}{"0": map[string]interface{}{"duration": 2}},
		"conflicts": [][2]int{{0, 7}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSolveSchedule_RejectsZeroDuration(t *testing.T) {
	router := gin.New()
	router.POST("/v1/solve/schedule", HandleSolveSchedule(testLogger()))

	w := postJSON(t, router, "/v1/solve/schedule", map[string]interface{}{
		"jobs": map[string]interface{}{"0": map[string]interface{}{"duration": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
