// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the BadgerDB problem store

package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)

	p := &Problem{
		ID:          "p-1",
		Kind:        "sat",
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC().Truncate(time.Millisecond),
		Request:     json.RawMessage(`{"num_vars":2}`),
	}
	require.NoError(t, s.PutProblem(p))

	got, err := s.GetProblem("p-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Kind, got.Kind)
	assert.Equal(t, StatusPending, got.Status)
	assert.JSONEq(t, `{"num_vars":2}`, string(got.Request))
}

func TestGetProblem_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProblem("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutProblem_Overwrites(t *testing.T) {
	s := newTestStore(t)

	p := &Problem{ID: "p-1", Kind: "qstate", Status: StatusPending, SubmittedAt: time.Now()}
	require.NoError(t, s.PutProblem(p))

	now := time.Now().UTC()
	p.Status = StatusDone
	p.CompletedAt = &now
	p.Result = json.RawMessage(`{"conflicts":0}`)
	require.NoError(t, s.PutProblem(p))

	got, err := s.GetProblem("p-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.JSONEq(t, `{"conflicts":0}`, string(got.Result))
}

func TestListProblems_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, s.PutProblem(&Problem{
			ID:          id,
			Kind:        "sat",
			Status:      StatusPending,
			SubmittedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	problems, err := s.ListProblems()
	require.NoError(t, err)
	require.Len(t, problems, 3)
	assert.Equal(t, "new", problems[0].ID)
	assert.Equal(t, "mid", problems[1].ID)
	assert.Equal(t, "old", problems[2].ID)
}

func TestListProblems_Empty(t *testing.T) {
	s := newTestStore(t)

	problems, err := s.ListProblems()
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestOpen_PersistentRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}
