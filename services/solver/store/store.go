// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists asynchronous solve problems in BadgerDB.
//
// BadgerDB gives the solver service low-latency embedded storage, so
// submitted problems and their results survive a service restart without
// an external database. In-memory mode exists for tests.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a problem id has no stored record.
var ErrNotFound = errors.New("store: problem not found")

const problemPrefix = "problem:"

// -----------------------------------------------------------------------------
// Problem Records
// -----------------------------------------------------------------------------

// Status is the lifecycle state of an async problem.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Problem is one submitted solve with its eventual result.
type Problem struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Status      Status          `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Request     json.RawMessage `json:"request"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Config holds configuration for the problem store.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory
	// is true.
	Path string

	// InMemory disables disk persistence. Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging. Nil disables it.
	Logger *slog.Logger

	// GCInterval is how often to run value log garbage collection.
	// Zero disables GC.
	GCInterval time.Duration
}

// DefaultConfig returns production defaults: durable writes and a
// 5-minute GC cadence.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
		GCInterval: 5 * time.Minute,
	}
}

// InMemoryConfig returns a disk-free configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// -----------------------------------------------------------------------------
// Store
// -----------------------------------------------------------------------------

// Store is the BadgerDB-backed problem store.
//
// Thread Safety: safe for concurrent use; BadgerDB transactions provide
// isolation.
type Store struct {
	db     *badger.DB
	stopGC chan struct{}
}

// Open creates the directory if needed and opens the database.
func Open(config Config) (*Store, error) {
	var opts badger.Options
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if config.Path == "" {
			return nil, fmt.Errorf("store: path is required for persistent mode")
		}
		if err := os.MkdirAll(config.Path, 0o750); err != nil {
			return nil, fmt.Errorf("store: creating data dir: %w", err)
		}
		opts = badger.DefaultOptions(config.Path).WithSyncWrites(config.SyncWrites)
	}
	if config.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: config.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: opening badger: %w", err)
	}

	s := &Store{db: db, stopGC: make(chan struct{})}
	if config.GCInterval > 0 && !config.InMemory {
		go s.runGC(config.GCInterval)
	}
	return s, nil
}

// Close stops GC and closes the database.
func (s *Store) Close() error {
	close(s.stopGC)
	return s.db.Close()
}

func (s *Store) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			// RejectedErr just means nothing was worth collecting.
			_ = s.db.RunValueLogGC(0.5)
		}
	}
}

// PutProblem stores or replaces a problem record.
func (s *Store) PutProblem(p *Problem) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: encoding problem %s: %w", p.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(problemPrefix+p.ID), raw)
	})
	if err != nil {
		return fmt.Errorf("store: writing problem %s: %w", p.ID, err)
	}
	return nil
}

// GetProblem fetches a problem record by id.
func (s *Store) GetProblem(id string) (*Problem, error) {
	var p Problem
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(problemPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: reading problem %s: %w", id, err)
	}
	return &p, nil
}

// ListProblems returns every stored problem, newest first.
func (s *Store) ListProblems() ([]*Problem, error) {
	var problems []*Problem
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(problemPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var p Problem
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return err
			}
			problems = append(problems, &p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing problems: %w", err)
	}
	sort.Slice(problems, func(i, j int) bool {
		return problems[i].SubmittedAt.After(problems[j].SubmittedAt)
	})
	return problems, nil
}
