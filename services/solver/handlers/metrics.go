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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navokoj_solves_total",
			Help: "Total solve requests by problem kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	solveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "navokoj_solve_duration_seconds",
			Help:    "Wall-clock solve duration by problem kind.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"kind"},
	)

	problemsQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "navokoj_problems_in_flight",
			Help: "Async problems currently pending or running.",
		},
	)
)
