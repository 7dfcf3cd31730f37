// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package prime derives constraint weights from the prime number sequence.
//
// Every constraint in an annealing solve gets the weight
//
//	w_k = 1 / ln(p_k + 1)
//
// where p_k is the k-th prime. The weights are strictly positive, strictly
// decreasing, and pairwise distinct, which gives each constraint a unique
// scalar signature. That signature breaks permutation symmetry between
// otherwise-identical constraints so gradient flow does not stall in
// degenerate trade-offs.
//
// Thread Safety: all functions are pure and safe for concurrent use.
package prime

import "math"

// First returns the first n primes in increasing order, starting at 2.
//
// Inputs:
//   - n: How many primes to produce. n <= 0 yields an empty slice.
//
// Outputs:
//   - []int: The primes, length max(n, 0).
func First(n int) []int {
	if n <= 0 {
		return []int{}
	}
	primes := make([]int, 0, n)
	for candidate := 2; len(primes) < n; candidate++ {
		isPrime := true
		for _, p := range primes {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			primes = append(primes, candidate)
		}
	}
	return primes
}

// Weights returns the constraint weight vector for n constraints.
//
// Description:
//
//	Weight k is 1/ln(p_k + 1), so the first constraint gets the largest
//	weight (1/ln 3) and weights decay slowly as the primes grow. A solve
//	with zero constraints gets an empty vector and contributes no
//	gradient.
//
// Inputs:
//   - n: Number of constraints. n <= 0 yields an empty slice.
//
// Outputs:
//   - []float64: Strictly positive, strictly decreasing weights.
func Weights(n int) []float64 {
	primes := First(n)
	weights := make([]float64, len(primes))
	for k, p := range primes {
		weights[k] = 1.0 / math.Log(float64(p)+1.0)
	}
	return weights
}
