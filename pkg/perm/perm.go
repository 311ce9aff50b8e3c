// Package perm generates permutations.
//
// [Generate] enumerates the orderings of n distinct positions with Heap's
// algorithm. [Multiset] enumerates the distinct orderings of a list of values
// that may repeat, which is what labeling searches need: costs {1, 1, 2} have
// three distinct assignments, not 3! = 6.
package perm

import "slices"

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1. Values above 20! overflow int64.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation, safe to modify without affecting others.
// n = 0 yields one empty permutation.
func Generate(n, limit int) [][]int {
	if n <= 1 {
		return [][]int{Seq(n)}
	}

	perm := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || capacity > Factorial(min(n, 10)) {
		capacity = Factorial(min(n, 10))
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(perm))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] >= i {
			state[i] = 0
			i++
			continue
		}
		j := 0
		if i%2 == 1 {
			j = state[i]
		}
		perm[j], perm[i] = perm[i], perm[j]
		result = append(result, slices.Clone(perm))
		state[i]++
		i = 0
	}
	return result
}
