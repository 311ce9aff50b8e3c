package perm

import (
	"iter"
	"math/bits"
	"slices"
)

// Multiset yields every distinct ordering of values exactly once, in
// ascending lexicographic order. Repeated values never produce repeated
// orderings, so the number of yielded slices equals [CountMultiset].
//
// The yielded slice is reused between iterations; callers that keep it must
// copy it. An empty input yields a single empty ordering. The input slice is
// not modified.
func Multiset(values []int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		p := slices.Clone(values)
		slices.Sort(p)
		if p == nil {
			p = []int{}
		}
		for {
			if !yield(p) {
				return
			}
			if !nextPermutation(p) {
				return
			}
		}
	}
}

// nextPermutation rearranges p into the lexicographically next ordering and
// reports false when p is already the last one. Equal values are never
// swapped past each other, which skips duplicate orderings.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}

// CountMultiset returns the number of distinct orderings of values, the
// multinomial coefficient n! / (k1! k2! ...) over the multiplicities k of
// each distinct value. The boolean is false when the count overflows uint64.
func CountMultiset(values []int) (uint64, bool) {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	total := uint64(1)
	remaining := len(values)
	for _, k := range counts {
		c, ok := binomial(uint64(remaining), uint64(k))
		if !ok {
			return 0, false
		}
		hi, lo := bits.Mul64(total, c)
		if hi != 0 {
			return 0, false
		}
		total = lo
		remaining -= k
	}
	return total, true
}

// MulCount multiplies two counts, reporting false on overflow.
func MulCount(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// binomial computes C(n, k). Every partial product r·(n-k+i)/i is itself a
// binomial coefficient, so the division is exact.
func binomial(n, k uint64) (uint64, bool) {
	k = min(k, n-k)
	r := uint64(1)
	for i := uint64(1); i <= k; i++ {
		hi, lo := bits.Mul64(r, n-k+i)
		if hi >= i {
			return 0, false
		}
		r, _ = bits.Div64(hi, lo, i)
	}
	return r, true
}
