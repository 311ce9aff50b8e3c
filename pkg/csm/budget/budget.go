// Package budget builds budget curves of cost-prize trees.
//
// The budget curve of a tree maps every integer budget b in 0..maxCost to the
// largest prize collected by a root-containing subtree whose total cost does
// not exceed b, where maxCost is the largest subtree cost. The curve is a
// non-decreasing step function and its last value is the unconstrained
// optimum. Its area, the sum of all values, is the objective scored by
// package labeling.
//
// Subtrees with a negative total cost are affordable at every budget and are
// therefore counted from budget 0.
package budget

import (
	"cmp"
	"slices"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// Pair is the total cost and prize of one subtree.
type Pair struct {
	Cost  int
	Prize int
}

// Point is one step of a curve.
type Point struct {
	Budget   int `json:"budget" bson:"budget"`
	MaxPrize int `json:"max_prize" bson:"max_prize"`
}

// Curve holds the maximum obtainable prize for budgets 0..MaxCost().
type Curve []int

// MaxCost returns the largest budget the curve is defined for.
func (c Curve) MaxCost() int { return len(c) - 1 }

// At returns the maximum prize for budget b. Budgets above MaxCost saturate
// to the optimum and negative budgets are clamped to budget 0.
func (c Curve) At(b int) int {
	switch {
	case b < 0:
		return c[0]
	case b >= len(c):
		return c[len(c)-1]
	}
	return c[b]
}

// Optimum returns the largest prize of any subtree.
func (c Curve) Optimum() int { return c[len(c)-1] }

// Area returns the sum of the curve over all budgets 0..MaxCost.
func (c Curve) Area() int {
	area := 0
	for _, v := range c {
		area += v
	}
	return area
}

// Points returns the curve as (budget, maxPrize) pairs.
func (c Curve) Points() []Point {
	pts := make([]Point, len(c))
	for b, v := range c {
		pts[b] = Point{Budget: b, MaxPrize: v}
	}
	return pts
}

// FromPairs builds the curve of a set of subtree sums.
//
// Pairs are sorted by cost (the input slice is reordered) and swept once
// while keeping a running maximum of the prize. It fails with
// EMPTY_SUBTREE_SET for an empty input and with INTERNAL_ERROR when no pair
// is affordable at budget 0, which cannot happen for pairs that include the
// root-only subtree.
func FromPairs(pairs []Pair) (Curve, error) {
	if len(pairs) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeEmptySubtreeSet, "cannot build a budget curve without subtrees")
	}
	sortPairs(pairs)
	if pairs[0].Cost > 0 {
		return nil, cerrors.New(cerrors.ErrCodeInternal,
			"cheapest subtree costs %d, expected the root-only subtree at cost 0", pairs[0].Cost)
	}

	maxCost := max(pairs[len(pairs)-1].Cost, 0)
	curve := make(Curve, maxCost+1)
	best, i := pairs[0].Prize, 0
	for b := range curve {
		for ; i < len(pairs) && pairs[i].Cost <= b; i++ {
			best = max(best, pairs[i].Prize)
		}
		curve[b] = best
	}
	return curve, nil
}

// Build computes the curve of the subtrees in ix under the given
// NodeID-indexed cost and prize arrays.
func Build(ix *subtree.Index, cost, prize []int) (Curve, error) {
	return FromPairs(sums(ix, cost, prize, nil))
}

// ForTree enumerates the subtrees of t and returns its curve.
func ForTree(t *csm.Tree) (Curve, error) {
	ix, err := subtree.Build(t, 0)
	if err != nil {
		return nil, err
	}
	return Build(ix, t.Costs(), t.Prizes())
}

func sums(ix *subtree.Index, cost, prize []int, dst []Pair) []Pair {
	dst = slices.Grow(dst[:0], ix.Len())
	for i := range ix.Len() {
		c, p := ix.Sum(i, cost, prize)
		dst = append(dst, Pair{Cost: c, Prize: p})
	}
	return dst
}

func sortPairs(pairs []Pair) {
	slices.SortFunc(pairs, func(a, b Pair) int {
		return cmp.Or(cmp.Compare(a.Cost, b.Cost), cmp.Compare(a.Prize, b.Prize))
	})
}
