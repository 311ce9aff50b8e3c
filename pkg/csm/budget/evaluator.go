package budget

import (
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// Evaluator scores many labelings of one tree shape. It keeps a scratch
// buffer between calls and must not be shared between goroutines; create one
// per worker over a shared [subtree.Index].
type Evaluator struct {
	ix    *subtree.Index
	pairs []Pair
}

// NewEvaluator returns an Evaluator over ix.
func NewEvaluator(ix *subtree.Index) *Evaluator {
	return &Evaluator{ix: ix, pairs: make([]Pair, 0, ix.Len())}
}

// Curve is [Build] with the evaluator's scratch buffer.
func (e *Evaluator) Curve(cost, prize []int) (Curve, error) {
	e.pairs = sums(e.ix, cost, prize, e.pairs)
	return FromPairs(e.pairs)
}

// Area returns the area of the curve for the given labels without
// materializing it: the curve is constant between consecutive distinct
// subtree costs, so the sum is accumulated one step at a time.
func (e *Evaluator) Area(cost, prize []int) (int, error) {
	e.pairs = sums(e.ix, cost, prize, e.pairs)
	pairs := e.pairs
	if len(pairs) == 0 {
		return 0, cerrors.New(cerrors.ErrCodeEmptySubtreeSet, "cannot score a labeling without subtrees")
	}
	sortPairs(pairs)
	if pairs[0].Cost > 0 {
		return 0, cerrors.New(cerrors.ErrCodeInternal,
			"cheapest subtree costs %d, expected the root-only subtree at cost 0", pairs[0].Cost)
	}

	area, best := 0, pairs[0].Prize
	// from is the first budget the running maximum applies to.
	from := 0
	for i := 0; i < len(pairs); {
		c := max(pairs[i].Cost, 0)
		if c > from {
			area += best * (c - from)
			from = c
		}
		for ; i < len(pairs) && max(pairs[i].Cost, 0) == c; i++ {
			best = max(best, pairs[i].Prize)
		}
	}
	return area + best, nil
}
