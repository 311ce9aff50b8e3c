package budget

import (
	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
)

// Within returns a subtree of t that attains the curve value at budget b,
// together with its cost and prize. Among subtrees with the same prize the
// cheapest wins, then the one enumerated first. Negative budgets are
// treated as zero.
//
// Trees with more than limit subtrees fail with SEARCH_SPACE_TOO_LARGE; a
// limit of zero or less disables the check.
func Within(t *csm.Tree, b, limit int) (subtree.Set, Pair, error) {
	sets, err := subtree.EnumerateLimit(t, limit)
	if err != nil {
		return nil, Pair{}, err
	}
	ix := subtree.NewIndex(sets)
	cost, prize := t.Costs(), t.Prizes()

	b = max(b, 0)
	best, found := 0, false
	var bp Pair
	for i := range ix.Len() {
		c, p := ix.Sum(i, cost, prize)
		if max(c, 0) > b {
			continue
		}
		if !found || p > bp.Prize || (p == bp.Prize && c < bp.Cost) {
			best, bp, found = i, Pair{Cost: c, Prize: p}, true
		}
	}
	return sets[best], bp, nil
}
