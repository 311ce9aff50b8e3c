package subtree

import "github.com/matzehuels/csmtree/pkg/csm"

// Index stores, for every subtree, the non-root members that contribute to
// its cost and prize. Scoring a labeling only needs these lists, so the index
// is computed once per tree shape and shared by every candidate.
//
// An Index is read-only after construction and safe for concurrent use.
type Index struct {
	offsets []int
	members []csm.NodeID
}

// NewIndex flattens sets into an Index.
func NewIndex(sets []Set) *Index {
	total := 0
	for _, s := range sets {
		total += s.Len()
	}
	ix := &Index{
		offsets: make([]int, 0, len(sets)+1),
		members: make([]csm.NodeID, 0, total),
	}
	ix.offsets = append(ix.offsets, 0)
	for _, s := range sets {
		for _, id := range s.Members() {
			if id != csm.Root {
				ix.members = append(ix.members, id)
			}
		}
		ix.offsets = append(ix.offsets, len(ix.members))
	}
	return ix
}

// Build enumerates the subtrees of t, refusing more than limit of them
// (see [EnumerateLimit]), and indexes them.
func Build(t *csm.Tree, limit int) (*Index, error) {
	sets, err := EnumerateLimit(t, limit)
	if err != nil {
		return nil, err
	}
	return NewIndex(sets), nil
}

// Len returns the number of indexed subtrees.
func (ix *Index) Len() int { return len(ix.offsets) - 1 }

// Members returns the non-root members of subtree i.
// The slice is shared and must not be modified.
func (ix *Index) Members(i int) []csm.NodeID {
	return ix.members[ix.offsets[i]:ix.offsets[i+1]]
}

// Sum returns the total cost and prize of subtree i under the given
// NodeID-indexed label arrays.
func (ix *Index) Sum(i int, cost, prize []int) (c, p int) {
	for _, id := range ix.Members(i) {
		c += cost[id]
		p += prize[id]
	}
	return c, p
}
