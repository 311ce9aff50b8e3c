package csm

import (
	"slices"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// NodeID is the stable integer identifier of a node inside a [Tree].
// Identifiers are assigned once, in pre-order, when the tree is built:
// the root is always 0 and every child has a larger id than its parent.
type NodeID int

// Root is the id of the root node of every tree.
const Root NodeID = 0

// noParent marks the root in the parent table.
const noParent NodeID = -1

// Labeling assigns one cost and one prize to every non-root node.
// Position i labels node i+1, i.e. the (i+1)-th node of [Tree.AllNodes].
type Labeling struct {
	Costs  []int `json:"costs" bson:"costs"`
	Prizes []int `json:"prizes" bson:"prizes"`
}

// Clone returns a deep copy of the labeling.
func (l Labeling) Clone() Labeling {
	return Labeling{Costs: slices.Clone(l.Costs), Prizes: slices.Clone(l.Prizes)}
}

// structure is the immutable shape shared by every relabeled copy of a tree.
type structure struct {
	ids      []string
	index    map[string]NodeID
	parent   []NodeID
	children [][]NodeID
}

// Tree is a rooted cost-prize tree. Its shape is fixed at construction and
// shared between relabeled copies; only the cost and prize arrays differ.
//
// The zero value is not usable - build trees with [Builder] or [FromParents].
// A Tree is safe for concurrent reads.
type Tree struct {
	s     *structure
	cost  []int
	prize []int
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int { return len(t.s.parent) }

// AllNodes returns every node id in pre-order. Because ids are assigned in
// pre-order this is always [0, 1, ..., Len()-1]; the order is the one used
// to index label multisets everywhere else.
func (t *Tree) AllNodes() []NodeID {
	nodes := make([]NodeID, t.Len())
	for i := range nodes {
		nodes[i] = NodeID(i)
	}
	return nodes
}

// Children returns the ordered children of id.
// The returned slice is a read-only view and must not be modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.s.children[id] }

// Parent returns the parent of id, or false for the root.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	p := t.s.parent[id]
	return p, p != noParent
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool { return len(t.s.children[id]) == 0 }

// Cost returns the activation cost of id. The root's cost is always 0.
func (t *Tree) Cost(id NodeID) int { return t.cost[id] }

// Prize returns the prize of id. The root's prize is always 0.
func (t *Tree) Prize(id NodeID) int { return t.prize[id] }

// Costs returns a copy of the cost array indexed by NodeID.
func (t *Tree) Costs() []int { return slices.Clone(t.cost) }

// Prizes returns a copy of the prize array indexed by NodeID.
func (t *Tree) Prizes() []int { return slices.Clone(t.prize) }

// Name returns the external identifier the node was built with.
func (t *Tree) Name(id NodeID) string { return t.s.ids[id] }

// Lookup returns the id of the node built with the given external identifier.
func (t *Tree) Lookup(name string) (NodeID, bool) {
	id, ok := t.s.index[name]
	return id, ok
}

// Depth returns the number of edges between the root and the deepest leaf.
func (t *Tree) Depth() int {
	depth := make([]int, t.Len())
	deepest := 0
	for id := 1; id < t.Len(); id++ {
		depth[id] = depth[t.s.parent[id]] + 1
		deepest = max(deepest, depth[id])
	}
	return deepest
}

// Labeling returns the current labels of the non-root nodes.
func (t *Tree) Labeling() Labeling {
	return Labeling{
		Costs:  slices.Clone(t.cost[1:]),
		Prizes: slices.Clone(t.prize[1:]),
	}
}

// SameShape reports whether t and other share the same underlying structure,
// which is the case for trees obtained from one another through [Tree.Relabel].
func (t *Tree) SameShape(other *Tree) bool { return t.s == other.s }

// Relabel returns a tree with the same shape as t and the labels from l.
// The receiver is not modified. Both label lists must have exactly Len()-1
// entries, otherwise a LABEL_COUNT_MISMATCH error is returned.
func (t *Tree) Relabel(l Labeling) (*Tree, error) {
	if err := cerrors.ValidateLabelCounts(t.Len(), len(l.Costs), len(l.Prizes)); err != nil {
		return nil, err
	}
	cost := make([]int, t.Len())
	prize := make([]int, t.Len())
	copy(cost[1:], l.Costs)
	copy(prize[1:], l.Prizes)
	return &Tree{s: t.s, cost: cost, prize: prize}, nil
}

// WithArrays returns a tree with the same shape as t whose labels are the
// given arrays indexed by NodeID. The arrays are used as-is, not copied;
// the root entries are ignored and must be zero for canonical forms to be
// comparable with trees built by [Builder].
func (t *Tree) WithArrays(cost, prize []int) (*Tree, error) {
	if len(cost) != t.Len() || len(prize) != t.Len() {
		return nil, cerrors.New(cerrors.ErrCodeLabelCountMismatch,
			"label arrays must have %d entries, got %d costs and %d prizes", t.Len(), len(cost), len(prize))
	}
	return &Tree{s: t.s, cost: cost, prize: prize}, nil
}
