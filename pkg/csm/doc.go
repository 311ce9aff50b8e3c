// Package csm models rooted cost-prize trees.
//
// A cost-prize tree attaches an integer activation cost and an integer prize
// to every node except the root. A set of nodes is activated by paying the
// costs of a connected subtree that contains the root; the prize collected
// is the sum of the activated prizes. Packages under csm build on this model:
//
//   - [github.com/matzehuels/csmtree/pkg/csm/subtree] enumerates the
//     root-containing subtrees
//   - [github.com/matzehuels/csmtree/pkg/csm/budget] turns them into a
//     budget curve
//   - [github.com/matzehuels/csmtree/pkg/csm/canon] computes canonical forms
//     for isomorphism tests
//
// # Construction
//
// Trees are built once with [Builder] (or [FromParents]) and are immutable
// afterwards. Node ids are assigned in pre-order, so the root is [Root] and
// children always carry larger ids than their parents:
//
//	var b csm.Builder
//	b.AddNode("r", 0, 0)
//	b.AddChild("r", "a", 2, 5)
//	b.AddChild("r", "b", 1, 1)
//	t, err := b.Build("r")
//
// # Relabeling
//
// [Tree.Relabel] produces a new tree that shares the receiver's shape and
// carries a different [Labeling]. The search in package labeling relabels a
// single shape many times, so the shape is stored once and only the label
// arrays are allocated per copy.
package csm
