// Package canon computes canonical forms of cost-prize trees.
//
// The canonical form of a node is "(cost,prize)" followed by the canonical
// forms of its children sorted in descending lexicographic order, followed
// by the terminator "$". Sorting removes any dependence on sibling order and
// the terminator keeps sibling encodings from running into each other, so
// two trees have the same form exactly when there is a root-preserving
// bijection between their nodes that keeps parent links, costs and prizes.
//
// The root's labels take part in the encoding like any other node's. Trees
// built with [csm.Builder] store zero for them, which makes the root neutral.
package canon

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/csmtree/pkg/csm"
)

// Terminator closes the encoding of every node.
const Terminator = '$'

// EncodeAll returns the canonical form of every node of t, indexed by NodeID.
// Forms are built from the leaves up over the reverse pre-order, without
// recursion.
func EncodeAll(t *csm.Tree) []string {
	return encodeFrom(t, csm.Root)
}

// Encode returns the canonical form of the whole tree.
func Encode(t *csm.Tree) string {
	return encodeFrom(t, csm.Root)[csm.Root]
}

// EncodeNode returns the canonical form of the subtree rooted at id.
func EncodeNode(t *csm.Tree, id csm.NodeID) string {
	return encodeFrom(t, id)[id]
}

// Isomorphic reports whether a and b are isomorphic as rooted labeled trees.
func Isomorphic(a, b *csm.Tree) bool {
	if a.Len() != b.Len() {
		return false
	}
	return Encode(a) == Encode(b)
}

// encodeFrom fills forms for every id >= from. Descendants of from all carry
// larger ids, so its own form is complete when the loop ends; entries below
// from stay empty.
func encodeFrom(t *csm.Tree, from csm.NodeID) []string {
	forms := make([]string, t.Len())
	var children []string
	var sb strings.Builder
	for v := csm.NodeID(t.Len() - 1); v >= from; v-- {
		children = children[:0]
		for _, c := range t.Children(v) {
			children = append(children, forms[c])
		}
		slices.Sort(children)
		slices.Reverse(children)

		sb.Reset()
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(t.Cost(v)))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(t.Prize(v)))
		sb.WriteByte(')')
		for _, f := range children {
			sb.WriteString(f)
		}
		sb.WriteByte(Terminator)
		forms[v] = sb.String()
	}
	return forms
}
