// Package subtree enumerates the root-containing subtrees of a cost-prize tree.
//
// A subtree here is a connected set of nodes that contains the root: if a node
// is in the set, so is its parent. For a node v the subtrees rooted at v are
// the Cartesian product, over v's children, of "child excluded" and each
// subtree rooted at that child, every combination joined with {v}. Hence
//
//	|Enumerate(t)| = Π over children c of the root (1 + |subtrees rooted at c|)
//
// and the root-only set is always the first element.
//
// The number of subtrees grows exponentially with the width of the tree.
// [Count] computes it without enumerating, and [EnumerateLimit] refuses trees
// whose subtree count exceeds a caller-provided ceiling.
package subtree

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/matzehuels/csmtree/pkg/csm"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// Set is a bitset of node ids. Bit i of word i/64 is set when node i is a member.
type Set []uint64

func newSet(n int) Set { return make(Set, (n+63)/64) }

func (s Set) add(id csm.NodeID) { s[id/64] |= 1 << (uint(id) % 64) }

func (s Set) or(o Set) {
	for i, w := range o {
		s[i] |= w
	}
}

// Contains reports whether id is a member of s.
func (s Set) Contains(id csm.NodeID) bool {
	w := int(id) / 64
	return id >= 0 && w < len(s) && s[w]&(1<<(uint(id)%64)) != 0
}

// Len returns the number of members.
func (s Set) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Members returns the member ids in ascending order. Because ids are
// assigned in pre-order the root, when present, comes first.
func (s Set) Members() []csm.NodeID {
	out := make([]csm.NodeID, 0, s.Len())
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, csm.NodeID(i*64+b))
			w &= w - 1
		}
	}
	return out
}

// String formats the set as {0,2,5}.
func (s Set) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range s.Members() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Enumerate returns every root-containing subtree of t.
//
// Subtrees are built bottom-up over the nodes in reverse pre-order, so no
// recursion is involved and the depth of t is irrelevant. For each node the
// options of its children are combined in child order; within a child the
// "excluded" option comes first. For a root with leaf children A and B the
// result is {r}, {r,A}, {r,B}, {r,A,B}.
func Enumerate(t *csm.Tree) ([]Set, error) {
	if t == nil || t.Len() == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "cannot enumerate subtrees of an empty tree")
	}
	n := t.Len()
	options := make([][]Set, n)

	for v := n - 1; v >= 0; v-- {
		id := csm.NodeID(v)
		self := newSet(n)
		self.add(id)
		combos := []Set{self}

		for _, c := range t.Children(id) {
			childOpts := options[c]
			next := make([]Set, 0, len(combos)*(1+len(childOpts)))
			next = append(next, combos...)
			for _, opt := range childOpts {
				for _, combo := range combos {
					s := make(Set, len(combo))
					copy(s, combo)
					s.or(opt)
					next = append(next, s)
				}
			}
			combos = next
			options[c] = nil
		}
		options[v] = combos
	}

	sets := options[csm.Root]
	if len(sets) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeEmptySubtreeSet, "enumeration produced no subtrees for a tree of %d nodes", n)
	}
	return sets, nil
}

// Count returns the number of root-containing subtrees of t without
// enumerating them. The boolean is false when the count overflows uint64.
func Count(t *csm.Tree) (uint64, bool) {
	n := t.Len()
	counts := make([]uint64, n)
	for v := n - 1; v >= 0; v-- {
		total := uint64(1)
		for _, c := range t.Children(csm.NodeID(v)) {
			if counts[c] == ^uint64(0) {
				return 0, false
			}
			hi, lo := bits.Mul64(total, counts[c]+1)
			if hi != 0 {
				return 0, false
			}
			total = lo
		}
		counts[v] = total
	}
	return counts[csm.Root], true
}

// EnumerateLimit is like [Enumerate] but fails with SEARCH_SPACE_TOO_LARGE
// when t has more than limit subtrees. A limit of zero or less disables the check.
func EnumerateLimit(t *csm.Tree, limit int) ([]Set, error) {
	if limit > 0 {
		count, ok := Count(t)
		if !ok || count > uint64(limit) {
			return nil, cerrors.New(cerrors.ErrCodeSearchSpaceTooLarge,
				"tree has more than %d subtrees", limit)
		}
	}
	return Enumerate(t)
}
