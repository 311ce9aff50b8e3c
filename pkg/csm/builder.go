package csm

import (
	"errors"
	"strconv"

	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

var (
	// ErrDuplicateNode is returned by [Builder.AddNode] when a node with the
	// same identifier was already added.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrUnknownNode is returned by [Builder.AddEdge] and [Builder.Build] when
	// an identifier does not name an added node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrMultipleParents is returned by [Builder.Build] when a node is the
	// target of more than one edge.
	ErrMultipleParents = errors.New("node has more than one parent")

	// ErrRootHasParent is returned by [Builder.Build] when the chosen root is
	// the target of an edge.
	ErrRootHasParent = errors.New("root must not have a parent")

	// ErrCycle is returned by [Builder.Build] when following child edges
	// leads back to a node on the current path.
	ErrCycle = errors.New("tree contains a cycle")

	// ErrDisconnected is returned by [Builder.Build] when some node cannot be
	// reached from the root.
	ErrDisconnected = errors.New("node not reachable from root")
)

type pendingNode struct {
	cost, prize int
	children    []string
}

// Builder assembles a [Tree] from parent→children adjacency.
//
// Nodes are identified by non-empty strings. Edges point from parent to
// child and the order of AddEdge calls fixes the order of siblings. All
// structural checks happen in Build; every structural failure is reported
// with the INVALID_TREE code and wraps one of the sentinel errors above.
//
// The zero value is ready to use. A Builder is not safe for concurrent use.
type Builder struct {
	order  []string
	nodes  map[string]*pendingNode
	parent map[string]string
	err    error
}

// AddNode registers a node with its cost and prize.
// The first error encountered by the builder is kept and returned by Build.
func (b *Builder) AddNode(id string, cost, prize int) error {
	if b.nodes == nil {
		b.nodes = make(map[string]*pendingNode)
		b.parent = make(map[string]string)
	}
	if err := cerrors.ValidateNodeID(id); err != nil {
		return b.fail(err)
	}
	if _, exists := b.nodes[id]; exists {
		return b.fail(cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrDuplicateNode, "node %q", id))
	}
	b.nodes[id] = &pendingNode{cost: cost, prize: prize}
	b.order = append(b.order, id)
	return nil
}

// AddEdge registers child as the next child of parent.
func (b *Builder) AddEdge(parent, child string) error {
	p, ok := b.nodes[parent]
	if !ok {
		return b.fail(cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrUnknownNode, "edge source %q", parent))
	}
	if _, ok := b.nodes[child]; !ok {
		return b.fail(cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrUnknownNode, "edge target %q", child))
	}
	if prev, taken := b.parent[child]; taken {
		return b.fail(cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrMultipleParents,
			"node %q has parents %q and %q", child, prev, parent))
	}
	b.parent[child] = parent
	p.children = append(p.children, child)
	return nil
}

// AddChild is shorthand for AddNode(child, cost, prize) followed by
// AddEdge(parent, child).
func (b *Builder) AddChild(parent, child string, cost, prize int) error {
	if err := b.AddNode(child, cost, prize); err != nil {
		return err
	}
	return b.AddEdge(parent, child)
}

func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return err
}

// Build validates the accumulated adjacency and returns the tree rooted at
// root. Node ids are assigned in pre-order following child insertion order.
// The root's own cost and prize are not part of the model and are stored
// as zero.
//
// Build checks that the root exists and has no parent, that the child edges
// form no cycle, and that every added node is reachable from the root.
func (b *Builder) Build(root string) (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if _, ok := b.nodes[root]; !ok {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrUnknownNode, "root %q", root)
	}
	if p, ok := b.parent[root]; ok {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrRootHasParent, "root %q is a child of %q", root, p)
	}

	n := len(b.nodes)
	s := &structure{
		ids:      make([]string, 0, n),
		index:    make(map[string]NodeID, n),
		parent:   make([]NodeID, 0, n),
		children: make([][]NodeID, 0, n),
	}
	cost := make([]int, 0, n)
	prize := make([]int, 0, n)

	type frame struct {
		name   string
		parent NodeID
	}
	stack := []frame{{name: root, parent: noParent}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := s.index[f.name]; seen {
			// Single-parent edges plus an unparented root cannot revisit a
			// node unless the edges loop back.
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrCycle, "node %q reached twice", f.name)
		}
		id := NodeID(len(s.ids))
		s.ids = append(s.ids, f.name)
		s.index[f.name] = id
		s.parent = append(s.parent, f.parent)
		s.children = append(s.children, nil)
		if f.parent != noParent {
			s.children[f.parent] = append(s.children[f.parent], id)
		}

		pn := b.nodes[f.name]
		if id == Root {
			cost = append(cost, 0)
			prize = append(prize, 0)
		} else {
			cost = append(cost, pn.cost)
			prize = append(prize, pn.prize)
		}

		for i := len(pn.children) - 1; i >= 0; i-- {
			stack = append(stack, frame{name: pn.children[i], parent: id})
		}
	}

	if len(s.ids) != n {
		for _, name := range b.order {
			if _, ok := s.index[name]; !ok {
				if b.onCycle(name) {
					return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrCycle, "node %q", name)
				}
				return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrDisconnected, "node %q", name)
			}
		}
	}

	return &Tree{s: s, cost: cost, prize: prize}, nil
}

// onCycle reports whether walking parent links up from name returns to name.
func (b *Builder) onCycle(name string) bool {
	cur, ok := b.parent[name]
	for steps := 0; ok && steps <= len(b.nodes); steps++ {
		if cur == name {
			return true
		}
		cur, ok = b.parent[cur]
	}
	return false
}

// FromParents builds a tree from a parent array: parents[i] is the index of
// node i's parent and exactly one entry (the root) is -1. Costs and prizes
// are indexed the same way; the root's entries are ignored. External node
// identifiers are the decimal indices.
func FromParents(parents, costs, prizes []int) (*Tree, error) {
	if len(costs) != len(parents) || len(prizes) != len(parents) {
		return nil, cerrors.New(cerrors.ErrCodeLabelCountMismatch,
			"parents, costs and prizes must have equal length (%d, %d, %d)", len(parents), len(costs), len(prizes))
	}
	var b Builder
	root := -1
	for i := range parents {
		if err := b.AddNode(strconv.Itoa(i), costs[i], prizes[i]); err != nil {
			return nil, err
		}
	}
	for i, p := range parents {
		if p < 0 {
			if root >= 0 {
				return nil, cerrors.New(cerrors.ErrCodeInvalidTree, "nodes %d and %d both lack a parent", root, i)
			}
			root = i
			continue
		}
		if p >= len(parents) {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidTree, ErrUnknownNode, "parent %d of node %d", p, i)
		}
		if err := b.AddEdge(strconv.Itoa(p), strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	if root < 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidTree, "no root: every node has a parent")
	}
	return b.Build(strconv.Itoa(root))
}
