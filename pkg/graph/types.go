package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/csmtree/pkg/csm"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// =============================================================================
// Graph - Tree Document
// =============================================================================

// Graph is the canonical serialization format for cost-prize trees.
// Used for input files, API requests and responses, caching, and storage.
//
// Root may be omitted, in which case the single node without an incoming
// edge is used. The root's cost and prize are ignored.
type Graph struct {
	Root  string `json:"root,omitempty" bson:"root,omitempty"`
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Node / Edge
// =============================================================================

// Node is one tree node.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Cost  int    `json:"cost" bson:"cost"`
	Prize int    `json:"prize" bson:"prize"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge points from a parent to one of its children.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Clone returns a copy that shares no slices with g.
func (g Graph) Clone() Graph {
	return Graph{Root: g.Root, Nodes: slices.Clone(g.Nodes), Edges: slices.Clone(g.Edges)}
}

// Labels returns the display label of every node that sets one.
func (g Graph) Labels() map[string]string {
	labels := make(map[string]string)
	for _, n := range g.Nodes {
		if n.Label != "" {
			labels[n.ID] = n.Label
		}
	}
	return labels
}

// =============================================================================
// Tree ↔ Graph Conversion
// =============================================================================

// FromTree converts a tree to its serialization format.
// Nodes and edges are listed in pre-order, so the output is deterministic.
func FromTree(t *csm.Tree) Graph {
	out := Graph{
		Root:  t.Name(csm.Root),
		Nodes: make([]Node, 0, t.Len()),
		Edges: make([]Edge, 0, t.Len()-1),
	}
	for _, id := range t.AllNodes() {
		out.Nodes = append(out.Nodes, Node{ID: t.Name(id), Cost: t.Cost(id), Prize: t.Prize(id)})
		if p, ok := t.Parent(id); ok {
			out.Edges = append(out.Edges, Edge{From: t.Name(p), To: t.Name(id)})
		}
	}
	return out
}

// ToTree converts a Graph to a tree.
// Returns an INVALID_TREE error if the document is not a rooted tree.
// Sibling order follows the order of the edges.
func ToTree(g Graph) (*csm.Tree, error) {
	if len(g.Nodes) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidTree, "graph has no nodes")
	}

	var b csm.Builder
	for _, n := range g.Nodes {
		if err := b.AddNode(n.ID, n.Cost, n.Prize); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := b.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.From, e.To, err)
		}
	}

	root := g.Root
	if root == "" {
		var err error
		if root, err = inferRoot(g); err != nil {
			return nil, err
		}
	}
	return b.Build(root)
}

// inferRoot returns the only node that is not the target of an edge.
func inferRoot(g Graph) (string, error) {
	hasParent := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		hasParent[e.To] = true
	}
	var roots []string
	for _, n := range g.Nodes {
		if !hasParent[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) != 1 {
		return "", cerrors.New(cerrors.ErrCodeInvalidTree,
			"cannot infer root: %d nodes have no parent, set \"root\" explicitly", len(roots))
	}
	return roots[0], nil
}
