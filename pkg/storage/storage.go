// Package storage archives computed curves and labeling searches.
//
// The cache in package cache is keyed by inputs and may evict at any time.
// Storage is the opposite: every saved [Record] gets a fresh id, is kept
// until deleted, and can be fetched later by that id (for example through
// GET /v1/results/{id} on the API server).
//
// Backends:
//   - [MemoryStore]: process-local, for tests and single-shot CLI runs
//   - [FileStore]: one JSON file per record, for the CLI
//   - [MongoStore]: a MongoDB collection, for the API server
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/csmtree/pkg/graph"
)

// Kind names what a record holds.
type Kind string

const (
	KindCurve  Kind = "curve"
	KindSearch Kind = "search"
)

// Record is one archived result. Exactly one of Curve and Search is set,
// matching Kind.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	Kind      Kind             `json:"kind" bson:"kind"`
	TreeHash  string           `json:"tree_hash" bson:"tree_hash"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Tree      *graph.Graph     `json:"tree,omitempty" bson:"tree,omitempty"`
	Curve     *graph.CurveDoc  `json:"curve,omitempty" bson:"curve,omitempty"`
	Search    *graph.SearchDoc `json:"search,omitempty" bson:"search,omitempty"`
}

// clone returns a deep copy of r.
func (r *Record) clone() *Record {
	cp := *r
	if r.Tree != nil {
		g := r.Tree.Clone()
		cp.Tree = &g
	}
	if r.Curve != nil {
		c := r.Curve.Clone()
		cp.Curve = &c
	}
	if r.Search != nil {
		d := r.Search.Clone()
		cp.Search = &d
	}
	return &cp
}

// NewCurveRecord creates a record for a budget curve with a fresh id.
func NewCurveRecord(treeHash string, tree graph.Graph, doc graph.CurveDoc) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Kind:      KindCurve,
		TreeHash:  treeHash,
		CreatedAt: time.Now().UTC(),
		Tree:      &tree,
		Curve:     &doc,
	}
}

// NewSearchRecord creates a record for a labeling search with a fresh id.
func NewSearchRecord(treeHash string, tree graph.Graph, doc graph.SearchDoc) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Kind:      KindSearch,
		TreeHash:  treeHash,
		CreatedAt: time.Now().UTC(),
		Tree:      &tree,
		Search:    &doc,
	}
}

// ListOptions filters [Store.List]. Zero fields match everything.
type ListOptions struct {
	Kind     Kind
	TreeHash string
	Limit    int // 0 means DefaultListLimit
}

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

func (o ListOptions) match(r *Record) bool {
	return (o.Kind == "" || r.Kind == o.Kind) && (o.TreeHash == "" || r.TreeHash == o.TreeHash)
}

// Store persists records.
//
// Get returns a NOT_FOUND coded error for unknown ids. List returns records
// newest first. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, opts ListOptions) ([]*Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
