// Package graph provides serialization types for cost-prize trees and the
// results computed from them.
//
// This package defines the canonical wire format for csmtree data, used for
// JSON input files, API requests and responses, caching, and storage.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [CurveDoc], [SearchDoc]: serialization types (this package)
//   - pkg/csm.Tree: internal tree representation
//   - pkg/labeling.Result: internal search result
//
// Use [FromTree]/[ToTree] to convert between them.
//
// # Tree Documents
//
// Trees use a node-link JSON format with costs and prizes on the nodes:
//
//	{
//	  "root": "r",
//	  "nodes": [
//	    {"id": "r", "cost": 0, "prize": 0},
//	    {"id": "web", "label": "Web server", "cost": 2, "prize": 3}
//	  ],
//	  "edges": [{"from": "r", "to": "web"}]
//	}
//
// Common operations:
//
//	t, _ := graph.ReadTreeFile("tree.json")   // File → Tree
//	graph.WriteTreeFile(t, "out.json")        // Tree → File
//	data, _ := graph.MarshalTree(t)           // Tree → []byte
//
// Structural problems (cycles, nodes with two parents, unreachable nodes) are
// reported as INVALID_TREE errors by [ToTree]; malformed JSON as
// INVALID_FORMAT.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
