// Package pkg provides the core libraries of csmtree.
//
// # Overview
//
// csmtree works with rooted cost-prize trees: every non-root node carries an
// integer activation cost and an integer prize, and activating a node
// requires activating its parent. The budget curve of a tree maps every
// budget to the best prize any root-containing subtree within that budget
// collects. The pkg directory is organized into four main areas:
//
//  1. [csm] - Domain model and algorithms (tree, subtrees, curves, canonical forms)
//  2. [labeling] - The exhaustive search for optimally labeled shapes
//  3. [pipeline] - Cached orchestration shared by the CLI and the API
//  4. Infrastructure - [cache], [storage], [config], [observability], [api]
//
// # Architecture
//
// The typical data flow:
//
//	tree document (JSON)
//	         ↓
//	    [graph] package (decode, validate, build csm.Tree)
//	         ↓
//	    [csm/subtree] package (root-containing subtrees)
//	         ↓
//	    [csm/budget] package (budget curve, area)
//	         ↓
//	    [labeling] package (multiset permutations, scoring, isomorphism classes)
//	         ↓
//	    JSON / SVG / PDF / PNG output
//
// # Quick Start
//
// Compute a budget curve and search for the best labelings of its shape:
//
//	t, _ := graph.ReadTreeFile("tree.json")
//
//	c, _ := budget.ForTree(t)
//	fmt.Println(c.Area(), c.Optimum())
//
//	l := t.Labeling()
//	res, _ := labeling.Best(ctx, t, l.Costs, l.Prizes, labeling.Options{})
//	for i, best := range res.Trees {
//	    fmt.Println(i, res.Forms[i], best.Costs())
//	}
//
// # Main Packages
//
// ## Domain
//
// [csm] - Immutable cost-prize trees with pre-order node ids. Relabeled
// copies share one shape.
//
// [csm/subtree] - Enumeration and counting of root-containing subtrees, and
// the flattened index the search scores against.
//
// [csm/budget] - Budget curves from (cost, prize) pairs, the area score, and
// the best subtree within a single budget.
//
// [csm/canon] - Canonical string forms and the isomorphism test.
//
// [perm] - Distinct permutations of integer multisets in lexicographic order.
//
// [labeling] - Parallel search over every assignment of two multisets to a
// shape, keeping the optimal isomorphism classes.
//
// [generate] - Reproducible random trees for tests and benchmarks.
//
// ## Serialization and Rendering
//
// [graph] - Tree documents and the curve and search result documents.
//
// [render/nodelink] - Graphviz drawings of labeled trees.
//
// [render] - Terminal tables and SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Curve and search execution with caching and archiving, used
// by the CLI and the API alike.
//
// [cache] - Result cache with file, Redis and null backends.
//
// [storage] - Result archive with memory, file and MongoDB backends.
//
// [config] - TOML configuration with CSMTREE_* environment overrides.
//
// [observability] - Hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation in observability/promhooks.
//
// [api] - The HTTP API served by 'csmtree serve'.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/labeling/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [csm]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/csm
// [csm/subtree]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/csm/subtree
// [csm/budget]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/csm/budget
// [csm/canon]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/csm/canon
// [perm]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/perm
// [labeling]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/labeling
// [generate]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/generate
// [graph]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/render/nodelink
// [render]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/csmtree/pkg/api
package pkg
