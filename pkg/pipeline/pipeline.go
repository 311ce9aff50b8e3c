// Package pipeline runs budget-curve and labeling-search computations with
// caching, archiving and metrics.
//
// The algorithm packages (csm, subtree, budget, canon, labeling) are pure
// and do no I/O. This package wraps them for the CLI and the API server so
// both entry points share the same defaults, cache keys and result
// documents.
//
// # Usage
//
// Create a Runner and compute:
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	res, err := runner.Search(ctx, tree, pipeline.Options{
//	    Costs:  []int{1, 2, 3},
//	    Prizes: []int{4, 5, 6},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Doc.Area, res.Doc.Classes())
//
// Render a labeled tree:
//
//	artifacts, err := pipeline.Render(res.Trees[0], pipeline.RenderOptions{
//	    Formats: []string{pipeline.FormatSVG},
//	})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/csmtree/pkg/cache"
	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/labeling"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultObjective is the default optimization direction.
	DefaultObjective = "minimize"

	// DefaultMaxCandidates bounds the labeling search space.
	DefaultMaxCandidates = labeling.DefaultMaxCandidates

	// DefaultMaxSubtrees bounds the number of enumerated subtrees.
	DefaultMaxSubtrees = labeling.DefaultMaxSubtrees
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures curve and search runs.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Search inputs. Costs and Prizes are multisets with one entry per
	// non-root node; they are ignored by Curve.
	Costs  []int `json:"costs,omitempty"`
	Prizes []int `json:"prizes,omitempty"`

	// Search options
	Objective          string `json:"objective,omitempty"`
	MaxCandidates      int    `json:"max_candidates,omitempty"`
	MaxSubtrees        int    `json:"max_subtrees,omitempty"`
	Workers            int    `json:"workers,omitempty"`
	DedupBeforeScoring bool   `json:"dedup_before_scoring,omitempty"`

	// Refresh skips the cache lookup; the fresh result is still cached.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger              `json:"-"`
	Progress func(done, total uint64) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// CurveResult is the output of [Runner.Curve].
type CurveResult struct {
	Tree      *csm.Tree
	TreeHash  string
	Doc       graph.CurveDoc
	RecordID  string // set when the runner archives results
	Stats     Stats
	CacheInfo CacheInfo
}

// SearchResult is the output of [Runner.Search].
type SearchResult struct {
	TreeHash string
	Doc      graph.SearchDoc
	// Trees holds one optimally labeled tree per isomorphism class,
	// in the order of Doc.Results.
	Trees     []*csm.Tree
	RecordID  string
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains execution statistics. Candidates and Evaluated are zero
// for curve runs.
type Stats struct {
	Nodes      int
	Subtrees   int
	Candidates uint64
	Evaluated  uint64
	Classes    int
	Duration   time.Duration
}

// CacheInfo tracks whether the result came from the cache.
type CacheInfo struct {
	Hit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateObjective checks that an objective name is valid.
func ValidateObjective(objective string) error {
	_, err := labeling.ParseObjective(objective)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Objective == "" {
		o.Objective = DefaultObjective
	}
	obj, err := labeling.ParseObjective(o.Objective)
	if err != nil {
		return err
	}
	// Normalize aliases such as "min" so cache keys agree.
	o.Objective = obj.String()

	if o.MaxCandidates == 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	if o.MaxSubtrees == 0 {
		o.MaxSubtrees = DefaultMaxSubtrees
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LabelingOptions converts to search options. Call ValidateAndSetDefaults first.
func (o *Options) LabelingOptions() labeling.Options {
	obj, _ := labeling.ParseObjective(o.Objective)
	return labeling.Options{
		Objective:          obj,
		MaxCandidates:      o.MaxCandidates,
		MaxSubtrees:        o.MaxSubtrees,
		Workers:            o.Workers,
		DedupBeforeScoring: o.DedupBeforeScoring,
		Progress:           o.Progress,
	}
}

// SearchKeyOpts returns cache key options for a labeling search.
func (o *Options) SearchKeyOpts() cache.SearchKeyOpts {
	return cache.SearchKeyOpts{
		Costs:              o.Costs,
		Prizes:             o.Prizes,
		Objective:          o.Objective,
		DedupBeforeScoring: o.DedupBeforeScoring,
	}
}
