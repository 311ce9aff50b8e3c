package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/csmtree/pkg/cache"
	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/labeling"
	"github.com/matzehuels/csmtree/pkg/observability"
	"github.com/matzehuels/csmtree/pkg/storage"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeCurve  = "curve"
	keyTypeSearch = "search"
)

// Runner encapsulates curve and search execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  storage.Store // optional; when set every fresh result is archived
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// A nil store disables archiving.
func NewRunner(c cache.Cache, keyer cache.Keyer, store storage.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  store,
		Logger: logger,
	}
}

// TreeHash returns the content hash of a tree's serialized document.
// Trees that differ only in node names hash differently.
func TreeHash(t *csm.Tree) (string, error) {
	data, err := graph.MarshalTree(t)
	if err != nil {
		return "", fmt.Errorf("serialize tree: %w", err)
	}
	return cache.Hash(data), nil
}

// Curve computes the budget curve of t's own labeling.
func (r *Runner) Curve(ctx context.Context, t *csm.Tree, opts Options) (*CurveResult, error) {
	if t == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "tree is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := TreeHash(t)
	if err != nil {
		return nil, err
	}
	result := &CurveResult{Tree: t, TreeHash: hash}
	result.Stats.Nodes = t.Len()
	cacheKey := r.Keyer.CurveKey(hash)

	if doc, ok := r.lookupCurve(ctx, cacheKey, opts); ok {
		result.Doc = doc
		result.Stats.Subtrees = doc.Subtrees
		result.CacheInfo.Hit = true
		opts.Logger.Debug("curve cache hit", "key", cacheKey)
		return result, nil
	}

	start := time.Now()
	observability.Pipeline().OnCurveStart(ctx, t.Len())
	ix, err := subtree.Build(t, opts.MaxSubtrees)
	if err == nil {
		var curve budget.Curve
		curve, err = budget.Build(ix, t.Costs(), t.Prizes())
		if err == nil {
			result.Doc = graph.NewCurveDoc(curve, ix.Len())
			result.Stats.Subtrees = ix.Len()
		}
	}
	result.Stats.Duration = time.Since(start)
	observability.Pipeline().OnCurveComplete(ctx, t.Len(), result.Stats.Subtrees, result.Stats.Duration, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("computed budget curve",
		"nodes", t.Len(),
		"subtrees", result.Stats.Subtrees,
		"area", result.Doc.Area,
		"duration", result.Stats.Duration)

	r.store(ctx, cacheKey, keyTypeCurve, result.Doc, cache.CurveTTL)

	if r.Store != nil {
		rec := storage.NewCurveRecord(hash, graph.FromTree(t), result.Doc)
		if err := r.Store.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("archive curve: %w", err)
		}
		result.RecordID = rec.ID
	}
	return result, nil
}

// Search finds the optimally labeled trees of t's shape for the multisets
// in opts. t's own labels are ignored.
func (r *Runner) Search(ctx context.Context, t *csm.Tree, opts Options) (*SearchResult, error) {
	if t == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "tree is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := cerrors.ValidateLabelCounts(t.Len(), len(opts.Costs), len(opts.Prizes)); err != nil {
		return nil, err
	}

	// Labels do not influence a search, so the key is derived from the
	// zero-labeled shape.
	zeroed, err := t.Relabel(csm.Labeling{Costs: make([]int, t.Len()-1), Prizes: make([]int, t.Len()-1)})
	if err != nil {
		return nil, err
	}
	hash, err := TreeHash(zeroed)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{TreeHash: hash}
	cacheKey := r.Keyer.SearchKey(hash, opts.SearchKeyOpts())

	if doc, trees, ok := r.lookupSearch(ctx, cacheKey, opts); ok {
		result.Doc = doc
		result.Trees = trees
		result.Stats = statsFromDoc(t.Len(), doc)
		result.CacheInfo.Hit = true
		opts.Logger.Debug("search cache hit", "key", cacheKey)
		return result, nil
	}

	total, _ := labeling.CountCandidates(opts.Costs, opts.Prizes)
	opts.Logger.Debug("starting labeling search",
		"nodes", t.Len(),
		"candidates", total,
		"objective", opts.Objective,
		"dedup_before_scoring", opts.DedupBeforeScoring)

	start := time.Now()
	observability.Pipeline().OnSearchStart(ctx, t.Len(), total)
	res, err := labeling.Best(ctx, t, opts.Costs, opts.Prizes, opts.LabelingOptions())
	duration := time.Since(start)
	stats := observability.SearchStats{Nodes: t.Len(), Candidates: total}
	if res != nil {
		stats.Evaluated = res.Evaluated
		stats.Classes = res.Classes()
	}
	observability.Pipeline().OnSearchComplete(ctx, stats, duration, err)
	if err != nil {
		return nil, err
	}

	result.Doc = graph.NewSearchDoc(res, opts.Costs, opts.Prizes)
	result.Trees = res.Trees
	result.Stats = statsFromDoc(t.Len(), result.Doc)
	result.Stats.Duration = duration

	opts.Logger.Info("labeling search finished",
		"candidates", res.Candidates,
		"evaluated", res.Evaluated,
		"classes", res.Classes(),
		"area", res.Area,
		"duration", duration)

	r.store(ctx, cacheKey, keyTypeSearch, result.Doc, cache.SearchTTL)

	if r.Store != nil {
		rec := storage.NewSearchRecord(hash, graph.FromTree(zeroed), result.Doc)
		if err := r.Store.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("archive search: %w", err)
		}
		result.RecordID = rec.ID
	}
	return result, nil
}

func statsFromDoc(nodes int, doc graph.SearchDoc) Stats {
	return Stats{
		Nodes:      nodes,
		Subtrees:   doc.Subtrees,
		Candidates: doc.Candidates,
		Evaluated:  doc.Evaluated,
		Classes:    doc.Classes(),
	}
}

func (r *Runner) lookupCurve(ctx context.Context, key string, opts Options) (graph.CurveDoc, bool) {
	var doc graph.CurveDoc
	if opts.Refresh {
		return doc, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
	}
	if !hit || json.Unmarshal(data, &doc) != nil || len(doc.Points) == 0 {
		observability.Cache().OnCacheMiss(ctx, keyTypeCurve)
		return doc, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeCurve)
	return doc, true
}

func (r *Runner) lookupSearch(ctx context.Context, key string, opts Options) (graph.SearchDoc, []*csm.Tree, bool) {
	if opts.Refresh {
		return graph.SearchDoc{}, nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
	}
	if hit {
		if doc, err := graph.UnmarshalSearch(data); err == nil {
			// If the trees cannot be rebuilt, fall through to recompute.
			if trees, err := doc.Trees(); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeSearch)
				return doc, trees, true
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeSearch)
	return graph.SearchDoc{}, nil, false
}

// store writes v to the cache. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
