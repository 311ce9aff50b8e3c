// Package labeling searches for the best assignment of cost and prize
// multisets to the non-root nodes of a tree.
//
// A candidate labeling is one distinct ordering of the costs paired with one
// distinct ordering of the prizes, applied to the non-root nodes in pre-order.
// Each candidate is scored by the area of its budget curve. [Best] scores all
// candidates, keeps those with the optimal area and reports one
// representative per isomorphism class.
//
// The subtree structure does not depend on the labels, so it is enumerated
// once and shared. Candidates are scored concurrently by independent workers
// that each own their label arrays; a single sequential reduction afterwards
// picks the optimum and removes isomorphic duplicates.
package labeling

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
	"github.com/matzehuels/csmtree/pkg/csm/canon"
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
	"github.com/matzehuels/csmtree/pkg/perm"
)

// progressEvery throttles Options.Progress callbacks.
const progressEvery = 1024

// Result is the outcome of [Best].
//
// Trees, Labelings, Forms and Curves are parallel slices with one entry per
// isomorphism class, ordered by the position of the class representative in
// candidate generation order.
type Result struct {
	Objective Objective
	// Area is the optimal curve area shared by every reported labeling.
	Area      int
	Trees     []*csm.Tree
	Labelings []csm.Labeling
	Forms     []string
	Curves    []budget.Curve

	Candidates uint64 // candidate labelings in the search space
	Evaluated  uint64 // candidates actually scored
	Subtrees   int    // root-containing subtrees of the shape
}

// Classes returns the number of non-isomorphic optimal labelings.
func (r *Result) Classes() int { return len(r.Trees) }

// CountCandidates returns the number of candidate labelings for the given
// multisets. The boolean is false on overflow.
func CountCandidates(costs, prizes []int) (uint64, bool) {
	c, ok := perm.CountMultiset(costs)
	if !ok {
		return 0, false
	}
	p, ok := perm.CountMultiset(prizes)
	if !ok {
		return 0, false
	}
	return perm.MulCount(c, p)
}

// Evaluate returns the budget curve of t labeled with costs and prizes.
func Evaluate(t *csm.Tree, costs, prizes []int) (budget.Curve, error) {
	lt, err := t.Relabel(csm.Labeling{Costs: costs, Prizes: prizes})
	if err != nil {
		return nil, err
	}
	return budget.ForTree(lt)
}

type candidate struct {
	seq    uint64
	costs  []int
	prizes []int
	form   string
}

// tally is the per-worker running optimum. ties maps the canonical form of
// every candidate reaching best to the earliest such candidate.
type tally struct {
	seen bool
	best int
	ties map[string]candidate
}

// Best returns the labelings of t with the optimal curve area.
//
// costs and prizes must each hold exactly one value per non-root node,
// otherwise LABEL_COUNT_MISMATCH is returned before any work is done. A
// search space larger than opts.MaxCandidates fails with
// SEARCH_SPACE_TOO_LARGE. If ctx is canceled the search stops and ctx's
// error is returned; partial results are never reported.
//
// For a single-node tree the only candidate is the empty labeling and the
// result holds the root-only tree with area 0.
func Best(ctx context.Context, t *csm.Tree, costs, prizes []int, opts Options) (*Result, error) {
	if t == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "tree is nil")
	}
	if err := cerrors.ValidateLabelCounts(t.Len(), len(costs), len(prizes)); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	total, ok := CountCandidates(costs, prizes)
	if !ok || (opts.MaxCandidates > 0 && total > uint64(opts.MaxCandidates)) {
		return nil, cerrors.New(cerrors.ErrCodeSearchSpaceTooLarge,
			"%d costs and %d prizes give more than %d candidate labelings", len(costs), len(prizes), opts.MaxCandidates)
	}

	ix, err := subtree.Build(t, opts.MaxSubtrees)
	if err != nil {
		return nil, err
	}

	var prizePerms [][]int
	for p := range perm.Multiset(prizes) {
		prizePerms = append(prizePerms, slices.Clone(p))
	}

	workers := opts.Workers
	if uint64(workers) > total {
		workers = int(total)
	}

	g, gctx := errgroup.WithContext(ctx)
	ch := make(chan candidate, workers*4)

	g.Go(func() error {
		defer close(ch)
		var seen map[string]struct{}
		if opts.DedupBeforeScoring {
			seen = make(map[string]struct{})
		}
		var seq uint64
		for cp := range perm.Multiset(costs) {
			c := slices.Clone(cp)
			for _, p := range prizePerms {
				cand := candidate{seq: seq, costs: c, prizes: p}
				seq++
				if seen != nil {
					form, err := formOf(t, c, p)
					if err != nil {
						return err
					}
					cand.form = form
					if _, dup := seen[cand.form]; dup {
						continue
					}
					seen[cand.form] = struct{}{}
				}
				select {
				case ch <- cand:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	var evaluated atomic.Uint64
	tallies := make([]tally, workers)
	for w := range tallies {
		g.Go(func() error {
			return score(gctx, t, ix, ch, opts, &tallies[w], &evaluated, total)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Producers and workers may all finish before they notice a
	// cancellation that arrived late; never report a result for it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return reduce(t, ix, opts.Objective, tallies, total, evaluated.Load())
}

func score(ctx context.Context, t *csm.Tree, ix *subtree.Index, ch <-chan candidate,
	opts Options, tl *tally, evaluated *atomic.Uint64, total uint64) error {
	n := t.Len()
	cost := make([]int, n)
	prize := make([]int, n)
	eval := budget.NewEvaluator(ix)

	for cand := range ch {
		if err := ctx.Err(); err != nil {
			return err
		}
		copy(cost[1:], cand.costs)
		copy(prize[1:], cand.prizes)

		area, err := eval.Area(cost, prize)
		if err != nil {
			return err
		}

		done := evaluated.Add(1)
		if opts.Progress != nil && (done%progressEvery == 0 || done == total) {
			opts.Progress(done, total)
		}

		switch {
		case !tl.seen || opts.Objective.better(area, tl.best):
			tl.seen, tl.best = true, area
			tl.ties = make(map[string]candidate)
		case area != tl.best:
			continue
		}
		if cand.form == "" {
			if cand.form, err = formOf(t, cand.costs, cand.prizes); err != nil {
				return err
			}
		}
		if prev, ok := tl.ties[cand.form]; !ok || cand.seq < prev.seq {
			tl.ties[cand.form] = cand
		}
	}
	return nil
}

// reduce merges the worker tallies: it keeps the optimal area, the earliest
// candidate of every isomorphism class reaching it, and materializes them.
func reduce(t *csm.Tree, ix *subtree.Index, obj Objective, tallies []tally, total, evaluated uint64) (*Result, error) {
	found := false
	best := 0
	for _, tl := range tallies {
		if tl.seen && (!found || obj.better(tl.best, best)) {
			found, best = true, tl.best
		}
	}
	if !found {
		return nil, cerrors.New(cerrors.ErrCodeInternal, "no candidate labeling was scored")
	}

	reps := make(map[string]candidate)
	for _, tl := range tallies {
		if !tl.seen || tl.best != best {
			continue
		}
		for form, cand := range tl.ties {
			if prev, ok := reps[form]; !ok || cand.seq < prev.seq {
				reps[form] = cand
			}
		}
	}
	ordered := make([]candidate, 0, len(reps))
	for _, cand := range reps {
		ordered = append(ordered, cand)
	}
	slices.SortFunc(ordered, func(a, b candidate) int { return cmp.Compare(a.seq, b.seq) })

	res := &Result{
		Objective:  obj,
		Area:       best,
		Candidates: total,
		Evaluated:  evaluated,
		Subtrees:   ix.Len(),
	}
	for _, cand := range ordered {
		l := csm.Labeling{Costs: cand.costs, Prizes: cand.prizes}.Clone()
		lt, err := t.Relabel(l)
		if err != nil {
			return nil, err
		}
		curve, err := budget.Build(ix, lt.Costs(), lt.Prizes())
		if err != nil {
			return nil, err
		}
		res.Trees = append(res.Trees, lt)
		res.Labelings = append(res.Labelings, l)
		res.Forms = append(res.Forms, cand.form)
		res.Curves = append(res.Curves, curve)
	}
	return res, nil
}

// formOf encodes the shape of t under non-root labels costs and prizes.
func formOf(t *csm.Tree, costs, prizes []int) (string, error) {
	lt, err := t.Relabel(csm.Labeling{Costs: costs, Prizes: prizes})
	if err != nil {
		return "", err
	}
	return canon.Encode(lt), nil
}
